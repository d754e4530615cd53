package render

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/timesheet"
)

// WeekExport is the JSON shape of an exported week.
type WeekExport struct {
	WeekStart  string                  `json:"week_start"`
	Status     models.TimesheetStatus  `json:"status,omitempty"`
	TotalHours float64                 `json:"total_hours"`
	Entries    []models.TimesheetEntry `json:"entries"`
}

func NewWeekExport(dates []time.Time, status models.TimesheetStatus, entries []models.TimesheetEntry) WeekExport {
	return WeekExport{
		WeekStart:  timesheet.DateKey(dates[0]),
		Status:     status,
		TotalHours: timesheet.WeeklyTotal(entries),
		Entries:    entries,
	}
}

// WriteCSV writes one row per entry with a column per visible day.
func WriteCSV(w io.Writer, dates []time.Time, entries []models.TimesheetEntry) error {
	cw := csv.NewWriter(w)
	keys := timesheet.DateKeys(dates)

	header := []string{"project_code", "project_name", "client", "time_code", "comment"}
	header = append(header, keys...)
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{e.ProjectCode, e.ProjectName, e.Client, e.TimeCode, e.Comment}
		for _, k := range keys {
			row = append(row, strconv.FormatFloat(e.Hours[k], 'f', -1, 64))
		}
		row = append(row, strconv.FormatFloat(timesheet.EntryTotal(e), 'f', -1, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
