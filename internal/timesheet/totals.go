package timesheet

import "github.com/emilianohg/weeksheet/internal/models"

// DailyTotal sums the hours recorded on dateKey across all entries.
func DailyTotal(dateKey string, entries []models.TimesheetEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours[dateKey]
	}
	return total
}

// ProjectTotal sums the hours of the first entry assigned to projectID.
// Later entries for the same project are not included.
// TODO: decide with product whether duplicate project rows should be summed together.
func ProjectTotal(projectID int64, entries []models.TimesheetEntry) float64 {
	for _, e := range entries {
		if e.ProjectID == projectID {
			return EntryTotal(e)
		}
	}
	return 0
}

// EntryTotal sums every hour value of a single entry.
func EntryTotal(e models.TimesheetEntry) float64 {
	var total float64
	for _, h := range e.Hours {
		total += h
	}
	return total
}

// WeeklyTotal sums every hour value of every entry.
func WeeklyTotal(entries []models.TimesheetEntry) float64 {
	var total float64
	for _, e := range entries {
		total += EntryTotal(e)
	}
	return total
}
