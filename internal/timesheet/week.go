package timesheet

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the key format of the hours map.
const DateLayout = "2006-01-02"

// DaysPerWeek is the number of working days shown by the grid.
const DaysPerWeek = 5

// WeekDates returns Monday through Friday of the week offset weeks away
// from the week containing now. Sunday is the last day of its week.
func WeekDates(now time.Time, offset int) []time.Time {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := time.Date(now.Year(), now.Month(), now.Day()-weekday+1+offset*7, 0, 0, 0, 0, now.Location())

	dates := make([]time.Time, DaysPerWeek)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// DateKey formats t as a key of TimesheetEntry.Hours.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// DateKeys maps dates to their hour keys.
func DateKeys(dates []time.Time) []string {
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = DateKey(d)
	}
	return keys
}

// OffsetForDate returns the week offset, relative to now, of the week that
// contains t.
func OffsetForDate(now, t time.Time) int {
	from := WeekDates(now, 0)[0]
	to := WeekDates(t.In(now.Location()), 0)[0]
	days := int(math.Round(to.Sub(from).Hours() / 24))
	return days / 7
}

// WeekLabel describes an offset relative to the current week.
func WeekLabel(offset int) string {
	switch {
	case offset == 0:
		return "This Week"
	case offset == -1:
		return "Last Week"
	case offset == 1:
		return "Next Week"
	case offset < 0:
		return fmt.Sprintf("%d Weeks Ago", -offset)
	default:
		return fmt.Sprintf("%d Weeks Ahead", offset)
	}
}

// RangeLabel renders the first and last date, e.g. "Jul 1 - Jul 5".
func RangeLabel(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	return fmt.Sprintf("%s - %s", dates[0].Format("Jan 2"), dates[len(dates)-1].Format("Jan 2"))
}
