package models

import "time"

type Client struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

type Project struct {
	ID        int64
	Code      string
	Name      string
	ClientID  *int64 // nullable for internal projects
	CreatedAt time.Time

	// Joined fields
	ClientName string
}

// Category partitions time codes into billable and non-billable work.
type Category string

const (
	Chargeable    Category = "chargeable"
	NonChargeable Category = "nonChargeable"
)

func (c Category) Label() string {
	if c == NonChargeable {
		return "Non-Chargeable"
	}
	return "Chargeable"
}

type TimeCode struct {
	ID          string
	Name        string
	Description string
	Group       string
	Category    Category
}

type TimeCodeGroup struct {
	Label string
	Codes []TimeCode
}

// TimesheetEntry is one row of the weekly grid. Hours are keyed by
// YYYY-MM-DD; a missing key means zero hours.
type TimesheetEntry struct {
	ID           int                `json:"id"`
	ProjectID    int64              `json:"project_id"` // 0 for an unassigned placeholder row
	ProjectCode  string             `json:"project_code"`
	ProjectName  string             `json:"project_name"`
	Client       string             `json:"client"`
	TimeCode     string             `json:"time_code"`
	TimeCodeName string             `json:"time_code_name"`
	Comment      string             `json:"comment,omitempty"`
	Hours        map[string]float64 `json:"hours"`
}

// Clone returns a copy whose Hours map is not shared with e.
func (e TimesheetEntry) Clone() TimesheetEntry {
	c := e
	c.Hours = make(map[string]float64, len(e.Hours))
	for k, v := range e.Hours {
		c.Hours[k] = v
	}
	return c
}

type TimesheetStatus string

const (
	StatusSaved     TimesheetStatus = "saved"
	StatusSubmitted TimesheetStatus = "submitted"
)

// Timesheet is a stored snapshot of one week of entries.
type Timesheet struct {
	ID        string
	WeekStart time.Time
	Status    TimesheetStatus
	Entries   []TimesheetEntry
	UpdatedAt time.Time
	CreatedAt time.Time
}
