package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emilianohg/weeksheet/internal/models"
)

// weeks are stored by the date of their Monday
const weekLayout = "2006-01-02"

type TimesheetRepo struct {
	db *sql.DB
}

func NewTimesheetRepo(db *sql.DB) *TimesheetRepo {
	return &TimesheetRepo{db: db}
}

// SaveWeek stores entries as the snapshot of the week starting weekStart,
// replacing any earlier snapshot of that week.
func (r *TimesheetRepo) SaveWeek(weekStart time.Time, status models.TimesheetStatus, entries []models.TimesheetEntry) (*models.Timesheet, error) {
	week := weekStart.Format(weekLayout)

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow("SELECT id FROM timesheets WHERE week_start = ?", week).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		newID, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		id = newID.String()
		if _, err := tx.Exec(
			"INSERT INTO timesheets (id, week_start, status) VALUES (?, ?, ?)",
			id, week, string(status),
		); err != nil {
			return nil, fmt.Errorf("inserting timesheet %s: %w", week, err)
		}
	case err != nil:
		return nil, err
	default:
		if _, err := tx.Exec(
			"UPDATE timesheets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			string(status), id,
		); err != nil {
			return nil, fmt.Errorf("updating timesheet %s: %w", week, err)
		}
		if _, err := tx.Exec("DELETE FROM timesheet_entries WHERE timesheet_id = ?", id); err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		hoursJSON, err := json.Marshal(e.Hours)
		if err != nil {
			return nil, err
		}
		var projectID *int64
		if e.ProjectID != 0 {
			projectID = &e.ProjectID
		}

		if _, err := tx.Exec(`
			INSERT INTO timesheet_entries
				(timesheet_id, row_id, project_id, project_code, project_name, client,
				 time_code, time_code_name, comment, hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, e.ID, projectID, e.ProjectCode, e.ProjectName, e.Client,
			e.TimeCode, e.TimeCodeName, e.Comment, string(hoursJSON)); err != nil {
			return nil, fmt.Errorf("inserting entry %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *TimesheetRepo) GetByID(id string) (*models.Timesheet, error) {
	return r.getOne("WHERE id = ?", id)
}

// GetWeek returns the snapshot of the week starting weekStart, or nil.
func (r *TimesheetRepo) GetWeek(weekStart time.Time) (*models.Timesheet, error) {
	return r.getOne("WHERE week_start = ?", weekStart.Format(weekLayout))
}

// LatestBefore returns the most recent snapshot of a week before weekStart.
func (r *TimesheetRepo) LatestBefore(weekStart time.Time) (*models.Timesheet, error) {
	return r.getOne("WHERE week_start < ? ORDER BY week_start DESC LIMIT 1", weekStart.Format(weekLayout))
}

func (r *TimesheetRepo) getOne(where string, args ...any) (*models.Timesheet, error) {
	var t models.Timesheet
	var week string

	err := r.db.QueryRow(`
		SELECT id, week_start, status, created_at, updated_at
		FROM timesheets
		`+where, args...).Scan(&t.ID, &week, &t.Status, &t.CreatedAt, &t.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if t.WeekStart, err = time.ParseInLocation(weekLayout, week, time.Local); err != nil {
		return nil, err
	}
	if t.Entries, err = r.entries(t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TimesheetRepo) entries(timesheetID string) ([]models.TimesheetEntry, error) {
	rows, err := r.db.Query(`
		SELECT row_id, project_id, project_code, project_name, client,
			time_code, time_code_name, comment, hours
		FROM timesheet_entries
		WHERE timesheet_id = ?
		ORDER BY id
	`, timesheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TimesheetEntry
	for rows.Next() {
		var e models.TimesheetEntry
		var projectID sql.NullInt64
		var hoursJSON string

		if err := rows.Scan(
			&e.ID, &projectID, &e.ProjectCode, &e.ProjectName, &e.Client,
			&e.TimeCode, &e.TimeCodeName, &e.Comment, &hoursJSON,
		); err != nil {
			return nil, err
		}

		e.ProjectID = projectID.Int64
		if err := json.Unmarshal([]byte(hoursJSON), &e.Hours); err != nil {
			return nil, fmt.Errorf("decoding hours of entry %d: %w", e.ID, err)
		}
		if e.Hours == nil {
			e.Hours = map[string]float64{}
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type TimesheetSummary struct {
	ID         string
	WeekStart  time.Time
	Status     models.TimesheetStatus
	UpdatedAt  time.Time
	EntryCount int
	TotalHours float64
}

// GetSummaries returns the most recent stored weeks first.
func (r *TimesheetRepo) GetSummaries(limit int) ([]TimesheetSummary, error) {
	rows, err := r.db.Query(`
		SELECT t.id, t.week_start, t.status, t.updated_at, e.hours
		FROM timesheets t
		LEFT JOIN timesheet_entries e ON e.timesheet_id = t.id
		WHERE t.id IN (SELECT id FROM timesheets ORDER BY week_start DESC LIMIT ?)
		ORDER BY t.week_start DESC, e.id
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []TimesheetSummary
	for rows.Next() {
		var s TimesheetSummary
		var week string
		var hoursJSON sql.NullString

		if err := rows.Scan(&s.ID, &week, &s.Status, &s.UpdatedAt, &hoursJSON); err != nil {
			return nil, err
		}

		if n := len(summaries); n == 0 || summaries[n-1].ID != s.ID {
			if s.WeekStart, err = time.ParseInLocation(weekLayout, week, time.Local); err != nil {
				return nil, err
			}
			summaries = append(summaries, s)
		}
		if !hoursJSON.Valid {
			continue
		}

		var hours map[string]float64
		if err := json.Unmarshal([]byte(hoursJSON.String), &hours); err != nil {
			return nil, err
		}
		last := &summaries[len(summaries)-1]
		last.EntryCount++
		for _, h := range hours {
			last.TotalHours += h
		}
	}
	return summaries, rows.Err()
}

func (r *TimesheetRepo) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM timesheets WHERE id = ?", id)
	return err
}
