package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/weeksheet/internal/db"
	"github.com/emilianohg/weeksheet/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenPath(filepath.Join(t.TempDir(), "weeksheet.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.RunMigrations())
	return conn
}

// =============================================================================
// Clients and projects
// =============================================================================

func TestClientRepo(t *testing.T) {
	conn := setupTestDB(t)
	clients := NewClientRepo(conn)
	projects := NewProjectRepo(conn)

	acme, err := clients.Create("Acme")
	require.NoError(t, err)
	assert.NotZero(t, acme.ID)
	_, err = clients.Create("Beta Corp")
	require.NoError(t, err)

	_, err = projects.Create("A1002", "Loading Dock", &acme.ID)
	require.NoError(t, err)
	_, err = projects.Create("A1000", "Warehouse", &acme.ID)
	require.NoError(t, err)

	require.NoError(t, clients.Update(acme.ID, "Acme Ltd"))
	got, err := clients.GetByID(acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)

	stats, err := clients.GetAllWithStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Acme Ltd", stats[0].Name)
	assert.Equal(t, 2, stats[0].ProjectCount)
	assert.Equal(t, []string{"A1000", "A1002"}, stats[0].ProjectCodes)
	assert.Equal(t, 0, stats[1].ProjectCount)
	assert.Empty(t, stats[1].ProjectCodes)

	missing, err := clients.GetByID(999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteClientKeepsProjects(t *testing.T) {
	conn := setupTestDB(t)
	clients := NewClientRepo(conn)
	projects := NewProjectRepo(conn)

	c, err := clients.Create("Acme")
	require.NoError(t, err)
	p, err := projects.Create("A1000", "Warehouse", &c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.ClientName)

	require.NoError(t, clients.Delete(c.ID))

	p, err = projects.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.ClientID)
	assert.Empty(t, p.ClientName)
}

func TestProjectRepo(t *testing.T) {
	conn := setupTestDB(t)
	projects := NewProjectRepo(conn)
	clients := NewClientRepo(conn)

	c, err := clients.Create("Acme")
	require.NoError(t, err)

	_, err = projects.Create("B2000", "Second", nil)
	require.NoError(t, err)
	first, err := projects.Create("A1000", "First", &c.ID)
	require.NoError(t, err)

	all, err := projects.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A1000", all[0].Code)
	assert.Equal(t, "Acme", all[0].ClientName)

	byClient, err := projects.GetByClientID(c.ID)
	require.NoError(t, err)
	require.Len(t, byClient, 1)

	_, err = projects.Create("A1000", "Duplicate", nil)
	assert.Error(t, err, "codes are unique")

	require.NoError(t, projects.Update(first.ID, "A1001", "Renamed"))
	require.NoError(t, projects.SetClient(first.ID, nil))
	got, err := projects.GetByCode("A1001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Name)
	assert.Nil(t, got.ClientID)

	require.NoError(t, projects.Delete(first.ID))
	got, err = projects.GetByID(first.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// Time codes
// =============================================================================

func TestTimeCodeRepoCatalog(t *testing.T) {
	conn := setupTestDB(t)
	codes := NewTimeCodeRepo(conn)

	for _, tc := range []models.TimeCode{
		{ID: "ADM", Name: "Administration", Group: "Office Admin", Category: models.NonChargeable},
		{ID: "1", Name: "Design", Group: "Design & Preparation", Category: models.Chargeable},
		{ID: "5", Name: "Manufacturing", Group: "Technical & Manufacturing", Category: models.Chargeable},
	} {
		_, err := codes.Create(tc)
		require.NoError(t, err)
	}

	all, err := codes.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "5", all[1].ID)
	assert.Equal(t, "ADM", all[2].ID)
	assert.Equal(t, models.NonChargeable, all[2].Category)

	catalog, err := codes.GetCatalog()
	require.NoError(t, err)
	assert.Len(t, catalog.Chargeable, 2)
	assert.True(t, catalog.IsNonChargeable("ADM"))

	require.NoError(t, codes.Update(models.TimeCode{ID: "5", Name: "Fabrication", Group: "Technical & Manufacturing", Category: models.Chargeable}))
	got, err := codes.GetByID("5")
	require.NoError(t, err)
	assert.Equal(t, "Fabrication", got.Name)

	_, err = codes.Create(models.TimeCode{ID: "X", Name: "Bad", Group: "G", Category: "other"})
	assert.Error(t, err)

	require.NoError(t, codes.Delete("5"))
	got, err = codes.GetByID("5")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// Timesheets
// =============================================================================

func week(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestTimesheetSaveAndGetWeek(t *testing.T) {
	conn := setupTestDB(t)
	sheets := NewTimesheetRepo(conn)
	projects := NewProjectRepo(conn)

	p, err := projects.Create("A1000", "School Refurbishment", nil)
	require.NoError(t, err)

	entries := []models.TimesheetEntry{
		{ID: 1, ProjectID: p.ID, ProjectCode: "A1000", ProjectName: "School Refurbishment", TimeCode: "1", TimeCodeName: "Design",
			Comment: "site visit", Hours: map[string]float64{"2024-07-01": 7.5, "2024-07-02": 8}},
		{ID: 4, TimeCode: "LVE", TimeCodeName: "Leave", Hours: map[string]float64{}},
	}

	saved, err := sheets.SaveWeek(week(2024, 7, 1), models.StatusSaved, entries)
	require.NoError(t, err)
	require.NotNil(t, saved)

	id, err := uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, models.StatusSaved, saved.Status)
	assert.Equal(t, entries, saved.Entries)

	got, err := sheets.GetWeek(week(2024, 7, 1))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-07-01", got.WeekStart.Format("2006-01-02"))
	assert.Equal(t, entries, got.Entries)

	missing, err := sheets.GetWeek(week(2024, 7, 8))
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTimesheetSaveWeekReplacesSnapshot(t *testing.T) {
	conn := setupTestDB(t)
	sheets := NewTimesheetRepo(conn)

	first, err := sheets.SaveWeek(week(2024, 7, 1), models.StatusSaved, []models.TimesheetEntry{
		{ID: 1, Hours: map[string]float64{"2024-07-01": 1}},
		{ID: 2, Hours: map[string]float64{"2024-07-01": 2}},
	})
	require.NoError(t, err)

	second, err := sheets.SaveWeek(week(2024, 7, 1), models.StatusSubmitted, []models.TimesheetEntry{
		{ID: 2, Hours: map[string]float64{"2024-07-03": 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.StatusSubmitted, second.Status)
	require.Len(t, second.Entries, 1)
	assert.Equal(t, 2, second.Entries[0].ID)
}

func TestTimesheetLatestBeforeAndSummaries(t *testing.T) {
	conn := setupTestDB(t)
	sheets := NewTimesheetRepo(conn)

	_, err := sheets.SaveWeek(week(2024, 6, 17), models.StatusSubmitted, []models.TimesheetEntry{
		{ID: 1, ProjectID: 0, Hours: map[string]float64{"2024-06-17": 8}},
	})
	require.NoError(t, err)
	_, err = sheets.SaveWeek(week(2024, 6, 24), models.StatusSaved, []models.TimesheetEntry{
		{ID: 1, Hours: map[string]float64{"2024-06-24": 4, "2024-06-25": 3.5}},
		{ID: 2, Hours: map[string]float64{"2024-06-24": 1}},
	})
	require.NoError(t, err)
	_, err = sheets.SaveWeek(week(2024, 7, 8), models.StatusSaved, nil)
	require.NoError(t, err)

	prior, err := sheets.LatestBefore(week(2024, 7, 1))
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.Equal(t, "2024-06-24", prior.WeekStart.Format("2006-01-02"))
	assert.Len(t, prior.Entries, 2)

	none, err := sheets.LatestBefore(week(2024, 6, 17))
	assert.NoError(t, err)
	assert.Nil(t, none)

	summaries, err := sheets.GetSummaries(2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "2024-07-08", summaries[0].WeekStart.Format("2006-01-02"))
	assert.Zero(t, summaries[0].EntryCount)
	assert.Equal(t, 2, summaries[1].EntryCount)
	assert.Equal(t, 8.5, summaries[1].TotalHours)
}

func TestTimesheetDeleteCascades(t *testing.T) {
	conn := setupTestDB(t)
	sheets := NewTimesheetRepo(conn)

	saved, err := sheets.SaveWeek(week(2024, 7, 1), models.StatusSaved, []models.TimesheetEntry{
		{ID: 1, Hours: map[string]float64{"2024-07-01": 1}},
	})
	require.NoError(t, err)

	require.NoError(t, sheets.Delete(saved.ID))

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM timesheet_entries").Scan(&n))
	assert.Zero(t, n)
}

// =============================================================================
// Sample data
// =============================================================================

func TestSeedSample(t *testing.T) {
	conn := setupTestDB(t)

	seeded, err := SeedSample(conn)
	require.NoError(t, err)
	assert.True(t, seeded)

	projects, err := NewProjectRepo(conn).GetAll()
	require.NoError(t, err)
	require.Len(t, projects, 6)
	assert.Equal(t, "A1000", projects[0].Code)
	assert.Equal(t, "Oakridge School District", projects[0].ClientName)

	catalog, err := NewTimeCodeRepo(conn).GetCatalog()
	require.NoError(t, err)
	assert.Equal(t, 12, catalog.Len())
	require.Len(t, catalog.Chargeable, 3)
	assert.Equal(t, "Design & Preparation", catalog.Chargeable[0].Label)
	require.Len(t, catalog.NonChargeable, 3)
	assert.Equal(t, "Time Off", catalog.NonChargeable[2].Label)

	seeded, err = SeedSample(conn)
	require.NoError(t, err)
	assert.False(t, seeded)
}
