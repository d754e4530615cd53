package timesheet

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/weeksheet/internal/models"
)

// Wednesday, so the visible week is 2024-07-01 .. 2024-07-05.
var testNow = time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC)

func testProjects() []models.Project {
	return []models.Project{
		{ID: 1, Code: "A1000", Name: "School Refurbishment", ClientName: "Oakridge School District"},
		{ID: 2, Code: "A1001", Name: "Church Extension", ClientName: "St. Mary's Parish"},
		{ID: 3, Code: "A1002", Name: "Community Center Renovation", ClientName: "Westside Community Trust"},
		{ID: 5, Code: "A1004", Name: "Office Building Renovation", ClientName: "Pinnacle Investments"},
	}
}

func testCatalog() models.TimeCodeCatalog {
	return models.NewTimeCodeCatalog([]models.TimeCode{
		{ID: "1", Name: "Design", Group: "Design & Preparation", Category: models.Chargeable},
		{ID: "2", Name: "Preparation", Group: "Design & Preparation", Category: models.Chargeable},
		{ID: "5", Name: "Manufacturing", Group: "Technical & Manufacturing", Category: models.Chargeable},
		{ID: "ADM", Name: "Administration", Group: "Office Admin", Category: models.NonChargeable},
		{ID: "LVE", Name: "Leave", Group: "Time Off", Category: models.NonChargeable},
	})
}

func newTestGrid(t *testing.T, entries ...models.TimesheetEntry) *Grid {
	t.Helper()
	g := NewGrid(GridConfig{
		Projects:  testProjects(),
		TimeCodes: testCatalog(),
		Now:       func() time.Time { return testNow },
	})
	if len(entries) > 0 {
		g.Load(entries)
	}
	return g
}

func entry(id int, projectID int64, hours map[string]float64) models.TimesheetEntry {
	return models.TimesheetEntry{ID: id, ProjectID: projectID, TimeCode: "1", TimeCodeName: "Design", Hours: hours}
}

func mustEntry(t *testing.T, g *Grid, id int) models.TimesheetEntry {
	t.Helper()
	e, ok := g.Entry(id)
	require.True(t, ok, "entry %d", id)
	return e
}

func recordEvents(g *Grid) *[]Event {
	var events []Event
	g.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

// =============================================================================
// Construction
// =============================================================================

func TestNewGridDefaults(t *testing.T) {
	g := newTestGrid(t)

	assert.Zero(t, g.Len())
	assert.Equal(t, "1", g.DefaultTimeCode())
	assert.Equal(t, 0, g.WeekOffset())
	assert.False(t, g.Editing().Active())
	assert.Equal(t, day(2024, 7, 1), g.WeekDates()[0])
}

func TestNewGridSeed(t *testing.T) {
	g := NewGrid(GridConfig{
		Projects:  testProjects(),
		TimeCodes: testCatalog(),
		Now:       func() time.Time { return testNow },
		Seed:      SampleSeed(rand.New(rand.NewPCG(1, 2))),
	})

	entries := g.Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i+1, e.ID)
		assert.Equal(t, testProjects()[i].ID, e.ProjectID)
		assert.Equal(t, "1", e.TimeCode)
		for key, h := range e.Hours {
			assert.Contains(t, DateKeys(g.WeekDates()), key)
			assert.GreaterOrEqual(t, h, 1.0)
			assert.LessOrEqual(t, h, 8.0)
		}
	}
}

func TestNewGridDefaultTimeCodeMustBeChargeable(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"empty", "", "1"},
		{"chargeable", "5", "5"},
		{"non_chargeable", "ADM", "1"},
		{"unknown", "XYZ", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(GridConfig{
				Projects:        testProjects(),
				TimeCodes:       testCatalog(),
				DefaultTimeCode: tt.configured,
				Now:             func() time.Time { return testNow },
			})
			assert.Equal(t, tt.want, g.DefaultTimeCode())

			ids, err := g.CopyFromPriorWeek([]int64{1})
			require.NoError(t, err)
			require.Len(t, ids, 1)
			copied := mustEntry(t, g, ids[0])
			assert.Equal(t, tt.want, copied.TimeCode)
			assert.False(t, g.Catalog().IsNonChargeable(copied.TimeCode))
		})
	}

	t.Run("no_chargeable_codes", func(t *testing.T) {
		g := NewGrid(GridConfig{
			TimeCodes: models.NewTimeCodeCatalog([]models.TimeCode{
				{ID: "ADM", Name: "Administration", Group: "Office Admin", Category: models.NonChargeable},
			}),
			DefaultTimeCode: "ADM",
		})
		assert.Empty(t, g.DefaultTimeCode())
	})
}

func TestEntriesReturnsCopies(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, map[string]float64{"2024-07-01": 4}))

	entries := g.Entries()
	entries[0].Hours["2024-07-01"] = 20
	entries[0].Comment = "changed"

	e := mustEntry(t, g, 1)
	assert.Equal(t, 4.0, e.Hours["2024-07-01"])
	assert.Empty(t, e.Comment)
}

// =============================================================================
// AddEntry
// =============================================================================

func TestAddEntry(t *testing.T) {
	t.Run("empty_grid_starts_at_one", func(t *testing.T) {
		g := newTestGrid(t)
		events := recordEvents(g)

		id := g.AddEntry()

		assert.Equal(t, 1, id)
		e := mustEntry(t, g, 1)
		assert.Zero(t, e.ProjectID)
		assert.Empty(t, e.ProjectCode)
		assert.Empty(t, e.TimeCode)
		assert.Empty(t, e.Hours)
		assert.Equal(t, ProjectCell(1), g.Editing())
		require.Len(t, *events, 1)
		assert.Equal(t, EventEntryAdded, (*events)[0].Kind)
	})

	t.Run("continues_from_max_id", func(t *testing.T) {
		g := newTestGrid(t, entry(2, 1, nil), entry(7, 2, nil), entry(3, 3, nil))

		assert.Equal(t, 8, g.AddEntry())
		assert.Equal(t, 4, g.Len())
	})

	t.Run("ids_are_not_reused_after_delete", func(t *testing.T) {
		g := newTestGrid(t, entry(1, 1, nil), entry(2, 2, nil), entry(3, 3, nil))
		require.NoError(t, g.RequestDelete(2))
		_, err := g.ConfirmDelete()
		require.NoError(t, err)

		assert.Equal(t, 4, g.AddEntry())
		_, ok := g.Entry(2)
		assert.False(t, ok)
	})
}

// =============================================================================
// Delete
// =============================================================================

func TestDeleteRequiresConfirmation(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil), entry(3, 2, nil), entry(4, 3, nil))
	events := recordEvents(g)

	require.NoError(t, g.RequestDelete(3))
	assert.Equal(t, 3, g.Len())
	pending, ok := g.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, 3, pending)

	id, err := g.ConfirmDelete()
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.Equal(t, 2, g.Len())
	_, ok = g.Entry(3)
	assert.False(t, ok)
	_, ok = g.PendingDelete()
	assert.False(t, ok)

	require.Len(t, *events, 1)
	assert.Equal(t, EventEntryDeleted, (*events)[0].Kind)
	assert.Equal(t, []int{3}, (*events)[0].EntryIDs)
}

func TestDeleteCancel(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil), entry(3, 2, nil))

	require.NoError(t, g.RequestDelete(3))
	g.CancelDelete()

	assert.Equal(t, 2, g.Len())
	_, err := g.ConfirmDelete()
	assert.ErrorIs(t, err, ErrNoPendingDelete)
	assert.Equal(t, 2, g.Len())
}

func TestDeleteUnknownEntry(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))

	err := g.RequestDelete(42)
	assert.ErrorIs(t, err, ErrUnknownEntry)
	_, ok := g.PendingDelete()
	assert.False(t, ok)
}

func TestConfirmDeleteWithoutRequest(t *testing.T) {
	g := newTestGrid(t, entry(3, 1, nil))

	_, err := g.ConfirmDelete()
	assert.ErrorIs(t, err, ErrNoPendingDelete)
	assert.Equal(t, 1, g.Len())
}

func TestRequestDeleteClosesEditor(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))
	require.NoError(t, g.OpenEditor(TimeCodeCell(1)))

	require.NoError(t, g.RequestDelete(1))
	assert.False(t, g.Editing().Active())
}

// =============================================================================
// ChangeProject / ChangeTimeCode
// =============================================================================

func TestChangeProject(t *testing.T) {
	g := newTestGrid(t)
	id := g.AddEntry()

	require.NoError(t, g.ChangeProject(id, 2))

	e := mustEntry(t, g, id)
	assert.Equal(t, int64(2), e.ProjectID)
	assert.Equal(t, "A1001", e.ProjectCode)
	assert.Equal(t, "Church Extension", e.ProjectName)
	assert.Equal(t, "St. Mary's Parish", e.Client)
	assert.False(t, g.Editing().Active())
}

func TestChangeProjectClearsNonChargeableCode(t *testing.T) {
	g := newTestGrid(t)
	id := g.AddEntry()
	require.NoError(t, g.ChangeTimeCode(id, "ADM"))
	events := recordEvents(g)

	require.NoError(t, g.ChangeProject(id, 5))

	e := mustEntry(t, g, id)
	assert.Equal(t, int64(5), e.ProjectID)
	assert.Empty(t, e.TimeCode)
	assert.Empty(t, e.TimeCodeName)
	require.Len(t, *events, 1)
	assert.Equal(t, EventEntryUpdated, (*events)[0].Kind)

	t.Run("chargeable_code_kept", func(t *testing.T) {
		g := newTestGrid(t, entry(1, 1, nil))

		require.NoError(t, g.ChangeProject(1, 2))
		assert.Equal(t, "1", mustEntry(t, g, 1).TimeCode)
	})
}

func TestChangeProjectUnknown(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))
	before := mustEntry(t, g, 1)

	err := g.ChangeProject(1, 99)

	var editErr *EditError
	require.ErrorAs(t, err, &editErr)
	assert.ErrorIs(t, err, ErrUnknownProject)
	assert.Equal(t, 1, editErr.EntryID)
	assert.Equal(t, "99", editErr.Value)
	assert.Equal(t, before, mustEntry(t, g, 1))

	assert.ErrorIs(t, g.ChangeProject(5, 1), ErrUnknownEntry)
}

func TestChangeTimeCode(t *testing.T) {
	t.Run("chargeable_on_project", func(t *testing.T) {
		g := newTestGrid(t, entry(1, 5, nil))
		require.NoError(t, g.OpenEditor(TimeCodeCell(1)))

		require.NoError(t, g.ChangeTimeCode(1, "5"))

		e := mustEntry(t, g, 1)
		assert.Equal(t, "5", e.TimeCode)
		assert.Equal(t, "Manufacturing", e.TimeCodeName)
		assert.False(t, g.Editing().Active())
	})

	t.Run("non_chargeable_on_project_rejected", func(t *testing.T) {
		g := newTestGrid(t, entry(1, 5, nil))
		events := recordEvents(g)

		err := g.ChangeTimeCode(1, "ADM")

		assert.ErrorIs(t, err, ErrInvalidTimeCodeForProject)
		e := mustEntry(t, g, 1)
		assert.Equal(t, "1", e.TimeCode)
		assert.Equal(t, "Design", e.TimeCodeName)
		assert.Empty(t, *events)
	})

	t.Run("non_chargeable_on_placeholder", func(t *testing.T) {
		g := newTestGrid(t)
		id := g.AddEntry()

		require.NoError(t, g.ChangeTimeCode(id, "LVE"))
		assert.Equal(t, "Leave", mustEntry(t, g, id).TimeCodeName)
	})

	t.Run("unknown_code", func(t *testing.T) {
		g := newTestGrid(t, entry(1, 5, nil))

		err := g.ChangeTimeCode(1, "XYZ")
		assert.ErrorIs(t, err, ErrUnknownTimeCode)
		assert.EqualError(t, err, "time code not found: 'XYZ'")
		assert.Equal(t, "1", mustEntry(t, g, 1).TimeCode)
	})
}

// =============================================================================
// ChangeHours
// =============================================================================

func TestChangeHours(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"whole", "6", 6},
		{"half", "7.5", 7.5},
		{"zero", "0", 0},
		{"max", "24", 24},
		{"padded", " 3 ", 3},
		{"empty_is_zero", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, entry(1, 1, map[string]float64{"2024-07-01": 4}))

			require.NoError(t, g.ChangeHours(1, "2024-07-01", tt.raw))
			assert.Equal(t, tt.want, mustEntry(t, g, 1).Hours["2024-07-01"])
		})
	}
}

func TestChangeHoursZeroRemovesKey(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, map[string]float64{"2024-07-01": 4}))

	require.NoError(t, g.ChangeHours(1, "2024-07-01", ""))

	_, stored := mustEntry(t, g, 1).Hours["2024-07-01"]
	assert.False(t, stored)
}

func TestChangeHoursRejected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind error
	}{
		{"negative", "-1", ErrOutOfRangeHours},
		{"over_a_day", "25", ErrOutOfRangeHours},
		{"just_over_a_day", "24.5", ErrOutOfRangeHours},
		{"not_a_number", "abc", ErrInvalidHours},
		{"nan", "NaN", ErrInvalidHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, entry(1, 1, map[string]float64{"2024-07-01": 4}))
			events := recordEvents(g)

			err := g.ChangeHours(1, "2024-07-01", tt.raw)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assert.Equal(t, 4.0, mustEntry(t, g, 1).Hours["2024-07-01"])
			assert.Empty(t, *events)
		})
	}
}

func TestChangeHoursRejectedUnsetCell(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, map[string]float64{}))

	require.Error(t, g.ChangeHours(1, "2024-07-02", "-1"))
	_, stored := mustEntry(t, g, 1).Hours["2024-07-02"]
	assert.False(t, stored)
}

func TestChangeHoursInvalidDate(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))

	assert.ErrorIs(t, g.ChangeHours(1, "07/01/2024", "4"), ErrInvalidDate)
	assert.ErrorIs(t, g.ChangeHours(2, "2024-07-01", "4"), ErrUnknownEntry)
}

func TestChangeHoursIdempotent(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, map[string]float64{"2024-07-02": 1}))

	require.NoError(t, g.ChangeHours(1, "2024-07-01", "6.5"))
	once := g.Entries()
	require.NoError(t, g.ChangeHours(1, "2024-07-01", "6.5"))

	assert.Equal(t, once, g.Entries())
}

func TestChangeHoursDailyTotalScenario(t *testing.T) {
	g := newTestGrid(t,
		entry(1, 5, map[string]float64{"2024-07-01": 4}),
		entry(2, 5, map[string]float64{"2024-07-01": 3}),
	)

	require.NoError(t, g.ChangeHours(2, "2024-07-01", "6"))

	assert.Equal(t, 10.0, DailyTotal("2024-07-01", g.Entries()))
	assert.Equal(t, []float64{10, 0, 0, 0, 0}, g.DailyTotals())
	assert.Equal(t, 10.0, g.WeeklyTotal())
	assert.Equal(t, 4.0, g.ProjectTotal(5))
}

func TestParseHours(t *testing.T) {
	h, err := ParseHours("8")
	require.NoError(t, err)
	assert.Equal(t, 8.0, h)

	_, err = ParseHours("1e3")
	assert.ErrorIs(t, err, ErrOutOfRangeHours)
	_, err = ParseHours("eight")
	assert.ErrorIs(t, err, ErrInvalidHours)
}

// =============================================================================
// SetComment
// =============================================================================

func TestSetComment(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))
	events := recordEvents(g)

	require.NoError(t, g.SetComment(1, "site visit"))
	require.NoError(t, g.SetComment(1, ""))

	assert.Empty(t, mustEntry(t, g, 1).Comment)
	require.Len(t, *events, 2)
	assert.Equal(t, "Comment saved", (*events)[0].Title)
	assert.Equal(t, "Your timesheet entry comment has been updated.", (*events)[0].Description)

	assert.ErrorIs(t, g.SetComment(7, "x"), ErrUnknownEntry)
}

// =============================================================================
// CopyFromPriorWeek
// =============================================================================

func TestCopyFromPriorWeek(t *testing.T) {
	g := newTestGrid(t, entry(4, 3, map[string]float64{"2024-07-01": 2}))
	events := recordEvents(g)

	ids, err := g.CopyFromPriorWeek([]int64{1, 2})

	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, ids)
	require.Equal(t, 3, g.Len())

	first := mustEntry(t, g, 5)
	assert.Equal(t, int64(1), first.ProjectID)
	assert.Equal(t, "A1000", first.ProjectCode)
	assert.Equal(t, "Oakridge School District", first.Client)
	assert.Equal(t, "1", first.TimeCode)
	assert.Equal(t, "Design", first.TimeCodeName)
	assert.Empty(t, first.Hours)
	assert.NotNil(t, first.Hours)
	assert.Equal(t, int64(2), mustEntry(t, g, 6).ProjectID)

	require.Len(t, *events, 1)
	assert.Equal(t, "Projects copied from last week", (*events)[0].Title)
	assert.Equal(t, "2 project(s) were copied to this week's timesheet.", (*events)[0].Description)
}

func TestCopyFromPriorWeekUnknownProject(t *testing.T) {
	g := newTestGrid(t)

	_, err := g.CopyFromPriorWeek([]int64{1, 99})

	assert.ErrorIs(t, err, ErrUnknownProject)
	assert.Zero(t, g.Len())
}

// =============================================================================
// Week navigation and notifications
// =============================================================================

func TestWeekNavigation(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, map[string]float64{"2024-07-01": 4}))
	events := recordEvents(g)
	require.NoError(t, g.OpenEditor(HourCell(1, "2024-07-02")))

	g.PrevWeek()

	assert.Equal(t, -1, g.WeekOffset())
	assert.Equal(t, day(2024, 6, 24), g.WeekDates()[0])
	assert.False(t, g.Editing().Active())
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, g.DailyTotals())

	g.NextWeek()
	g.NextWeek()
	assert.Equal(t, 1, g.WeekOffset())

	g.ThisWeek()
	assert.Equal(t, 0, g.WeekOffset())
	assert.Equal(t, 4.0, g.DailyTotals()[0])

	require.Len(t, *events, 4)
	assert.Equal(t, EventWeekChanged, (*events)[0].Kind)
	assert.Equal(t, day(2024, 6, 24), (*events)[0].WeekStart)
}

func TestWeekNavigationKeepsPendingDelete(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))
	require.NoError(t, g.RequestDelete(1))

	g.NextWeek()

	id, ok := g.PendingDelete()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestSaveAndSubmit(t *testing.T) {
	g := NewGrid(GridConfig{
		Projects:  testProjects(),
		TimeCodes: testCatalog(),
		Now:       func() time.Time { return time.Date(2023, 1, 4, 9, 0, 0, 0, time.UTC) },
	})
	events := recordEvents(g)
	g.Load([]models.TimesheetEntry{entry(1, 1, map[string]float64{"2023-01-02": 8})})

	saved := g.Save()
	assert.Equal(t, EventSaved, saved.Kind)
	assert.Equal(t, "Timesheet saved successfully", saved.Title)
	assert.Equal(t, "Your timesheet for Jan 2 - Jan 6 has been saved.", saved.Description)
	assert.Equal(t, day(2023, 1, 2), saved.WeekStart.UTC())
	require.Len(t, saved.Entries, 1)

	submitted := g.Submit()
	assert.Equal(t, "Timesheet submitted", submitted.Title)
	assert.Equal(t, "Your timesheet for Jan 2 - Jan 6 has been submitted for approval.", submitted.Description)

	require.Len(t, *events, 3)
	assert.Equal(t, EventLoaded, (*events)[0].Kind)
	assert.True(t, (*events)[1].Notifies())
	assert.False(t, (*events)[0].Notifies())
}

func TestSubscribeUnsubscribe(t *testing.T) {
	g := newTestGrid(t)
	var a, b int
	unsubA := g.Subscribe(func(Event) { a++ })
	g.Subscribe(func(Event) { b++ })

	g.AddEntry()
	unsubA()
	g.AddEntry()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestLoadDropsZeroHoursAndResetsState(t *testing.T) {
	g := newTestGrid(t, entry(1, 1, nil))
	require.NoError(t, g.RequestDelete(1))

	g.Load([]models.TimesheetEntry{entry(9, 2, map[string]float64{"2024-07-01": 0, "2024-07-02": 3})})

	e := mustEntry(t, g, 9)
	assert.Equal(t, map[string]float64{"2024-07-02": 3}, e.Hours)
	_, ok := g.PendingDelete()
	assert.False(t, ok)
}
