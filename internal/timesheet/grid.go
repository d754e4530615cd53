// Package timesheet implements the weekly timesheet grid: the entry matrix,
// its mutation rules, the single-editor coordinator and the derived totals.
//
// A Grid is not safe for concurrent use. It is driven by one UI event loop.
package timesheet

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/emilianohg/weeksheet/internal/models"
)

// SeedFunc produces the initial entries for the visible week.
type SeedFunc func(week []time.Time, projects []models.Project, catalog models.TimeCodeCatalog) []models.TimesheetEntry

// GridConfig holds the reference data and collaborators of a Grid.
type GridConfig struct {
	Projects  []models.Project
	TimeCodes models.TimeCodeCatalog

	// Seed fills the grid on creation. Nil starts empty.
	Seed SeedFunc
	// Now defaults to time.Now.
	Now func() time.Time
	// DefaultTimeCode is used for copied rows. Unknown or non-chargeable
	// codes are replaced by the first chargeable code.
	DefaultTimeCode string
	WeekOffset      int
	Logger          *slog.Logger
}

type Grid struct {
	projects        []models.Project
	catalog         models.TimeCodeCatalog
	defaultTimeCode string
	now             func() time.Time
	logger          *slog.Logger

	entries       []models.TimesheetEntry
	weekOffset    int
	editing       EditTarget
	pendingDelete *int

	listeners    map[int]func(Event)
	nextListener int
}

// NewGrid builds a grid and seeds it for the configured week.
func NewGrid(cfg GridConfig) *Grid {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if code, ok := cfg.TimeCodes.Lookup(cfg.DefaultTimeCode); !ok || code.Category != models.Chargeable {
		if cfg.DefaultTimeCode != "" {
			cfg.Logger.Warn("default time code is not chargeable, falling back", "code", cfg.DefaultTimeCode)
		}
		cfg.DefaultTimeCode = firstChargeable(cfg.TimeCodes)
	}

	g := &Grid{
		projects:        cfg.Projects,
		catalog:         cfg.TimeCodes,
		defaultTimeCode: cfg.DefaultTimeCode,
		now:             cfg.Now,
		logger:          cfg.Logger,
		weekOffset:      cfg.WeekOffset,
		listeners:       make(map[int]func(Event)),
	}

	if cfg.Seed != nil {
		for _, e := range cfg.Seed(g.WeekDates(), g.projects, g.catalog) {
			g.entries = append(g.entries, normalize(e))
		}
	}
	return g
}

// Projects returns the project reference data.
func (g *Grid) Projects() []models.Project {
	return g.projects
}

// Catalog returns the time code reference data.
func (g *Grid) Catalog() models.TimeCodeCatalog {
	return g.catalog
}

func (g *Grid) DefaultTimeCode() string {
	return g.defaultTimeCode
}

func firstChargeable(cat models.TimeCodeCatalog) string {
	for _, group := range cat.Groups(models.Chargeable) {
		if len(group.Codes) > 0 {
			return group.Codes[0].ID
		}
	}
	return ""
}

// Entries returns a copy of the entry matrix in render order.
func (g *Grid) Entries() []models.TimesheetEntry {
	out := make([]models.TimesheetEntry, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.Clone()
	}
	return out
}

// Entry returns a copy of the entry with the given id.
func (g *Grid) Entry(id int) (models.TimesheetEntry, bool) {
	idx := g.indexOf(id)
	if idx < 0 {
		return models.TimesheetEntry{}, false
	}
	return g.entries[idx].Clone(), true
}

func (g *Grid) Len() int {
	return len(g.entries)
}

// Load replaces the whole matrix, e.g. with a previously saved week, and
// closes any open editor or pending delete.
func (g *Grid) Load(entries []models.TimesheetEntry) {
	g.entries = g.entries[:0]
	for _, e := range entries {
		g.entries = append(g.entries, normalize(e))
	}
	g.CloseEditor()
	g.pendingDelete = nil
	g.emit(Event{Kind: EventLoaded})
}

// AddEntry appends an unassigned row and opens its project picker.
func (g *Grid) AddEntry() int {
	id := g.maxID() + 1
	g.entries = append(g.entries, models.TimesheetEntry{
		ID:    id,
		Hours: map[string]float64{},
	})
	g.editing = ProjectCell(id)

	g.logger.Debug("entry added", "entry", id)
	g.emit(Event{Kind: EventEntryAdded, EntryIDs: []int{id}})
	return id
}

// RequestDelete asks for confirmation before removing an entry. Nothing is
// removed until ConfirmDelete is called.
func (g *Grid) RequestDelete(id int) error {
	if g.indexOf(id) < 0 {
		return reject(ErrUnknownEntry, id, "")
	}
	g.pendingDelete = &id
	g.CloseEditor()
	return nil
}

// PendingDelete returns the entry awaiting delete confirmation.
func (g *Grid) PendingDelete() (int, bool) {
	if g.pendingDelete == nil {
		return 0, false
	}
	return *g.pendingDelete, true
}

// ConfirmDelete removes the entry awaiting confirmation.
func (g *Grid) ConfirmDelete() (int, error) {
	if g.pendingDelete == nil {
		return 0, reject(ErrNoPendingDelete, 0, "")
	}
	id := *g.pendingDelete
	g.pendingDelete = nil

	idx := g.indexOf(id)
	if idx < 0 {
		return 0, reject(ErrUnknownEntry, id, "")
	}
	g.entries = append(g.entries[:idx], g.entries[idx+1:]...)
	if g.editing.EntryID == id {
		g.CloseEditor()
	}

	g.logger.Debug("entry deleted", "entry", id)
	g.emit(Event{Kind: EventEntryDeleted, EntryIDs: []int{id}})
	return id, nil
}

// CancelDelete abandons a pending delete.
func (g *Grid) CancelDelete() {
	g.pendingDelete = nil
}

// ChangeProject assigns a project to an entry, copying its code, name and
// client, and closes the editor. A non-chargeable time code on the entry is
// cleared since it is only valid without a project.
func (g *Grid) ChangeProject(id int, projectID int64) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return reject(ErrUnknownEntry, id, "")
	}
	p, ok := g.project(projectID)
	if !ok {
		g.logger.Warn("unknown project", "entry", id, "project_id", projectID)
		return reject(ErrUnknownProject, id, strconv.FormatInt(projectID, 10))
	}

	e := &g.entries[idx]
	e.ProjectID = p.ID
	e.ProjectCode = p.Code
	e.ProjectName = p.Name
	e.Client = p.ClientName
	if g.catalog.IsNonChargeable(e.TimeCode) {
		g.logger.Debug("cleared non-chargeable code", "entry", id, "code", e.TimeCode)
		e.TimeCode = ""
		e.TimeCodeName = ""
	}
	g.CloseEditor()

	g.logger.Debug("project changed", "entry", id, "project", p.Code)
	g.emit(Event{Kind: EventEntryUpdated, EntryIDs: []int{id}})
	return nil
}

// ChangeTimeCode assigns a time code to an entry and closes the editor.
// Non-chargeable codes are only accepted on entries without a project.
func (g *Grid) ChangeTimeCode(id int, code string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return reject(ErrUnknownEntry, id, "")
	}
	tc, ok := g.catalog.Lookup(code)
	if !ok {
		g.logger.Warn("unknown time code", "entry", id, "time_code", code)
		return reject(ErrUnknownTimeCode, id, code)
	}

	e := &g.entries[idx]
	if tc.Category == models.NonChargeable && e.ProjectID != 0 {
		g.logger.Warn("time code rejected", "entry", id, "time_code", code, "project", e.ProjectCode)
		return reject(ErrInvalidTimeCodeForProject, id, code)
	}

	e.TimeCode = tc.ID
	e.TimeCodeName = tc.Name
	g.CloseEditor()

	g.logger.Debug("time code changed", "entry", id, "time_code", tc.ID)
	g.emit(Event{Kind: EventEntryUpdated, EntryIDs: []int{id}})
	return nil
}

// ChangeHours parses raw and records it for dateKey. An empty value is zero.
// Values that are not numbers or fall outside [0, 24] are rejected and the
// cell keeps its prior value.
func (g *Grid) ChangeHours(id int, dateKey, raw string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return reject(ErrUnknownEntry, id, "")
	}
	if _, err := time.Parse(DateLayout, dateKey); err != nil {
		return reject(ErrInvalidDate, id, dateKey)
	}

	hours, err := ParseHours(raw)
	if err != nil {
		g.logger.Warn("hours rejected", "entry", id, "date", dateKey, "value", raw, "error", err)
		return &EditError{Kind: err, EntryID: id, Value: raw}
	}

	e := &g.entries[idx]
	if hours == 0 {
		delete(e.Hours, dateKey)
	} else {
		e.Hours[dateKey] = hours
	}

	g.logger.Debug("hours changed", "entry", id, "date", dateKey, "hours", hours)
	g.emit(Event{Kind: EventEntryUpdated, EntryIDs: []int{id}})
	return nil
}

// ParseHours converts a cell value into hours. It returns ErrInvalidHours or
// ErrOutOfRangeHours for rejected input.
func ParseHours(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hours) {
		return 0, ErrInvalidHours
	}
	if hours < 0 || hours > 24 {
		return 0, ErrOutOfRangeHours
	}
	return hours, nil
}

// SetComment overwrites the free-text comment of an entry.
func (g *Grid) SetComment(id int, text string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return reject(ErrUnknownEntry, id, "")
	}
	g.entries[idx].Comment = text

	g.emit(Event{
		Kind:        EventCommentSaved,
		EntryIDs:    []int{id},
		Title:       "Comment saved",
		Description: "Your timesheet entry comment has been updated.",
	})
	return nil
}

// CopyFromPriorWeek appends one row per project with the default time code
// and no hours. Either every project is copied or, if one is unknown, none.
func (g *Grid) CopyFromPriorWeek(projectIDs []int64) ([]int, error) {
	selected := make([]models.Project, 0, len(projectIDs))
	for _, pid := range projectIDs {
		p, ok := g.project(pid)
		if !ok {
			return nil, reject(ErrUnknownProject, 0, strconv.FormatInt(pid, 10))
		}
		selected = append(selected, p)
	}

	code, _ := g.catalog.Lookup(g.defaultTimeCode)
	next := g.maxID()
	ids := make([]int, 0, len(selected))
	for _, p := range selected {
		next++
		g.entries = append(g.entries, models.TimesheetEntry{
			ID:           next,
			ProjectID:    p.ID,
			ProjectCode:  p.Code,
			ProjectName:  p.Name,
			Client:       p.ClientName,
			TimeCode:     code.ID,
			TimeCodeName: code.Name,
			Hours:        map[string]float64{},
		})
		ids = append(ids, next)
	}

	g.logger.Debug("entries copied", "count", len(ids))
	g.emit(Event{
		Kind:        EventEntriesCopied,
		EntryIDs:    ids,
		Title:       "Projects copied from last week",
		Description: fmt.Sprintf("%d project(s) were copied to this week's timesheet.", len(ids)),
	})
	return ids, nil
}

// Save announces that the visible week was saved.
func (g *Grid) Save() Event {
	ev := Event{
		Kind:        EventSaved,
		Title:       "Timesheet saved successfully",
		Description: fmt.Sprintf("Your timesheet for %s has been saved.", RangeLabel(g.WeekDates())),
		Entries:     g.Entries(),
	}
	g.emit(ev)
	return ev
}

// Submit announces that the visible week was submitted for approval.
func (g *Grid) Submit() Event {
	ev := Event{
		Kind:        EventSubmitted,
		Title:       "Timesheet submitted",
		Description: fmt.Sprintf("Your timesheet for %s has been submitted for approval.", RangeLabel(g.WeekDates())),
		Entries:     g.Entries(),
	}
	g.emit(ev)
	return ev
}

// WeekOffset returns the visible week relative to the current week.
func (g *Grid) WeekOffset() int {
	return g.weekOffset
}

// WeekDates returns the five visible dates.
func (g *Grid) WeekDates() []time.Time {
	return WeekDates(g.now(), g.weekOffset)
}

// SetWeekOffset moves the visible week and closes any open editor.
func (g *Grid) SetWeekOffset(offset int) {
	g.weekOffset = offset
	g.CloseEditor()
	g.emit(Event{Kind: EventWeekChanged})
}

func (g *Grid) PrevWeek() { g.SetWeekOffset(g.weekOffset - 1) }
func (g *Grid) NextWeek() { g.SetWeekOffset(g.weekOffset + 1) }
func (g *Grid) ThisWeek() { g.SetWeekOffset(0) }

// DailyTotals returns the total of each visible day.
func (g *Grid) DailyTotals() []float64 {
	keys := DateKeys(g.WeekDates())
	totals := make([]float64, len(keys))
	for i, k := range keys {
		totals[i] = DailyTotal(k, g.entries)
	}
	return totals
}

// WeeklyTotal returns the sum of every hour in the grid.
func (g *Grid) WeeklyTotal() float64 {
	return WeeklyTotal(g.entries)
}

// ProjectTotal returns the total shown on the row of a project.
func (g *Grid) ProjectTotal(projectID int64) float64 {
	return ProjectTotal(projectID, g.entries)
}

func (g *Grid) indexOf(id int) int {
	for i, e := range g.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (g *Grid) maxID() int {
	m := 0
	for _, e := range g.entries {
		m = max(m, e.ID)
	}
	return m
}

func (g *Grid) project(id int64) (models.Project, bool) {
	for _, p := range g.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func normalize(e models.TimesheetEntry) models.TimesheetEntry {
	e = e.Clone()
	for k, v := range e.Hours {
		if v == 0 {
			delete(e.Hours, k)
		}
	}
	return e
}
