package screens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/emilianohg/weeksheet/internal/config"
	"github.com/emilianohg/weeksheet/internal/logging"
	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/render"
	"github.com/emilianohg/weeksheet/internal/repository"
	"github.com/emilianohg/weeksheet/internal/timesheet"
)

type timesheetMode int

const (
	timesheetModeGrid timesheetMode = iota
	timesheetModeComment
	timesheetModeCopy
)

// grid columns: project, time code, then one per weekday
const (
	colProject = iota
	colTimeCode
	colFirstDay
	colCount = colFirstDay + timesheet.DaysPerWeek
)

const (
	projectWidth  = 28
	timeCodeWidth = 18
	dayWidth      = 8
)

type Timesheet struct {
	db     *sql.DB
	cfg    *config.Config
	logger *slog.Logger
	width  int
	height int

	grid        *timesheet.Grid
	unsubscribe func()
	status      models.TimesheetStatus
	prior       []models.TimesheetEntry

	row    int
	col    int
	mode   timesheetMode
	picker int

	hoursInput   textinput.Model
	commentInput textinput.Model
	copySel      *timesheet.CopySelection
	copyCursor   int

	loading bool
	err     error
	toast   string
}

func NewTimesheet(db *sql.DB, cfg *config.Config) *Timesheet {
	hours := textinput.New()
	hours.Placeholder = "0"
	hours.CharLimit = 6
	hours.Width = dayWidth - 2
	hours.Prompt = ""

	comment := textinput.New()
	comment.Placeholder = "What did you work on?"
	comment.CharLimit = 500
	comment.Width = 60

	return &Timesheet{
		db:           db,
		cfg:          cfg,
		logger:       logging.Component("tui"),
		hoursInput:   hours,
		commentInput: comment,
	}
}

func (t *Timesheet) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Grid returns the grid being edited, or nil before the first load.
func (t *Timesheet) Grid() *timesheet.Grid {
	return t.grid
}

type timesheetDataMsg struct {
	projects []models.Project
	catalog  models.TimeCodeCatalog
	week     *models.Timesheet
	prior    *models.Timesheet
	err      error
}

type timesheetWeekMsg struct {
	offset int
	week   *models.Timesheet
	prior  *models.Timesheet
	err    error
}

type timesheetSavedMsg struct {
	sheet *models.Timesheet
	err   error
}

func (t *Timesheet) Init() tea.Cmd {
	t.loading = true
	t.mode = timesheetModeGrid
	t.err = nil
	t.toast = ""

	offset := 0
	if t.grid != nil {
		offset = t.grid.WeekOffset()
	}
	weekStart := timesheet.WeekDates(time.Now(), offset)[0]
	return func() tea.Msg {
		return t.loadData(weekStart)
	}
}

func (t *Timesheet) loadData(weekStart time.Time) tea.Msg {
	var msg timesheetDataMsg
	g, _ := errgroup.WithContext(context.Background())
	sheets := repository.NewTimesheetRepo(t.db)

	g.Go(func() error {
		projects, err := repository.NewProjectRepo(t.db).GetAll()
		msg.projects = projects
		return err
	})
	g.Go(func() error {
		catalog, err := repository.NewTimeCodeRepo(t.db).GetCatalog()
		msg.catalog = catalog
		return err
	})
	g.Go(func() error {
		week, err := sheets.GetWeek(weekStart)
		msg.week = week
		return err
	})
	g.Go(func() error {
		prior, err := sheets.LatestBefore(weekStart)
		msg.prior = prior
		return err
	})

	msg.err = g.Wait()
	return msg
}

func (t *Timesheet) loadWeek(offset int, weekStart time.Time) tea.Msg {
	msg := timesheetWeekMsg{offset: offset}
	g, _ := errgroup.WithContext(context.Background())
	sheets := repository.NewTimesheetRepo(t.db)

	g.Go(func() error {
		week, err := sheets.GetWeek(weekStart)
		msg.week = week
		return err
	})
	g.Go(func() error {
		prior, err := sheets.LatestBefore(weekStart)
		msg.prior = prior
		return err
	})

	msg.err = g.Wait()
	return msg
}

// applyData rebuilds the grid around fresh reference data. Entries already
// in the grid survive a reload; a stored week is only restored on the first
// load.
func (t *Timesheet) applyData(msg timesheetDataMsg) {
	gridCfg := timesheet.GridConfig{
		Projects:  msg.projects,
		TimeCodes: msg.catalog,
		Logger:    t.logger,
	}
	if _, ok := msg.catalog.Lookup(t.cfg.DefaultTimeCode); ok && !msg.catalog.IsNonChargeable(t.cfg.DefaultTimeCode) {
		gridCfg.DefaultTimeCode = t.cfg.DefaultTimeCode
	} else {
		t.logger.Warn("ignoring default time code", "code", t.cfg.DefaultTimeCode)
	}

	var kept []models.TimesheetEntry
	first := t.grid == nil
	if first {
		if msg.week == nil && t.cfg.SeedSample {
			seed := uint64(time.Now().UnixNano())
			gridCfg.Seed = timesheet.SampleSeed(rand.New(rand.NewPCG(seed, seed>>1)))
		}
	} else {
		kept = t.grid.Entries()
		gridCfg.WeekOffset = t.grid.WeekOffset()
		t.unsubscribe()
	}

	t.grid = timesheet.NewGrid(gridCfg)
	t.unsubscribe = t.grid.Subscribe(t.notify)

	switch {
	case !first:
		t.grid.Load(kept)
	case msg.week != nil:
		t.grid.Load(msg.week.Entries)
	}
	t.applyWeek(msg.week, msg.prior)
	t.clampCursor()
}

func (t *Timesheet) applyWeek(week, prior *models.Timesheet) {
	t.status = ""
	if week != nil {
		t.status = week.Status
	}
	t.prior = nil
	if prior != nil {
		t.prior = prior.Entries
	}
}

func (t *Timesheet) notify(ev timesheet.Event) {
	if ev.Notifies() {
		t.toast = renderToast(ev.Title, ev.Description)
	}
}

func (t *Timesheet) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case timesheetDataMsg:
		t.loading = false
		if msg.err != nil {
			t.err = msg.err
			return nil
		}
		t.applyData(msg)
		return nil

	case timesheetWeekMsg:
		if t.grid == nil || msg.offset != t.grid.WeekOffset() {
			return nil
		}
		if msg.err != nil {
			t.err = msg.err
			return nil
		}
		if msg.week != nil {
			t.grid.Load(msg.week.Entries)
			t.clampCursor()
		}
		t.applyWeek(msg.week, msg.prior)
		return nil

	case timesheetSavedMsg:
		if msg.err != nil {
			t.logger.Error("saving week failed", logging.KeyError, msg.err)
			t.toast = ""
			t.err = fmt.Errorf("saving timesheet: %w", msg.err)
			return nil
		}
		t.status = msg.sheet.Status
		t.logger.Info("week saved",
			logging.KeyWeek, timesheet.DateKey(msg.sheet.WeekStart),
			logging.KeyCount, len(msg.sheet.Entries))
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		if t.grid == nil {
			switch msg.String() {
			case "q", "esc":
				return Navigate("dashboard")
			}
			return nil
		}
		return t.handleKey(msg)
	}

	return t.updateInputs(msg)
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused text input.
func (t *Timesheet) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case t.mode == timesheetModeComment:
		t.commentInput, cmd = t.commentInput.Update(msg)
	case t.grid != nil && t.grid.Editing().Kind == timesheet.EditHours:
		t.hoursInput, cmd = t.hoursInput.Update(msg)
	}
	return cmd
}

func (t *Timesheet) handleKey(msg tea.KeyMsg) tea.Cmd {
	t.err = nil
	t.toast = ""

	if _, ok := t.grid.PendingDelete(); ok {
		return t.handleDeleteKey(msg)
	}

	switch t.mode {
	case timesheetModeComment:
		return t.handleCommentKey(msg)
	case timesheetModeCopy:
		return t.handleCopyKey(msg)
	}

	switch t.grid.Editing().Kind {
	case timesheet.EditProject:
		return t.handleProjectPickerKey(msg)
	case timesheet.EditTimeCode:
		return t.handleTimeCodePickerKey(msg)
	case timesheet.EditHours:
		return t.handleHoursKey(msg)
	}

	return t.handleGridKey(msg)
}

func (t *Timesheet) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if t.row > 0 {
			t.row--
		}
	case "down", "j":
		if t.row < t.grid.Len()-1 {
			t.row++
		}
	case "left", "h":
		if t.col > 0 {
			t.col--
		}
	case "right", "l":
		if t.col < colCount-1 {
			t.col++
		}
	case "enter":
		return t.openCell()
	case "a":
		t.grid.AddEntry()
		t.row = t.grid.Len() - 1
		t.col = colProject
		t.picker = 0
	case "d":
		if e, ok := t.current(); ok {
			t.err = t.grid.RequestDelete(e.ID)
		}
	case "c":
		e, ok := t.current()
		if !ok {
			return nil
		}
		t.mode = timesheetModeComment
		t.commentInput.SetValue(e.Comment)
		t.commentInput.CursorEnd()
		return t.commentInput.Focus()
	case "p":
		t.copySel = timesheet.NewCopySelection(timesheet.CopyCandidates(t.prior, t.grid.Projects()))
		t.copyCursor = 0
		t.mode = timesheetModeCopy
	case "[":
		return t.changeWeek(t.grid.PrevWeek)
	case "]":
		return t.changeWeek(t.grid.NextWeek)
	case "t":
		return t.changeWeek(t.grid.ThisWeek)
	case "s":
		ev := t.grid.Save()
		return persistWeek(t.db, ev, models.StatusSaved)
	case "S":
		if t.grid.Len() == 0 {
			t.err = errors.New("add at least one entry before submitting")
			return nil
		}
		return Navigate("submit")
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (t *Timesheet) current() (models.TimesheetEntry, bool) {
	entries := t.grid.Entries()
	if t.row < 0 || t.row >= len(entries) {
		return models.TimesheetEntry{}, false
	}
	return entries[t.row], true
}

func (t *Timesheet) clampCursor() {
	if t.row >= t.grid.Len() {
		t.row = max(0, t.grid.Len()-1)
	}
}

func (t *Timesheet) openCell() tea.Cmd {
	e, ok := t.current()
	if !ok {
		return nil
	}

	switch t.col {
	case colProject:
		t.picker = 0
		for i, p := range t.grid.Projects() {
			if p.ID == e.ProjectID {
				t.picker = i
			}
		}
		t.err = t.grid.OpenEditor(timesheet.ProjectCell(e.ID))
	case colTimeCode:
		t.picker = 0
		for i, c := range t.grid.Catalog().All() {
			if c.ID == e.TimeCode {
				t.picker = i
			}
		}
		t.err = t.grid.OpenEditor(timesheet.TimeCodeCell(e.ID))
	default:
		key := timesheet.DateKeys(t.grid.WeekDates())[t.col-colFirstDay]
		if err := t.grid.OpenEditor(timesheet.HourCell(e.ID, key)); err != nil {
			t.err = err
			return nil
		}
		t.hoursInput.SetValue(hoursValue(e.Hours[key]))
		t.hoursInput.CursorEnd()
		return t.hoursInput.Focus()
	}
	return nil
}

func hoursValue(h float64) string {
	if h == 0 {
		return ""
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func (t *Timesheet) changeWeek(move func()) tea.Cmd {
	t.hoursInput.Blur()
	move()
	offset := t.grid.WeekOffset()
	weekStart := t.grid.WeekDates()[0]
	return func() tea.Msg {
		return t.loadWeek(offset, weekStart)
	}
}

func persistWeek(db *sql.DB, ev timesheet.Event, status models.TimesheetStatus) tea.Cmd {
	return func() tea.Msg {
		sheet, err := repository.NewTimesheetRepo(db).SaveWeek(ev.WeekStart, status, ev.Entries)
		return timesheetSavedMsg{sheet: sheet, err: err}
	}
}

func (t *Timesheet) handleProjectPickerKey(msg tea.KeyMsg) tea.Cmd {
	projects := t.grid.Projects()
	switch msg.String() {
	case "up", "k":
		if t.picker > 0 {
			t.picker--
		}
	case "down", "j":
		if t.picker < len(projects)-1 {
			t.picker++
		}
	case "enter":
		if len(projects) == 0 {
			return nil
		}
		t.err = t.grid.ChangeProject(t.grid.Editing().EntryID, projects[t.picker].ID)
	case "esc":
		t.grid.CloseEditor()
	}
	return nil
}

func (t *Timesheet) handleTimeCodePickerKey(msg tea.KeyMsg) tea.Cmd {
	codes := t.grid.Catalog().All()
	switch msg.String() {
	case "up", "k":
		if t.picker > 0 {
			t.picker--
		}
	case "down", "j":
		if t.picker < len(codes)-1 {
			t.picker++
		}
	case "enter":
		if len(codes) == 0 {
			return nil
		}
		t.err = t.grid.ChangeTimeCode(t.grid.Editing().EntryID, codes[t.picker].ID)
	case "esc":
		t.grid.CloseEditor()
	}
	return nil
}

func (t *Timesheet) handleHoursKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		t.hoursInput.Blur()
		t.err = t.grid.CommitHours(t.hoursInput.Value())
		return nil
	case "tab":
		t.hoursInput.Blur()
		if t.err = t.grid.CommitHours(t.hoursInput.Value()); t.err != nil {
			return nil
		}
		if t.col < colCount-1 {
			t.col++
			return t.openCell()
		}
		return nil
	case "esc":
		t.hoursInput.Blur()
		t.grid.CloseEditor()
		return nil
	}

	var cmd tea.Cmd
	t.hoursInput, cmd = t.hoursInput.Update(msg)
	return cmd
}

func (t *Timesheet) handleCommentKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if e, ok := t.current(); ok {
			t.err = t.grid.SetComment(e.ID, strings.TrimSpace(t.commentInput.Value()))
		}
		t.mode = timesheetModeGrid
		t.commentInput.Blur()
		return nil
	case "esc":
		t.mode = timesheetModeGrid
		t.commentInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	t.commentInput, cmd = t.commentInput.Update(msg)
	return cmd
}

func (t *Timesheet) handleCopyKey(msg tea.KeyMsg) tea.Cmd {
	candidates := t.copySel.Candidates()
	switch msg.String() {
	case "up", "k":
		if t.copyCursor > 0 {
			t.copyCursor--
		}
	case "down", "j":
		if t.copyCursor < len(candidates)-1 {
			t.copyCursor++
		}
	case " ", "x":
		if len(candidates) > 0 {
			t.copySel.Toggle(candidates[t.copyCursor].ID)
		}
	case "a":
		t.copySel.ToggleAll()
	case "enter":
		if t.copySel.Count() == 0 {
			t.err = errors.New("select at least one project to copy")
			return nil
		}
		if _, err := t.grid.CopyFromPriorWeek(t.copySel.Selected()); err != nil {
			t.err = err
			return nil
		}
		t.mode = timesheetModeGrid
		t.row = t.grid.Len() - 1
	case "esc":
		t.mode = timesheetModeGrid
	}
	return nil
}

func (t *Timesheet) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		_, t.err = t.grid.ConfirmDelete()
		t.clampCursor()
	case "n", "N", "esc":
		t.grid.CancelDelete()
	}
	return nil
}

func (t *Timesheet) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TIMESHEET"))
	b.WriteString("\n")

	if t.grid == nil {
		if t.err != nil {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
			b.WriteString("\n\n")
			b.WriteString(HelpStyle.Render("[q] Back"))
			return b.String()
		}
		b.WriteString("Loading...\n")
		return b.String()
	}

	dates := t.grid.WeekDates()
	heading := fmt.Sprintf("%s (%s)", timesheet.WeekLabel(t.grid.WeekOffset()), timesheet.RangeLabel(dates))
	if t.status != "" {
		heading += "  " + DimStyle.Render("["+string(t.status)+"]")
	}
	b.WriteString(SubtitleStyle.Render(heading))
	b.WriteString("\n")

	t.viewGrid(&b, dates)

	if id, ok := t.grid.PendingDelete(); ok {
		label := "this entry"
		if e, found := t.grid.Entry(id); found && e.ProjectID != 0 {
			label = fmt.Sprintf("'%s %s'", e.ProjectCode, e.ProjectName)
		}
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete %s? This cannot be undone. (y/n)", label)))
		b.WriteString("\n")
		return b.String()
	}

	switch {
	case t.mode == timesheetModeComment:
		t.viewComment(&b)
	case t.mode == timesheetModeCopy:
		t.viewCopy(&b)
	case t.grid.Editing().Kind == timesheet.EditProject:
		t.viewProjectPicker(&b)
	case t.grid.Editing().Kind == timesheet.EditTimeCode:
		t.viewTimeCodePicker(&b)
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
		b.WriteString("\n")
	}
	if t.toast != "" {
		b.WriteString(t.toast)
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(t.help()))
	return b.String()
}

func (t *Timesheet) help() string {
	switch {
	case t.mode == timesheetModeComment:
		return "[enter] Save comment  [esc] Cancel"
	case t.mode == timesheetModeCopy:
		return "[space] Toggle  [a] Toggle all  [enter] Copy  [esc] Cancel"
	case t.grid.Editing().Kind == timesheet.EditHours:
		return "[enter] Save  [tab] Save and next day  [esc] Cancel"
	case t.grid.Editing().Active():
		return "[j/k] Move  [enter] Select  [esc] Cancel"
	}
	return "[arrows] Move  [enter] Edit  [a] Add  [d] Delete  [c] Comment  [p] Copy last week\n" +
		"[ [ / ] ] Prev/next week  [t] This week  [s] Save  [S] Submit  [q] Back"
}

func (t *Timesheet) viewGrid(b *strings.Builder, dates []time.Time) {
	var header strings.Builder
	header.WriteString("  ")
	header.WriteString(fit("Project", projectWidth))
	header.WriteString(fit("Time code", timeCodeWidth))
	for _, d := range dates {
		header.WriteString(fitLeft(d.Format("Mon 2"), dayWidth))
	}
	header.WriteString(fitLeft("Total", dayWidth))
	b.WriteString(DimStyle.Render(header.String()))
	b.WriteString("\n")

	entries := t.grid.Entries()
	if len(entries) == 0 {
		b.WriteString(DimStyle.Render("  No entries. Press [a] to add one or [p] to copy last week's projects."))
		b.WriteString("\n\n")
	}

	keys := timesheet.DateKeys(dates)
	for i, e := range entries {
		selected := i == t.row
		if selected {
			b.WriteString(SelectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}

		project := DimStyle.Render(fit("(select project)", projectWidth))
		if e.ProjectID != 0 {
			project = fit(e.ProjectCode+" "+e.ProjectName, projectWidth)
		}
		b.WriteString(t.cell(selected, colProject, project))

		code := DimStyle.Render(fit("(select code)", timeCodeWidth))
		if e.TimeCode != "" {
			code = fit(e.TimeCode+" "+e.TimeCodeName, timeCodeWidth)
		}
		b.WriteString(t.cell(selected, colTimeCode, code))

		for c, key := range keys {
			if t.grid.IsEditing(timesheet.HourCell(e.ID, key)) {
				b.WriteString(fitLeft(t.hoursInput.View(), dayWidth))
				continue
			}
			value := ""
			if h := e.Hours[key]; h != 0 {
				value = render.FormatHours(h)
			}
			b.WriteString(t.cell(selected, colFirstDay+c, fitLeft(value, dayWidth)))
		}

		total := timesheet.EntryTotal(e)
		if e.ProjectID != 0 {
			total = t.grid.ProjectTotal(e.ProjectID)
		}
		b.WriteString(fitLeft(render.FormatHours(total), dayWidth))
		if e.Comment != "" {
			b.WriteString(DimStyle.Render("  *"))
		}
		b.WriteString("\n")
	}

	var footer strings.Builder
	footer.WriteString("  ")
	footer.WriteString(fit("Daily total", projectWidth+timeCodeWidth))
	for _, total := range t.grid.DailyTotals() {
		footer.WriteString(fitLeft(render.FormatHours(total), dayWidth))
	}
	footer.WriteString(fitLeft(render.FormatHours(t.grid.WeeklyTotal()), dayWidth))
	b.WriteString("\n")
	b.WriteString(TotalStyle.Render(footer.String()))
	b.WriteString("\n\n")
}

func (t *Timesheet) cell(selected bool, col int, text string) string {
	if selected && col == t.col {
		return CellStyle.Render(text)
	}
	return text
}

func (t *Timesheet) viewProjectPicker(b *strings.Builder) {
	var box strings.Builder
	box.WriteString("Select project:\n\n")
	projects := t.grid.Projects()
	if len(projects) == 0 {
		box.WriteString(DimStyle.Render("No projects yet. Add some from the projects screen."))
	}
	for i, p := range projects {
		line := fmt.Sprintf("%-10s %s", p.Code, p.Name)
		if p.ClientName != "" {
			line += DimStyle.Render(" (" + p.ClientName + ")")
		}
		box.WriteString(cursorLine(i == t.picker, line))
		box.WriteString("\n")
	}
	b.WriteString(BoxStyle.Render(strings.TrimRight(box.String(), "\n")))
	b.WriteString("\n")
}

func (t *Timesheet) viewTimeCodePicker(b *strings.Builder) {
	var box strings.Builder
	box.WriteString("Select time code:\n")

	e, _ := t.grid.Entry(t.grid.Editing().EntryID)
	catalog := t.grid.Catalog()
	i := 0
	for _, cat := range []models.Category{models.Chargeable, models.NonChargeable} {
		for _, group := range catalog.Groups(cat) {
			box.WriteString("\n")
			box.WriteString(DimStyle.Render(cat.Label() + " / " + group.Label))
			box.WriteString("\n")
			for _, code := range group.Codes {
				line := fmt.Sprintf("%-5s %s", code.ID, code.Name)
				switch {
				case i == t.picker:
					box.WriteString(SelectedStyle.Render("> " + line))
				case cat == models.NonChargeable && e.ProjectID != 0:
					box.WriteString(DimStyle.Render("  " + line))
				default:
					box.WriteString(NormalStyle.Render("  " + line))
				}
				box.WriteString("\n")
				i++
			}
		}
	}
	if e.ProjectID != 0 {
		box.WriteString("\n")
		box.WriteString(DimStyle.Render("Non-chargeable codes are only available on rows without a project."))
	}
	b.WriteString(BoxStyle.Render(strings.TrimRight(box.String(), "\n")))
	b.WriteString("\n")
}

func (t *Timesheet) viewComment(b *strings.Builder) {
	label := "entry"
	if e, ok := t.current(); ok && e.ProjectID != 0 {
		label = e.ProjectCode + " " + e.ProjectName
	}
	b.WriteString(fmt.Sprintf("Comment for %s:\n", label))
	b.WriteString(t.commentInput.View())
	b.WriteString("\n")
}

func (t *Timesheet) viewCopy(b *strings.Builder) {
	var box strings.Builder
	candidates := t.copySel.Candidates()
	box.WriteString("Copy projects from last week\n")
	box.WriteString(DimStyle.Render(fmt.Sprintf("%d of %d selected, copied with no hours", t.copySel.Count(), len(candidates))))
	box.WriteString("\n\n")
	if len(candidates) == 0 {
		box.WriteString(DimStyle.Render("No projects to copy."))
	}
	for i, p := range candidates {
		mark := "[ ]"
		if t.copySel.IsSelected(p.ID) {
			mark = "[x]"
		}
		box.WriteString(cursorLine(i == t.copyCursor, fmt.Sprintf("%s %s %s", mark, p.Code, p.Name)))
		box.WriteString("\n")
	}
	b.WriteString(BoxStyle.Render(strings.TrimRight(box.String(), "\n")))
	b.WriteString("\n")
}
