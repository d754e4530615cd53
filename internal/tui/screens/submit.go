package screens

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/weeksheet/internal/logging"
	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/publish"
	"github.com/emilianohg/weeksheet/internal/render"
	"github.com/emilianohg/weeksheet/internal/repository"
	"github.com/emilianohg/weeksheet/internal/timesheet"
)

const submitTimeout = 10 * time.Second

type submitMode int

const (
	submitModeConfirm submitMode = iota
	submitModePublishing
	submitModeComplete
)

type Submit struct {
	db        *sql.DB
	publisher publish.Publisher
	logger    *slog.Logger
	width     int
	height    int

	grid   *timesheet.Grid
	mode   submitMode
	sheet  *models.Timesheet
	notice string
	err    error
}

func NewSubmit(db *sql.DB, publisher publish.Publisher) *Submit {
	return &Submit{
		db:        db,
		publisher: publisher,
		logger:    logging.Component("submit"),
	}
}

func (s *Submit) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetGrid selects the grid whose visible week will be submitted.
func (s *Submit) SetGrid(grid *timesheet.Grid) {
	s.grid = grid
}

type submitCompleteMsg struct {
	sheet *models.Timesheet
	err   error
}

func (s *Submit) Init() tea.Cmd {
	s.mode = submitModeConfirm
	s.sheet = nil
	s.notice = ""
	s.err = nil
	return nil
}

// runSubmit stores the week as submitted, then announces it for approval.
// A failed publish does not undo the stored status.
func (s *Submit) runSubmit(ev timesheet.Event) tea.Cmd {
	return func() tea.Msg {
		sheet, err := repository.NewTimesheetRepo(s.db).SaveWeek(ev.WeekStart, models.StatusSubmitted, ev.Entries)
		if err != nil {
			return submitCompleteMsg{err: fmt.Errorf("storing submitted week: %w", err)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		if err := s.publisher.PublishSubmitted(ctx, sheet); err != nil {
			return submitCompleteMsg{sheet: sheet, err: fmt.Errorf("publishing for approval: %w", err)}
		}
		return submitCompleteMsg{sheet: sheet}
	}
}

func (s *Submit) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case submitCompleteMsg:
		s.sheet = msg.sheet
		s.err = msg.err
		if msg.sheet != nil {
			s.mode = submitModeComplete
			s.logger.Info("week submitted",
				logging.KeyWeek, timesheet.DateKey(msg.sheet.WeekStart),
				logging.KeyCount, len(msg.sheet.Entries))
		} else {
			s.mode = submitModeConfirm
		}
		if msg.err != nil {
			s.logger.Error("submit failed", logging.KeyError, msg.err)
		}
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return nil
}

func (s *Submit) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s.mode {
	case submitModeConfirm:
		return s.handleConfirmKey(msg)
	case submitModeComplete:
		return s.handleCompleteKey(msg)
	}
	return nil
}

func (s *Submit) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "y":
		if s.grid == nil {
			return Navigate("timesheet")
		}
		ev := s.grid.Submit()
		s.notice = renderToast(ev.Title, ev.Description)
		s.err = nil
		s.mode = submitModePublishing
		return s.runSubmit(ev)
	case "esc", "n", "q":
		return Navigate("timesheet")
	}
	return nil
}

func (s *Submit) handleCompleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "q", "esc":
		return Navigate("timesheet")
	}
	return nil
}

func (s *Submit) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("SUBMIT TIMESHEET"))
	b.WriteString("\n\n")

	if s.grid == nil {
		b.WriteString(DimStyle.Render("Open a timesheet first."))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[q] Back"))
		return b.String()
	}

	switch s.mode {
	case submitModeConfirm:
		return s.viewConfirm(&b)
	case submitModePublishing:
		b.WriteString("Submitting for approval...\n")
		return b.String()
	case submitModeComplete:
		return s.viewComplete(&b)
	}
	return b.String()
}

func (s *Submit) viewConfirm(b *strings.Builder) string {
	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n\n")
	}

	dates := s.grid.WeekDates()
	b.WriteString(fmt.Sprintf("Week: %s (%s)\n", timesheet.WeekLabel(s.grid.WeekOffset()), timesheet.RangeLabel(dates)))
	b.WriteString(fmt.Sprintf("Entries: %d\n", s.grid.Len()))
	b.WriteString(fmt.Sprintf("Total hours: %s\n\n", WarningStyle.Render(render.FormatHours(s.grid.WeeklyTotal()))))

	unassigned := 0
	for _, e := range s.grid.Entries() {
		if e.ProjectID == 0 && e.TimeCode == "" {
			unassigned++
		}
	}
	if unassigned > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Note: %d entries have neither a project nor a time code.\n", unassigned)))
		b.WriteString("\n")
	}

	b.WriteString("Submit this week for approval? (y/n)\n\n")
	b.WriteString(HelpStyle.Render("[y/enter] Submit  [n/esc] Cancel"))
	return b.String()
}

func (s *Submit) viewComplete(b *strings.Builder) string {
	if s.err != nil {
		b.WriteString(WarningStyle.Render("Timesheet stored as submitted, but the approval message failed:"))
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(s.err.Error()))
		b.WriteString("\n\n")
	} else {
		b.WriteString(s.notice)
		b.WriteString("\n\n")
	}
	if s.sheet != nil {
		b.WriteString(DimStyle.Render(fmt.Sprintf("Reference: %s", s.sheet.ID)))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("[enter] Done"))
	return b.String()
}
