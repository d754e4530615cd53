package screens

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/render"
	"github.com/emilianohg/weeksheet/internal/repository"
	"github.com/emilianohg/weeksheet/internal/timesheet"
)

const recentWeeks = 5

type Dashboard struct {
	db     *sql.DB
	width  int
	height int

	clients      []repository.ClientWithStats
	projectCount int
	codeCount    int
	weeks        []repository.TimesheetSummary
	loading      bool
	err          error
}

func NewDashboard(db *sql.DB) *Dashboard {
	return &Dashboard{
		db:      db,
		loading: true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	clients      []repository.ClientWithStats
	projectCount int
	codeCount    int
	weeks        []repository.TimesheetSummary
	err          error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	var msg dashboardDataMsg
	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		clients, err := repository.NewClientRepo(d.db).GetAllWithStats()
		msg.clients = clients
		return err
	})
	g.Go(func() error {
		projects, err := repository.NewProjectRepo(d.db).GetAll()
		msg.projectCount = len(projects)
		return err
	})
	g.Go(func() error {
		codes, err := repository.NewTimeCodeRepo(d.db).GetAll()
		msg.codeCount = len(codes)
		return err
	})
	g.Go(func() error {
		weeks, err := repository.NewTimesheetRepo(d.db).GetSummaries(recentWeeks)
		msg.weeks = weeks
		return err
	})

	msg.err = g.Wait()
	return msg
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.clients = msg.clients
		d.projectCount = msg.projectCount
		d.codeCount = msg.codeCount
		d.weeks = msg.weeks
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "t", "enter":
			return Navigate("timesheet")
		case "c":
			return Navigate("clients")
		case "p":
			return Navigate("projects")
		case "o":
			return Navigate("timecodes")
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("WEEKSHEET"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Weekly Timesheets"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		return b.String()
	}

	statsContent := fmt.Sprintf(
		"Clients: %d\nProjects: %d\nTime codes: %d",
		len(d.clients),
		d.projectCount,
		d.codeCount,
	)
	b.WriteString(BoxStyle.Render(statsContent))
	b.WriteString("\n\n")

	if len(d.weeks) > 0 {
		b.WriteString(SubtitleStyle.Render("Recent weeks"))
		b.WriteString("\n")
		for _, w := range d.weeks {
			status := WarningStyle.Render(string(w.Status))
			if w.Status == models.StatusSubmitted {
				status = SuccessStyle.Render(string(w.Status))
			}
			b.WriteString(fmt.Sprintf("  %s  %sh in %d rows  %s\n",
				NormalStyle.Render(timesheet.RangeLabel(timesheet.WeekDates(w.WeekStart, 0))),
				render.FormatHours(w.TotalHours),
				w.EntryCount,
				status,
			))
		}
	} else if d.projectCount == 0 {
		b.WriteString(DimStyle.Render("No projects yet. Press 'p' to create one or run 'weeksheet seed'."))
	} else {
		b.WriteString(DimStyle.Render("No saved weeks yet. Press 't' to fill in this week."))
	}

	b.WriteString("\n")

	help := "[t] Timesheet  [c] Clients  [p] Projects  [o] Time codes  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
