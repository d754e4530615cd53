package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/weeksheet/internal/config"
	"github.com/emilianohg/weeksheet/internal/publish"
	"github.com/emilianohg/weeksheet/internal/tui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenClients
	ScreenProjects
	ScreenTimeCodes
	ScreenTimesheet
	ScreenSubmit
)

type App struct {
	db            *sql.DB
	cfg           *config.Config
	publisher     publish.Publisher
	currentScreen Screen
	width         int
	height        int

	// Screen models
	dashboard *screens.Dashboard
	clients   *screens.Clients
	projects  *screens.Projects
	timeCodes *screens.TimeCodes
	timesheet *screens.Timesheet
	submit    *screens.Submit
}

func NewApp(db *sql.DB, cfg *config.Config, publisher publish.Publisher) *App {
	return &App{
		db:            db,
		cfg:           cfg,
		publisher:     publisher,
		currentScreen: ScreenDashboard,
	}
}

func (a *App) Init() tea.Cmd {
	a.dashboard = screens.NewDashboard(a.db)
	a.clients = screens.NewClients(a.db)
	a.projects = screens.NewProjects(a.db)
	a.timeCodes = screens.NewTimeCodes(a.db)
	a.timesheet = screens.NewTimesheet(a.db, a.cfg)
	a.submit = screens.NewSubmit(a.db, a.publisher)

	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.clients.SetSize(msg.Width, msg.Height)
		a.projects.SetSize(msg.Width, msg.Height)
		a.timeCodes.SetSize(msg.Width, msg.Height)
		a.timesheet.SetSize(msg.Width, msg.Height)
		a.submit.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	// Update current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenClients:
		cmd = a.clients.Update(msg)
	case ScreenProjects:
		cmd = a.projects.Update(msg)
	case ScreenTimeCodes:
		cmd = a.timeCodes.Update(msg)
	case ScreenTimesheet:
		cmd = a.timesheet.Update(msg)
	case ScreenSubmit:
		cmd = a.submit.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		return a, a.dashboard.Init()
	case "clients":
		a.currentScreen = ScreenClients
		return a, a.clients.Init()
	case "projects":
		a.currentScreen = ScreenProjects
		a.projects.SetClientFilter(msg.ClientID)
		return a, a.projects.Init()
	case "timecodes":
		a.currentScreen = ScreenTimeCodes
		return a, a.timeCodes.Init()
	case "timesheet":
		a.currentScreen = ScreenTimesheet
		return a, a.timesheet.Init()
	case "submit":
		a.currentScreen = ScreenSubmit
		a.submit.SetGrid(a.timesheet.Grid())
		return a, a.submit.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenClients:
		content = a.clients.View()
	case ScreenProjects:
		content = a.projects.View()
	case ScreenTimeCodes:
		content = a.timeCodes.View()
	case ScreenTimesheet:
		content = a.timesheet.View()
	case ScreenSubmit:
		content = a.submit.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(db *sql.DB, cfg *config.Config, publisher publish.Publisher) error {
	app := NewApp(db, cfg, publisher)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
