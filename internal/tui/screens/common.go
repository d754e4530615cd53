package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NavigateMsg is sent when navigation to another screen is requested
type NavigateMsg struct {
	Screen   string
	ClientID *int64
}

func Navigate(screen string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

func NavigateWithClient(screen string, clientID int64) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, ClientID: &clientID}
	}
}

// RefreshMsg is sent when data should be refreshed
type RefreshMsg struct{}

func Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

func cursorLine(selected bool, text string) string {
	if selected {
		return SelectedStyle.Render("> " + text)
	}
	return NormalStyle.Render("  " + text)
}

// Timesheet grid and notifications
var (
	// CellStyle marks the focused cell of the selected row.
	CellStyle = lipgloss.NewStyle().Reverse(true)

	TotalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("42")).
			PaddingLeft(1)

	toastTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)

// renderToast shows a grid notification: its title over its description.
func renderToast(title, description string) string {
	body := toastTitleStyle.Render(title)
	if description != "" {
		body += "\n" + NormalStyle.Render(description)
	}
	return ToastStyle.Render(body)
}

// fit truncates or pads s to exactly width columns.
func fit(s string, width int) string {
	if lipgloss.Width(s) >= width {
		r := []rune(s)
		if len(r) >= width {
			s = string(r[:width-2]) + "…"
		}
	}
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

func fitLeft(s string, width int) string {
	return strings.Repeat(" ", max(0, width-lipgloss.Width(s))) + s
}
