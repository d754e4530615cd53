package screens

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/weeksheet/internal/repository"
)

type clientsMode int

const (
	clientsBrowse clientsMode = iota
	clientsNaming
	clientsConfirmDelete
)

// codes shown inline before the list is cut short
const clientCodesShown = 4

// Clients manages the clients projects are billed to. Deleting a client
// keeps its projects; they become internal projects with no client.
type Clients struct {
	db     *sql.DB
	width  int
	height int

	clients []repository.ClientWithStats
	cursor  int
	mode    clientsMode
	// renaming is the client being renamed; nil while adding.
	renaming *repository.ClientWithStats
	input    textinput.Model
	loading  bool
	err      error
	message  string
}

func NewClients(db *sql.DB) *Clients {
	ti := textinput.New()
	ti.Placeholder = "e.g. Oakridge School District"
	ti.CharLimit = 100
	ti.Width = 40

	return &Clients{db: db, input: ti}
}

func (c *Clients) SetSize(width, height int) {
	c.width = width
	c.height = height
}

type clientsDataMsg struct {
	clients []repository.ClientWithStats
	err     error
}

func (c *Clients) Init() tea.Cmd {
	c.loading = true
	c.mode = clientsBrowse
	c.renaming = nil
	c.message = ""
	return c.loadData
}

func (c *Clients) loadData() tea.Msg {
	clients, err := repository.NewClientRepo(c.db).GetAllWithStats()
	return clientsDataMsg{clients: clients, err: err}
}

func (c *Clients) selected() (repository.ClientWithStats, bool) {
	if c.cursor < 0 || c.cursor >= len(c.clients) {
		return repository.ClientWithStats{}, false
	}
	return c.clients[c.cursor], true
}

func (c *Clients) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clientsDataMsg:
		c.loading = false
		if msg.err != nil {
			c.err = msg.err
			return nil
		}
		c.clients = msg.clients
		c.cursor = min(c.cursor, max(0, len(c.clients)-1))
		return nil

	case RefreshMsg:
		return c.Init()

	case tea.KeyMsg:
		switch c.mode {
		case clientsNaming:
			return c.handleNamingKey(msg)
		case clientsConfirmDelete:
			return c.handleConfirmDeleteKey(msg)
		default:
			return c.handleBrowseKey(msg)
		}
	}

	if c.mode == clientsNaming {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return cmd
	}
	return nil
}

func (c *Clients) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	sel, ok := c.selected()

	switch msg.String() {
	case "up", "k":
		c.cursor = max(0, c.cursor-1)
	case "down", "j":
		c.cursor = min(c.cursor+1, max(0, len(c.clients)-1))
	case "a":
		return c.startNaming(nil)
	case "e":
		if ok {
			return c.startNaming(&sel)
		}
	case "d":
		if ok {
			c.message = ""
			c.mode = clientsConfirmDelete
		}
	case "enter":
		if ok {
			return NavigateWithClient("projects", sel.ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (c *Clients) startNaming(client *repository.ClientWithStats) tea.Cmd {
	c.mode = clientsNaming
	c.renaming = client
	c.input.SetValue("")
	if client != nil {
		c.input.SetValue(client.Name)
	}
	return c.input.Focus()
}

func (c *Clients) stopNaming() {
	c.mode = clientsBrowse
	c.renaming = nil
	c.input.Blur()
}

func (c *Clients) handleNamingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.stopNaming()
		return nil
	case "enter":
		name := strings.TrimSpace(c.input.Value())
		defer c.stopNaming()
		if name == "" {
			return nil
		}
		if err := c.save(name); err != nil {
			c.err = err
			return nil
		}
		return c.loadData
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// save creates a client or renames the one being edited. Names are unique
// regardless of case.
func (c *Clients) save(name string) error {
	for _, existing := range c.clients {
		if c.renaming != nil && existing.ID == c.renaming.ID {
			continue
		}
		if strings.EqualFold(existing.Name, name) {
			return fmt.Errorf("client %q already exists", existing.Name)
		}
	}

	repo := repository.NewClientRepo(c.db)
	if c.renaming == nil {
		if _, err := repo.Create(name); err != nil {
			return err
		}
		c.message = fmt.Sprintf("Added client %s", name)
		return nil
	}
	if err := repo.Update(c.renaming.ID, name); err != nil {
		return err
	}
	c.message = fmt.Sprintf("Renamed %s to %s", c.renaming.Name, name)
	return nil
}

func (c *Clients) handleConfirmDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		c.mode = clientsBrowse
		sel, ok := c.selected()
		if !ok {
			return nil
		}
		if err := repository.NewClientRepo(c.db).Delete(sel.ID); err != nil {
			c.err = err
			return nil
		}
		c.message = fmt.Sprintf("Deleted client %s", sel.Name)
		if sel.ProjectCount > 0 {
			c.message += fmt.Sprintf("; %d project(s) now have no client", sel.ProjectCount)
		}
		return c.loadData
	case "n", "N", "esc":
		c.mode = clientsBrowse
	}
	return nil
}

// deleteWarning spells out what happens to the client's projects.
func deleteWarning(client repository.ClientWithStats) string {
	if client.ProjectCount == 0 {
		return fmt.Sprintf("Delete client '%s'? It has no projects. (y/n)", client.Name)
	}
	return fmt.Sprintf(
		"Delete client '%s'? %d project(s) will lose their client: %s.\n"+
			"New timesheet rows for them will show no client; saved weeks keep the old name. (y/n)",
		client.Name, client.ProjectCount, strings.Join(client.ProjectCodes, ", "),
	)
}

func projectCodesSummary(codes []string) string {
	if len(codes) == 0 {
		return "-"
	}
	if len(codes) <= clientCodesShown {
		return strings.Join(codes, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(codes[:clientCodesShown], ", "), len(codes)-clientCodesShown)
}

func (c *Clients) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("CLIENTS"))
	b.WriteString("\n\n")

	if c.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if c.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", c.err)))
		b.WriteString("\n\n")
		c.err = nil
	}
	if c.message != "" {
		b.WriteString(SuccessStyle.Render(c.message))
		b.WriteString("\n\n")
	}

	switch c.mode {
	case clientsNaming:
		if c.renaming == nil {
			b.WriteString("New client:\n")
		} else {
			b.WriteString(fmt.Sprintf("Rename %s:\n", c.renaming.Name))
		}
		b.WriteString(c.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()

	case clientsConfirmDelete:
		if sel, ok := c.selected(); ok {
			b.WriteString(WarningStyle.Render(deleteWarning(sel)))
			b.WriteString("\n")
			return b.String()
		}
	}

	if len(c.clients) == 0 {
		b.WriteString(DimStyle.Render("No clients yet. Projects without a client are internal."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(DimStyle.Render("  " + fit("CLIENT", 30) + " " + fitLeft("PROJ", 4) + "  CODES"))
		b.WriteString("\n")
		for i, client := range c.clients {
			line := fit(client.Name, 30) + " " + fitLeft(fmt.Sprint(client.ProjectCount), 4) + "  " + projectCodesSummary(client.ProjectCodes)
			b.WriteString(cursorLine(i == c.cursor, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[a] Add  [e] Rename  [d] Delete  [enter] Projects  [q] Back"))
	return b.String()
}
