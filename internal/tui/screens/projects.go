package screens

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/weeksheet/internal/repository"
)

type projectsMode int

const (
	projectsModeList projectsMode = iota
	projectsModeAdd
	projectsModeEdit
	projectsModeDelete
	projectsModeMove
)

type Projects struct {
	db     *sql.DB
	width  int
	height int

	projects     []repository.ProjectWithStats
	clients      []repository.ClientWithStats
	clientFilter *int64
	cursor       int
	clientCursor int
	mode         projectsMode
	codeInput    textinput.Model
	nameInput    textinput.Model
	loading      bool
	err          error
	message      string
}

func NewProjects(db *sql.DB) *Projects {
	code := textinput.New()
	code.Placeholder = "A1000"
	code.CharLimit = 20
	code.Width = 12

	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 100
	name.Width = 40

	return &Projects{
		db:        db,
		codeInput: code,
		nameInput: name,
	}
}

func (p *Projects) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *Projects) SetClientFilter(clientID *int64) {
	p.clientFilter = clientID
}

type projectsDataMsg struct {
	projects []repository.ProjectWithStats
	clients  []repository.ClientWithStats
	err      error
}

func (p *Projects) Init() tea.Cmd {
	p.loading = true
	p.mode = projectsModeList
	p.message = ""
	return p.loadData
}

func (p *Projects) loadData() tea.Msg {
	projects, err := repository.NewProjectRepo(p.db).GetAllWithStats()
	if err != nil {
		return projectsDataMsg{err: err}
	}

	clients, err := repository.NewClientRepo(p.db).GetAllWithStats()
	if err != nil {
		return projectsDataMsg{err: err}
	}

	return projectsDataMsg{projects: projects, clients: clients}
}

func (p *Projects) inputting() bool {
	return p.mode == projectsModeAdd || p.mode == projectsModeEdit
}

func (p *Projects) Update(msg tea.Msg) tea.Cmd {
	// In input mode, pass messages to the focused input first
	if p.inputting() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return p.handleInputKey()
			case "tab", "shift+tab":
				return p.switchInput()
			case "esc":
				p.mode = projectsModeList
				p.codeInput.Blur()
				p.nameInput.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		if p.codeInput.Focused() {
			p.codeInput, cmd = p.codeInput.Update(msg)
		} else {
			p.nameInput, cmd = p.nameInput.Update(msg)
		}
		return cmd
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.loading = false
		p.err = msg.err
		p.projects = msg.projects
		p.clients = msg.clients

		if p.clientFilter != nil {
			var filtered []repository.ProjectWithStats
			for _, proj := range p.projects {
				if proj.ClientID != nil && *proj.ClientID == *p.clientFilter {
					filtered = append(filtered, proj)
				}
			}
			p.projects = filtered
		}

		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return nil

	case RefreshMsg:
		return p.Init()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil
}

func (p *Projects) switchInput() tea.Cmd {
	if p.codeInput.Focused() {
		p.codeInput.Blur()
		return p.nameInput.Focus()
	}
	p.nameInput.Blur()
	return p.codeInput.Focus()
}

func (p *Projects) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.mode {
	case projectsModeList:
		return p.handleListKey(msg)
	case projectsModeDelete:
		return p.handleDeleteKey(msg)
	case projectsModeMove:
		return p.handleMoveKey(msg)
	}
	return nil
}

func (p *Projects) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case "a":
		p.mode = projectsModeAdd
		p.codeInput.SetValue("")
		p.nameInput.SetValue("")
		p.nameInput.Blur()
		return p.codeInput.Focus()
	case "e":
		if len(p.projects) > 0 {
			p.mode = projectsModeEdit
			p.codeInput.SetValue(p.projects[p.cursor].Code)
			p.nameInput.SetValue(p.projects[p.cursor].Name)
			p.codeInput.Blur()
			return p.nameInput.Focus()
		}
	case "d":
		if len(p.projects) > 0 {
			p.mode = projectsModeDelete
		}
	case "m":
		if len(p.projects) > 0 && len(p.clients) > 0 {
			p.mode = projectsModeMove
			p.clientCursor = 0
		}
	case "q", "esc":
		if p.clientFilter != nil {
			return Navigate("clients")
		}
		return Navigate("dashboard")
	}
	return nil
}

func (p *Projects) handleInputKey() tea.Cmd {
	code := strings.ToUpper(strings.TrimSpace(p.codeInput.Value()))
	name := strings.TrimSpace(p.nameInput.Value())
	if code == "" || name == "" {
		p.err = fmt.Errorf("project code and name are required")
		return nil
	}

	repo := repository.NewProjectRepo(p.db)
	if p.mode == projectsModeAdd {
		if _, err := repo.Create(code, name, p.clientFilter); err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Created project: %s %s", code, name)
		}
	} else {
		if err := repo.Update(p.projects[p.cursor].ID, code, name); err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Updated project: %s %s", code, name)
		}
	}
	p.mode = projectsModeList
	p.codeInput.Blur()
	p.nameInput.Blur()
	return p.loadData
}

func (p *Projects) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		name := p.projects[p.cursor].Name
		if err := repository.NewProjectRepo(p.db).Delete(p.projects[p.cursor].ID); err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Deleted project: %s", name)
		}
		p.mode = projectsModeList
		return p.loadData

	case "n", "N", "esc":
		p.mode = projectsModeList
	}
	return nil
}

func (p *Projects) handleMoveKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if p.clientCursor > 0 {
			p.clientCursor--
		}
	case "down", "j":
		if p.clientCursor < len(p.clients)-1 {
			p.clientCursor++
		}
	case "enter":
		clientID := p.clients[p.clientCursor].ID
		if err := repository.NewProjectRepo(p.db).SetClient(p.projects[p.cursor].ID, &clientID); err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Moved to %s", p.clients[p.clientCursor].Name)
		}
		p.mode = projectsModeList
		return p.loadData

	case "esc":
		p.mode = projectsModeList
	}
	return nil
}

func (p *Projects) View() string {
	var b strings.Builder

	title := "PROJECTS"
	if p.clientFilter != nil {
		for _, c := range p.clients {
			if c.ID == *p.clientFilter {
				title = fmt.Sprintf("PROJECTS - %s", c.Name)
				break
			}
		}
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if p.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", p.err)))
		b.WriteString("\n\n")
		p.err = nil
	}

	if p.message != "" {
		b.WriteString(SuccessStyle.Render(p.message))
		b.WriteString("\n\n")
	}

	if p.inputting() {
		if p.mode == projectsModeAdd {
			b.WriteString("New project:\n\n")
		} else {
			b.WriteString("Edit project:\n\n")
		}
		b.WriteString("Code  " + p.codeInput.View() + "\n")
		b.WriteString("Name  " + p.nameInput.View() + "\n\n")
		b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Save  [esc] Cancel"))
		return b.String()
	}

	if p.mode == projectsModeDelete && len(p.projects) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete project '%s'? Saved weeks keep their copy of it. (y/n)",
			p.projects[p.cursor].Name,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if p.mode == projectsModeMove {
		b.WriteString("Move to client:\n\n")
		for i, c := range p.clients {
			b.WriteString(cursorLine(i == p.clientCursor, c.Name))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[enter] Select  [esc] Cancel"))
		return b.String()
	}

	if len(p.projects) == 0 {
		b.WriteString(DimStyle.Render("No projects yet."))
		b.WriteString("\n\n")
	} else {
		for i, proj := range p.projects {
			client := "(no client)"
			if proj.ClientName != "" {
				client = fmt.Sprintf("(%s)", proj.ClientName)
			}
			line := fmt.Sprintf("%s  %s %s - %d weeks", proj.Code, proj.Name, client, proj.WeekCount)
			b.WriteString(cursorLine(i == p.cursor, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [e] Edit  [d] Delete  [m] Move  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
