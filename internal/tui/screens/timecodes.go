package screens

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/weeksheet/internal/models"
	"github.com/emilianohg/weeksheet/internal/repository"
)

type timeCodesMode int

const (
	timeCodesModeList timeCodesMode = iota
	timeCodesModeAdd
	timeCodesModeDelete
)

const (
	fieldID = iota
	fieldName
	fieldGroup
	fieldDescription
)

var timeCodeFieldLabels = []string{"Code", "Name", "Group", "Description"}

type TimeCodes struct {
	db     *sql.DB
	width  int
	height int

	codes    []models.TimeCode
	category models.Category
	cursor   int
	mode     timeCodesMode
	inputs   []textinput.Model
	focus    int
	loading  bool
	err      error
	message  string
}

func NewTimeCodes(db *sql.DB) *TimeCodes {
	inputs := make([]textinput.Model, len(timeCodeFieldLabels))
	for i, label := range timeCodeFieldLabels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 100
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldID].CharLimit = 8

	return &TimeCodes{
		db:       db,
		category: models.Chargeable,
		inputs:   inputs,
	}
}

func (t *TimeCodes) SetSize(width, height int) {
	t.width = width
	t.height = height
}

type timeCodesDataMsg struct {
	codes []models.TimeCode
	err   error
}

func (t *TimeCodes) Init() tea.Cmd {
	t.loading = true
	t.mode = timeCodesModeList
	t.message = ""
	return t.loadData
}

func (t *TimeCodes) loadData() tea.Msg {
	codes, err := repository.NewTimeCodeRepo(t.db).GetAll()
	return timeCodesDataMsg{codes: codes, err: err}
}

// visible returns the codes of the selected category.
func (t *TimeCodes) visible() []models.TimeCode {
	var out []models.TimeCode
	for _, c := range t.codes {
		if c.Category == t.category {
			out = append(out, c)
		}
	}
	return out
}

func (t *TimeCodes) Update(msg tea.Msg) tea.Cmd {
	if t.mode == timeCodesModeAdd {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return t.handleInputKey()
			case "tab", "down":
				return t.focusInput((t.focus + 1) % len(t.inputs))
			case "shift+tab", "up":
				return t.focusInput((t.focus + len(t.inputs) - 1) % len(t.inputs))
			case "esc":
				t.mode = timeCodesModeList
				t.inputs[t.focus].Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		t.inputs[t.focus], cmd = t.inputs[t.focus].Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case timeCodesDataMsg:
		t.loading = false
		t.err = msg.err
		t.codes = msg.codes
		t.clampCursor()
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		switch t.mode {
		case timeCodesModeList:
			return t.handleListKey(msg)
		case timeCodesModeDelete:
			return t.handleDeleteKey(msg)
		}
	}

	return nil
}

func (t *TimeCodes) clampCursor() {
	if n := len(t.visible()); t.cursor >= n {
		t.cursor = max(0, n-1)
	}
}

func (t *TimeCodes) focusInput(i int) tea.Cmd {
	t.inputs[t.focus].Blur()
	t.focus = i
	return t.inputs[t.focus].Focus()
}

func (t *TimeCodes) handleListKey(msg tea.KeyMsg) tea.Cmd {
	visible := t.visible()
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(visible)-1 {
			t.cursor++
		}
	case "tab", "f":
		if t.category == models.Chargeable {
			t.category = models.NonChargeable
		} else {
			t.category = models.Chargeable
		}
		t.cursor = 0
	case "a":
		t.mode = timeCodesModeAdd
		for i := range t.inputs {
			t.inputs[i].SetValue("")
			t.inputs[i].Blur()
		}
		if len(visible) > 0 {
			t.inputs[fieldGroup].SetValue(visible[t.cursor].Group)
		}
		t.focus = fieldID
		return t.inputs[fieldID].Focus()
	case "d":
		if len(visible) > 0 {
			t.mode = timeCodesModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (t *TimeCodes) handleInputKey() tea.Cmd {
	tc := models.TimeCode{
		ID:          strings.ToUpper(strings.TrimSpace(t.inputs[fieldID].Value())),
		Name:        strings.TrimSpace(t.inputs[fieldName].Value()),
		Group:       strings.TrimSpace(t.inputs[fieldGroup].Value()),
		Description: strings.TrimSpace(t.inputs[fieldDescription].Value()),
		Category:    t.category,
	}
	if tc.ID == "" || tc.Name == "" || tc.Group == "" {
		t.err = fmt.Errorf("code, name and group are required")
		return nil
	}
	if tc.Description == "" {
		tc.Description = tc.Name
	}

	if _, err := repository.NewTimeCodeRepo(t.db).Create(tc); err != nil {
		t.err = err
	} else {
		t.message = fmt.Sprintf("Created time code: %s %s", tc.ID, tc.Name)
	}
	t.mode = timeCodesModeList
	t.inputs[t.focus].Blur()
	return t.loadData
}

func (t *TimeCodes) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		code := t.visible()[t.cursor]
		if err := repository.NewTimeCodeRepo(t.db).Delete(code.ID); err != nil {
			t.err = err
		} else {
			t.message = fmt.Sprintf("Deleted time code: %s", code.ID)
		}
		t.mode = timeCodesModeList
		return t.loadData

	case "n", "N", "esc":
		t.mode = timeCodesModeList
	}
	return nil
}

func (t *TimeCodes) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TIME CODES"))
	b.WriteString("\n")
	for _, cat := range []models.Category{models.Chargeable, models.NonChargeable} {
		if cat == t.category {
			b.WriteString(SelectedStyle.Render("[" + cat.Label() + "]"))
		} else {
			b.WriteString(DimStyle.Render(" " + cat.Label() + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if t.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
		b.WriteString("\n\n")
		t.err = nil
	}

	if t.message != "" {
		b.WriteString(SuccessStyle.Render(t.message))
		b.WriteString("\n\n")
	}

	if t.mode == timeCodesModeAdd {
		b.WriteString(fmt.Sprintf("New %s time code:\n\n", strings.ToLower(t.category.Label())))
		for i, label := range timeCodeFieldLabels {
			b.WriteString(fmt.Sprintf("%-12s %s\n", label, t.inputs[i].View()))
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Save  [esc] Cancel"))
		return b.String()
	}

	visible := t.visible()
	if t.mode == timeCodesModeDelete && len(visible) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete time code '%s %s'? Saved weeks keep their copy of it. (y/n)",
			visible[t.cursor].ID, visible[t.cursor].Name,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(visible) == 0 {
		b.WriteString(DimStyle.Render("No time codes in this category."))
		b.WriteString("\n\n")
	} else {
		group := ""
		for i, c := range visible {
			if c.Group != group {
				group = c.Group
				b.WriteString(SubtitleStyle.Render(group))
				b.WriteString("\n")
			}
			line := fmt.Sprintf("%-5s %s", c.ID, c.Name)
			b.WriteString(cursorLine(i == t.cursor, line))
			if c.Description != "" && c.Description != c.Name {
				b.WriteString(DimStyle.Render("  " + c.Description))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[tab] Switch category  [a] Add  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
