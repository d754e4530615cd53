package timesheet

import "slices"

// EditKind identifies which cell of a row is being edited.
type EditKind int

const (
	EditNone EditKind = iota
	EditProject
	EditTimeCode
	EditHours
)

func (k EditKind) String() string {
	switch k {
	case EditProject:
		return "project"
	case EditTimeCode:
		return "time_code"
	case EditHours:
		return "hours"
	default:
		return "none"
	}
}

// EditTarget is the single open editor of the grid. DateKey is only set
// for hour cells.
type EditTarget struct {
	Kind    EditKind
	EntryID int
	DateKey string
}

func ProjectCell(entryID int) EditTarget {
	return EditTarget{Kind: EditProject, EntryID: entryID}
}

func TimeCodeCell(entryID int) EditTarget {
	return EditTarget{Kind: EditTimeCode, EntryID: entryID}
}

func HourCell(entryID int, dateKey string) EditTarget {
	return EditTarget{Kind: EditHours, EntryID: entryID, DateKey: dateKey}
}

// Active reports whether an editor is open.
func (t EditTarget) Active() bool {
	return t.Kind != EditNone
}

// Editing returns the open editor, or a target of kind EditNone.
func (g *Grid) Editing() EditTarget {
	return g.editing
}

// IsEditing reports whether t is the open editor.
func (g *Grid) IsEditing(t EditTarget) bool {
	return t.Active() && g.editing == t
}

// OpenEditor opens t, closing whichever editor was open before.
func (g *Grid) OpenEditor(t EditTarget) error {
	if !t.Active() {
		g.CloseEditor()
		return nil
	}
	if g.indexOf(t.EntryID) < 0 {
		return reject(ErrUnknownEntry, t.EntryID, "")
	}
	if t.Kind == EditHours && !slices.Contains(DateKeys(g.WeekDates()), t.DateKey) {
		return reject(ErrCellNotInWeek, t.EntryID, t.DateKey)
	}
	if t.Kind != EditHours {
		t.DateKey = ""
	}

	g.editing = t
	g.logger.Debug("editor opened", "entry", t.EntryID, "cell", t.Kind.String(), "date", t.DateKey)
	return nil
}

// CloseEditor closes the open editor without committing anything.
func (g *Grid) CloseEditor() {
	g.editing = EditTarget{}
}

// CommitHours commits raw to the open hour cell and closes it. The editor
// is closed even when the value is rejected; the cell keeps its prior value.
func (g *Grid) CommitHours(raw string) error {
	t := g.editing
	if t.Kind != EditHours {
		return reject(ErrNotEditingHours, 0, raw)
	}
	g.CloseEditor()
	return g.ChangeHours(t.EntryID, t.DateKey, raw)
}
