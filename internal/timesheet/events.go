package timesheet

import (
	"time"

	"github.com/emilianohg/weeksheet/internal/models"
)

type EventKind string

const (
	EventEntryAdded    EventKind = "entry_added"
	EventEntryDeleted  EventKind = "entry_deleted"
	EventEntryUpdated  EventKind = "entry_updated"
	EventCommentSaved  EventKind = "comment_saved"
	EventEntriesCopied EventKind = "entries_copied"
	EventWeekChanged   EventKind = "week_changed"
	EventLoaded        EventKind = "loaded"
	EventSaved         EventKind = "saved"
	EventSubmitted     EventKind = "submitted"
)

// Event announces a change of the grid. Title and Description are set for
// events the user should be notified about. Entries is a snapshot and is
// only filled for saved and submitted timesheets.
type Event struct {
	Kind        EventKind
	EntryIDs    []int
	Title       string
	Description string
	WeekStart   time.Time
	Entries     []models.TimesheetEntry
}

// Notifies reports whether the event carries a user-facing message.
func (e Event) Notifies() bool {
	return e.Title != ""
}

// Subscribe registers fn for every event emitted after the call and returns
// a function that removes it.
func (g *Grid) Subscribe(fn func(Event)) func() {
	id := g.nextListener
	g.nextListener++
	g.listeners[id] = fn
	return func() {
		delete(g.listeners, id)
	}
}

func (g *Grid) emit(ev Event) {
	if ev.WeekStart.IsZero() {
		ev.WeekStart = g.WeekDates()[0]
	}
	for id := 0; id < g.nextListener; id++ {
		if fn, ok := g.listeners[id]; ok {
			fn(ev)
		}
	}
}
