package timesheet

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRangeHours           = errors.New("hours must be between 0 and 24")
	ErrInvalidHours              = errors.New("hours must be a number")
	ErrInvalidDate               = errors.New("invalid date")
	ErrInvalidTimeCodeForProject = errors.New("non-chargeable time codes can only be used on entries without a project")
	ErrUnknownProject            = errors.New("project not found")
	ErrUnknownTimeCode           = errors.New("time code not found")
	ErrUnknownEntry              = errors.New("entry not found")
	ErrNoPendingDelete           = errors.New("no delete awaiting confirmation")
	ErrCellNotInWeek             = errors.New("date is outside the visible week")
	ErrNotEditingHours           = errors.New("no hour cell is being edited")
)

// EditError is returned by every rejected grid operation. The grid is left
// unchanged whenever one is returned.
type EditError struct {
	Kind    error
	EntryID int
	Value   string
}

func (e *EditError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Kind.Error(), e.Value)
	}
	return e.Kind.Error()
}

func (e *EditError) Unwrap() error { return e.Kind }

func reject(kind error, entryID int, value string) error {
	return &EditError{Kind: kind, EntryID: entryID, Value: value}
}
