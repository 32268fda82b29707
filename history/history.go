// Package history keeps the linear undo/redo history of a table as two stacks
// of full-table snapshots.
//
// The live table state is never stored: a snapshot of it is pushed onto one
// stack immediately before the table changes. A genuine edit clears the redo
// stack, so there is no branching.
package history

import (
	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"
)

// Mode guards edit recording while a stored snapshot is being loaded back
// into the table.
type Mode int

const (
	Idle Mode = iota
	Replaying
)

func (m Mode) String() string {
	switch m {
	case Replaying:
		return "replaying"
	default:
		return "idle"
	}
}

// History is owned by a single table controller. It is not safe for
// concurrent use; all calls happen on the UI event loop.
type History struct {
	undo []models.Snapshot
	redo []models.Snapshot
	mode Mode
}

func New() *History {
	return &History{}
}

// RecordBeforeEdit stores a copy of the live table ahead of a change. It does
// nothing while replaying or when the change was not a user edit. The
// return value reports whether a snapshot was stored.
func (h *History) RecordBeforeEdit(live models.Snapshot, source models.ChangeSource) bool {
	if h.mode == Replaying || source != models.SourceEdit {
		return false
	}

	h.undo = append(h.undo, live.Clone())
	h.redo = nil

	return true
}

// Undo moves the live table onto the redo stack and returns the most recent
// prior state. ok is false when there is nothing to undo.
//
// The caller must replay the returned snapshot: BeginReplay, load and render
// it, EndReplay, then persist it.
func (h *History) Undo(live models.Snapshot) (models.Snapshot, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}

	h.redo = append(h.redo, live.Clone())

	return pop(&h.undo), true
}

// Redo is the mirror of Undo.
func (h *History) Redo(live models.Snapshot) (models.Snapshot, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}

	h.undo = append(h.undo, live.Clone())

	return pop(&h.redo), true
}

func pop(stack *[]models.Snapshot) models.Snapshot {
	s := *stack
	top := s[len(s)-1]
	s[len(s)-1] = nil
	*stack = s[:len(s)-1]

	return top
}

func (h *History) BeginReplay() { h.mode = Replaying }

func (h *History) EndReplay() { h.mode = Idle }

func (h *History) Mode() Mode { return h.mode }

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Reset drops both stacks, for example after the table is reloaded from the
// server and the stored states no longer describe it.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
