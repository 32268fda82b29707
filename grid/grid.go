// Package grid binds an editable table widget to one table kind on the
// backend. It records genuine edits in the table's history, persists the
// whole table after every edit, replays undo/redo snapshots and runs the
// delete and amount-edit flows.
//
// A Controller's state is only touched from the UI event loop. Network calls
// are handed to the Scheduler's Go and their results are delivered back
// through Scheduler.UI, so a Controller needs no locking.
package grid

import (
	"context"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/remote"
)

// Widget is the table that displays and edits the records.
//
// When the user commits a cell edit the widget must call the controller's
// BeforeChange hook before applying the value and AfterChange after it, with
// models.SourceEdit. Programmatic changes (LoadData, SetValue) pass their own
// source. User edits are refused while Controller.Replaying is true.
type Widget interface {
	// Data returns a copy of every row as positional cells ordered by the
	// kind's columns, in display order. Rows hidden by a filter are
	// included.
	Data() [][]any
	// SourceRow returns the record displayed at the given row index, or nil
	// when there is none.
	SourceRow(row int) models.Record
	// LoadData replaces all rows.
	LoadData(s models.Snapshot)
	Render()
	// SetValue writes a single cell in the row holding the record id.
	SetValue(id int64, field string, v any, source models.ChangeSource)
}

// UI is what the controller needs from the surrounding screen.
type UI interface {
	// Notify shows a message the user must dismiss.
	Notify(msg string)
	// Confirm asks a yes/no question and calls done with the answer.
	Confirm(msg string, done func(ok bool))
	// ShowNotice replaces the table with an inline notice. An empty msg
	// shows the table again.
	ShowNotice(msg string)
	// PromptAmounts asks for a start and end amount, prefilled from req.
	PromptAmounts(req AmountRequest, done func(start, end string, ok bool))
	// Status is called whenever the controller's Status changes.
	Status(st Status)
}

// Scheduler moves work off and back onto the UI event loop.
type Scheduler interface {
	// Go runs fn away from the UI loop.
	Go(fn func())
	// UI queues fn onto the UI loop.
	UI(fn func())
	// After queues fn onto the UI loop once d has passed.
	After(d time.Duration, fn func())
}

// Store is the remote table. *remote.Client satisfies it.
type Store interface {
	FetchAll(ctx context.Context) (models.Snapshot, error)
	PersistAll(ctx context.Context, rows remote.Rows) (remote.Ack, error)
	DeleteOne(ctx context.Context, id int64) (remote.Ack, error)
}

// AmountStore serves the single-record endpoints used by the amount editor.
// *remote.Client satisfies it.
type AmountStore interface {
	FetchOne(ctx context.Context, id int64) (models.Record, error)
	UpdateOne(ctx context.Context, patch models.GamblePatch) (remote.Ack, error)
}

// Status describes a table for the status line.
type Status struct {
	Kind string
	Undo int
	Redo int
	// Loaded is false until a fetch has succeeded.
	Loaded bool
	// Unsynced is set when the last write to the server failed and the
	// table may differ from what the server holds.
	Unsynced bool
	// Balance is the last balance report the server attached to a reply.
	Balance *models.Balance
	Message string
	IsError bool
}
