package models

// ChangeSource says what caused a change notification from the grid widget.
// Only SourceEdit is a genuine user edit.
type ChangeSource string

const (
	SourceEdit       ChangeSource = "edit"
	SourceLoad       ChangeSource = "loadData"
	SourceReplay     ChangeSource = "replay"
	SourceAmountEdit ChangeSource = "amountEdit"
)

// Change is one edited cell.
type Change struct {
	Row   int
	Field string
	Old   any
	New   any
}
