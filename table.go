package main

import (
	"errors"
	"fmt"
	"strings"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/lib"
	m "git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	subPageTable  = "table"
	subPageNotice = "notice"
)

var (
	errStaleRow = errors.New("the row changed while it was being edited")
	errReplay   = errors.New("an undo or redo is still being applied")
)

// changeHooks is notified around every cell edit made by the user.
// *grid.Controller satisfies it.
type changeHooks interface {
	BeforeChange(source m.ChangeSource)
	AfterChange(source m.ChangeSource)
	Replaying() bool
}

// tableView is an editable tview table bound to one table kind. It keeps all
// rows in display order; a filter only hides rows from the screen.
type tableView struct {
	kind   m.Kind
	t      map[string]string
	colors map[string]string
	app    *tview.Application
	hooks  changeHooks

	// onAmount opens the amount editor for a display row and field.
	onAmount func(row int, field string)

	rows m.Snapshot
	// indexes into rows of the rows currently on screen
	visible []int
	// the sort column followed by Asc/Desc, or None
	sort   string
	filter string

	table  *tview.Table
	input  *tview.InputField
	notice *tview.TextView
	pages  *tview.Pages
	layout *tview.Flex

	// The previously focused primitive, restored when the input closes.
	previous tview.Primitive
}

func newTableView(kind m.Kind, t, colors map[string]string, app *tview.Application) *tableView {
	tv := &tableView{
		kind:   kind,
		t:      t,
		colors: colors,
		app:    app,
		rows:   m.Snapshot{},
		sort:   lib.SortValue(kind.SortField, kind.SortDesc),
	}

	tv.table = tview.NewTable().
		SetFixed(1, 0).
		SetSelectable(true, true).
		SetSeparator(' ')
	tv.table.SetSelectedFunc(tv.activate)
	tv.table.SetMouseCapture(tv.mouse)

	tv.input = tview.NewInputField()
	tv.notice = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)

	tv.pages = tview.NewPages().
		AddPage(subPageTable, tv.table, true, true).
		AddPage(subPageNotice, tv.notice, true, false)

	tv.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tv.pages, 0, 1, true).
		AddItem(tv.input, 1, 0, false)
	tv.layout.SetBorder(true)

	tv.deactivateInput()
	tv.Render()

	return tv
}

func (tv *tableView) tr(key, fallback string) string {
	if v, ok := tv.t[key]; ok && v != "" {
		return v
	}

	return fallback
}

func (tv *tableView) setFocus(p tview.Primitive) {
	if tv.app != nil && p != nil {
		tv.app.SetFocus(p)
	}
}

// Data returns every row, including filtered ones, as positional cells.
func (tv *tableView) Data() [][]any {
	return tv.rows.Positional(tv.kind)
}

// SourceRow returns the record on the given display row, not counting the
// header.
func (tv *tableView) SourceRow(row int) m.Record {
	if row < 0 || row >= len(tv.visible) {
		return nil
	}

	return tv.rows[tv.visible[row]]
}

func (tv *tableView) LoadData(s m.Snapshot) {
	tv.rows = s.Clone()
	if tv.rows == nil {
		tv.rows = m.Snapshot{}
	}

	tv.applySort()
	tv.refreshVisible()
}

// SetValue writes one cell of the row holding id. Only SourceEdit goes
// through the change hooks.
func (tv *tableView) SetValue(id int64, field string, v any, source m.ChangeSource) {
	for _, r := range tv.rows {
		if r.ID() != id {
			continue
		}

		if source == m.SourceEdit {
			tv.change(func() { r[field] = v })

			return
		}

		r[field] = v

		return
	}
}

func (tv *tableView) applySort() {
	field, desc, ok := lib.ParseSort(tv.sort)
	if !ok {
		return
	}

	lib.SortRecords(tv.rows, field, desc)
}

func (tv *tableView) refreshVisible() {
	fields := tv.kind.Fields()

	tv.visible = tv.visible[:0]

	for i, r := range tv.rows {
		if lib.MatchesFilter(r, fields, tv.filter) {
			tv.visible = append(tv.visible, i)
		}
	}
}

// Render redraws the whole table, keeping the selection where it was.
func (tv *tableView) Render() {
	selRow, selCol := tv.table.GetSelection()

	tv.refreshVisible()
	tv.table.Clear()

	sortField, desc, sorted := lib.ParseSort(tv.sort)

	for j, col := range tv.kind.Columns {
		arrow := ""

		if sorted && sortField == col.Field {
			arrow = "↑"
			if desc {
				arrow = "↓"
			}
		}

		tv.table.SetCell(0, j, tview.NewTableCell(fmt.Sprintf(
			"%v%v%v%v",
			tv.colors[c.ColorHeader],
			arrow,
			col.Header,
			c.RESET_STYLE,
		)).SetAlign(tview.AlignCenter).SetExpansion(col.Expand))
	}

	for i, idx := range tv.visible {
		r := tv.rows[idx]

		for j, col := range tv.kind.Columns {
			cell := tview.NewTableCell(tv.cellText(r, col)).SetExpansion(col.Expand)
			if col.Type == m.ColumnNumeric {
				cell.SetAlign(tview.AlignRight)
			}

			tv.table.SetCell(i+1, j, cell)
		}
	}

	if selRow > len(tv.visible) {
		selRow = len(tv.visible)
	}

	if selRow < 1 && len(tv.visible) > 0 {
		selRow = 1
	}

	tv.table.Select(selRow, selCol)

	title := tv.tr(tv.kind.Title, tv.kind.Name)
	if tv.filter != "" {
		tv.layout.SetTitle(fmt.Sprintf(" %v (%d/%d) %v: %v ", title, len(tv.visible), len(tv.rows), tv.tr("FilterTitle", "filter"), tview.Escape(tv.filter)))

		return
	}

	tv.layout.SetTitle(fmt.Sprintf(" %v (%d) ", title, len(tv.rows)))
}

// cellText renders a single value with its theme colour.
func (tv *tableView) cellText(r m.Record, col m.Column) string {
	v := r[col.Field]
	if v == nil {
		return ""
	}

	color := tv.colors[c.ColorColumnText]
	text := tview.Escape(m.String(v))

	switch {
	case col.Field == m.FieldID:
		color = tv.colors[c.ColorColumnID]
	case col.Type == m.ColumnDate:
		color = tv.colors[c.ColorColumnDate]
	case col.Field == m.FieldNote:
		color = tv.colors[c.ColorColumnNote]
	case col.Field == m.FieldType:
		color = tv.typeColor(m.String(v))
	case col.Field == m.FieldAmount:
		// bank amounts are unsigned; the type column says which way they go
		color = tv.typeColor(m.String(r[m.FieldType]))
		text = lib.FormatAsCurrency(lib.ToDecimal(v))
	case col.Type == m.ColumnNumeric:
		d := lib.ToDecimal(v)
		color = amountColor(d.Sign(), tv.colors)
		text = lib.FormatAsCurrency(d)
	}

	return fmt.Sprintf("%v%v%v", color, text, c.RESET_STYLE)
}

func (tv *tableView) typeColor(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case m.BankTypeDeposit:
		return tv.colors[c.ColorTypeDeposit]
	case m.BankTypeWithdrawal:
		return tv.colors[c.ColorTypeWithdraw]
	default:
		return tv.colors[c.ColorColumnText]
	}
}

// selected returns the display row and field under the cursor. ok is false
// on the header row or when nothing is shown.
func (tv *tableView) selected() (row int, field string, ok bool) {
	r, col := tv.table.GetSelection()
	if r < 1 || r > len(tv.visible) || col < 0 || col >= len(tv.kind.Columns) {
		return 0, "", false
	}

	return r - 1, tv.kind.Columns[col].Field, true
}

// activate handles Enter or a click on a cell: the header sorts, anything
// else opens the editor.
func (tv *tableView) activate(row, column int) {
	if column < 0 || column >= len(tv.kind.Columns) {
		return
	}

	if row == 0 {
		tv.toggleSort(tv.kind.Columns[column].Field)

		return
	}

	tv.startEdit(row-1, column)
}

// toggleSort cycles the sort on field through Asc, Desc and none. Sorting is
// a view change and never goes through the change hooks.
func (tv *tableView) toggleSort(field string) {
	tv.sort = lib.GetNextSort(tv.sort, field)
	tv.applySort()
	tv.Render()
}

func (tv *tableView) mouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	if action != tview.MouseRightClick || tv.onAmount == nil {
		return action, event
	}

	x, y := event.Position()

	row, column := tv.table.CellAt(x, y)
	if row < 1 || row > len(tv.visible) || column < 0 || column >= len(tv.kind.Columns) {
		return action, event
	}

	tv.table.Select(row, column)
	tv.onAmount(row-1, tv.kind.Columns[column].Field)

	return action, nil
}

func (tv *tableView) resetInputAutocomplete() {
	tv.input.SetAutocompleteFunc(func(currentText string) []string {
		return []string{}
	})
}

func (tv *tableView) deactivateInput() {
	tv.input.SetChangedFunc(nil)
	tv.resetInputAutocomplete()
	tv.input.SetFieldBackgroundColor(tcell.ColorBlack)
	tv.input.SetLabel(fmt.Sprintf("%v %v", tv.colors[c.ColorStatusMuted], tv.tr("EditorIdleLabel", "editor appears here when editing")))
	tv.input.SetText("")

	if tv.previous != nil {
		tv.setFocus(tv.previous)
		tv.previous = nil
	}
}

// activateInput focuses the input field, updates its label, and sets its
// background color to something noticeable.
func (tv *tableView) activateInput(label, value string) {
	tv.input.SetFieldBackgroundColor(tcell.ColorDimGray)
	tv.input.SetLabel(fmt.Sprintf("[lightgreen::b] %v%v ", label, c.RESET_STYLE))
	tv.input.SetText(value)

	if tv.app == nil {
		return
	}

	// don't mess with the previously stored focus if the input field is
	// already focused
	current := tv.app.GetFocus()
	if current == tv.input {
		return
	}

	tv.previous = current
	tv.setFocus(tv.input)
}

// startEdit opens the input field for the cell at a display row and column.
func (tv *tableView) startEdit(row, column int) {
	if row < 0 || row >= len(tv.visible) || column < 0 || column >= len(tv.kind.Columns) {
		return
	}

	col := tv.kind.Columns[column]
	if col.ReadOnly {
		return
	}

	idx := tv.visible[row]
	id := tv.rows[idx].ID()

	suggestions := col.Options
	if col.Suggest {
		suggestions = lib.UniqueValues(tv.rows, col.Field)
	}

	tv.resetInputAutocomplete()
	tv.activateInput(fmt.Sprintf("%v:", col.Header), m.String(tv.rows[idx][col.Field]))

	if len(suggestions) > 0 {
		tv.input.SetAutocompleteFunc(func(currentText string) []string {
			return lib.Suggest(suggestions, currentText)
		})
		tv.input.SetAutocompletedFunc(func(text string, _, source int) bool {
			tv.input.SetText(text)

			if source == tview.AutocompletedNavigate {
				return false
			}

			tv.finishEdit(idx, id, col, text)

			return true
		})
	}

	tv.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEscape:
			// don't save the changes
			tv.deactivateInput()
		default:
			tv.finishEdit(idx, id, col, tv.input.GetText())
		}
	})
}

// finishEdit commits the input, or keeps the editor open with an error label
// when the value is invalid.
func (tv *tableView) finishEdit(idx int, id int64, col m.Column, text string) {
	err := tv.commit(idx, id, col, text)
	if err != nil {
		tv.input.SetLabel(fmt.Sprintf("%v %v %v: %v ", tv.colors[c.ColorStatusError], tv.tr("EditorInvalidValue", "invalid value"), col.Header, tview.Escape(err.Error())))

		return
	}

	tv.deactivateInput()
}

// commit parses text for col and writes it to rows[idx] as a user edit. An
// unchanged value is not an edit. A gamble's profit follows its win and free
// win.
func (tv *tableView) commit(idx int, id int64, col m.Column, text string) error {
	if tv.hooks != nil && tv.hooks.Replaying() {
		return errReplay
	}

	if idx < 0 || idx >= len(tv.rows) || tv.rows[idx].ID() != id {
		return errStaleRow
	}

	v, err := lib.ParseCell(col, text)
	if err != nil {
		return err
	}

	rec := tv.rows[idx]

	old := rec[col.Field]
	if (old == nil) == (v == nil) && m.String(old) == m.String(v) {
		return nil
	}

	tv.change(func() {
		rec[col.Field] = v

		if lib.AffectsProfit(tv.kind, col.Field) {
			rec[m.FieldProfit] = lib.GambleProfit(rec).InexactFloat64()
		}
	})

	return nil
}

// change applies a user edit between the change hooks.
func (tv *tableView) change(apply func()) {
	if tv.hooks != nil {
		tv.hooks.BeforeChange(m.SourceEdit)
	}

	apply()
	tv.Render()

	if tv.hooks != nil {
		tv.hooks.AfterChange(m.SourceEdit)
	}
}

// startFilter opens the input field as a live filter. Enter keeps the
// filter, Esc clears it.
func (tv *tableView) startFilter() {
	tv.resetInputAutocomplete()
	tv.activateInput(tv.tr("FilterLabel", "filter:"), tv.filter)

	tv.input.SetChangedFunc(func(text string) {
		tv.setFilter(text)
	})

	tv.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			tv.setFilter("")
		}

		tv.deactivateInput()
	})
}

func (tv *tableView) setFilter(filter string) {
	tv.filter = strings.TrimSpace(filter)
	tv.Render()
}

func (tv *tableView) showNotice(msg string) {
	if msg == "" {
		tv.pages.SwitchToPage(subPageTable)

		return
	}

	tv.notice.SetText(fmt.Sprintf("\n%v%v%v", tv.colors[c.ColorNotice], tview.Escape(msg), c.RESET_STYLE))
	tv.pages.SwitchToPage(subPageNotice)
}

