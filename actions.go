package main

import (
	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/grid"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// isTyping is true while keys belong to a text input, a form or a prompt
// rather than to the table.
func isTyping() bool {
	pageName, _ := FP.Pages.GetFrontPage()
	switch pageName {
	case PagePrompt, PageAmount:
		return true
	}

	_, ok := FP.App.GetFocus().(*tview.InputField)

	return ok
}

// activeTable returns the view and controller of the table page in front,
// or false when no table page is in front.
func activeTable() (*tableView, *grid.Controller, bool) {
	pageName, _ := FP.Pages.GetFrontPage()

	view, ok := FP.Views[pageName]
	if !ok {
		return nil, nil, false
	}

	return view, FP.Controllers[pageName], true
}

func actionUndo(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	_, ctl, ok := activeTable()
	if !ok {
		return e
	}

	ctl.Undo()

	return nil
}

func actionRedo(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	_, ctl, ok := activeTable()
	if !ok {
		return e
	}

	ctl.Redo()

	return nil
}

func actionEdit(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	view, _, ok := activeTable()
	if !ok || FP.App.GetFocus() != view.table {
		return e
	}

	view.activate(view.table.GetSelection())

	return nil
}

func actionDelete(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	view, ctl, ok := activeTable()
	if !ok {
		return e
	}

	row, _, ok := view.selected()
	if !ok {
		return nil
	}

	ctl.DeleteRow(row)

	return nil
}

func actionAmount(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	view, ctl, ok := activeTable()
	if !ok {
		return e
	}

	row, field, ok := view.selected()
	if !ok {
		return nil
	}

	ctl.EditAmount(row, field)

	return nil
}

func actionReload(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	_, ctl, ok := activeTable()
	if !ok {
		return e
	}

	ctl.Reload()

	return nil
}

func actionFilter(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	view, _, ok := activeTable()
	if !ok {
		return e
	}

	view.startFilter()

	return nil
}

// switchToTable shows a table page. When it is already showing, the table
// gets the focus back.
func switchToTable(page string) {
	view, ok := FP.Views[page]
	if !ok {
		return
	}

	FP.ActivePage = page
	FP.Pages.SwitchToPage(page)
	FP.App.SetFocus(view.table)

	setBottomPageNavText()
	renderStatus()
}

func actionTable(e *tcell.EventKey, page string) *tcell.EventKey {
	if isTyping() {
		return e
	}

	switchToTable(page)

	return nil
}

func actionSummary(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	updateSummary()
	FP.Pages.SwitchToPage(PageSummary)
	FP.App.SetFocus(FP.SummaryTable)
	setBottomPageNavText()

	return nil
}

func actionHelp(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	FP.Pages.SwitchToPage(PageHelp)
	FP.App.SetFocus(FP.HelpTextView)
	setBottomPageNavText()

	return nil
}

func actionEsc(e *tcell.EventKey) *tcell.EventKey {
	if isTyping() {
		return e
	}

	pageName, _ := FP.Pages.GetFrontPage()
	switch pageName {
	case PageHelp, PageSummary:
		switchToTable(FP.ActivePage)

		return nil
	}

	view, _, ok := activeTable()
	if ok && view.filter != "" {
		view.setFilter("")

		return nil
	}

	promptExit()

	return nil
}

func actionQuit() *tcell.EventKey {
	promptExit()

	return nil
}

// action is the primary decision tree that is triggered when a key event
// is triggered. Please ensure that every case statement has a return.
//
//nolint:cyclop
func action(action string, e *tcell.EventKey) *tcell.EventKey {
	if e == nil {
		return nil
	}

	switch action {
	case c.ActionUndo:
		return actionUndo(e)
	case c.ActionRedo:
		return actionRedo(e)
	case c.ActionEdit:
		return actionEdit(e)
	case c.ActionDelete:
		return actionDelete(e)
	case c.ActionAmount:
		return actionAmount(e)
	case c.ActionReload:
		return actionReload(e)
	case c.ActionFilter:
		return actionFilter(e)
	case c.ActionGambles:
		return actionTable(e, PageGambles)
	case c.ActionBank:
		return actionTable(e, PageBank)
	case c.ActionSummary:
		return actionSummary(e)
	case c.ActionHelp:
		return actionHelp(e)
	case c.ActionEsc:
		return actionEsc(e)
	case c.ActionQuit:
		return actionQuit()
	default:
		return e
	}
}
