package main

import (
	"fmt"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/grid"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const amountFieldWidth = 20

// getAmountPage builds the amount editor page: a small form centered on an
// otherwise empty page.
func getAmountPage() *tview.Flex {
	FP.AmountForm = tview.NewForm()
	FP.AmountForm.SetBorder(true)
	FP.AmountForm.SetLabelColor(tcell.ColorViolet)
	FP.AmountForm.SetFieldBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(FP.AmountForm, 9, 0, true).
		AddItem(nil, 0, 1, false)

	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(column, 50, 0, true).
		AddItem(nil, 0, 1, false)
}

// promptAmounts shows the amount editor prefilled from req. done is called
// exactly once, with ok false when the user cancels.
func promptAmounts(req grid.AmountRequest, done func(start, end string, ok bool)) {
	currentPage, _ := FP.Pages.GetFrontPage()
	if currentPage == PagePrompt || currentPage == PageAmount {
		done("", "", false)

		return
	}

	prev := currentPage

	start, end := req.Start, req.End
	finished := false

	finish := func(ok bool) {
		if finished {
			return
		}

		finished = true

		FP.Pages.SwitchToPage(prev)
		focusPage(prev)
		setBottomPageNavText()

		done(start, end, ok)
	}

	label := FP.T["AmountFormWin"]
	if req.Field == grid.FreeWinFamily.Field {
		label = FP.T["AmountFormFreeWin"]
	}

	FP.AmountForm.Clear(true).
		AddInputField(FP.T["AmountFormStart"], req.Start, amountFieldWidth, nil, func(text string) {
			start = text
		}).
		AddInputField(FP.T["AmountFormEnd"], req.End, amountFieldWidth, nil, func(text string) {
			end = text
		}).
		AddButton(FP.T["AmountFormSave"], func() { finish(true) }).
		AddButton(FP.T["AmountFormCancel"], func() { finish(false) }).
		SetCancelFunc(func() { finish(false) })

	FP.AmountForm.SetTitle(fmt.Sprintf(" %v #%d ", label, req.ID))
	FP.AmountForm.SetFocus(0)

	FP.Pages.SwitchToPage(PageAmount)
	FP.App.SetFocus(FP.AmountForm)
	setBottomPageNavText()
}
