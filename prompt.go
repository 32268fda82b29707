package main

import (
	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// This file mainly contains functions for the hidden prompt page in the
// application.

// showPrompt remembers the page to return to and switches to the prompt page.
// It reports false when a prompt is already showing.
func showPrompt() bool {
	currentPage, _ := FP.Pages.GetFrontPage()
	if currentPage == PagePrompt {
		return false
	}

	FP.PrevPage = currentPage

	return true
}

// closePrompt goes back to the page that was shown before the prompt.
func closePrompt() {
	FP.PromptDismiss = nil

	FP.Pages.SwitchToPage(FP.PrevPage)
	focusPage(FP.PrevPage)
	setBottomPageNavText()
}

func promptExit() {
	if !showPrompt() {
		return
	}

	FP.PromptBox.ClearButtons().AddButtons(
		[]string{
			FP.T["PromptExitButtonExit"],
			FP.T["PromptExitButtonCancel"],
		},
	).SetText(FP.T["PromptExitText"]).SetDoneFunc(
		func(buttonIndex int, buttonLabel string) {
			switch buttonIndex {
			case 0:
				FP.App.Stop()
			default:
				closePrompt()
			}
		},
	).SetBackgroundColor(tcell.GetColor(FP.Colors[c.ColorPromptExit])).
		SetTextColor(tcell.ColorBlack)

	FP.Pages.SwitchToPage(PagePrompt)
	FP.PromptBox.SetFocus(1)
	FP.App.SetFocus(FP.PromptBox)
}

// promptConfirm asks a yes/no question. The answer defaults to no.
func promptConfirm(msg string, done func(ok bool)) {
	if !showPrompt() {
		done(false)

		return
	}

	FP.PromptDismiss = func() { done(false) }

	FP.PromptBox.ClearButtons().AddButtons(
		[]string{
			FP.T["PromptConfirmButtonYes"],
			FP.T["PromptConfirmButtonNo"],
		},
	).SetText(msg).SetDoneFunc(
		func(buttonIndex int, buttonLabel string) {
			closePrompt()
			done(buttonIndex == 0)
		},
	).SetBackgroundColor(tcell.GetColor(FP.Colors[c.ColorPromptConfirm])).
		SetTextColor(tcell.ColorBlack)

	FP.Pages.SwitchToPage(PagePrompt)
	FP.PromptBox.SetFocus(1)
	FP.App.SetFocus(FP.PromptBox)
}

// promptNotify shows msg until the user dismisses it. When a prompt is
// already showing, msg replaces it and the earlier prompt is dropped, which
// for a confirmation means no.
func promptNotify(msg string) {
	if !showPrompt() && FP.PromptDismiss != nil {
		dismiss := FP.PromptDismiss
		FP.PromptDismiss = nil

		dismiss()
	}

	FP.PromptBox.ClearButtons().AddButtons(
		[]string{FP.T["PromptNotifyButtonOK"]},
	).SetText(msg).SetDoneFunc(
		func(buttonIndex int, buttonLabel string) {
			closePrompt()
		},
	).SetBackgroundColor(tcell.GetColor(FP.Colors[c.ColorPromptNotify])).
		SetTextColor(tcell.ColorWhite)

	FP.Pages.SwitchToPage(PagePrompt)
	FP.PromptBox.SetFocus(0)
	FP.App.SetFocus(FP.PromptBox)
}

// promptKBMode switches to the prompt page and shows a modal that informs the
// user that they are in keyboard echo mode. If KB echo mode is not enabled,
// this gracefully returns immediately and does nothing.
//
// Requires the first argument to be the translation map.
func promptKBMode(t map[string]string) {
	if !FP.FlagKeyboardEchoMode {
		return
	}

	// temporarily turn off KB echo mode so that the user's keys are captured
	// properly until they can give consent to entering the mode
	FP.FlagKeyboardEchoMode = false

	if !showPrompt() {
		return
	}

	FP.PromptBox.ClearButtons().AddButtons(
		[]string{
			t["PromptKeyboardEchoModeButtonTurnOff"],
			t["PromptKeyboardEchoModeButtonExitNow"],
			t["PromptKeyboardEchoModeButtonContinue"],
		},
	).SetText(t["PromptKeyboardEchoModeText"]).SetDoneFunc(
		func(buttonIndex int, buttonLabel string) {
			switch buttonIndex {
			case 0:
				FP.FlagKeyboardEchoMode = false
				closePrompt()
				renderStatus()
			case 2:
				FP.FlagKeyboardEchoMode = true
				closePrompt()
			default:
				FP.FlagKeyboardEchoMode = false
				FP.App.Stop()
			}
		},
	).SetBackgroundColor(tcell.ColorDimGray).
		SetTextColor(tcell.ColorWhite)

	FP.Pages.SwitchToPage(PagePrompt)
	FP.PromptBox.SetFocus(2)
	FP.App.SetFocus(FP.PromptBox)
}

// focusPage moves the focus to the main primitive of a page.
func focusPage(page string) {
	var p tview.Primitive

	switch page {
	case PageGambles, PageBank:
		if v, ok := FP.Views[page]; ok {
			p = v.table
		}
	case PageSummary:
		p = FP.SummaryTable
	case PageHelp:
		p = FP.HelpTextView
	case PageAmount:
		p = FP.AmountForm
	}

	if p != nil {
		FP.App.SetFocus(p)
	}
}
