package main

import (
	"fmt"
	"strings"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"

	"github.com/rivo/tview"
)

type navItem struct {
	action string
	page   string
	label  string
}

// getBottomPageNavText renders the page shortcuts shown at the bottom of the
// screen, highlighting the current page.
func getBottomPageNavText(current string, actionBindings map[string][]string, t, colors map[string]string) string {
	items := []navItem{
		{action: c.ActionGambles, page: PageGambles, label: t["NavGambles"]},
		{action: c.ActionBank, page: PageBank, label: t["NavBank"]},
		{action: c.ActionSummary, page: PageSummary, label: t["NavSummary"]},
		{action: c.ActionHelp, page: PageHelp, label: t["NavHelp"]},
		{action: c.ActionQuit, label: t["NavQuit"]},
	}

	var sb strings.Builder

	for _, item := range items {
		key := firstKey(actionBindings, item.action)
		if key == "" {
			continue
		}

		textColor := colors[c.ColorNavText]
		if item.page != "" && item.page == current {
			textColor = colors[c.ColorNavActive]
		}

		sb.WriteString(fmt.Sprintf("%v%v %v%v%v  ",
			colors[c.ColorNavKey],
			tview.Escape(key),
			textColor,
			item.label,
			c.RESET_STYLE,
		))
	}

	return strings.TrimRight(sb.String(), " ")
}

func setBottomPageNavText() {
	if FP.BottomPageNavText == nil {
		return
	}

	current, _ := FP.Pages.GetFrontPage()

	FP.BottomPageNavText.SetText(getBottomPageNavText(current, FP.ActionBindings, FP.T, FP.Colors))
}
