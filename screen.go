package main

import (
	"fmt"
	"strings"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/grid"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/lib"
	m "git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/rivo/tview"
)

// tableScreen is what a grid.Controller sees of the screen. Every kind gets
// its own so that notices and statuses land on the right page.
type tableScreen struct {
	kind string
	view *tableView
}

func (s *tableScreen) Notify(msg string) { promptNotify(msg) }

func (s *tableScreen) Confirm(msg string, done func(ok bool)) { promptConfirm(msg, done) }

func (s *tableScreen) ShowNotice(msg string) { s.view.showNotice(msg) }

func (s *tableScreen) PromptAmounts(req grid.AmountRequest, done func(start, end string, ok bool)) {
	promptAmounts(req, done)
}

func (s *tableScreen) Status(st grid.Status) {
	FP.Statuses[s.kind] = st

	renderStatus()
}

// getStatusText renders a table's status line. The server's balance report
// wins over the locally computed one when there is one.
func getStatusText(st grid.Status, local lib.Balance, t, colors map[string]string) string {
	parts := []string{}

	if st.Loaded {
		parts = append(parts, fmt.Sprintf("%v%v %d · %v %d", colors[c.ColorStatusMuted], t["StatusUndo"], st.Undo, t["StatusRedo"], st.Redo))
	} else {
		parts = append(parts, fmt.Sprintf("%v%v", colors[c.ColorStatusMuted], t["StatusNotLoaded"]))
	}

	if st.Unsynced {
		parts = append(parts, fmt.Sprintf("%v%v", colors[c.ColorStatusError], t["StatusUnsynced"]))
	}

	if st.Balance != nil {
		parts = append(parts, fmt.Sprintf("%v%v %v", colors[c.ColorStatusOK], t["StatusServerBalance"], lib.FromServer(*st.Balance).String()))
	} else {
		parts = append(parts, fmt.Sprintf("%v%v", colors[c.ColorStatusOK], local.String()))
	}

	if st.Message != "" {
		color := colors[c.ColorStatusMuted]
		if st.IsError {
			color = colors[c.ColorStatusError]
		}

		parts = append(parts, fmt.Sprintf("%v%v", color, tview.Escape(st.Message)))
	}

	return fmt.Sprintf(" %v%v", strings.Join(parts, fmt.Sprintf("%v | ", c.RESET_STYLE)), c.RESET_STYLE)
}

// renderStatus shows the active table's status on the status line.
func renderStatus() {
	if FP.StatusText == nil || FP.FlagKeyboardEchoMode {
		return
	}

	sum := lib.Summarize(FP.Snapshots[m.KindGambles], FP.Snapshots[m.KindBank])

	FP.StatusText.SetText(getStatusText(FP.Statuses[FP.ActivePage], sum.Overall, FP.T, FP.Colors))
}
