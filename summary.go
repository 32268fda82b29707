package main

import (
	"fmt"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/lib"
	m "git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/rivo/tview"
)

func getSummaryPage() *tview.Flex {
	FP.SummaryTable = tview.NewTable().SetFixed(1, 1)

	FP.SummaryTable.SetBorder(true)
	FP.SummaryTable.SetTitle(FP.T["SummaryTableTitle"])
	FP.SummaryTable.SetBorders(false).
		SetSelectable(true, false).
		SetSeparator(' ')

	FP.SummaryDescription = tview.NewTextView().SetDynamicColors(true)
	FP.SummaryDescription.SetBorder(true)

	updateSummary()

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(FP.SummaryTable, 0, 3, true).
		AddItem(FP.SummaryDescription, 4, 0, false)
}

// Returns a list, representing the ordered columns to be shown in
// the summary table, alongside their configured colors.
func getSummaryTableHeaders(t, colors map[string]string) []m.TableCell {
	return []m.TableCell{
		{Text: t["SummaryColumnSite"], Color: colors[c.ColorHeader], Expand: 1},
		{Text: t["SummaryColumnProfit"], Color: colors[c.ColorHeader]},
		{Text: t["SummaryColumnBank"], Color: colors[c.ColorHeader]},
		{Text: t["SummaryColumnTotal"], Color: colors[c.ColorHeader]},
	}
}

// Returns the cells for one site's row in the summary table.
func getSummaryTableCells(s lib.SiteBalance, t, colors map[string]string) []m.TableCell {
	site := s.Site
	if site == "" {
		site = t["SummaryNoSite"]
	}

	return []m.TableCell{
		{Text: tview.Escape(site), Color: colors[c.ColorSummarySite], Expand: 1},
		{Text: lib.FormatAsCurrency(s.GamblingProfit), Color: amountColor(s.GamblingProfit.Sign(), colors)},
		{Text: lib.FormatAsCurrency(s.BankBalance), Color: amountColor(s.BankBalance.Sign(), colors)},
		{Text: lib.FormatAsCurrency(s.Total), Color: colors[c.ColorSummaryTotal]},
	}
}

func amountColor(sign int, colors map[string]string) string {
	switch sign {
	case 1:
		return colors[c.ColorAmountGain]
	case -1:
		return colors[c.ColorAmountLoss]
	default:
		return colors[c.ColorAmountZero]
	}
}

// Constructs and sets the cells of the i'th row in the summary table.
func setSummaryTableRow(i int, cells []m.TableCell) {
	for j := range cells {
		cell := tview.NewTableCell(fmt.Sprintf("%v%v%v",
			cells[j].Color,
			cells[j].Text,
			c.RESET_STYLE,
		))
		if cells[j].Expand > 0 {
			cell.SetExpansion(cells[j].Expand)
		}

		if j > 0 {
			cell.SetAlign(tview.AlignRight)
		}

		FP.SummaryTable.SetCell(i, j, cell)
	}
}

// updateSummary recomputes the per-site balances from the loaded tables.
func updateSummary() {
	if FP.SummaryTable == nil {
		return
	}

	sum := lib.Summarize(FP.Snapshots[m.KindGambles], FP.Snapshots[m.KindBank])

	FP.SummaryTable.Clear()

	setSummaryTableRow(0, getSummaryTableHeaders(FP.T, FP.Colors))

	for i := range sum.BySite {
		setSummaryTableRow(i+1, getSummaryTableCells(sum.BySite[i], FP.T, FP.Colors))
	}

	FP.SummaryDescription.SetText(fmt.Sprintf("%v%v\n%v%v",
		FP.Colors[c.ColorSummaryTotal],
		sum.Overall.String(),
		FP.Colors[c.ColorStatusMuted],
		FP.T["SummaryDescriptionLocal"],
	))
}
