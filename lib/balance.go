package lib

import (
	"sort"
	"strings"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/shopspring/decimal"
)

// Balance is a gambling/bank balance triple.
type Balance struct {
	GamblingProfit decimal.Decimal
	BankBalance    decimal.Decimal
	Total          decimal.Decimal
}

// SiteBalance is the Balance attributed to one website. Gambles are matched
// by their website column and bank transactions by their site column.
type SiteBalance struct {
	Site string
	Balance
}

type Summary struct {
	Overall Balance
	// Sorted by site name.
	BySite []SiteBalance
}

// GambleProfit is a gamble's win plus its free win, the way the server
// computes the profit column.
func GambleProfit(r models.Record) decimal.Decimal {
	return ToDecimal(r[models.FieldWin]).Add(ToDecimal(r[models.FieldFreeWin])).Round(AmountPlaces)
}

// AffectsProfit reports whether changing field changes the kind's profit
// column.
func AffectsProfit(kind models.Kind, field string) bool {
	if kind.ColumnIndex(models.FieldProfit) < 0 {
		return false
	}

	return field == models.FieldWin || field == models.FieldFreeWin
}

// Summarize computes the user's balance from the loaded tables: gambling
// profit is the sum of every profit cell, the bank balance is deposits minus
// withdrawals, and the total is their sum. Either snapshot may be nil when
// that table has not been loaded.
func Summarize(gambles, bank models.Snapshot) Summary {
	sites := make(map[string]*Balance)

	site := func(name string) *Balance {
		name = strings.TrimSpace(name)

		b, ok := sites[name]
		if !ok {
			b = &Balance{}
			sites[name] = b
		}

		return b
	}

	var sum Summary

	for _, r := range gambles {
		p := ToDecimal(r[models.FieldProfit])
		sum.Overall.GamblingProfit = sum.Overall.GamblingProfit.Add(p)

		b := site(models.String(r[models.FieldWebsite]))
		b.GamblingProfit = b.GamblingProfit.Add(p)
	}

	for _, r := range bank {
		amt := ToDecimal(r[models.FieldAmount])

		switch strings.ToLower(models.String(r[models.FieldType])) {
		case models.BankTypeDeposit:
		case models.BankTypeWithdrawal:
			amt = amt.Neg()
		default:
			continue
		}

		sum.Overall.BankBalance = sum.Overall.BankBalance.Add(amt)

		b := site(models.String(r[models.FieldSite]))
		b.BankBalance = b.BankBalance.Add(amt)
	}

	sum.Overall.Total = sum.Overall.GamblingProfit.Add(sum.Overall.BankBalance)

	for name, b := range sites {
		b.Total = b.GamblingProfit.Add(b.BankBalance)
		sum.BySite = append(sum.BySite, SiteBalance{Site: name, Balance: *b})
	}

	sort.Slice(sum.BySite, func(i, j int) bool {
		return sum.BySite[i].Site < sum.BySite[j].Site
	})

	return sum
}

// FromServer converts the backend's balance report.
func FromServer(b models.Balance) Balance {
	return Balance{
		GamblingProfit: decimal.NewFromFloat(b.GamblingProfit),
		BankBalance:    decimal.NewFromFloat(b.BankBalance),
		Total:          decimal.NewFromFloat(b.TotalBalance),
	}
}

// String renders the triple for the status line.
func (b Balance) String() string {
	return "profit " + FormatAsCurrency(b.GamblingProfit) +
		" · bank " + FormatAsCurrency(b.BankBalance) +
		" · total " + FormatAsCurrency(b.Total)
}
