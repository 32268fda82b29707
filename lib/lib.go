package lib

import (
	"fmt"
	"sort"
	"strings"
	"time"

	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the only date representation the backend accepts.
const DateLayout = "2006-01-02"

// AmountPlaces is the number of decimal places every derived amount is
// rounded to.
const AmountPlaces = 2

// FormatAsCurrency renders an amount in dollars with thousands separators,
// e.g. 1234.5 -> "$1,234.50" and -3 -> "-$3.00".
func FormatAsCurrency(d decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	f := d.Round(AmountPlaces).InexactFloat64()

	if f < 0 {
		return p.Sprintf("-$%.2f", -f)
	}

	return p.Sprintf("$%.2f", f)
}

// ParseAmount reads a user-typed amount. Dollar signs, thousands separators
// and surrounding whitespace are ignored.
func ParseAmount(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", input, err)
	}

	return d, nil
}

// DeriveAmount returns end - start rounded to two decimal places, half away
// from zero. 50 and 72.345 give 22.35.
func DeriveAmount(start, end string) (decimal.Decimal, error) {
	s, err := ParseAmount(start)
	if err != nil {
		return decimal.Zero, fmt.Errorf("start: %w", err)
	}

	e, err := ParseAmount(end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("end: %w", err)
	}

	return e.Sub(s).Round(AmountPlaces), nil
}

// ToDecimal converts a loosely typed cell value to a decimal. Values that
// cannot be read as a number count as zero.
func ToDecimal(v any) decimal.Decimal {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case decimal.Decimal:
		return t
	case string:
		d, err := ParseAmount(t)
		if err != nil {
			return decimal.Zero
		}

		return d
	default:
		return decimal.Zero
	}
}

// ParseCell converts user input for the given column into the value stored in
// the record. Numeric cells become float64 (the type the backend's JSON
// decodes to), dates must be YYYY-MM-DD and dropdown values must be one of
// the column's options. An empty input clears the cell.
func ParseCell(col models.Column, input string) (any, error) {
	s := strings.TrimSpace(input)

	if col.ReadOnly {
		return nil, fmt.Errorf("%v is read-only", col.Header)
	}

	if s == "" {
		return nil, nil
	}

	switch col.Type {
	case models.ColumnNumeric:
		d, err := ParseAmount(s)
		if err != nil {
			return nil, err
		}

		return d.InexactFloat64(), nil
	case models.ColumnDate:
		if _, err := time.Parse(DateLayout, s); err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
		}

		return s, nil
	case models.ColumnDropdown:
		for _, opt := range col.Options {
			if strings.EqualFold(opt, s) {
				return opt, nil
			}
		}

		return nil, fmt.Errorf("%q is not one of %v", s, strings.Join(col.Options, ", "))
	default:
		return s, nil
	}
}

// GetNextSort takes the current sort, which is typically something like
// dateAsc, dateDesc, or None, and attempts to do some basic string parsing
// to figure out what the next sort should be. The cycle is None -> Asc -> Desc.
// Note that if the `next` argument is a different column than the `current`
// argument (after stripping away Asc/Desc), the resulting sort will always be
// the `next` column with Asc ordering.
func GetNextSort(current, next string) string {
	if next == c.None {
		return c.None
	}

	if current == c.None {
		return fmt.Sprintf("%v%v", next, c.Asc)
	}

	base := strings.TrimSuffix(current, c.Desc)
	base = strings.TrimSuffix(base, c.Asc)

	if strings.HasSuffix(current, c.Desc) {
		if base != next {
			return fmt.Sprintf("%v%v", next, c.Asc)
		}

		return c.None
	}

	if strings.HasSuffix(current, c.Asc) {
		if base != next {
			return fmt.Sprintf("%v%v", next, c.Asc)
		}

		return fmt.Sprintf("%v%v", base, c.Desc)
	}

	return fmt.Sprintf("%v%v", next, c.Asc)
}

// ParseSort splits a sort value such as "dateDesc" into its field and
// direction. ok is false for None.
func ParseSort(sortValue string) (field string, desc bool, ok bool) {
	switch {
	case sortValue == "" || sortValue == c.None:
		return "", false, false
	case strings.HasSuffix(sortValue, c.Desc):
		return strings.TrimSuffix(sortValue, c.Desc), true, true
	case strings.HasSuffix(sortValue, c.Asc):
		return strings.TrimSuffix(sortValue, c.Asc), false, true
	default:
		return sortValue, false, true
	}
}

// SortValue is the inverse of ParseSort.
func SortValue(field string, desc bool) string {
	if field == "" {
		return c.None
	}

	if desc {
		return field + c.Desc
	}

	return field + c.Asc
}

// SortRecords orders s in place by field. Numbers compare numerically and
// everything else as text; empty cells always sort last. The sort is stable,
// so equal rows keep their server order.
func SortRecords(s models.Snapshot, field string, desc bool) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i][field], s[j][field]

		aEmpty := a == nil || a == ""
		bEmpty := b == nil || b == ""

		if aEmpty || bEmpty {
			return !aEmpty && bEmpty
		}

		cmp := compareCells(a, b)
		if desc {
			return cmp > 0
		}

		return cmp < 0
	})
}

func compareCells(a, b any) int {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)

	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as, bs := models.String(a), models.String(b)

	return strings.Compare(strings.ToLower(as), strings.ToLower(bs))
}

// UniqueValues returns the distinct non-empty values of field in s, sorted.
func UniqueValues(s models.Snapshot, field string) []string {
	seen := make(map[string]bool)
	out := []string{}

	for _, r := range s {
		v := strings.TrimSpace(models.String(r[field]))
		if v == "" || seen[v] {
			continue
		}

		seen[v] = true
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}

// Suggest fuzzy-matches input against candidates, best match first. An empty
// input returns every candidate.
func Suggest(candidates []string, input string) []string {
	if strings.TrimSpace(input) == "" {
		return candidates
	}

	ranks := fuzzy.RankFindFold(input, candidates)
	sort.Stable(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}

	return out
}

// MatchesFilter reports whether any of the record's fields fuzzy-matches
// the filter text. An empty filter matches every record.
func MatchesFilter(r models.Record, fields []string, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}

	for _, f := range fields {
		if fuzzy.MatchFold(filter, models.String(r[f])) {
			return true
		}
	}

	return false
}
