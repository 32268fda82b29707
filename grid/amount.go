package grid

import (
	"fmt"
	"strings"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/lib"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AmountFamily is the pair of start/end fields a derived amount is computed
// from.
type AmountFamily struct {
	Field      string
	StartField string
	EndField   string
}

var (
	WinFamily = AmountFamily{
		Field:      models.FieldWin,
		StartField: models.FieldStartAmount,
		EndField:   models.FieldEndAmount,
	}
	FreeWinFamily = AmountFamily{
		Field:      models.FieldFreeWin,
		StartField: models.FieldFStartAmount,
		EndField:   models.FieldFEndAmount,
	}
)

// FamilyFor returns the amount family edited through field. ok is false for
// columns that are not derived from a start/end pair.
func FamilyFor(field string) (AmountFamily, bool) {
	switch field {
	case models.FieldWin:
		return WinFamily, true
	case models.FieldFreeWin:
		return FreeWinFamily, true
	default:
		return AmountFamily{}, false
	}
}

// Patch builds the sparse update for this family. Fields of the other family
// are left unset.
func (f AmountFamily) Patch(id int64, start, end string, derived decimal.Decimal) models.GamblePatch {
	p := models.GamblePatch{ID: id}

	switch f.Field {
	case models.FieldWin:
		p.StartAmount = &start
		p.EndAmount = &end
		p.Win = &derived
	case models.FieldFreeWin:
		p.FStartAmount = &start
		p.FEndAmount = &end
		p.FreeWin = &derived
	}

	return p
}

// AmountRequest is what the amount prompt is prefilled with.
type AmountRequest struct {
	ID    int64
	Field string
	Start string
	End   string
}

// EditAmount opens the amount editor for the cell at row in the given
// column. The current start/end pair is fetched from the server first. On
// submit, end - start (rounded to two places) is written into the cell
// without going through the history, and only this family's fields are sent
// to the server.
func (c *Controller) EditAmount(row int, field string) {
	if c.amounts == nil {
		c.setMessage(c.tr("StatusAmountUnsupported"), false)

		return
	}

	fam, ok := FamilyFor(field)
	if !ok {
		c.setMessage(c.tr("StatusAmountColumnOnly"), false)

		return
	}

	id := c.idAt(row)
	if id == 0 {
		c.log.Debug("amount edit ignored, row has no id", zap.Int("row", row))

		return
	}

	c.sched.Go(func() {
		rec, err := c.amounts.FetchOne(c.ctx, id)

		c.sched.UI(func() {
			if err != nil {
				c.log.Error("amount fetch failed", zap.Int64("id", id), zap.Error(err))
				c.fail(c.tr("NotifyAmountFetchFailed"), err)

				return
			}

			req := AmountRequest{
				ID:    id,
				Field: fam.Field,
				Start: models.String(rec[fam.StartField]),
				End:   models.String(rec[fam.EndField]),
			}

			c.ui.PromptAmounts(req, func(start, end string, ok bool) {
				if !ok {
					return
				}

				c.commitAmount(fam, id, strings.TrimSpace(start), strings.TrimSpace(end))
			})
		})
	})
}

func (c *Controller) commitAmount(fam AmountFamily, id int64, start, end string) {
	derived, err := lib.DeriveAmount(start, end)
	if err != nil {
		c.ui.Notify(fmt.Sprintf("%v: %v", c.tr("NotifyAmountInvalid"), err.Error()))

		return
	}

	c.widget.SetValue(id, fam.Field, derived.InexactFloat64(), models.SourceAmountEdit)

	if lib.AffectsProfit(c.kind, fam.Field) {
		for _, r := range c.live() {
			if r.ID() == id {
				c.widget.SetValue(id, models.FieldProfit, lib.GambleProfit(r).InexactFloat64(), models.SourceAmountEdit)

				break
			}
		}
	}

	c.widget.Render()
	c.changed()

	patch := fam.Patch(id, start, end, derived)

	c.sched.Go(func() {
		ack, err := c.amounts.UpdateOne(c.ctx, patch)

		c.sched.UI(func() {
			if err != nil {
				c.unsynced = true
				c.log.Error("amount update failed", zap.Int64("id", id), zap.Error(err))
				c.fail(c.tr("NotifyAmountFailed"), err)

				return
			}

			c.ack(ack)
			c.setMessage(c.tr("StatusAmountSaved"), false)
		})
	})
}
