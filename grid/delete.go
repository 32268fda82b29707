package grid

import (
	"fmt"

	"go.uber.org/zap"
)

// DeleteRow deletes the record displayed at row after the user confirms.
// The row is never removed locally: on success the table is fetched again
// and reloaded, so the widget shows what the server now holds. A row
// without an id is ignored.
func (c *Controller) DeleteRow(row int) {
	id := c.idAt(row)
	if id == 0 {
		c.log.Debug("delete ignored, row has no id", zap.Int("row", row))

		return
	}

	c.ui.Confirm(fmt.Sprintf(c.tr("PromptDeleteText"), id), func(ok bool) {
		if !ok {
			c.log.Debug("delete cancelled", zap.Int64("id", id))

			return
		}

		c.deleteAndRefetch(id)
	})
}

func (c *Controller) deleteAndRefetch(id int64) {
	c.sched.Go(func() {
		ack, err := c.store.DeleteOne(c.ctx, id)
		if err != nil {
			c.sched.UI(func() {
				c.log.Error("delete failed", zap.Int64("id", id), zap.Error(err))
				c.fail(c.tr("NotifyDeleteFailed"), err)
			})

			return
		}

		rows, ferr := c.store.FetchAll(c.ctx)

		c.sched.UI(func() {
			c.ack(ack)
			c.applyFetch(rows, ferr, false)

			if ferr == nil {
				c.setMessage(fmt.Sprintf(c.tr("StatusDeleted"), id), false)
			}
		})
	})
}

// idAt returns the id of the record at row, or 0.
func (c *Controller) idAt(row int) int64 {
	return c.widget.SourceRow(row).ID()
}
