package grid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/history"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/remote"

	"go.uber.org/zap"
)

// Controller owns one table widget and its history.
type Controller struct {
	kind    models.Kind
	store   Store
	amounts AmountStore
	widget  Widget
	ui      UI
	sched   Scheduler
	hist    *history.History
	log     *zap.Logger
	ctx     context.Context
	t       map[string]string

	// How long recording stays disabled after a replay has reloaded the
	// widget.
	settle time.Duration

	onData func(models.Kind, models.Snapshot)

	loaded   bool
	unsynced bool
	balance  *models.Balance
	message  string
	isError  bool
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithSettleDelay sets how long after a replay edit recording is re-enabled.
// Zero re-enables it before the replayed snapshot is persisted, on the same
// call.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settle = d
		}
	}
}

// WithAmountStore enables the amount editor. It is ignored for kinds that
// do not serve the single-record endpoints.
func WithAmountStore(s AmountStore) Option {
	return func(c *Controller) {
		c.amounts = s
	}
}

// WithTranslations sets the user-facing strings. Missing keys fall back to
// built-in English.
func WithTranslations(t map[string]string) Option {
	return func(c *Controller) {
		c.t = t
	}
}

// WithDataListener registers fn to be called with the table's contents
// whenever they change.
func WithDataListener(fn func(models.Kind, models.Snapshot)) Option {
	return func(c *Controller) {
		c.onData = fn
	}
}

func New(kind models.Kind, store Store, widget Widget, ui UI, sched Scheduler, opts ...Option) *Controller {
	c := &Controller{
		kind:   kind,
		store:  store,
		widget: widget,
		ui:     ui,
		sched:  sched,
		hist:   history.New(),
		log:    zap.NewNop(),
		ctx:    context.Background(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.With(zap.String("table", kind.Name))

	if !kind.SupportsAmountEdit() {
		c.amounts = nil
	}

	return c
}

func (c *Controller) Kind() models.Kind { return c.kind }

func (c *Controller) History() *history.History { return c.hist }

func (c *Controller) Unsynced() bool { return c.unsynced }

// Replaying reports whether an undo or redo is still settling. Widgets refuse
// user edits until it is done, since the settled replay is persisted over
// them.
func (c *Controller) Replaying() bool { return c.hist.Mode() == history.Replaying }

func (c *Controller) Status() Status {
	undo, redo := c.hist.Depth()

	return Status{
		Kind:     c.kind.Name,
		Undo:     undo,
		Redo:     redo,
		Loaded:   c.loaded,
		Unsynced: c.unsynced,
		Balance:  c.balance,
		Message:  c.message,
		IsError:  c.isError,
	}
}

// Init fetches the table and loads it into the widget.
func (c *Controller) Init() {
	c.load(true)
}

// Reload discards local state, including the history, and loads the table
// from the server again.
func (c *Controller) Reload() {
	c.load(true)
}

func (c *Controller) load(resetHistory bool) {
	c.setMessage(c.tr("StatusLoading"), false)

	c.sched.Go(func() {
		rows, err := c.store.FetchAll(c.ctx)

		c.sched.UI(func() {
			c.applyFetch(rows, err, resetHistory)
		})
	})
}

// applyFetch loads a fetched table into the widget, or replaces the widget
// with a notice when there is nothing usable to show.
func (c *Controller) applyFetch(rows models.Snapshot, err error, resetHistory bool) {
	if resetHistory {
		c.hist.Reset()
	}

	if err != nil {
		c.log.Error("fetch failed", zap.Error(err))

		c.loaded = false
		c.widget.LoadData(models.Snapshot{})
		c.widget.Render()

		if errors.Is(err, remote.ErrMalformedPayload) {
			c.ui.ShowNotice(c.tr("NoticeInvalidData"))
			c.setMessage(c.tr("NoticeInvalidData"), true)

			return
		}

		c.ui.ShowNotice(c.tr("NoticeUnableToLoad"))
		c.fail(c.tr("NotifyFetchFailed"), err)

		return
	}

	c.loaded = true
	c.unsynced = false

	c.widget.LoadData(rows)
	c.widget.Render()

	if len(rows) == 0 {
		c.ui.ShowNotice(c.tr("NoticeNoRecords"))
	} else {
		c.ui.ShowNotice("")
	}

	c.log.Debug("table loaded", zap.Int("rows", len(rows)))
	c.changed()
	c.setMessage(fmt.Sprintf(c.tr("StatusLoaded"), len(rows)), false)
}

// live returns the widget's current contents as field-named records.
func (c *Controller) live() models.Snapshot {
	return models.FromPositional(c.kind, c.widget.Data())
}

// BeforeChange is the widget's pre-change hook. Only direct user edits are
// recorded.
func (c *Controller) BeforeChange(source models.ChangeSource) {
	if source != models.SourceEdit || c.hist.Mode() == history.Replaying {
		return
	}

	c.hist.RecordBeforeEdit(c.live(), source)
}

// AfterChange is the widget's post-change hook. After a direct user edit the
// whole table is sent to the server. The widget's state is kept even if that
// fails.
func (c *Controller) AfterChange(source models.ChangeSource) {
	if source != models.SourceEdit || c.Replaying() {
		return
	}

	c.persist(remote.PositionalRows(c.widget.Data()), "edit")
	c.changed()
}

// Undo restores the table to its state before the most recent edit and
// persists it. It reports false when there was nothing to undo or a replay
// is still settling.
func (c *Controller) Undo() bool {
	if c.hist.Mode() == history.Replaying {
		return false
	}

	prev, ok := c.hist.Undo(c.live())
	if !ok {
		c.setMessage(c.tr("StatusNothingToUndo"), false)

		return false
	}

	c.replay(prev, "undo")

	return true
}

// Redo reapplies the most recently undone state and persists it.
func (c *Controller) Redo() bool {
	if c.hist.Mode() == history.Replaying {
		return false
	}

	next, ok := c.hist.Redo(c.live())
	if !ok {
		c.setMessage(c.tr("StatusNothingToRedo"), false)

		return false
	}

	c.replay(next, "redo")

	return true
}

// replay loads s into the widget with recording disabled, then re-enables
// recording and persists s. Recording is re-enabled before the persist is
// started.
func (c *Controller) replay(s models.Snapshot, op string) {
	c.hist.BeginReplay()
	c.widget.LoadData(s)
	c.widget.Render()

	finish := func() {
		c.hist.EndReplay()
		c.persist(remote.NamedRows(s), op)
		c.changed()
	}

	if c.settle > 0 {
		c.sched.After(c.settle, finish)

		return
	}

	finish()
}

func (c *Controller) persist(rows remote.Rows, op string) {
	c.log.Debug("persisting", zap.String("op", op), zap.Int("rows", rows.Len()))

	c.sched.Go(func() {
		ack, err := c.store.PersistAll(c.ctx, rows)

		c.sched.UI(func() {
			if err != nil {
				c.unsynced = true
				c.log.Error("persist failed", zap.String("op", op), zap.Error(err))
				c.fail(c.tr("NotifyPersistFailed"), err)

				return
			}

			c.unsynced = false
			c.ack(ack)
			c.setMessage(c.tr("StatusSaved"), false)
		})
	})
}

func (c *Controller) ack(a remote.Ack) {
	if a.Balance != nil {
		b := *a.Balance
		c.balance = &b
	}
}

// changed tells the data listener about the table's current contents.
func (c *Controller) changed() {
	if c.onData != nil {
		c.onData(c.kind, c.live())
	}

	c.publish()
}

// fail surfaces err to the user and records it on the status line.
func (c *Controller) fail(prefix string, err error) {
	msg := fmt.Sprintf("%v: %v", prefix, remote.Message(err))

	c.ui.Notify(msg)
	c.setMessage(msg, true)
}

func (c *Controller) setMessage(msg string, isError bool) {
	c.message = msg
	c.isError = isError
	c.publish()
}

func (c *Controller) publish() {
	c.ui.Status(c.Status())
}

func (c *Controller) tr(key string) string {
	if v, ok := c.t[key]; ok && v != "" {
		return v
	}

	return defaultText[key]
}

//nolint:gochecknoglobals
var defaultText = map[string]string{
	"StatusLoading":           "loading...",
	"StatusLoaded":            "loaded %d records",
	"StatusSaved":             "saved",
	"StatusDeleted":           "deleted record %d",
	"StatusAmountSaved":       "amount updated",
	"StatusNothingToUndo":     "nothing to undo",
	"StatusNothingToRedo":     "nothing to redo",
	"StatusAmountColumnOnly":  "amounts can only be edited on the win and free win columns",
	"StatusAmountUnsupported": "this table has no amount editor",
	"NoticeUnableToLoad":      "Unable to load records.",
	"NoticeInvalidData":       "The server returned invalid data.",
	"NoticeNoRecords":         "No records yet.",
	"NotifyFetchFailed":       "Failed to load records",
	"NotifyPersistFailed":     "Failed to save changes",
	"NotifyDeleteFailed":      "Failed to delete record",
	"NotifyAmountFetchFailed": "Failed to load amounts",
	"NotifyAmountInvalid":     "Invalid amount",
	"NotifyAmountFailed":      "Failed to update amount",
	"PromptDeleteText":        "Delete record %d? This cannot be undone.",
}
