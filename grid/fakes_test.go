package grid

import (
	"context"
	"errors"
	"sync"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/remote"
)

// fakeWidget keeps rows in memory and fires the controller's hooks the way
// the terminal table does.
type fakeWidget struct {
	kind  models.Kind
	rows  models.Snapshot
	ctl   *Controller
	loads int
	set   []models.ChangeSource
}

func (w *fakeWidget) Data() [][]any { return w.rows.Positional(w.kind) }

func (w *fakeWidget) SourceRow(row int) models.Record {
	if row < 0 || row >= len(w.rows) {
		return nil
	}

	return w.rows[row]
}

func (w *fakeWidget) LoadData(s models.Snapshot) {
	w.loads++
	w.ctl.BeforeChange(models.SourceLoad)
	w.rows = s.Clone()
	w.ctl.AfterChange(models.SourceLoad)
}

func (w *fakeWidget) Render() {}

func (w *fakeWidget) SetValue(id int64, field string, v any, source models.ChangeSource) {
	w.set = append(w.set, source)

	for _, r := range w.rows {
		if r.ID() == id {
			w.ctl.BeforeChange(source)
			r[field] = v
			w.ctl.AfterChange(source)

			return
		}
	}
}

// edit simulates the user committing a cell edit. It reports false when the
// edit was refused because a replay is settling.
func (w *fakeWidget) edit(row int, field string, v any) bool {
	if w.ctl.Replaying() {
		return false
	}

	w.ctl.BeforeChange(models.SourceEdit)
	w.rows[row][field] = v
	w.ctl.AfterChange(models.SourceEdit)

	return true
}

type fakeUI struct {
	notifications []string
	notices       []string
	confirms      []string
	confirmAnswer bool
	prompts       []AmountRequest
	promptStart   string
	promptEnd     string
	promptOK      bool
	last          Status
}

func (u *fakeUI) Notify(msg string) { u.notifications = append(u.notifications, msg) }

func (u *fakeUI) Confirm(msg string, done func(bool)) {
	u.confirms = append(u.confirms, msg)
	done(u.confirmAnswer)
}

func (u *fakeUI) ShowNotice(msg string) { u.notices = append(u.notices, msg) }

func (u *fakeUI) PromptAmounts(req AmountRequest, done func(start, end string, ok bool)) {
	u.prompts = append(u.prompts, req)
	done(u.promptStart, u.promptEnd, u.promptOK)
}

func (u *fakeUI) Status(st Status) { u.last = st }

func (u *fakeUI) notice() string {
	if len(u.notices) == 0 {
		return ""
	}

	return u.notices[len(u.notices)-1]
}

// syncScheduler runs everything inline. Delayed work is held until flush.
type syncScheduler struct {
	delayed []func()
	delays  []time.Duration
}

func (s *syncScheduler) Go(fn func()) { fn() }

func (s *syncScheduler) UI(fn func()) { fn() }

func (s *syncScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.delayed = append(s.delayed, fn)
}

func (s *syncScheduler) flush() {
	pending := s.delayed
	s.delayed = nil

	for _, fn := range pending {
		fn()
	}
}

var errBoom = errors.New("connection refused")

// fakeStore records every call. The persisted payloads are normalized the
// same way the real client normalizes them before sending.
type fakeStore struct {
	mu sync.Mutex

	kind       models.Kind
	server     models.Snapshot
	fetchErr   error
	fetches    int
	persisted  []models.Snapshot
	persistErr error
	deleted    []int64
	deleteAck  remote.Ack
	deleteErr  error

	one       models.Record
	oneErr    error
	patches   []models.GamblePatch
	updateErr error
}

func (s *fakeStore) FetchAll(context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetches++

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}

	return s.server.Clone(), nil
}

func (s *fakeStore) PersistAll(_ context.Context, rows remote.Rows) (remote.Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sent := remote.Normalize(s.kind, rows).Clone()
	s.persisted = append(s.persisted, sent)

	if s.persistErr != nil {
		return remote.Ack{}, s.persistErr
	}

	s.server = sent

	return remote.Ack{Success: true}, nil
}

func (s *fakeStore) DeleteOne(_ context.Context, id int64) (remote.Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, id)

	if s.deleteErr != nil {
		return remote.Ack{}, s.deleteErr
	}

	kept := models.Snapshot{}

	for _, r := range s.server {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}

	s.server = kept

	if s.deleteAck.Success {
		return s.deleteAck, nil
	}

	return remote.Ack{Success: true}, nil
}

func (s *fakeStore) FetchOne(_ context.Context, id int64) (models.Record, error) {
	if s.oneErr != nil {
		return nil, s.oneErr
	}

	r := s.one.Clone()
	if r == nil {
		r = models.Record{}
	}

	r[models.FieldID] = float64(id)

	return r, nil
}

func (s *fakeStore) UpdateOne(_ context.Context, patch models.GamblePatch) (remote.Ack, error) {
	s.patches = append(s.patches, patch)

	if s.updateErr != nil {
		return remote.Ack{}, s.updateErr
	}

	return remote.Ack{Success: true}, nil
}

type harness struct {
	store  *fakeStore
	widget *fakeWidget
	ui     *fakeUI
	sched  *syncScheduler
	ctl    *Controller
}

func newHarness(kind models.Kind, server models.Snapshot, opts ...Option) *harness {
	h := &harness{
		store:  &fakeStore{kind: kind, server: server},
		widget: &fakeWidget{kind: kind},
		ui:     &fakeUI{},
		sched:  &syncScheduler{},
	}

	opts = append([]Option{WithAmountStore(h.store)}, opts...)
	h.ctl = New(kind, h.store, h.widget, h.ui, h.sched, opts...)
	h.widget.ctl = h.ctl

	return h
}

// bankTable is a two-row bank table with every column set.
func bankTable() models.Snapshot {
	return models.Snapshot{
		{"id": float64(1), "date": "2024-01-01", "type": "deposit", "amount": float64(10), "site": "a"},
		{"id": float64(2), "date": "2024-01-02", "type": "withdrawal", "amount": float64(-5), "site": "b"},
	}
}

func gambleRow(id float64, win, freeWin float64) models.Record {
	return models.Record{
		"id":         id,
		"date":       "2024-05-01",
		"website":    "stake",
		"machine":    "m",
		"win":        win,
		"free_win_m": "",
		"free_win":   freeWin,
		"profit":     win + freeWin,
		"note":       "",
	}
}
