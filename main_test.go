package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/config"
	c "git.cmcode.dev/cmcode/gamble-tracker-tui/constants"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/grid"
	m "git.cmcode.dev/cmcode/gamble-tracker-tui/models"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/remote"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/themes"
	"git.cmcode.dev/cmcode/gamble-tracker-tui/translations"
)

func TestEmbeddedTranslationsHaveEveryKey(t *testing.T) {
	t.Parallel()

	tr, err := translations.LoadLanguage(AllTranslations, "")
	if err != nil {
		t.Fatalf("LoadLanguage returned error: %v", err)
	}

	keys := []string{
		m.Gambles.Title, m.Bank.Title,
		"StatusLoading", "StatusLoaded", "StatusSaved", "StatusDeleted", "StatusAmountSaved",
		"StatusNothingToUndo", "StatusNothingToRedo", "StatusAmountColumnOnly", "StatusAmountUnsupported",
		"NoticeUnableToLoad", "NoticeInvalidData", "NoticeNoRecords",
		"NotifyFetchFailed", "NotifyPersistFailed", "NotifyDeleteFailed",
		"NotifyAmountFetchFailed", "NotifyAmountInvalid", "NotifyAmountFailed",
		"PromptDeleteText", "PromptConfirmButtonYes", "PromptConfirmButtonNo", "PromptNotifyButtonOK",
		"PromptExitText", "PromptExitButtonExit", "PromptExitButtonCancel",
		"AmountFormStart", "AmountFormEnd", "AmountFormSave", "AmountFormCancel",
		"NavGambles", "NavBank", "NavSummary", "NavHelp", "NavQuit",
		"ConfigFailedToLoadConfig", "ConfigFailedToLoadEmbeddedConfig",
	}

	for _, key := range keys {
		if tr[key] == "" {
			t.Errorf("translation %v is missing", key)
		}
	}

	for _, key := range []string{"StatusLoaded", "StatusDeleted", "PromptDeleteText"} {
		if !strings.Contains(tr[key], "%d") {
			t.Errorf("translation %v = %q has no %%d verb", key, tr[key])
		}
	}
}

func TestEmbeddedThemesHaveEveryColor(t *testing.T) {
	t.Parallel()

	keys := []string{
		c.ColorHeader, c.ColorColumnID, c.ColorColumnDate, c.ColorColumnText, c.ColorColumnNote,
		c.ColorAmountGain, c.ColorAmountLoss, c.ColorAmountZero, c.ColorTypeDeposit, c.ColorTypeWithdraw,
		c.ColorStatusOK, c.ColorStatusError, c.ColorStatusMuted, c.ColorNotice,
		c.ColorNavKey, c.ColorNavText, c.ColorNavActive,
		c.ColorPromptConfirm, c.ColorPromptNotify, c.ColorPromptExit,
		c.ColorSummarySite, c.ColorSummaryTotal,
	}

	for _, theme := range []string{"standard", "mono"} {
		colors, err := themes.Load(AllThemes, theme)
		if err != nil {
			t.Fatalf("themes.Load(%v) returned error: %v", theme, err)
		}

		for _, key := range keys {
			if colors[key] == "" {
				t.Errorf("theme %v has no %v", theme, key)
			}
		}
	}
}

func TestEmbeddedExampleConfigIsValid(t *testing.T) {
	t.Parallel()

	conf, file, err := config.Load("", config.Dirs{}, nil, ExampleConfig)
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}

	if file != config.ExampleConfig {
		t.Fatalf("loaded %v, want the embedded example", file)
	}

	if err := config.Process(&conf, config.Overrides{}); err != nil {
		t.Fatalf("config.Process returned error: %v", err)
	}

	if conf.StartPage != m.KindGambles || config.SettleDelay(conf) != 50*time.Millisecond {
		t.Fatalf("example config = %+v", conf)
	}
}

// inlineScheduler runs everything on the calling goroutine.
type inlineScheduler struct{}

func (inlineScheduler) Go(fn func()) { fn() }

func (inlineScheduler) UI(fn func()) { fn() }

func (inlineScheduler) After(_ time.Duration, fn func()) { fn() }

// recordingUI is a grid.UI that answers every confirmation with yes.
type recordingUI struct {
	notifications []string
	last          grid.Status
}

func (u *recordingUI) Notify(msg string) { u.notifications = append(u.notifications, msg) }

func (u *recordingUI) Confirm(_ string, done func(bool)) { done(true) }

func (u *recordingUI) ShowNotice(string) {}

func (u *recordingUI) PromptAmounts(_ grid.AmountRequest, done func(start, end string, ok bool)) {
	done("", "", false)
}

func (u *recordingUI) Status(st grid.Status) { u.last = st }

// bankBackend is an in-memory bank table served over HTTP.
type bankBackend struct {
	mu        sync.Mutex
	rows      []map[string]any
	persisted [][]map[string]any
}

func (b *bankBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == m.Bank.FetchAllPath:
		_ = json.NewEncoder(w).Encode(b.rows)
	case r.URL.Path == m.Bank.PersistAllPath:
		body, _ := io.ReadAll(r.Body)

		var payload map[string][]map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		b.rows = payload[m.Bank.PayloadKey]
		b.persisted = append(b.persisted, b.rows)

		_, _ = w.Write([]byte(`{"success":true}`))
	case strings.HasPrefix(r.URL.Path, m.Bank.DeleteOnePath):
		id := strings.TrimPrefix(r.URL.Path, m.Bank.DeleteOnePath)
		kept := b.rows[:0]

		for _, row := range b.rows {
			if m.String(row[m.FieldID]) != id {
				kept = append(kept, row)
			}
		}

		b.rows = kept

		_, _ = w.Write([]byte(`{"success":true,"balance":{"gambling_profit":0,"bank_balance":60,"total_balance":60}}`))
	default:
		http.NotFound(w, r)
	}
}

func (b *bankBackend) snapshot() ([]map[string]any, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.rows, len(b.persisted)
}

func TestTableEditUndoDeleteAgainstServer(t *testing.T) {
	t.Parallel()

	backend := &bankBackend{rows: []map[string]any{
		{"id": 2, "date": "2024-03-01", "type": "deposit", "amount": 100, "site": "alpha"},
		{"id": 1, "date": "2024-01-01", "type": "withdrawal", "amount": 40, "site": "beta"},
	}}

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client, err := remote.NewClient(server.URL, m.Bank)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	view := newTableView(m.Bank, nil, map[string]string{}, nil)
	ui := &recordingUI{}
	ctl := grid.New(m.Bank, client, view, ui, inlineScheduler{})
	view.hooks = ctl

	ctl.Init()

	if len(view.rows) != 2 || !ui.last.Loaded {
		t.Fatalf("view rows = %v, status = %+v", view.rows, ui.last)
	}

	siteCol := m.Bank.Columns[m.Bank.ColumnIndex(m.FieldSite)]
	if err := view.commit(view.visible[0], 2, siteCol, "gamma"); err != nil {
		t.Fatalf("commit returned error: %v", err)
	}

	rows, persisted := backend.snapshot()
	if persisted != 1 || rows[0][m.FieldSite] != "gamma" {
		t.Fatalf("server rows after edit = %v", rows)
	}

	if !ctl.Undo() {
		t.Fatal("Undo returned false")
	}

	rows, persisted = backend.snapshot()
	if persisted != 2 || rows[0][m.FieldSite] != "alpha" {
		t.Fatalf("server rows after undo = %v", rows)
	}

	if view.SourceRow(0)[m.FieldSite] != "alpha" {
		t.Fatalf("view row after undo = %v", view.SourceRow(0))
	}

	ctl.DeleteRow(1)

	rows, _ = backend.snapshot()
	if len(rows) != 1 || len(view.rows) != 1 || view.SourceRow(0).ID() != 2 {
		t.Fatalf("after delete server = %v, view = %v", rows, view.rows)
	}

	if ui.last.Balance == nil || ui.last.Balance.BankBalance != 60 {
		t.Fatalf("status balance = %+v", ui.last.Balance)
	}

	if undo, _ := ctl.History().Depth(); undo != 0 {
		t.Fatalf("undo depth = %d, want 0 after undoing the only edit", undo)
	}

	if len(ui.notifications) != 0 {
		t.Fatalf("notifications = %v", ui.notifications)
	}
}
