package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, kind models.Kind, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, kind, append([]Option{WithHTTPClient(server.Client())}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	return ctx
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultServer {
		t.Fatalf("url = %q, want %q", u.String(), defaultServer)
	}

	u, err = parseBaseURL("localhost:8080/app?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "localhost:8080" {
		t.Fatalf("url = %q, want http://localhost:8080", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatal("parseBaseURL accepted a url without a host")
	}
}

func TestFetchAll_DecodesRecordsAndSendsHeaders(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotPath, gotCookie, gotRequestID, gotUserAgent string

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(headerRequestID)
		gotUserAgent = r.Header.Get("User-Agent")
		if ck, err := r.Cookie(SessionCookieName); err == nil {
			gotCookie = ck.Value
		}
		mu.Unlock()

		_, _ = io.WriteString(w, `[{"id":1,"win":10},{"id":2,"win":-5}]`)
	}, WithSessionCookie(" abc123 "))

	rows, err := c.FetchAll(testContext(t))
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}

	want := models.Snapshot{
		{models.FieldID: float64(1), models.FieldWin: float64(10)},
		{models.FieldID: float64(2), models.FieldWin: float64(-5)},
	}
	if !rows.Equal(want) {
		t.Fatalf("FetchAll = %v, want %v", rows, want)
	}

	mu.Lock()
	defer mu.Unlock()

	if gotPath != "/get_all_gambles" {
		t.Fatalf("path = %q, want /get_all_gambles", gotPath)
	}
	if gotCookie != "abc123" {
		t.Fatalf("session cookie = %q, want abc123", gotCookie)
	}
	if gotRequestID == "" {
		t.Fatal("request id header missing")
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("user agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
}

func TestFetchAll_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
		message   string
	}{
		{name: "error object", status: http.StatusOK, body: `{"error":"not logged in"}`, message: "not logged in"},
		{name: "error status", status: http.StatusInternalServerError, body: `{"error":"db down"}`, message: "db down"},
		{name: "bare status", status: http.StatusBadGateway, body: `oops`, message: http.StatusText(http.StatusBadGateway)},
		{name: "scalar", status: http.StatusOK, body: `42`, malformed: true},
		{name: "object without error", status: http.StatusOK, body: `{"rows":[]}`, malformed: true},
		{name: "list of scalars", status: http.StatusOK, body: `[1,2]`, malformed: true},
		{name: "empty", status: http.StatusOK, body: ``, malformed: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, models.Bank, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			rows, err := c.FetchAll(testContext(t))
			if err == nil {
				t.Fatalf("FetchAll = %v, want error", rows)
			}

			if tt.malformed {
				if !errors.Is(err, ErrMalformedPayload) {
					t.Fatalf("err = %v, want ErrMalformedPayload", err)
				}

				return
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %T %v, want *APIError", err, err)
			}
			if Message(err) != tt.message {
				t.Fatalf("Message = %q, want %q", Message(err), tt.message)
			}
		})
	}
}

func TestFetchAll_NullIsEmpty(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, models.Bank, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	})

	rows, err := c.FetchAll(testContext(t))
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("FetchAll = %#v, want empty non-nil snapshot", rows)
	}
}

func TestPersistAll_PositionalAndNamedPayloadsMatch(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var bodies []string

	c := newTestClient(t, models.Bank, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/update_all_bank_transactions" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}

		b, _ := io.ReadAll(r.Body)

		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()

		_, _ = io.WriteString(w, `{"success":true}`)
	})

	positional := [][]any{
		{float64(1), "2024-03-01", "deposit", float64(100), "alpha"},
		{float64(2), "2024-03-02", "withdrawal", 25.5, "beta"},
	}
	named := models.Snapshot{
		{"id": float64(1), "date": "2024-03-01", "type": "deposit", "amount": float64(100), "site": "alpha"},
		{"id": float64(2), "date": "2024-03-02", "type": "withdrawal", "amount": 25.5, "site": "beta"},
	}

	ctx := testContext(t)

	if _, err := c.PersistAll(ctx, PositionalRows(positional)); err != nil {
		t.Fatalf("PersistAll(positional) returned error: %v", err)
	}
	if _, err := c.PersistAll(ctx, NamedRows(named)); err != nil {
		t.Fatalf("PersistAll(named) returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(bodies) != 2 {
		t.Fatalf("got %d requests, want 2", len(bodies))
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("payloads differ:\n%s\n%s", bodies[0], bodies[1])
	}

	var decoded map[string][]map[string]any
	if err := json.Unmarshal([]byte(bodies[0]), &decoded); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if len(decoded["transactions"]) != 2 {
		t.Fatalf("payload = %s, want two transactions", bodies[0])
	}
}

func TestPersistAll_EmptyTableSendsList(t *testing.T) {
	t.Parallel()

	var got atomic.Value

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.Store(string(b))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	if _, err := c.PersistAll(testContext(t), NamedRows(nil)); err != nil {
		t.Fatalf("PersistAll returned error: %v", err)
	}

	if body, _ := got.Load().(string); body != `{"gambles":[]}` {
		t.Fatalf("body = %q, want {\"gambles\":[]}", body)
	}
}

func TestPersistAll_ReportsApplicationError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"bad date"}`)
	})

	_, err := c.PersistAll(testContext(t), NamedRows(models.Snapshot{{"id": float64(1)}}))
	if err == nil {
		t.Fatal("PersistAll returned nil error")
	}
	if !strings.Contains(Message(err), "bad date") {
		t.Fatalf("Message = %q, want it to contain bad date", Message(err))
	}
}

func TestDeleteOne_ZeroIDMakesNoRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	for _, id := range []int64{0, -3} {
		if _, err := c.DeleteOne(testContext(t), id); !errors.Is(err, ErrMissingID) {
			t.Fatalf("DeleteOne(%d) err = %v, want ErrMissingID", id, err)
		}
	}

	if n := calls.Load(); n != 0 {
		t.Fatalf("server saw %d requests, want 0", n)
	}
}

func TestDeleteOne_NotFound(t *testing.T) {
	t.Parallel()

	var gotPath atomic.Value

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.Method + " " + r.URL.Path)
		_, _ = io.WriteString(w, `{"success":false,"error":"not found"}`)
	})

	_, err := c.DeleteOne(testContext(t), 7)
	if err == nil {
		t.Fatal("DeleteOne returned nil error")
	}
	if Message(err) != "not found" {
		t.Fatalf("Message = %q, want not found", Message(err))
	}
	if p, _ := gotPath.Load().(string); p != "POST /delete_gamble/7" {
		t.Fatalf("request = %q, want POST /delete_gamble/7", p)
	}
}

func TestDeleteOne_ReturnsBalance(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, models.Bank, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"balance":{"gambling_profit":5,"bank_balance":10,"total_balance":15}}`)
	})

	ack, err := c.DeleteOne(testContext(t), 3)
	if err != nil {
		t.Fatalf("DeleteOne returned error: %v", err)
	}
	if ack.Balance == nil || ack.Balance.TotalBalance != 15 {
		t.Fatalf("balance = %#v, want total 15", ack.Balance)
	}
}

func TestFetchOne_EncodesIDQuery(t *testing.T) {
	t.Parallel()

	var gotID atomic.Value

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		gotID.Store(r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `{"id":12,"start_amount":"50","end_amount":"72.345"}`)
	})

	rec, err := c.FetchOne(testContext(t), 12)
	if err != nil {
		t.Fatalf("FetchOne returned error: %v", err)
	}
	if rec.ID() != 12 || rec[models.FieldEndAmount] != "72.345" {
		t.Fatalf("FetchOne = %v", rec)
	}
	if id, _ := gotID.Load().(string); id != "12" {
		t.Fatalf("id query = %q, want 12", id)
	}
}

func TestUpdateOne_OmitsUnsetFields(t *testing.T) {
	t.Parallel()

	var got atomic.Value

	c := newTestClient(t, models.Gambles, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.Store(string(b))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	start, end := "50", "72.345"
	win := decimal.RequireFromString("22.35")

	_, err := c.UpdateOne(testContext(t), models.GamblePatch{
		ID:           4,
		FStartAmount: &start,
		FEndAmount:   &end,
		FreeWin:      &win,
	})
	if err != nil {
		t.Fatalf("UpdateOne returned error: %v", err)
	}

	body, _ := got.Load().(string)
	want := `{"gamble":{"id":4,"f_start_amount":"50","f_end_amount":"72.345","free_win":"22.35"}}`
	if body != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
}

func TestBankRejectsSingleRecordOperations(t *testing.T) {
	t.Parallel()

	c, err := NewClient("http://127.0.0.1:1", models.Bank)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if c.Kind().Name != models.KindBank {
		t.Fatalf("Kind = %q, want %q", c.Kind().Name, models.KindBank)
	}

	if _, err := c.FetchOne(context.Background(), 1); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("FetchOne err = %v, want ErrUnsupported", err)
	}
	if _, err := c.UpdateOne(context.Background(), models.GamblePatch{ID: 1}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("UpdateOne err = %v, want ErrUnsupported", err)
	}
}
