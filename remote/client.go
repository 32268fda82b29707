// Package remote talks to the tracker backend's table endpoints.
//
// Every table kind exposes the same shape of API: read the whole table,
// overwrite the whole table, delete one record. Gambles additionally serve a
// single-record read and a sparse single-record update.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"git.cmcode.dev/cmcode/gamble-tracker-tui/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultServer    = "http://127.0.0.1:5000"
	defaultUserAgent = "gamble-tracker-tui/0.1"

	// SessionCookieName is the cookie the backend keeps its login in.
	SessionCookieName = "session"

	headerRequestID = "X-Request-ID"
)

// Ack is the backend's reply to a write.
type Ack struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Balance *models.Balance `json:"balance,omitempty"`
}

// Client is bound to one table kind. It does not retry and, unless a timeout
// is configured, does not time out.
type Client struct {
	kind      models.Kind
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	session   string
	log       *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds every request. Zero or negative leaves requests
// unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithSessionCookie(value string) Option {
	return func(c *Client) {
		c.session = strings.TrimSpace(value)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a Client for kind against the backend at server.
func NewClient(server string, kind models.Kind, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}

	c := &Client{
		kind:      kind,
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		log:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.With(zap.String("table", kind.Name))

	return c, nil
}

func (c *Client) Kind() models.Kind { return c.kind }

// FetchAll reads the whole table. A null body is an empty table; any other
// body that is not a list of records yields ErrMalformedPayload.
func (c *Client) FetchAll(ctx context.Context) (models.Snapshot, error) {
	const op = "fetch all"

	status, body, err := c.do(ctx, op, http.MethodGet, c.kind.FetchAllPath, nil, nil)
	if err != nil {
		return nil, err
	}

	if status >= http.StatusBadRequest {
		return nil, apiError(op, status, body)
	}

	trimmed := bytes.TrimSpace(body)

	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("%v: empty body: %w", op, ErrMalformedPayload)
	case bytes.Equal(trimmed, []byte("null")):
		return models.Snapshot{}, nil
	case trimmed[0] == '{':
		var e struct {
			Error *string `json:"error"`
		}

		if err := json.Unmarshal(trimmed, &e); err == nil && e.Error != nil {
			return nil, &APIError{Op: op, Status: status, Message: *e.Error}
		}

		return nil, fmt.Errorf("%v: object without error field: %w", op, ErrMalformedPayload)
	case trimmed[0] != '[':
		return nil, fmt.Errorf("%v: unexpected body: %w", op, ErrMalformedPayload)
	}

	var records []models.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%v: %v: %w", op, err.Error(), ErrMalformedPayload)
	}

	out := make(models.Snapshot, 0, len(records))

	for _, r := range records {
		if r == nil {
			r = models.Record{}
		}

		out = append(out, r)
	}

	return out, nil
}

// PersistAll overwrites the server's table with rows. The complete table is
// sent on every call.
func (c *Client) PersistAll(ctx context.Context, rows Rows) (Ack, error) {
	const op = "persist all"

	payload := map[string]models.Snapshot{
		c.kind.PayloadKey: Normalize(c.kind, rows),
	}

	status, body, err := c.do(ctx, op, http.MethodPost, c.kind.PersistAllPath, nil, payload)
	if err != nil {
		return Ack{}, err
	}

	return decodeAck(op, status, body)
}

// DeleteOne removes the record with id. An id of 0 is rejected without a
// request.
func (c *Client) DeleteOne(ctx context.Context, id int64) (Ack, error) {
	const op = "delete one"

	if id <= 0 {
		return Ack{}, ErrMissingID
	}

	path := c.kind.DeleteOnePath + strconv.FormatInt(id, 10)

	status, body, err := c.do(ctx, op, http.MethodPost, path, nil, nil)
	if err != nil {
		return Ack{}, err
	}

	return decodeAck(op, status, body)
}

// FetchOne reads a single record, including the start/end amount pairs the
// table does not show.
func (c *Client) FetchOne(ctx context.Context, id int64) (models.Record, error) {
	const op = "fetch one"

	if c.kind.FetchOnePath == "" {
		return nil, ErrUnsupported
	}

	if id <= 0 {
		return nil, ErrMissingID
	}

	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	status, body, err := c.do(ctx, op, http.MethodGet, c.kind.FetchOnePath, q, nil)
	if err != nil {
		return nil, err
	}

	if status >= http.StatusBadRequest {
		return nil, apiError(op, status, body)
	}

	var r models.Record
	if err := json.Unmarshal(body, &r); err != nil || r == nil {
		return nil, fmt.Errorf("%v: %w", op, ErrMalformedPayload)
	}

	if msg, ok := r["error"]; ok && msg != nil {
		return nil, &APIError{Op: op, Status: status, Message: models.String(msg)}
	}

	return r, nil
}

// UpdateOne sends a sparse update of one gamble. Fields left nil in patch
// are not sent.
func (c *Client) UpdateOne(ctx context.Context, patch models.GamblePatch) (Ack, error) {
	const op = "update one"

	if c.kind.UpdateOnePath == "" {
		return Ack{}, ErrUnsupported
	}

	if patch.ID <= 0 {
		return Ack{}, ErrMissingID
	}

	payload := map[string]models.GamblePatch{"gamble": patch}

	status, body, err := c.do(ctx, op, http.MethodPost, c.kind.UpdateOnePath, nil, payload)
	if err != nil {
		return Ack{}, err
	}

	return decodeAck(op, status, body)
}

func (c *Client) do(
	ctx context.Context,
	op, method, path string,
	query url.Values,
	payload any,
) (int, []byte, error) {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}

	reqURL := c.baseURL.ResolveReference(rel)

	var reqBody io.Reader

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("%v: encode request: %w", op, err)
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("%v: create request: %w", op, err)
	}

	requestID := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: c.session})
	}

	log := c.log.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", rel.String()),
		zap.String("request_id", requestID),
	)

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))

		return 0, nil, fmt.Errorf("%v: execute request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%v: read response: %w", op, err)
	}

	log.Debug("request done",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)

	return resp.StatusCode, body, nil
}

// decodeAck interprets a write reply. Both a failing status and a
// {"success": false} body are errors.
func decodeAck(op string, status int, body []byte) (Ack, error) {
	var ack Ack

	decodeErr := json.Unmarshal(body, &ack)

	if status >= http.StatusBadRequest {
		return ack, apiError(op, status, body)
	}

	if decodeErr != nil {
		return ack, fmt.Errorf("%v: decode response: %v: %w", op, decodeErr.Error(), ErrMalformedPayload)
	}

	if !ack.Success || ack.Error != "" {
		msg := ack.Error
		if msg == "" {
			msg = "unknown error"
		}

		return ack, &APIError{Op: op, Status: status, Message: msg}
	}

	return ack, nil
}

func apiError(op string, status int, body []byte) *APIError {
	var e struct {
		Error string `json:"error"`
	}

	msg := ""
	if err := json.Unmarshal(body, &e); err == nil {
		msg = e.Error
	}

	if msg == "" {
		msg = http.StatusText(status)
	}

	return &APIError{Op: op, Status: status, Message: msg}
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("parse server %q: missing host", server)
	}

	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""

	return u, nil
}
