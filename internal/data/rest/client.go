// Package rest talks to the JSON data endpoint that stores users, expenses
// and budgets. Every call is a single attempt bounded by the client timeout.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/data"
	"expensetracker/internal/metrics"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	DefaultTimeout = 7 * time.Second

	maxErrorBody = 512
)

var _ data.Accessor = (*Client)(nil)

type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout bounds each call; zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]core.User, error) {
	var out []core.User
	err := c.do(ctx, "list", http.MethodGet, "users", nil, &out)
	return out, err
}

// ListExpenses skips records that do not decode and logs each one, so a
// single malformed row leaves the rest of the list usable.
func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var rows []json.RawMessage
	if err := c.do(ctx, "list", http.MethodGet, "expenses", nil, &rows); err != nil {
		return []core.Expense{}, err
	}
	out := make([]core.Expense, 0, len(rows))
	for i, row := range rows {
		var e core.Expense
		if err := json.Unmarshal(row, &e); err != nil {
			c.logger.WarnContext(ctx, "Skipping malformed expense",
				"component", "rest",
				"index", i,
				"record", truncate(row, maxErrorBody),
				"error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// CreateExpense posts e without its id; the endpoint assigns one.
func (c *Client) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = core.ID{}
	var out core.Expense
	err := c.do(ctx, "create", http.MethodPost, "expenses", e, &out)
	return out, err
}

func (c *Client) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID.IsZero() {
		return core.Expense{}, &data.RemoteError{Resource: "expenses", Op: "update", Err: errors.New("missing id")}
	}
	var out core.Expense
	err := c.do(ctx, "update", http.MethodPut, "expenses/"+url.PathEscape(e.ID.String()), e, &out)
	return out, err
}

func (c *Client) DeleteExpense(ctx context.Context, id core.ID) error {
	return c.do(ctx, "delete", http.MethodDelete, "expenses/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) GetBudgets(ctx context.Context) (core.Budgets, error) {
	out := core.Budgets{}
	err := c.do(ctx, "get", http.MethodGet, "budgets", nil, &out)
	return out, err
}

func (c *Client) ReplaceBudgets(ctx context.Context, b core.Budgets) (core.Budgets, error) {
	out := core.Budgets{}
	err := c.do(ctx, "replace", http.MethodPut, "budgets", b, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	resource := strings.SplitN(path, "/", 2)[0]
	start := time.Now()
	defer func() {
		metrics.ObserveRemote(resource, err)
		if err != nil {
			c.logger.WarnContext(ctx, "Remote call failed",
				"component", "rest",
				"operation", op,
				"resource", path,
				"duration", time.Since(start),
				"error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, mErr := json.Marshal(in)
		if mErr != nil {
			return &data.RemoteError{Resource: path, Op: op, Err: fmt.Errorf("encode body: %w", mErr)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return &data.RemoteError{Resource: path, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &data.RemoteError{Resource: path, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var cause error
		if s := strings.TrimSpace(string(snippet)); s != "" {
			cause = errors.New(s)
		}
		return &data.RemoteError{Resource: path, Op: op, Status: resp.StatusCode, Err: cause}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &data.RemoteError{Resource: path, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
