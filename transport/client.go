package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ihdrs/ihdrs-client-go/internal/notify"
)

// CodeOK is the envelope success sentinel used by the IHDRS backend.
const CodeOK = 200

const defaultTimeout = 30 * time.Second

// Envelope is the uniform response wrapper produced by the backend.
type Envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TokenSource is a read-only view of the current session credential.
// The Manager implements it; the pipeline never touches storage.
type TokenSource interface {
	Token() (string, bool)
}

// Hooks are observational and reactive callbacks around each request.
// Start/End exist for progress indicators and metrics; OnUnauthorized is the
// global 401 reaction and fires at most once per response, regardless of
// which endpoint produced it.
type Hooks struct {
	OnRequestStart func(method, path string)
	OnRequestEnd   func(method, path string)
	OnUnauthorized func(ctx context.Context)
}

// Options configures a [Client].
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Tokens     TokenSource
	Hooks      Hooks
	Notices    *notify.Dispatcher
}

// Client wraps an *http.Client with the IHDRS envelope protocol. It is safe
// for concurrent use; multiple in-flight calls may independently hit the
// 401 path and the OnUnauthorized hook must tolerate that.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	tokens    TokenSource
	hooks     Hooks
	notices   *notify.Dispatcher
}

// NewClient builds a pipeline client. A nil HTTPClient gets a dedicated
// client with the fixed timeout; a caller-supplied client keeps its own.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("transport: base URL required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		http:      httpc,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		tokens:    opts.Tokens,
		hooks:     opts.Hooks,
		notices:   opts.Notices,
	}, nil
}

// Get issues a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.hooks.OnRequestStart != nil {
		c.hooks.OnRequestStart(method, path)
	}
	if c.hooks.OnRequestEnd != nil {
		defer c.hooks.OnRequestEnd(method, path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return c.statusFailure(ctx, resp)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		apiErr := newAPIError(ErrRequestFailed, resp.StatusCode, 0, "malformed response envelope")
		c.report(ctx, apiErr)
		return apiErr
	}

	if env.Code != CodeOK {
		message := env.Message
		if message == "" {
			message = "request rejected"
		}
		apiErr := newAPIError(ErrBusiness, resp.StatusCode, env.Code, message)
		c.report(ctx, apiErr)
		return apiErr
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// transportFailure classifies errors where no HTTP response arrived.
func (c *Client) transportFailure(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	kind, message := ErrNetwork, "network connection error"
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &urlErr) && urlErr.Timeout()) {
		kind, message = ErrTimeout, "request timed out"
	}

	apiErr := newAPIError(kind, 0, 0, message)
	c.report(ctx, apiErr)
	return apiErr
}

// statusFailure classifies non-200 HTTP responses. The 401 class is the only
// one with a side effect beyond reporting: it invokes OnUnauthorized so the
// session owner can force a logout.
func (c *Client) statusFailure(ctx context.Context, resp *http.Response) error {
	serverMessage := envelopeMessage(resp.Body)

	var kind error
	var message string
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		kind, message = ErrBadRequest, "invalid request parameters"
	case resp.StatusCode == http.StatusUnauthorized:
		kind, message = ErrUnauthorized, "session expired, please log in again"
	case resp.StatusCode == http.StatusForbidden:
		kind, message = ErrForbidden, "permission denied"
	case resp.StatusCode == http.StatusNotFound:
		kind, message = ErrNotFound, "requested resource not found"
	case resp.StatusCode >= http.StatusInternalServerError:
		kind, message = ErrServer, "internal server error"
	default:
		kind = ErrRequestFailed
		message = fmt.Sprintf("request failed (%d)", resp.StatusCode)
	}
	if serverMessage != "" && kind != ErrUnauthorized {
		message = serverMessage
	}

	if kind == ErrUnauthorized && c.hooks.OnUnauthorized != nil {
		c.hooks.OnUnauthorized(ctx)
	}

	apiErr := newAPIError(kind, resp.StatusCode, 0, message)
	c.report(ctx, apiErr)
	return apiErr
}

func (c *Client) report(ctx context.Context, err *APIError) {
	level := notify.LevelError
	if errors.Is(err, ErrUnauthorized) {
		level = notify.LevelWarning
	}
	c.notices.Post(ctx, level, "request", err.Message, nil)
}

// envelopeMessage best-effort extracts the backend message from an error body.
func envelopeMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var env Envelope
	if json.Unmarshal(data, &env) != nil {
		return ""
	}
	return env.Message
}

func drainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, r)
	r.Close()
}
