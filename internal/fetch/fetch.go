// Package fetch issues bounded, single-attempt JSON requests to upstream
// providers. Every call settles into a Result: success with a decoded value,
// or a classified failure. Nothing in this package retries, and a call that
// never left the process (disabled provider, failed precondition) settles as
// skipped without touching the network.
package fetch

import (
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
)

// DefaultTimeout is the per-call budget for one upstream request. It bounds
// the whole attempt: connect, TLS, response headers and body decode.
const DefaultTimeout = 4 * time.Second

// FailKind classifies why an upstream call produced no usable value.
type FailKind int

const (
	// FailTimeout means the call exceeded its per-call budget.
	FailTimeout FailKind = iota + 1
	// FailHTTP means the upstream answered with a non-2xx status.
	FailHTTP
	// FailParse means the 2xx body was not decodable JSON.
	FailParse
	// FailUnreachable means the request never completed: DNS, connect or
	// transport errors other than the deadline.
	FailUnreachable
	// FailSkipped means a precondition disabled the call before any network
	// activity: missing credential, region gate, or a missing dependent value
	// from an earlier round.
	FailSkipped
	// FailInvalid means the upstream answered 2xx with parseable JSON that
	// failed the caller's structural checks.
	FailInvalid
)

func (k FailKind) String() string {
	switch k {
	case FailTimeout:
		return "timeout"
	case FailHTTP:
		return "http_error"
	case FailParse:
		return "parse_error"
	case FailUnreachable:
		return "unreachable"
	case FailSkipped:
		return "skipped"
	case FailInvalid:
		return "invalid_payload"
	default:
		return "unknown"
	}
}

// Error describes one settled upstream failure.
type Error struct {
	Kind   FailKind
	Status int    // HTTP status for FailHTTP, zero otherwise
	URL    string // request URL with credential query values redacted
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Kind == FailHTTP:
		return fmt.Sprintf("%s: upstream returned status %d (%s)", e.Kind, e.Status, e.URL)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v (%s)", e.Kind, e.Err, e.URL)
	default:
		return fmt.Sprintf("%s (%s)", e.Kind, e.URL)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the settled outcome of one upstream call. Err == nil means the
// call succeeded and Value holds the decoded payload.
type Result[T any] struct {
	Value     T
	FetchedAt time.Time
	Err       *Error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Skipped reports whether the call was disabled before any network activity.
func (r Result[T]) Skipped() bool {
	return r.Err != nil && r.Err.Kind == FailSkipped
}

// Success wraps a decoded value into a settled result.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v, FetchedAt: time.Now()}
}

// Failure settles a call as the given failure kind.
func Failure[T any](kind FailKind, rawURL string, status int, err error) Result[T] {
	return Result[T]{
		FetchedAt: time.Now(),
		Err:       &Error{Kind: kind, Status: status, URL: rawURL, Err: err},
	}
}

// Skipped settles a call that a precondition disabled. No request is made.
func Skipped[T any](rawURL string) Result[T] {
	return Failure[T](FailSkipped, rawURL, 0, nil)
}

// Invalid settles a 2xx response whose payload failed structural checks.
func Invalid[T any](rawURL string, err error) Result[T] {
	return Failure[T](FailInvalid, rawURL, 0, err)
}

// Client issues bounded upstream requests. One Client is shared by all
// provider adapters so they agree on the per-call budget.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient creates a fetch client with the given per-call timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger.With("component", "fetch"),
	}
}

// Timeout returns the per-call budget the client applies.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// JSON performs one bounded request and decodes a 2xx JSON body into T.
// When enabled is false the call settles as skipped without any network
// activity. Each call owns its own deadline; cancelling one call has no
// effect on sibling calls sharing the same parent context.
func JSON[T any](ctx context.Context, c *Client, req *http.Request, enabled bool) Result[T] {
	safeURL := RedactURL(req.URL)

	if !enabled {
		c.logger.Debug("upstream call skipped", "url", safeURL)
		return Skipped[T](safeURL)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("upstream call timed out", "url", safeURL, "timeout", c.timeout)
			return Failure[T](FailTimeout, safeURL, 0, err)
		}
		c.logger.Warn("upstream unreachable", "url", safeURL, "error", err)
		return Failure[T](FailUnreachable, safeURL, 0, err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies are not parsed; the status alone classifies the call.
		c.logger.Warn("upstream returned error status", "url", safeURL, "status", resp.StatusCode)
		return Failure[T](FailHTTP, safeURL, resp.StatusCode, nil)
	}

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("upstream body timed out", "url", safeURL, "timeout", c.timeout)
			return Failure[T](FailTimeout, safeURL, 0, err)
		}
		c.logger.Warn("failed to decode upstream payload", "url", safeURL, "error", err)
		return Failure[T](FailParse, safeURL, 0, err)
	}

	c.logger.Debug("upstream call succeeded", "url", safeURL)
	return Success(v)
}

// secretParams are query keys whose values never appear in logs or errors.
var secretParams = map[string]bool{
	"token":   true,
	"api_key": true,
	"apikey":  true,
	"key":     true,
}

// RedactURL renders a request URL with credential query values masked.
func RedactURL(u *url.URL) string {
	q := u.Query()
	changed := false
	for key := range q {
		if secretParams[strings.ToLower(key)] {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	masked := *u
	masked.RawQuery = q.Encode()
	return masked.String()
}
