// Package upstream is the outbound HTTP layer: browser-like requests with
// per-attempt timeouts, linear retry backoff and per-host circuit breakers.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/circuitbreaker"
	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/metrics"
)

// BrowserUserAgent is sent on every outbound request; several cover hosts
// reject non-browser agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var tracer = otel.Tracer("github.com/DANIELMWENDWA9451/Daniels-Library/internal/upstream")

// ErrPolicy marks a request the caller refused to follow, such as a redirect
// to a host it does not trust. It says nothing about the host's health, so it
// never trips a breaker and is never retried.
var ErrPolicy = errors.New("request refused by client policy")

// StatusError reports a response status the caller asked to treat as failure.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Policy bounds one logical request.
type Policy struct {
	// Timeout applies to each attempt separately, including reading the body.
	Timeout time.Duration
	// Retries is the number of extra attempts after the first.
	Retries int
	// Interval is the linear backoff step: attempt n waits Interval*n.
	Interval time.Duration
}

// Client issues outbound requests. The zero value is not usable; use NewClient.
type Client struct {
	http      *http.Client
	breakers  *circuitbreaker.Group
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBreakers routes every request through the breaker for its host.
func WithBreakers(g *circuitbreaker.Group) Option {
	return func(c *Client) { c.breakers = g }
}

// WithUserAgent overrides BrowserUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a client backed by NewTransport unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Transport: NewTransport()},
		userAgent: BrowserUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsBreakerFailure reports whether err means the host itself is unhealthy.
// Client-side statuses like 404 are normal answers and do not count.
func IsBreakerFailure(err error) bool {
	if errors.Is(err, ErrPolicy) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

func retryable(err error) bool {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, context.Canceled) || errors.Is(err, ErrPolicy) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// Do sends a request and returns the response with its body open. Transport
// errors, 429 and 5xx responses are retried per policy; any other status is
// returned as-is for the caller to interpret. The caller must close the body.
func (c *Client) Do(ctx context.Context, method, rawURL string, header http.Header, p Policy) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}

	ctx, span := tracer.Start(ctx, "upstream "+method, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("server.address", u.Hostname()),
		))
	defer span.End()

	var b backoff.BackOff = &linearBackOff{step: p.Interval}
	b = backoff.WithMaxRetries(b, uint64(max(p.Retries, 0)))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	op := func() (*http.Response, error) {
		attempt++
		resp, err := c.attempt(ctx, method, u, header, p.Timeout)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}
	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).
			Str("url", rawURL).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retrying upstream request")
	}

	resp, err := backoff.RetryNotifyWithData(op, b, notify)
	span.SetAttributes(attribute.Int("http.attempts", attempt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, method string, u *url.URL, header http.Header, timeout time.Duration) (*http.Response, error) {
	attemptCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, u.String(), nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	var resp *http.Response
	send := func() error {
		r, err := c.http.Do(req)
		if err != nil {
			metrics.RecordUpstreamRequest(u.Hostname(), 0)
			return err
		}
		metrics.RecordUpstreamRequest(u.Hostname(), r.StatusCode)
		if r.StatusCode >= http.StatusInternalServerError || r.StatusCode == http.StatusTooManyRequests {
			drain(r.Body)
			return &StatusError{URL: u.Redacted(), StatusCode: r.StatusCode}
		}
		resp = r
		return nil
	}

	if c.breakers != nil {
		err = c.breakers.Get(u.Hostname()).Execute(ctx, send)
	} else {
		err = send()
	}
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// GetJSON fetches rawURL and decodes a 2xx JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any, p Policy) error {
	header := http.Header{"Accept": []string{"application/json"}}
	resp, err := c.Do(ctx, http.MethodGet, rawURL, header, p)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if err := decodeJSON(resp.Body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return b.step * time.Duration(b.n)
}

func (b *linearBackOff) Reset() {
	b.n = 0
}
