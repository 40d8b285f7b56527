// Package api is the HTTP client for the timeclock backend. Every backend call
// goes through Client.do, which attaches the bearer token and turns non-2xx
// responses into application errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	apperrors "github.com/target/timeclock/internal/errors"
	"github.com/target/timeclock/internal/observability/metrics"
	"github.com/target/timeclock/internal/observability/statsd"
	"github.com/target/timeclock/internal/ports"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 16 << 20

	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.PunchAPI   = (*Client)(nil)
	_ ports.EntriesAPI = (*Client)(nil)
	_ ports.AdminAPI   = (*Client)(nil)
	_ ports.ExportAPI  = (*Client)(nil)
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Store supplies the bearer token and is cleared on 401.
	Store ports.CredentialStore
	// Invalidator is notified when the backend rejects the stored token.
	Invalidator ports.SessionInvalidator

	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// Client talks to the backend REST API.
type Client struct {
	baseURL *url.URL

	authed *http.Client
	anon   *http.Client

	store       ports.CredentialStore
	invalidator ports.SessionInvalidator
	metrics     statsd.Sink
	logger      *slog.Logger
}

// NewClient creates a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, errors.New("credential store is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// Both clients share one jar so load balancer affinity cookies survive sign-in.
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Client{
		baseURL:     base,
		authed:      &http.Client{Timeout: timeout, Jar: jar, Transport: &bearerTransport{store: opts.Store, base: transport}},
		anon:        &http.Client{Timeout: timeout, Jar: jar, Transport: transport},
		store:       opts.Store,
		invalidator: opts.Invalidator,
		metrics:     opts.Metrics,
		logger:      logger.With("component", "api_client"),
	}, nil
}

// call describes one backend request.
type call struct {
	// endpoint names the call in logs and metrics.
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	// anonymous calls carry no bearer token and never invalidate the session.
	anonymous bool
	// failMessage replaces the generic "Request failed: N" fallback.
	failMessage string
}

// do performs in and decodes a successful response into out. out may be nil,
// a *string (CSV responses), or any JSON-decodable pointer.
func (c *Client) do(ctx context.Context, in call, out any) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, in, out)
	metrics.EmitAPIRequest(c.metrics, metrics.RequestMetric{
		Endpoint: in.endpoint,
		Method:   in.method,
		Status:   status,
		Duration: time.Since(start),
		Err:      err,
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, in call, out any) (int, error) {
	req, err := c.newRequest(ctx, in)
	if err != nil {
		return 0, err
	}

	client := c.authed
	if in.anonymous {
		client = c.anon
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, apperrors.MapTransportError(err, fmt.Sprintf("%s request failed", in.endpoint))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, apperrors.MapTransportError(err, fmt.Sprintf("read %s response", in.endpoint))
	}

	if err := c.checkStatus(ctx, in, resp.StatusCode, body); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, decodeBody(resp.Header.Get("Content-Type"), body, out)
}

func (c *Client) newRequest(ctx context.Context, in call) (*http.Request, error) {
	u := c.baseURL.JoinPath(in.path)
	if len(in.query) > 0 {
		u.RawQuery = in.query.Encode()
	}

	var body io.Reader
	if in.body != nil {
		data, err := json.Marshal(in.body)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s request", in.endpoint)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, u.String(), body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "build %s request", in.endpoint)
	}
	if in.body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON+", "+contentTypeCSV)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

// checkStatus maps non-2xx responses. A 401 on an authenticated call clears
// the stored credentials and invalidates the session before failing.
func (c *Client) checkStatus(ctx context.Context, in call, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		if !in.anonymous {
			c.invalidate(ctx, in.endpoint)
		}
		return apperrors.Unauthorized("Unauthorized")
	case status == http.StatusForbidden:
		return forbiddenError(body)
	default:
		fallback := in.failMessage
		if fallback == "" {
			fallback = fmt.Sprintf("Request failed: %d", status)
		}
		return apperrors.RequestFailed(status, serverMessage(body, fallback))
	}
}

func (c *Client) invalidate(ctx context.Context, endpoint string) {
	c.logger.WarnContext(ctx, "backend rejected credentials; clearing session", "endpoint", endpoint)
	if err := c.store.Clear(ctx); err != nil {
		c.logger.ErrorContext(ctx, "failed to clear credentials", "error", err)
	}
	if c.invalidator != nil {
		c.invalidator.Invalidate(ctx, "unauthorized")
	}
}

func decodeBody(contentType string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if isCSV(contentType) {
		s, ok := out.(*string)
		if !ok {
			return apperrors.Internal("unexpected CSV response")
		}
		*s = string(body)
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(body)
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeRequestFailed, "decode response")
	}
	return nil
}

func isCSV(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, contentTypeCSV)
	}
	return mt == contentTypeCSV
}

// formatTime renders t the way the backend expects query timestamps.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
