// Package webmaster provides the shared HTTP client for the Bing Webmaster
// Tools JSON API (https://ssl.bing.com/webmaster/api.svc/json).
//
// The client is a long-lived connection object with a bounded pool and
// per-phase timeouts. Every outgoing request carries the API key as the
// apikey query parameter; the key is injected by the client itself, as the
// last step of request construction, so caller-supplied parameters can never
// shadow or duplicate it. All parameters travel through url.Values encoding —
// nothing is ever string-concatenated into a URL.
//
// Responses are normalized before being returned: the OData "d" envelope is
// stripped, empty-body successes are reported as an explicit marker, and
// error responses (HTTP-level or embedded in a 200 body) are classified into
// the package's error taxonomy ([ConfigError], [ValidationError],
// [NetworkError], [RemoteError], [DecodeError]).
//
// Usage:
//
//	key, err := webmaster.ResolveCredential()
//	c, err := webmaster.New(key, webmaster.WithMaxConns(10))
//	res, err := c.Get(ctx, "GetUserSites", nil)
package webmaster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultBaseURL is the production Bing Webmaster Tools JSON endpoint.
	DefaultBaseURL = "https://ssl.bing.com/webmaster/api.svc/json"

	// apiKeyParam is the reserved query parameter carrying the credential.
	// The client overwrites any caller-supplied value for this key.
	apiKeyParam = "apikey"

	defaultConnectTimeout = 5 * time.Second
	defaultReadTimeout    = 30 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultPoolTimeout    = 5 * time.Second
	defaultMaxConns       = 10
	defaultMaxIdleConns   = 5

	// maxResponseBytes caps how much of a response body is read. Traffic
	// statistics payloads are well under this; anything larger is misbehaving.
	maxResponseBytes = 16 << 20

	// maxErrorBodyBytes caps how much raw body text a RemoteError carries.
	maxErrorBodyBytes = 2048
)

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithBaseURL overrides the API base URL. Useful for tests and proxies.
// A trailing slash is stripped.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithConnectTimeout bounds DNS resolution plus TCP/TLS establishment.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

// WithReadTimeout bounds the wait for response headers and, together with the
// write timeout, the overall request deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.readTimeout = d
	}
}

// WithWriteTimeout bounds request-body transmission. net/http has no
// standalone write deadline, so this contributes to the overall request
// deadline applied when the caller's context has none.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.writeTimeout = d
	}
}

// WithPoolTimeout bounds how long a call may wait for an in-flight request
// slot before failing with a [NetworkError] in [PhasePool].
func WithPoolTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.poolTimeout = d
	}
}

// WithMaxConns sets the maximum number of simultaneous requests (and
// underlying connections). Must be at least 1.
func WithMaxConns(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithMaxIdleConns sets the number of keep-alive connections retained
// between calls.
func WithMaxIdleConns(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxIdleConns = n
		}
	}
}

// WithHTTPClient replaces the internal *http.Client entirely. Timeout and
// pool-size options configuring the default transport are ignored when this
// is used. Intended for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client is the process-wide connection object for the Bing Webmaster Tools
// API. It is safe for concurrent use; all calls share one bounded pool.
//
// Construct instances with [New]. The zero value is not usable.
type Client struct {
	baseURL string
	apiKey  string

	connectTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	poolTimeout    time.Duration
	maxConns       int
	maxIdleConns   int

	httpClient *http.Client

	// sem bounds the number of in-flight requests. Acquisition is the "pool"
	// phase of a call.
	sem *semaphore.Weighted
}

// New creates a Client authenticated with apiKey. apiKey must be non-empty;
// use [ResolveCredential] to obtain it from the environment.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("webmaster: apiKey must not be empty")
	}
	c := &Client{
		baseURL:        DefaultBaseURL,
		apiKey:         apiKey,
		connectTimeout: defaultConnectTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		poolTimeout:    defaultPoolTimeout,
		maxConns:       defaultMaxConns,
		maxIdleConns:   defaultMaxIdleConns,
	}
	for _, o := range opts {
		o(c)
	}

	if c.httpClient == nil {
		dialer := &net.Dialer{
			Timeout:   c.connectTimeout,
			KeepAlive: 30 * time.Second,
		}
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   c.connectTimeout,
				ResponseHeaderTimeout: c.readTimeout,
				MaxConnsPerHost:       c.maxConns,
				MaxIdleConnsPerHost:   c.maxIdleConns,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}

	c.sem = semaphore.NewWeighted(int64(c.maxConns))
	return c, nil
}

// Get issues a GET request to endpoint with the given query parameters.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (Result, error) {
	return c.Call(ctx, endpoint, http.MethodGet, params, nil)
}

// Post issues a POST request to endpoint with body JSON-encoded into the
// request. The credential still travels as a query parameter, matching the
// api.svc/json contract.
func (c *Client) Post(ctx context.Context, endpoint string, body map[string]any) (Result, error) {
	return c.Call(ctx, endpoint, http.MethodPost, nil, body)
}

// Call performs one request against the API and returns the normalized
// result.
//
// endpoint must be a bare method name (e.g. "GetUserSites") — it is joined to
// the base URL as a single path segment and never assembled from caller
// input. params holds already-validated tool arguments; the client copies
// them and then sets the apikey parameter last, so a caller-supplied value
// under that key is discarded rather than sent.
func (c *Client) Call(ctx context.Context, endpoint, method string, params url.Values, body any) (Result, error) {
	if endpoint == "" || strings.ContainsAny(endpoint, "/?#&% ") {
		return Result{}, fmt.Errorf("webmaster: invalid endpoint %q", endpoint)
	}

	// Pool phase: wait for an in-flight slot.
	acquireCtx, cancelAcquire := context.WithTimeout(ctx, c.poolTimeout)
	err := c.sem.Acquire(acquireCtx, 1)
	cancelAcquire()
	if err != nil {
		return Result{}, &NetworkError{Phase: PhasePool, Err: err}
	}
	defer c.sem.Release(1)

	// Assemble query parameters: caller values first, credential last. Set
	// replaces every value under the key, so duplicates cannot survive.
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set(apiKeyParam, c.apiKey)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("webmaster: encode request body for %s: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(data)
	}

	// Apply the overall request deadline when the caller has none. Connect
	// and response-header waits are bounded separately by the transport.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.writeTimeout+c.readTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("webmaster: create request for %s: %w", endpoint, err)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, &NetworkError{Phase: phaseOf(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, &NetworkError{Phase: PhaseRead, Err: err}
	}

	slog.Debug("webmaster api call", "endpoint", endpoint, "method", method, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, remoteError(resp.StatusCode, data)
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return Result{Empty: true}, nil
	}

	return normalize(data)
}

// remoteError builds a [RemoteError] from a non-2xx response. When the body
// is JSON in the API's error shape its code and message are carried verbatim;
// otherwise the raw text is used, truncated.
func remoteError(status int, body []byte) *RemoteError {
	var parsed struct {
		ErrorCode int    `json:"ErrorCode"`
		Message   string `json:"Message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.ErrorCode != 0 || parsed.Message != "") {
		return &RemoteError{Status: status, Code: parsed.ErrorCode, Message: parsed.Message}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyBytes {
		text = text[:maxErrorBodyBytes]
	}
	return &RemoteError{Status: status, Message: text}
}

// phaseOf classifies a transport error into the request phase it occurred in.
func phaseOf(err error) Phase {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return PhaseConnect
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return PhaseConnect
		case "write":
			return PhaseWrite
		}
	}
	return PhaseRead
}
