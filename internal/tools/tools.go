// Package tools implements the MCP tool surface of bingmaster: one tool per
// Bing Webmaster Tools API endpoint, registered on an [mcp.Server] from the
// official MCP Go SDK.
//
// All tools share a single lazily-constructed [webmaster.Client]. The client
// is built on first use so that listing tools, serving health endpoints, and
// starting the server never require a credential. Argument validation happens
// before the client is touched: a call with missing or invalid arguments
// performs no network activity and cannot trigger credential resolution.
//
// Every failure is reported as an MCP tool-error result (IsError with a JSON
// payload describing the error kind), never as a protocol failure. The API
// credential never appears in any result or log line.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/internal/config"
	"github.com/MrWong99/bingmaster/internal/observe"
	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// caller is the subset of [webmaster.Client] the tool handlers use. Tests
// substitute a fake to observe or suppress network activity.
type caller interface {
	Get(ctx context.Context, endpoint string, params url.Values) (webmaster.Result, error)
	Post(ctx context.Context, endpoint string, body map[string]any) (webmaster.Result, error)
}

var _ caller = (*webmaster.Client)(nil)

// Service owns the shared API client and exposes the tool handlers. The
// client is constructed at most once, on the first tool call that passes
// validation; concurrent first calls are serialized by sync.Once.
type Service struct {
	metrics *observe.Metrics

	once      sync.Once
	client    caller
	clientErr error

	// newClient builds the shared client. Overridable in tests.
	newClient func() (caller, error)
}

// NewService creates a Service that will build its API client from cfg on
// first use. A nil metrics falls back to the process-wide default.
func NewService(cfg config.APIConfig, metrics *observe.Metrics) *Service {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	s := &Service{metrics: metrics}
	s.newClient = func() (caller, error) {
		key, err := webmaster.ResolveCredential()
		if err != nil {
			return nil, err
		}
		var opts []webmaster.Option
		if cfg.BaseURL != "" {
			opts = append(opts, webmaster.WithBaseURL(cfg.BaseURL))
		}
		if cfg.ConnectTimeout > 0 {
			opts = append(opts, webmaster.WithConnectTimeout(cfg.ConnectTimeout.Std()))
		}
		if cfg.ReadTimeout > 0 {
			opts = append(opts, webmaster.WithReadTimeout(cfg.ReadTimeout.Std()))
		}
		if cfg.WriteTimeout > 0 {
			opts = append(opts, webmaster.WithWriteTimeout(cfg.WriteTimeout.Std()))
		}
		if cfg.PoolTimeout > 0 {
			opts = append(opts, webmaster.WithPoolTimeout(cfg.PoolTimeout.Std()))
		}
		if cfg.MaxConns > 0 {
			opts = append(opts, webmaster.WithMaxConns(cfg.MaxConns))
		}
		if cfg.MaxIdleConns > 0 {
			opts = append(opts, webmaster.WithMaxIdleConns(cfg.MaxIdleConns))
		}
		return webmaster.New(key, opts...)
	}
	return s
}

// api returns the shared client, constructing it on first call. A failed
// construction (e.g. unset credential) is sticky for the process lifetime;
// the operator fixes the environment and restarts.
func (s *Service) api() (caller, error) {
	s.once.Do(func() {
		c, err := s.newClient()
		if err != nil {
			s.clientErr = err
			return
		}
		s.client = &meteredCaller{c: c, m: s.metrics}
	})
	return s.client, s.clientErr
}

// meteredCaller decorates a caller with per-endpoint request metrics.
type meteredCaller struct {
	c caller
	m *observe.Metrics
}

func (mc *meteredCaller) Get(ctx context.Context, endpoint string, params url.Values) (webmaster.Result, error) {
	start := time.Now()
	res, err := mc.c.Get(ctx, endpoint, params)
	mc.record(ctx, endpoint, time.Since(start).Seconds(), err)
	return res, err
}

func (mc *meteredCaller) Post(ctx context.Context, endpoint string, body map[string]any) (webmaster.Result, error) {
	start := time.Now()
	res, err := mc.c.Post(ctx, endpoint, body)
	mc.record(ctx, endpoint, time.Since(start).Seconds(), err)
	return res, err
}

func (mc *meteredCaller) record(ctx context.Context, endpoint string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		mc.m.RecordAPIError(ctx, endpoint, classify(err).Kind)
	}
	mc.m.RecordAPIRequest(ctx, endpoint, status, seconds)
}

// Register adds all tools to srv.
func (s *Service) Register(srv *mcp.Server) {
	s.registerSites(srv)
	s.registerTraffic(srv)
	s.registerCrawl(srv)
	s.registerSubmission(srv)
	s.registerSitemaps(srv)
	s.registerKeywords(srv)
	s.registerLinks(srv)
	s.registerBlocking(srv)
	s.registerQueryParams(srv)
	s.registerURLs(srv)
	s.registerRegional(srv)
}

// siteArgs is the argument set shared by every tool that operates on a
// single site.
type siteArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
}

// ---- call plumbing ----

// run executes call against the shared client, recording a span and metrics,
// and converts the outcome into an MCP tool result. Errors from the client's
// taxonomy become IsError results carrying a structured JSON payload.
func (s *Service) run(ctx context.Context, tool string, call func(ctx context.Context, c caller) (any, error)) (*mcp.CallToolResult, any, error) {
	ctx, span := observe.StartSpan(ctx, "tools."+tool)
	defer span.End()
	start := time.Now()

	c, err := s.api()
	if err == nil {
		var payload any
		payload, err = call(ctx, c)
		if err == nil {
			s.metrics.RecordToolCall(ctx, tool, "ok", time.Since(start).Seconds())
			return textResult(payload), nil, nil
		}
	}

	observe.Logger(ctx).Debug("tool call failed", "tool", tool, "err", err)
	s.metrics.RecordToolCall(ctx, tool, "error", time.Since(start).Seconds())
	return errorResult(err), nil, nil
}

// reject reports an argument validation failure without touching the client.
func (s *Service) reject(ctx context.Context, tool string, err error) (*mcp.CallToolResult, any, error) {
	s.metrics.RecordToolCall(ctx, tool, "invalid", 0)
	return errorResult(err), nil, nil
}

// forSite handles the common shape "GET endpoint?siteUrl=… and stamp the
// result with typeName".
func (s *Service) forSite(ctx context.Context, tool, endpoint, typeName, siteURL string) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", siteURL); err != nil {
		return s.reject(ctx, tool, err)
	}
	return s.run(ctx, tool, func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, endpoint, query("siteUrl", siteURL))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, typeName), nil
	})
}

// postMessage handles the common shape "POST body, confirm with a message".
// Validation must have happened before calling it.
func (s *Service) postMessage(ctx context.Context, tool, endpoint string, body map[string]any, msg string) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, tool, func(ctx context.Context, c caller) (any, error) {
		if _, err := c.Post(ctx, endpoint, body); err != nil {
			return nil, err
		}
		return map[string]string{"message": msg}, nil
	})
}

// textResult marshals payload as the single JSON text content of a success
// result.
func textResult(payload any) *mcp.CallToolResult {
	b, err := json.Marshal(payload)
	if err != nil {
		return errorResult(&webmaster.DecodeError{Err: err})
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// toolError is the JSON payload of an IsError result.
type toolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// classify maps the client error taxonomy onto a wire-friendly payload.
func classify(err error) toolError {
	var (
		cfgErr *webmaster.ConfigError
		valErr *webmaster.ValidationError
		netErr *webmaster.NetworkError
		remErr *webmaster.RemoteError
		decErr *webmaster.DecodeError
	)
	switch {
	case errors.As(err, &cfgErr):
		return toolError{Kind: "config", Message: cfgErr.Error()}
	case errors.As(err, &valErr):
		return toolError{Kind: "validation", Message: valErr.Error()}
	case errors.As(err, &netErr):
		return toolError{Kind: "network", Message: netErr.Error()}
	case errors.As(err, &remErr):
		return toolError{Kind: "remote", Message: remErr.Error(), Status: remErr.Status, Code: remErr.Code}
	case errors.As(err, &decErr):
		return toolError{Kind: "decode", Message: decErr.Error()}
	default:
		return toolError{Kind: "internal", Message: err.Error()}
	}
}

func errorResult(err error) *mcp.CallToolResult {
	b, mErr := json.Marshal(classify(err))
	if mErr != nil {
		b = []byte(`{"kind":"internal","message":"failed to encode error"}`)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// ---- validation helpers ----

// required rejects empty or all-whitespace string arguments.
func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &webmaster.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// requiredList rejects empty lists and lists containing empty entries.
func requiredList(field string, values []string) error {
	if len(values) == 0 {
		return &webmaster.ValidationError{Field: field, Reason: "must contain at least one entry"}
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return &webmaster.ValidationError{Field: field, Reason: "must not contain empty entries"}
		}
	}
	return nil
}

// oneOf rejects values outside a fixed enumeration.
func oneOf(field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return &webmaster.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	}
}

// query builds url.Values from alternating key/value pairs.
func query(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}
