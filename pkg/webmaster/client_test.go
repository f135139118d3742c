package webmaster

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient returns a Client pointed at a httptest server running handler.
func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	c, err := New(apiKey, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// ---- Constructor tests ----

func TestNew_EmptyAPIKey(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New("key")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.maxConns != defaultMaxConns {
		t.Errorf("maxConns = %d, want %d", c.maxConns, defaultMaxConns)
	}
	if c.connectTimeout != defaultConnectTimeout {
		t.Errorf("connectTimeout = %v, want %v", c.connectTimeout, defaultConnectTimeout)
	}
}

// ---- Credential injection ----

func TestCall_InjectsCredential(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, "real-key", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{"d": null}`)
	})

	if _, err := c.Get(context.Background(), "GetUserSites", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got := gotQuery.Get(apiKeyParam); got != "real-key" {
		t.Errorf("apikey = %q, want %q", got, "real-key")
	}
}

func TestCall_CallerCannotOverrideCredential(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, "real-key", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{}`)
	})

	params := url.Values{}
	params.Set("siteUrl", "https://example.com")
	params.Add(apiKeyParam, "attacker-key")
	params.Add(apiKeyParam, "second-attacker-key")

	if _, err := c.Get(context.Background(), "GetQueryStats", params); err != nil {
		t.Fatalf("Get: %v", err)
	}

	keys := gotQuery[apiKeyParam]
	if len(keys) != 1 {
		t.Fatalf("expected exactly 1 apikey value on the wire, got %d: %v", len(keys), keys)
	}
	if keys[0] != "real-key" {
		t.Errorf("apikey = %q, want the resolved credential", keys[0])
	}
	if gotQuery.Get("siteUrl") != "https://example.com" {
		t.Errorf("siteUrl = %q, want caller value preserved", gotQuery.Get("siteUrl"))
	}
}

func TestCall_ParamsProperlyEncoded(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `{}`)
	})

	params := url.Values{}
	params.Set("query", "best cafés & bars?")

	if _, err := c.Get(context.Background(), "GetKeyword", params); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := gotQuery.Get("query"); got != "best cafés & bars?" {
		t.Errorf("query = %q, want round-tripped original", got)
	}
}

func TestCall_InvalidEndpointRejected(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, ep := range []string{"", "a/b", "x?y=1", "a#b", "a b"} {
		if _, err := c.Get(context.Background(), ep, nil); err == nil {
			t.Errorf("endpoint %q: expected error", ep)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("expected no requests for invalid endpoints, got %d", calls.Load())
	}
}

// ---- Envelope and error normalization ----

func TestCall_UnwrapsODataEnvelope(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"d": {"Sites": [{"Url": "https://example.com"}]}}`)
	})

	res, err := c.Get(context.Background(), "GetUserSites", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	obj, ok := res.Value.(map[string]any)
	if !ok {
		t.Fatalf("Value is %T, want map", res.Value)
	}
	if _, leaked := obj["d"]; leaked {
		t.Error("envelope key \"d\" leaked into the result")
	}
	if _, ok := obj["Sites"]; !ok {
		t.Error("expected unwrapped payload to contain Sites")
	}
}

func TestCall_BareJSONPassedThrough(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[1, 2, 3]`)
	})

	res, err := c.Get(context.Background(), "GetCrawlStats", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	list, ok := res.Value.([]any)
	if !ok || len(list) != 3 {
		t.Errorf("Value = %#v, want 3-element list", res.Value)
	}
}

func TestCall_EmbeddedErrorIn200Body(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ErrorCode": 301, "Message": "Request throttled"}`)
	})

	_, err := c.Get(context.Background(), "GetUserSites", nil)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Code != 301 {
		t.Errorf("Code = %d, want 301", remote.Code)
	}
	if remote.Message != "Request throttled" {
		t.Errorf("Message = %q, want verbatim remote text", remote.Message)
	}
}

func TestCall_EmptyBodySuccessMarker(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := c.Post(context.Background(), "SubmitUrl", map[string]any{"siteUrl": "https://example.com"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !res.Empty {
		t.Error("expected Empty marker for 204 response")
	}
	if res.Value != nil {
		t.Errorf("Value = %#v, want nil for empty success", res.Value)
	}
}

func TestCall_HTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ErrorCode": 3, "Message": "InvalidApiKey"}`)
	})

	_, err := c.Get(context.Background(), "GetUserSites", nil)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", remote.Status)
	}
	if remote.Code != 3 || remote.Message != "InvalidApiKey" {
		t.Errorf("Code/Message = %d/%q, want remote values verbatim", remote.Code, remote.Message)
	}
}

func TestCall_HTTPErrorNonJSONBody(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream unavailable")
	})

	_, err := c.Get(context.Background(), "GetUserSites", nil)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Message != "upstream unavailable" {
		t.Errorf("Message = %q, want raw body text", remote.Message)
	}
}

func TestCall_MalformedJSONBody(t *testing.T) {
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"d": not-json`)
	})

	_, err := c.Get(context.Background(), "GetUserSites", nil)
	var decode *DecodeError
	if !errors.As(err, &decode) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

// ---- Network failure classification ----

func TestCall_ConnectFailure(t *testing.T) {
	// Reserve a port and close the listener so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c, err := New("super-secret-key",
		WithBaseURL("http://"+addr),
		WithConnectTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Get(context.Background(), "GetUserSites", nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Phase != PhaseConnect {
		t.Errorf("Phase = %q, want %q", netErr.Phase, PhaseConnect)
	}
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Error("credential leaked into error message")
	}
}

func TestCall_PoolExhaustion(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	c := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		io.WriteString(w, `{}`)
	},
		WithMaxConns(1),
		WithPoolTimeout(50*time.Millisecond),
	)
	defer close(release)

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), "GetUserSites", nil)
		done <- err
	}()

	// Wait until the first request holds the only slot.
	<-entered

	_, err := c.Get(context.Background(), "GetPageStats", nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Phase != PhasePool {
		t.Errorf("Phase = %q, want %q", netErr.Phase, PhasePool)
	}

	release <- struct{}{}
	if err := <-done; err != nil {
		t.Errorf("first request failed: %v", err)
	}
}

// ---- POST body handling ----

func TestPost_BodyAndCredentialSeparation(t *testing.T) {
	var gotBody map[string]any
	var gotQuery url.Values
	var gotContentType string
	c := newTestClient(t, "real-key", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	body := map[string]any{
		"siteUrl": "https://example.com",
		"url":     "https://example.com/new",
	}
	if _, err := c.Post(context.Background(), "SubmitUrl", body); err != nil {
		t.Fatalf("Post: %v", err)
	}

	if gotQuery.Get(apiKeyParam) != "real-key" {
		t.Error("expected credential in query parameters")
	}
	if _, leaked := gotBody[apiKeyParam]; leaked {
		t.Error("credential must not appear in the request body")
	}
	if gotBody["siteUrl"] != "https://example.com" || gotBody["url"] != "https://example.com/new" {
		t.Errorf("body = %#v, want caller fields preserved", gotBody)
	}
	if !strings.HasPrefix(gotContentType, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}
