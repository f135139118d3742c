package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/internal/config"
	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// fakeCaller records every request it receives and returns a canned result.
type fakeCaller struct {
	mu           sync.Mutex
	gets         int
	posts        int
	lastEndpoint string
	lastParams   url.Values
	lastBody     map[string]any

	result webmaster.Result
	err    error
}

func (f *fakeCaller) Get(_ context.Context, endpoint string, params url.Values) (webmaster.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	f.lastEndpoint = endpoint
	f.lastParams = params
	return f.result, f.err
}

func (f *fakeCaller) Post(_ context.Context, endpoint string, body map[string]any) (webmaster.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts++
	f.lastEndpoint = endpoint
	f.lastBody = body
	return f.result, f.err
}

func (f *fakeCaller) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets + f.posts
}

// newTestService wires a Service to the given fake, counting how many times
// the client constructor runs.
func newTestService(fake *fakeCaller) (*Service, *int) {
	s := NewService(config.APIConfig{}, nil)
	constructions := 0
	s.newClient = func() (caller, error) {
		constructions++
		return fake, nil
	}
	return s, &constructions
}

// resultText extracts the single JSON text content of a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content count = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func decodeToolError(t *testing.T, res *mcp.CallToolResult) toolError {
	t.Helper()
	var te toolError
	if err := json.Unmarshal([]byte(resultText(t, res)), &te); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return te
}

func TestMissingArgument_NoNetworkCall(t *testing.T) {
	fake := &fakeCaller{}
	s, constructions := newTestService(fake)

	res, _, err := s.getQueryStats(context.Background(), nil, siteArgs{})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result for missing site_url")
	}
	te := decodeToolError(t, res)
	if te.Kind != "validation" {
		t.Errorf("kind = %q, want validation", te.Kind)
	}
	if fake.calls() != 0 {
		t.Errorf("network calls = %d, want 0", fake.calls())
	}
	if *constructions != 0 {
		t.Errorf("client constructed %d times on a rejected call, want 0", *constructions)
	}
}

func TestInvalidEnum_NoNetworkCall(t *testing.T) {
	fake := &fakeCaller{}
	s, _ := newTestService(fake)

	res, _, err := s.updateCrawlSettings(context.Background(), nil, updateCrawlSettingsArgs{
		SiteURL:   "https://example.com",
		CrawlRate: "Turbo",
	})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result for invalid crawl_rate")
	}
	te := decodeToolError(t, res)
	if te.Kind != "validation" {
		t.Errorf("kind = %q, want validation", te.Kind)
	}
	if fake.calls() != 0 {
		t.Errorf("network calls = %d, want 0", fake.calls())
	}
}

func TestConcurrentFirstUse_SingleClient(t *testing.T) {
	fake := &fakeCaller{result: webmaster.Result{Empty: true}}
	s, constructions := newTestService(fake)

	const n = 32
	var wg sync.WaitGroup
	clients := make([]caller, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.api()
			if err != nil {
				t.Errorf("api() error: %v", err)
				return
			}
			clients[i] = c
		}()
	}
	wg.Wait()

	if *constructions != 1 {
		t.Fatalf("client constructed %d times, want 1", *constructions)
	}
	for i, c := range clients {
		if c != clients[0] {
			t.Fatalf("client %d differs from client 0", i)
		}
	}
}

func TestSubmitURL_SinglePostAndSuccessMessage(t *testing.T) {
	fake := &fakeCaller{result: webmaster.Result{Empty: true}}
	s, _ := newTestService(fake)

	res, _, err := s.submitURL(context.Background(), nil, siteAndURLArgs{
		SiteURL: "https://example.com",
		URL:     "https://example.com/new-page",
	})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if fake.posts != 1 || fake.gets != 0 {
		t.Errorf("posts = %d, gets = %d, want exactly one POST", fake.posts, fake.gets)
	}
	if fake.lastEndpoint != "SubmitUrl" {
		t.Errorf("endpoint = %q, want SubmitUrl", fake.lastEndpoint)
	}
	if fake.lastBody["siteUrl"] != "https://example.com" || fake.lastBody["url"] != "https://example.com/new-page" {
		t.Errorf("unexpected body: %v", fake.lastBody)
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out["message"] != "URL https://example.com/new-page submitted successfully" {
		t.Errorf("message = %q", out["message"])
	}
}

func TestGetSites_StampsTypeField(t *testing.T) {
	fake := &fakeCaller{result: webmaster.Result{Value: []any{
		map[string]any{"Url": "https://example.com"},
	}}}
	s, _ := newTestService(fake)

	res, _, err := s.getSites(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if fake.lastEndpoint != "GetUserSites" {
		t.Errorf("endpoint = %q, want GetUserSites", fake.lastEndpoint)
	}

	var out []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("result length = %d, want 1", len(out))
	}
	if out[0]["__type"] != "Site:#Microsoft.Bing.Webmaster.Api" {
		t.Errorf("__type = %v", out[0]["__type"])
	}
}

func TestAddBlockedURL_DefaultBlockType(t *testing.T) {
	fake := &fakeCaller{result: webmaster.Result{Empty: true}}
	s, _ := newTestService(fake)

	res, _, err := s.addBlockedURL(context.Background(), nil, addBlockedURLArgs{
		SiteURL: "https://example.com",
		URL:     "https://example.com/private/",
	})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if fake.lastBody["blockType"] != "Directory" {
		t.Errorf("blockType = %v, want Directory", fake.lastBody["blockType"])
	}
}

func TestRemoteError_PayloadCarriesStatusAndCode(t *testing.T) {
	fake := &fakeCaller{err: &webmaster.RemoteError{Status: 400, Code: 3, Message: "InvalidApiKey"}}
	s, _ := newTestService(fake)

	res, _, err := s.getQueryStats(context.Background(), nil, siteArgs{SiteURL: "https://example.com"})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result")
	}
	te := decodeToolError(t, res)
	if te.Kind != "remote" || te.Status != 400 || te.Code != 3 {
		t.Errorf("payload = %+v, want remote/400/3", te)
	}
}

func TestConfigError_SurfacesAsToolError(t *testing.T) {
	s := NewService(config.APIConfig{}, nil)
	s.newClient = func() (caller, error) {
		return nil, &webmaster.ConfigError{Var: webmaster.EnvAPIKey, Reason: "environment variable is not set"}
	}

	res, _, err := s.getQueryStats(context.Background(), nil, siteArgs{SiteURL: "https://example.com"})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result")
	}
	te := decodeToolError(t, res)
	if te.Kind != "config" {
		t.Errorf("kind = %q, want config", te.Kind)
	}
}

func TestRegister_AddsAllTools(t *testing.T) {
	s, _ := newTestService(&fakeCaller{})
	srv := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)

	// Registration must not panic or require a credential.
	s.Register(srv)
}
