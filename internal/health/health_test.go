package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) result {
	t.Helper()
	var res result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return res
}

func TestHealthz_AlwaysOK(t *testing.T) {
	h := New()
	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if res := decodeBody(t, rec); res.Status != "ok" {
		t.Errorf("body status = %q, want ok", res.Status)
	}
}

func TestReadyz_AllPass(t *testing.T) {
	h := New(
		Checker{Name: "a", Check: func(context.Context) error { return nil }},
		Checker{Name: "b", Check: func(context.Context) error { return nil }},
	)
	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	res := decodeBody(t, rec)
	if res.Checks["a"] != "ok" || res.Checks["b"] != "ok" {
		t.Errorf("checks = %v, want all ok", res.Checks)
	}
}

func TestReadyz_Failure(t *testing.T) {
	h := New(
		Checker{Name: "credential", Check: func(context.Context) error { return errors.New("not set") }},
	)
	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	res := decodeBody(t, rec)
	if res.Status != "fail" {
		t.Errorf("body status = %q, want fail", res.Status)
	}
}

func TestCredentialChecker(t *testing.T) {
	ok := CredentialChecker(func() (string, error) { return "key", nil })
	if err := ok.Check(context.Background()); err != nil {
		t.Errorf("expected pass, got %v", err)
	}

	missing := CredentialChecker(func() (string, error) { return "", errors.New("unset") })
	if err := missing.Check(context.Background()); err == nil {
		t.Error("expected failure for unresolvable credential")
	}
}

func TestEndpointChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Even an error status means the host is reachable.
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := EndpointChecker(srv.Client(), srv.URL)
	if err := c.Check(context.Background()); err != nil {
		t.Errorf("expected reachable, got %v", err)
	}

	srv.Close()
	if err := c.Check(context.Background()); err == nil {
		t.Error("expected failure after server shutdown")
	}
}
