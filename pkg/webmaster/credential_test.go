package webmaster

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveCredential_Set(t *testing.T) {
	t.Setenv(EnvAPIKey, "abc123")
	key, err := ResolveCredential()
	if err != nil {
		t.Fatalf("ResolveCredential: %v", err)
	}
	if key != "abc123" {
		t.Errorf("key = %q, want abc123", key)
	}
}

func TestResolveCredential_Missing(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	_, err := ResolveCredential()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), EnvAPIKey) {
		t.Errorf("error %q should name the missing variable", err)
	}
}
