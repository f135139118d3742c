package webmaster

import (
	"errors"
	"testing"
)

func TestNormalize_Envelope(t *testing.T) {
	res, err := normalize([]byte(`{"d": {"Sites": []}}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	obj, ok := res.Value.(map[string]any)
	if !ok {
		t.Fatalf("Value is %T, want map", res.Value)
	}
	if _, ok := obj["Sites"]; !ok {
		t.Error("expected Sites under the unwrapped payload")
	}
}

func TestNormalize_NoEnvelope(t *testing.T) {
	res, err := normalize([]byte(`{"Url": "https://example.com"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	obj := res.Value.(map[string]any)
	if obj["Url"] != "https://example.com" {
		t.Errorf("Url = %v, want passthrough", obj["Url"])
	}
}

func TestNormalize_EnvelopeWithNull(t *testing.T) {
	res, err := normalize([]byte(`{"d": null}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Value != nil {
		t.Errorf("Value = %#v, want nil", res.Value)
	}
	if res.Empty {
		t.Error("a JSON null payload is not the empty-success marker")
	}
}

func TestNormalize_EmbeddedErrorUnderEnvelope(t *testing.T) {
	_, err := normalize([]byte(`{"d": {"ErrorCode": 4, "Message": "InvalidUrl"}}`))
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Code != 4 || remote.Message != "InvalidUrl" {
		t.Errorf("Code/Message = %d/%q", remote.Code, remote.Message)
	}
}

func TestNormalize_ErrorCodeZeroIsSuccess(t *testing.T) {
	res, err := normalize([]byte(`{"ErrorCode": 0, "Message": "ok"}`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Value == nil {
		t.Error("expected payload for ErrorCode 0")
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := normalize([]byte(`{broken`))
	var decode *DecodeError
	if !errors.As(err, &decode) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestEnsureType_List(t *testing.T) {
	v := []any{
		map[string]any{"Url": "https://a.example"},
		map[string]any{"Url": "https://b.example", "__type": "existing"},
	}
	out := EnsureType(v, "Site").([]any)

	first := out[0].(map[string]any)
	if first["__type"] != "Site:#Microsoft.Bing.Webmaster.Api" {
		t.Errorf("__type = %v, want stamped Site type", first["__type"])
	}
	second := out[1].(map[string]any)
	if second["__type"] != "existing" {
		t.Errorf("__type = %v, want existing value preserved", second["__type"])
	}
}

func TestEnsureType_Object(t *testing.T) {
	v := map[string]any{"Clicks": float64(10)}
	out := EnsureType(v, "QueryStats").(map[string]any)
	if out["__type"] != "QueryStats:#Microsoft.Bing.Webmaster.Api" {
		t.Errorf("__type = %v", out["__type"])
	}
}

func TestEnsureType_ScalarPassthrough(t *testing.T) {
	if got := EnsureType(true, "Anything"); got != true {
		t.Errorf("EnsureType(true) = %v, want unchanged", got)
	}
}
