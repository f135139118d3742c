package webmaster

import (
	"encoding/json"
)

// envelopeKey is the OData wrapper key some api.svc/json responses use to box
// the actual payload.
const envelopeKey = "d"

// typeField is the OData type discriminator the Bing API uses on result
// objects. Some MCP clients rely on it for display, so [EnsureType] fills it
// in when the API omits it.
const typeField = "__type"

// typeSuffix is the namespace appended to every synthesised __type value.
const typeSuffix = ":#Microsoft.Bing.Webmaster.Api"

// Result is the normalized outcome of one API call.
type Result struct {
	// Value is the unwrapped response payload: the value under the OData "d"
	// key when present, otherwise the parsed body as-is. Nil when Empty.
	Value any

	// Empty reports that the endpoint returned a success status with no
	// content (some write endpoints do). Distinct from an empty object or
	// list, which would appear in Value.
	Empty bool
}

// normalize parses body and strips the OData envelope. A body that parses to
// an object carrying an ErrorCode field is classified as a [RemoteError] even
// under a 2xx status — the Bing API reports some failures inside a 200 body.
// A body that is not valid JSON yields a [DecodeError].
func normalize(body []byte) (Result, error) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, &DecodeError{Err: err}
	}

	if obj, ok := parsed.(map[string]any); ok {
		if inner, ok := obj[envelopeKey]; ok {
			parsed = inner
		}
	}

	if err := embeddedError(parsed); err != nil {
		return Result{}, err
	}

	return Result{Value: parsed}, nil
}

// embeddedError inspects a parsed payload for the API's error shape
// ({"ErrorCode": N, "Message": "..."}) and returns a [RemoteError] when the
// code is non-zero. ErrorCode 0 means success and is passed through.
func embeddedError(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := obj["ErrorCode"]
	if !ok {
		return nil
	}
	code, ok := asInt(raw)
	if !ok || code == 0 {
		return nil
	}
	msg, _ := obj["Message"].(string)
	return &RemoteError{Code: code, Message: msg}
}

// asInt converts the numeric types json.Unmarshal may produce into an int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// EnsureType stamps the OData __type discriminator onto v when absent. For a
// list, each object element is stamped. Non-object values are returned
// unchanged. The input is modified in place and returned for chaining.
func EnsureType(v any, typeName string) any {
	tag := typeName + typeSuffix
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				if _, present := obj[typeField]; !present {
					obj[typeField] = tag
				}
			}
		}
	case map[string]any:
		if _, present := t[typeField]; !present {
			t[typeField] = tag
		}
	}
	return v
}
