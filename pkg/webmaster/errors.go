package webmaster

import (
	"fmt"
)

// Phase identifies which stage of an HTTP request a [NetworkError] occurred in.
// It lets callers distinguish a transient outage (connect/read) from local
// saturation (pool).
type Phase string

const (
	// PhaseConnect covers DNS resolution and TCP/TLS connection establishment.
	PhaseConnect Phase = "connect"

	// PhaseRead covers waiting for and reading the response.
	PhaseRead Phase = "read"

	// PhaseWrite covers writing the request body.
	PhaseWrite Phase = "write"

	// PhasePool covers waiting for an in-flight request slot. A pool failure
	// means the client's concurrency bound was saturated for the whole
	// acquire timeout.
	PhasePool Phase = "pool"
)

// ConfigError reports a missing or invalid configuration value, most commonly
// an unset credential environment variable. The message names the variable so
// the failure is actionable; it never contains the credential value itself.
type ConfigError struct {
	// Var is the name of the offending environment variable, when applicable.
	Var string

	// Reason describes what is wrong.
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Var != "" {
		return fmt.Sprintf("webmaster: %s: %s", e.Var, e.Reason)
	}
	return "webmaster: " + e.Reason
}

// ValidationError reports a caller-supplied argument that fails a tool's
// declared constraints. It is always raised before any network activity.
type ValidationError struct {
	// Field is the argument name as exposed in the tool schema.
	Field string

	// Reason describes the constraint that failed.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("webmaster: argument %q: %s", e.Field, e.Reason)
}

// NetworkError reports a connection, DNS, timeout, or pool-acquire failure.
// The wrapped error is the underlying transport error.
type NetworkError struct {
	Phase Phase
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("webmaster: network error during %s: %v", e.Phase, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError reports that the Bing Webmaster API responded with a
// non-success HTTP status, or embedded an application-level error inside a
// 2xx body. Message carries the remote service's own wording verbatim.
type RemoteError struct {
	// Status is the HTTP status code. Zero when the error was embedded in a
	// 2xx body.
	Status int

	// Code is the application-level error code from the response body, when
	// present (e.g. 3 for InvalidApiKey, 301 for a throttled request).
	Code int

	// Message is the remote error text, verbatim.
	Message string
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status != 0 && e.Code != 0:
		return fmt.Sprintf("webmaster: remote error: HTTP %d, code %d: %s", e.Status, e.Code, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("webmaster: remote error: HTTP %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("webmaster: remote error: code %d: %s", e.Code, e.Message)
	}
}

// DecodeError reports a response body that could not be parsed as the
// expected JSON shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("webmaster: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
