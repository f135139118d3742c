// Package config provides the configuration schema and loader for the
// bingmaster MCP server.
//
// The config file is optional: every setting has a default, so a host
// launcher can spawn the binary with no arguments. The API credential is
// deliberately NOT part of the file schema — it comes from the
// BING_WEBMASTER_API_KEY environment variable and is resolved lazily when the
// shared API client is first needed.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity for the bingmaster server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Transport selects how the MCP server speaks to its host.
type Transport string

const (
	// TransportStdio serves the MCP protocol over stdin/stdout. This is the
	// default and what desktop assistant hosts use.
	TransportStdio Transport = "stdio"

	// TransportStreamableHTTP serves the MCP streamable-HTTP transport on
	// Server.ListenAddr.
	TransportStreamableHTTP Transport = "streamable-http"
)

// IsValid reports whether t is a recognised transport.
func (t Transport) IsValid() bool {
	return t == TransportStdio || t == TransportStreamableHTTP
}

// Duration wraps time.Duration with YAML decoding from strings such as "5s"
// or "250ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure for bingmaster.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
}

// ServerConfig holds transport and logging settings for the MCP server.
type ServerConfig struct {
	// LogLevel controls verbosity. Logs go to stderr; stdout belongs to the
	// stdio MCP transport.
	LogLevel LogLevel `yaml:"log_level"`

	// Transport selects stdio (default) or streamable-http.
	Transport Transport `yaml:"transport"`

	// ListenAddr is the TCP address for the streamable-http transport
	// (e.g. ":8080"). Required when Transport is streamable-http.
	ListenAddr string `yaml:"listen_addr"`

	// OpsAddr, when non-empty, enables an operational HTTP listener serving
	// /metrics, /healthz, and /readyz (e.g. "127.0.0.1:9090").
	OpsAddr string `yaml:"ops_addr"`
}

// APIConfig tunes the shared Bing Webmaster Tools API client.
type APIConfig struct {
	// BaseURL overrides the production endpoint. Leave empty for the default
	// (https://ssl.bing.com/webmaster/api.svc/json). Useful for proxies.
	BaseURL string `yaml:"base_url"`

	// ConnectTimeout bounds DNS + TCP/TLS establishment. Default 5s.
	ConnectTimeout Duration `yaml:"connect_timeout"`

	// ReadTimeout bounds the wait for a response. Default 30s.
	ReadTimeout Duration `yaml:"read_timeout"`

	// WriteTimeout bounds request-body transmission. Default 10s.
	WriteTimeout Duration `yaml:"write_timeout"`

	// PoolTimeout bounds the wait for an in-flight request slot. Default 5s.
	PoolTimeout Duration `yaml:"pool_timeout"`

	// MaxConns is the maximum number of simultaneous API requests. Default 10.
	MaxConns int `yaml:"max_conns"`

	// MaxIdleConns is the number of keep-alive connections retained between
	// calls. Default 5.
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// Default returns a Config with every field set to its default value. This is
// the configuration used when no config file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			LogLevel:  LogInfo,
			Transport: TransportStdio,
		},
		API: APIConfig{
			ConnectTimeout: Duration(5 * time.Second),
			ReadTimeout:    Duration(30 * time.Second),
			WriteTimeout:   Duration(10 * time.Second),
			PoolTimeout:    Duration(5 * time.Second),
			MaxConns:       10,
			MaxIdleConns:   5,
		},
	}
}
