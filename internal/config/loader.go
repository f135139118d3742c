package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. Fields absent from the file keep their [Default] values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of the defaults and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.Transport != "" && !cfg.Server.Transport.IsValid() {
		errs = append(errs, fmt.Errorf("server.transport %q is invalid; valid values: stdio, streamable-http", cfg.Server.Transport))
	}
	if cfg.Server.Transport == TransportStreamableHTTP && cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required when transport is streamable-http"))
	}

	if cfg.API.ConnectTimeout < 0 {
		errs = append(errs, errors.New("api.connect_timeout must not be negative"))
	}
	if cfg.API.ReadTimeout < 0 {
		errs = append(errs, errors.New("api.read_timeout must not be negative"))
	}
	if cfg.API.WriteTimeout < 0 {
		errs = append(errs, errors.New("api.write_timeout must not be negative"))
	}
	if cfg.API.PoolTimeout < 0 {
		errs = append(errs, errors.New("api.pool_timeout must not be negative"))
	}
	if cfg.API.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("api.max_conns must be at least 1, got %d", cfg.API.MaxConns))
	}
	if cfg.API.MaxIdleConns < 0 {
		errs = append(errs, errors.New("api.max_idle_conns must not be negative"))
	}
	if cfg.API.MaxIdleConns > cfg.API.MaxConns {
		errs = append(errs, fmt.Errorf("api.max_idle_conns (%d) must not exceed api.max_conns (%d)", cfg.API.MaxIdleConns, cfg.API.MaxConns))
	}

	return errors.Join(errs...)
}
