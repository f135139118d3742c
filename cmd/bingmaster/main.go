// Command bingmaster is an MCP server exposing the Bing Webmaster Tools API
// as callable tools. It speaks MCP over stdio by default; stdout carries the
// protocol stream, so all logging goes to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrWong99/bingmaster/internal/config"
	"github.com/MrWong99/bingmaster/internal/health"
	"github.com/MrWong99/bingmaster/internal/observe"
	"github.com/MrWong99/bingmaster/internal/tools"
	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

const version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional; defaults apply when omitted)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("bingmaster " + version)
		return 0
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bingmaster: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("bingmaster starting",
		"version", version,
		"transport", cfg.Server.Transport,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "bingmaster",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── MCP server + tools ────────────────────────────────────────────────────
	service := tools.NewService(cfg.API, metrics)
	server := mcp.NewServer(&mcp.Implementation{Name: "bingmaster", Version: version}, nil)
	service.Register(server)

	// ── Ops listener (optional): /metrics, /healthz, /readyz ──────────────────
	var ops *http.Server
	if cfg.Server.OpsAddr != "" {
		ops = newOpsServer(cfg, metrics)
		go func() {
			slog.Info("ops listener started", "addr", cfg.Server.OpsAddr)
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("ops listener error", "err", err)
			}
		}()
	}

	printStartupSummary(cfg)

	// ── Serve the chosen transport ────────────────────────────────────────────
	switch cfg.Server.Transport {
	case config.TransportStreamableHTTP:
		err = serveHTTP(ctx, server, cfg.Server.ListenAddr)
	default:
		slog.Info("serving MCP over stdio")
		err = server.Run(ctx, &mcp.StdioTransport{})
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	slog.Info("shutting down")
	if ops != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			slog.Warn("ops listener shutdown error", "err", err)
		}
	}
	slog.Info("goodbye")
	return 0
}

// serveHTTP runs the streamable-HTTP MCP transport until ctx is cancelled.
func serveHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over streamable-http", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newOpsServer builds the operational HTTP server with Prometheus metrics and
// health endpoints.
func newOpsServer(cfg *config.Config, metrics *observe.Metrics) *http.Server {
	baseURL := cfg.API.BaseURL
	if baseURL == "" {
		baseURL = webmaster.DefaultBaseURL
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	health.New(
		health.CredentialChecker(webmaster.ResolveCredential),
		health.EndpointChecker(http.DefaultClient, baseURL),
	).Register(mux)

	return &http.Server{
		Addr:              cfg.Server.OpsAddr,
		Handler:           observe.Middleware(metrics)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// ── Startup summary ───────────────────────────────────────────────────────────

// printStartupSummary writes a human-readable overview to stderr. Stdout is
// reserved for the stdio MCP transport.
func printStartupSummary(cfg *config.Config) {
	w := os.Stderr
	fmt.Fprintln(w, "╔═══════════════════════════════════════╗")
	fmt.Fprintln(w, "║       bingmaster — startup summary    ║")
	fmt.Fprintln(w, "╠═══════════════════════════════════════╣")
	fmt.Fprintf(w, "║  Transport       : %-19s║\n", cfg.Server.Transport)
	if cfg.Server.Transport == config.TransportStreamableHTTP {
		fmt.Fprintf(w, "║  Listen addr     : %-19s║\n", trim(cfg.Server.ListenAddr))
	}
	opsAddr := cfg.Server.OpsAddr
	if opsAddr == "" {
		opsAddr = "(disabled)"
	}
	fmt.Fprintf(w, "║  Ops listener    : %-19s║\n", trim(opsAddr))
	if cfg.API.BaseURL != "" {
		fmt.Fprintf(w, "║  API base URL    : %-19s║\n", trim(cfg.API.BaseURL))
	}
	credential := "(not set)"
	if _, err := webmaster.ResolveCredential(); err == nil {
		credential = "present"
	}
	fmt.Fprintf(w, "║  Credential      : %-19s║\n", credential)
	fmt.Fprintln(w, "╚═══════════════════════════════════════╝")
}

func trim(s string) string {
	if len(s) > 19 {
		return s[:16] + "…"
	}
	return s
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
