// todoist-mcp: a multi-tenant bridge exposing the Todoist API as MCP
// tools.
//
// Each user submits their Todoist API token on the /auth page; the
// server mints an integration id and serves that user's tools over SSE
// at /sse/<id>.
//
// Usage:
//
//	todoist-mcp serve    # Start the HTTP/SSE bridge
//	todoist-mcp stdio    # Single-user local mode over stdio
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"todoist-mcp/internal/auth"
	"todoist-mcp/internal/config"
	"todoist-mcp/internal/server"
	"todoist-mcp/internal/todoist"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Best-effort: a missing .env is fine.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stdio":
		if err := runStdio(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("%s v%s\n", config.ServerName, config.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          config.ServerName,
	})

	cfg := config.Load()

	store, err := auth.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL := config.DiscoverBaseURL(ctx, cfg)
	registry := auth.NewService(store)
	srv := server.New(cfg, logger, registry, baseURL)

	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Handler(),
		// No WriteTimeout: SSE streams are held open indefinitely.
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("started", "version", config.Version, "addr", cfg.Addr(), "base_url", baseURL)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// runStdio serves the tool set for a single local user over stdio, the
// legacy pre-multi-tenant mode. The token comes from TODOIST_API_TOKEN
// or, failing that, the tokens table of the database.
func runStdio() error {
	token := os.Getenv("TODOIST_API_TOKEN")
	if token == "" {
		cfg := config.Load()
		store, err := auth.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer store.Close()

		if token, err = store.APIToken(); err != nil {
			return fmt.Errorf("reading stored token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("no Todoist API token: set TODOIST_API_TOKEN")
	}

	s := server.NewToolServer(todoist.New(token))
	return mcpserver.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `%s v%s — Todoist MCP bridge

Usage:
  todoist-mcp serve    Start the multi-tenant HTTP/SSE bridge
  todoist-mcp stdio    Serve a single user's tools over stdio

Environment:
  PORT                 HTTP listen port (default 8765)
  BASE_URL             External base URL for integration links
  DB_PATH              SQLite database path (default ~/.todoist-mcp/todoist-mcp.db)
  TODOIST_API_TOKEN    Token for stdio mode

Connect by opening http://<server>:<port>/auth and pasting your Todoist
API token; add the resulting URL as a remote MCP integration.
`, config.ServerName, config.Version)
}
