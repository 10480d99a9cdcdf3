// Package config resolves runtime configuration for the bridge.
//
// Configuration comes from the environment (optionally seeded from a
// .env file by main). Nothing in here is a global: Load returns a value
// that main passes down to the components that need it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ServerName identifies this server in MCP handshakes and the health
// endpoint.
const ServerName = "todoist-mcp"

// Version is set at build time via ldflags.
var Version = "1.0.0"

// Config holds the resolved runtime settings for the serve command.
type Config struct {
	// Port the HTTP server listens on. PORT, default 8765.
	Port int

	// BaseURL is the externally reachable base of this server, used to
	// build integration URLs. BASE_URL; when empty the serve command
	// discovers the public address (see DiscoverBaseURL).
	BaseURL string

	// DBPath is the SQLite database file. DB_PATH, default
	// ~/.todoist-mcp/todoist-mcp.db.
	DBPath string

	// KeepAliveInterval is the SSE ping window. Not read from the
	// environment; tests shrink it to compress time.
	KeepAliveInterval time.Duration
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port:              envInt("PORT", 8765),
		BaseURL:           os.Getenv("BASE_URL"),
		DBPath:            envString("DB_PATH", defaultDBPath()),
		KeepAliveInterval: 30 * time.Second,
	}
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "todoist-mcp.db"
	}
	return filepath.Join(home, ".todoist-mcp", "todoist-mcp.db")
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
