package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("DB_PATH", "")

	cfg := Load()
	if cfg.Port != 8765 {
		t.Errorf("Port = %d, want 8765", cfg.Port)
	}
	if cfg.BaseURL != "" {
		t.Errorf("BaseURL = %q, want empty", cfg.BaseURL)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath is empty")
	}
	if cfg.KeepAliveInterval != 30*time.Second {
		t.Errorf("KeepAliveInterval = %v, want 30s", cfg.KeepAliveInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BASE_URL", "https://bridge.example.com")
	t.Setenv("DB_PATH", "/tmp/test.db")

	cfg := Load()
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.BaseURL != "https://bridge.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadBadPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()
	if cfg.Port != 8765 {
		t.Errorf("Port = %d, want default 8765 for unparseable PORT", cfg.Port)
	}
}

func TestAddr(t *testing.T) {
	cfg := Config{Port: 8765}
	if got := cfg.Addr(); got != ":8765" {
		t.Errorf("Addr = %q, want :8765", got)
	}
}

func TestDiscoverBaseURLConfigured(t *testing.T) {
	cfg := Config{BaseURL: "https://bridge.example.com/", Port: 8765}
	got := DiscoverBaseURL(context.Background(), cfg)
	if got != "https://bridge.example.com" {
		t.Errorf("DiscoverBaseURL = %q, want trailing slash trimmed", got)
	}
}

func TestDiscoverBaseURLFromMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("203.0.113.5\n"))
	}))
	defer srv.Close()

	oldMeta, oldIpify := metadataIPURL, ipifyURL
	metadataIPURL = srv.URL
	ipifyURL = srv.URL
	defer func() { metadataIPURL, ipifyURL = oldMeta, oldIpify }()

	got := DiscoverBaseURL(context.Background(), Config{Port: 8765})
	if got != "http://203.0.113.5:8765" {
		t.Errorf("DiscoverBaseURL = %q, want http://203.0.113.5:8765", got)
	}
}

func TestDiscoverBaseURLFallsBackToLocalhost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	oldMeta, oldIpify := metadataIPURL, ipifyURL
	metadataIPURL = srv.URL
	ipifyURL = srv.URL
	defer func() { metadataIPURL, ipifyURL = oldMeta, oldIpify }()

	got := DiscoverBaseURL(context.Background(), Config{Port: 8765})
	if got != "http://localhost:8765" {
		t.Errorf("DiscoverBaseURL = %q, want http://localhost:8765", got)
	}
}
