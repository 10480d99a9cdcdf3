package auth

import (
	"net/url"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(openTestStore(t))
}

func TestServiceCreateAndLookup(t *testing.T) {
	svc := newTestService(t)

	rec, err := svc.Create("abc", "agent/1.0")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(rec.ID) != IDLength {
		t.Fatalf("id length = %d, want %d", len(rec.ID), IDLength)
	}
	if rec.CreatedAt == "" {
		t.Error("created_at is empty")
	}

	got, err := svc.Lookup(rec.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got == nil {
		t.Fatal("Lookup returned nil for created integration")
	}
	if got.TodoistToken != "abc" {
		t.Errorf("token = %q, want %q", got.TodoistToken, "abc")
	}
	if got.LastUsed == nil {
		t.Error("last_used not set by Lookup")
	}
}

func TestServiceLookupUnknown(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Lookup("ffffffffffffffffffffffffffffffff")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for unknown id", got)
	}
}

func TestServiceTodoistToken(t *testing.T) {
	svc := newTestService(t)

	rec, err := svc.Create("tok_xyz", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tok, err := svc.TodoistToken(rec.ID)
	if err != nil {
		t.Fatalf("TodoistToken: %v", err)
	}
	if tok != "tok_xyz" {
		t.Errorf("token = %q, want %q", tok, "tok_xyz")
	}

	tok, err = svc.TodoistToken("ffffffffffffffffffffffffffffffff")
	if err != nil {
		t.Fatalf("TodoistToken (unknown): %v", err)
	}
	if tok != "" {
		t.Errorf("token = %q, want empty for unknown id", tok)
	}
}

func TestServiceCreateDistinctIDs(t *testing.T) {
	svc := newTestService(t)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		rec, err := svc.Create("tok", "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, dup := seen[rec.ID]; dup {
			t.Fatalf("duplicate id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
}

func TestIntegrationURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://example.com", "http://example.com/sse/abc123"},
		{"http://example.com/", "http://example.com/sse/abc123"},
		{"https://todoist-mcp.example.com:8765", "https://todoist-mcp.example.com:8765/sse/abc123"},
	}
	for _, tt := range tests {
		if got := IntegrationURL(tt.base, "abc123"); got != tt.want {
			t.Errorf("IntegrationURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestExtractIntegrationID(t *testing.T) {
	tests := []struct {
		rawurl string
		want   string
	}{
		{"/sse/abc123", "abc123"},
		{"/mcp/abc123", "abc123"},
		{"/mcp/messages/abc123", "abc123"},
		{"/health?integration_id=abc123", "abc123"},
		{"/sse/", ""},
		{"/health", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.rawurl)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.rawurl, err)
		}
		if got := ExtractIntegrationID(u); got != tt.want {
			t.Errorf("ExtractIntegrationID(%q) = %q, want %q", tt.rawurl, got, tt.want)
		}
	}
}
