package auth

import (
	"fmt"
	"net/url"
	"strings"
)

// Service is the integration registry: creation, lookup with last-used
// touch, deletion, and enumeration, on top of the durable Store.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Create mints a new integration for the given Todoist token. The
// generated id is re-checked against the store and regenerated on the
// (astronomically unlikely) collision. Store failures are returned to
// the caller, never retried.
func (s *Service) Create(todoistToken, userAgent string) (*Integration, error) {
	id, err := NewIntegrationID()
	if err != nil {
		return nil, err
	}
	for {
		existing, err := s.store.GetIntegration(id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			break
		}
		if id, err = NewIntegrationID(); err != nil {
			return nil, err
		}
	}

	rec := Integration{
		ID:           id,
		TodoistToken: todoistToken,
		CreatedAt:    now(),
		UserAgent:    userAgent,
	}
	if err := s.store.InsertIntegration(rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Lookup returns the integration for id, touching last_used, or nil
// when the id is unknown. The touch is last-write-wins with respect to
// concurrent lookups.
func (s *Service) Lookup(id string) (*Integration, error) {
	rec, err := s.store.GetIntegration(id)
	if err != nil || rec == nil {
		return nil, err
	}

	when := now()
	if err := s.store.TouchIntegration(id, when); err != nil {
		return nil, err
	}
	rec.LastUsed = &when
	return rec, nil
}

// TodoistToken returns the credential for id, or "" when the id is
// unknown.
func (s *Service) TodoistToken(id string) (string, error) {
	rec, err := s.Lookup(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.TodoistToken, nil
}

// Delete removes the integration. Returns true when a record existed.
func (s *Service) Delete(id string) (bool, error) {
	return s.store.DeleteIntegration(id)
}

// List returns all integrations.
func (s *Service) List() ([]Integration, error) {
	return s.store.ListIntegrations()
}

// IntegrationURL builds the URL a user pastes into their MCP client.
func IntegrationURL(baseURL, id string) string {
	return fmt.Sprintf("%s/sse/%s", strings.TrimRight(baseURL, "/"), id)
}

// ExtractIntegrationID pulls an integration identifier out of a request
// URL: first a known path shape (/sse/{id}, /mcp/{id},
// /mcp/messages/{id}), then the integration_id query parameter. Returns
// "" when neither is present.
func ExtractIntegrationID(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(parts) >= 3 && parts[0] == "mcp" && parts[1] == "messages":
		return parts[2]
	case len(parts) >= 2 && (parts[0] == "sse" || parts[0] == "mcp"):
		return parts[1]
	}

	if id := u.Query().Get("integration_id"); id != "" {
		return id
	}
	return ""
}
