package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"todoist-mcp/internal/auth"
	"todoist-mcp/internal/config"
)

// maxBodyBytes caps inbound request bodies. Protocol messages and the
// credential form are both small.
const maxBodyBytes = 1 << 20

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	// Static routes: never touch the session cache.
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/auth", s.handleAuthPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/create", s.handleCreateIntegration).Methods(http.MethodPost)

	// Protocol transport: SSE stream paired with a POST inbound
	// endpoint, both keyed by integration id.
	r.HandleFunc("/sse/{integration_id}", s.handleSSE).Methods(http.MethodGet)
	r.HandleFunc("/mcp/messages/{integration_id}", s.handleMessage).Methods(http.MethodPost)

	// Permissive CORS for browser-based MCP clients.
	return cors.AllowAll().Handler(r)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/auth", http.StatusTemporaryRedirect)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"server":  config.ServerName,
		"version": config.Version,
	})
}

func (s *Server) handleCreateIntegration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TodoistToken string `json:"todoist_token"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	token := strings.TrimSpace(body.TodoistToken)
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Todoist API token is required"})
		return
	}

	rec, err := s.registry.Create(token, r.UserAgent())
	if err != nil {
		s.log.Error("create integration", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create integration"})
		return
	}

	s.log.Info("integration created", "integration", shortID(rec.ID))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"integration_id":  rec.ID,
		"integration_url": auth.IntegrationURL(s.baseURL, rec.ID),
		"created_at":      rec.CreatedAt,
	})
}

// handleMessage receives one JSON-RPC message for an integration,
// dispatches it to the bound protocol server, and delivers the
// response both on the POST body and on any live SSE channels.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.resolveIntegration(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	h := s.sessions.GetOrCreate(rec.ID, rec.TodoistToken)
	resp := h.Server().HandleMessage(r.Context(), body)
	if resp == nil {
		// Notification: nothing to send back.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("marshal protocol response", "integration", shortID(rec.ID), "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"jsonrpc": "2.0",
			"id":      nil,
			"error":   map[string]any{"code": -32603, "message": "Internal error"},
		})
		return
	}

	h.Broadcast(data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// resolveIntegration extracts and validates the integration id for a
// protocol request. A missing id (400) is distinguishable from an
// unknown one (401); neither leaks whether an id was close to a real
// record.
func (s *Server) resolveIntegration(w http.ResponseWriter, r *http.Request) (*auth.Integration, bool) {
	id := mux.Vars(r)["integration_id"]
	if id == "" {
		id = auth.ExtractIntegrationID(r.URL)
	}
	if id == "" {
		id = r.Header.Get("X-Integration-Id")
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing integration ID"})
		return nil, false
	}

	rec, err := s.registry.Lookup(id)
	if err != nil {
		s.log.Error("integration lookup", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return nil, false
	}
	if rec == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid integration ID"})
		return nil, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
