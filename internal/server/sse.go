package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleSSE is the server→client half of the protocol transport. It
// opens a streaming channel on the integration's session, announces
// the paired POST endpoint, then pumps queued protocol messages to the
// client, emitting a ping after every keep-alive window of silence.
// The stream has no maximum lifetime: only disconnect or shutdown ends
// it.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.resolveIntegration(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Disable nginx buffering; SSE needs every event flushed through.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	_, ch := s.sessions.OpenChannel(rec.ID, rec.TodoistToken)
	defer s.sessions.CloseChannel(rec.ID, ch)

	s.log.Info("sse connected", "integration", shortID(rec.ID))

	// Tell the client where to POST its messages.
	fmt.Fprintf(w, "event: endpoint\ndata: /mcp/messages/%s\n\n", rec.ID)
	flusher.Flush()

	timer := time.NewTimer(s.keepAlive)
	defer timer.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.log.Info("sse disconnected", "integration", shortID(rec.ID))
			return

		case <-ch.Done():
			s.log.Info("sse cancelled", "integration", shortID(rec.ID))
			return

		case msg := <-ch.Messages():
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
			resetTimer(timer, s.keepAlive)

		case <-timer.C:
			ping, _ := json.Marshal(map[string]any{
				"timestamp": time.Now().Unix(),
				"counter":   ch.NextPing(),
			})
			fmt.Fprintf(w, "event: ping\ndata: %s\n\n", ping)
			flusher.Flush()
			timer.Reset(s.keepAlive)
		}
	}
}

// resetTimer restarts a possibly-fired timer without leaking its tick.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
