// Package session caches one live MCP server per integration and
// tracks the streaming channels attached to it.
//
// A Handle is a pure cache entry: it is built lazily on the first
// routed request for an integration and discarded when its last
// streaming channel closes. It holds nothing that outlives a
// connection except the bound credential, which is cheap to
// reconstruct from the store.
package session

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// queueDepth bounds the per-channel outbound FIFO. The SSE writer is
// the single consumer, so depth only matters while it is flushing.
const queueDepth = 64

// BuildFunc constructs the protocol server for an integration from its
// credential. Must be cheap: it runs under the cache lock and performs
// no network calls.
type BuildFunc func(integrationID, todoistToken string) *mcpserver.MCPServer

// Handle is the in-memory bundle of one integration's protocol server
// and its open streaming channels.
type Handle struct {
	ID string

	srv *mcpserver.MCPServer

	mu       sync.Mutex
	channels map[*Channel]struct{}
}

// Server returns the bound protocol server.
func (h *Handle) Server() *mcpserver.MCPServer {
	return h.srv
}

// Broadcast enqueues msg on every open channel of the handle, in
// registration-independent order. Returns the number of channels that
// accepted the message.
func (h *Handle) Broadcast(msg json.RawMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for ch := range h.channels {
		if ch.deliver(msg) {
			delivered++
		}
	}
	return delivered
}

// ChannelCount returns the number of open streaming channels.
func (h *Handle) ChannelCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// Channel is one live streaming connection: an outbound FIFO queue, a
// keep-alive counter, and a cancellation signal.
type Channel struct {
	queue     chan json.RawMessage
	done      chan struct{}
	closeOnce sync.Once
	pings     atomic.Int64
}

func newChannel() *Channel {
	return &Channel{
		queue: make(chan json.RawMessage, queueDepth),
		done:  make(chan struct{}),
	}
}

// Messages is the channel's outbound FIFO. Single consumer; delivery
// order matches enqueue order.
func (c *Channel) Messages() <-chan json.RawMessage {
	return c.queue
}

// Done is closed when the channel is cancelled (handle eviction or
// explicit close).
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// NextPing increments and returns the keep-alive counter.
func (c *Channel) NextPing() int64 {
	return c.pings.Add(1)
}

// deliver enqueues without blocking. A full queue means the consumer
// stalled; the message is dropped rather than wedging the producer.
func (c *Channel) deliver(msg json.RawMessage) bool {
	select {
	case <-c.done:
		return false
	case c.queue <- msg:
		return true
	default:
		return false
	}
}

func (c *Channel) cancel() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Manager owns the process-wide map from integration id to live
// Handle. All mutation goes through the manager's lock, so concurrent
// first-access for the same id constructs exactly one handle.
type Manager struct {
	build BuildFunc

	mu      sync.Mutex
	handles map[string]*Handle
}

// NewManager creates a Manager that builds protocol servers with the
// given function.
func NewManager(build BuildFunc) *Manager {
	return &Manager{
		build:   build,
		handles: make(map[string]*Handle),
	}
}

// GetOrCreate returns the live handle for id, constructing it from the
// credential if none exists. Construction is serialized: a second
// concurrent caller receives the same handle.
func (m *Manager) GetOrCreate(id, todoistToken string) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(id, todoistToken)
}

func (m *Manager) getOrCreateLocked(id, todoistToken string) *Handle {
	if h, ok := m.handles[id]; ok {
		return h
	}
	h := &Handle{
		ID:       id,
		srv:      m.build(id, todoistToken),
		channels: make(map[*Channel]struct{}),
	}
	m.handles[id] = h
	return h
}

// Get returns the live handle for id without creating one.
func (m *Manager) Get(id string) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[id]
	return h, ok
}

// OpenChannel returns the handle for id (creating it if needed) with a
// new streaming channel registered on it.
func (m *Manager) OpenChannel(id, todoistToken string) (*Handle, *Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.getOrCreateLocked(id, todoistToken)
	ch := newChannel()
	h.mu.Lock()
	h.channels[ch] = struct{}{}
	h.mu.Unlock()
	return h, ch
}

// CloseChannel cancels ch and removes it from the handle's
// bookkeeping. When the last channel of a handle closes, the handle
// itself is evicted; a later request rebuilds it from the store.
func (m *Manager) CloseChannel(id string, ch *Channel) {
	ch.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handles[id]
	if !ok {
		return
	}
	h.mu.Lock()
	delete(h.channels, ch)
	remaining := len(h.channels)
	h.mu.Unlock()

	if remaining == 0 {
		delete(m.handles, id)
	}
}

// Evict discards the handle for id and cancels all of its channels.
// Used when an integration is deleted out from under live connections.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	h, ok := m.handles[id]
	delete(m.handles, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.channels {
		ch.cancel()
	}
	h.channels = make(map[*Channel]struct{})
}

// Len returns the number of live handles.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}
