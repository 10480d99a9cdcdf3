package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func testBuild(counter *atomic.Int64) BuildFunc {
	return func(id, token string) *mcpserver.MCPServer {
		if counter != nil {
			counter.Add(1)
		}
		return mcpserver.NewMCPServer("test", "0.0.0")
	}
}

func TestGetOrCreateConcurrent(t *testing.T) {
	var builds atomic.Int64
	m := NewManager(testBuild(&builds))

	const workers = 32
	handles := make([]*Handle, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = m.GetOrCreate("id-1", "tok")
		}(i)
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("build called %d times, want 1", got)
	}
	for i := 1; i < workers; i++ {
		if handles[i] != handles[0] {
			t.Fatalf("worker %d received a different handle", i)
		}
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestGetOrCreateDistinctIDs(t *testing.T) {
	var builds atomic.Int64
	m := NewManager(testBuild(&builds))

	a := m.GetOrCreate("id-a", "tok-a")
	b := m.GetOrCreate("id-b", "tok-b")
	if a == b {
		t.Error("distinct ids share a handle")
	}
	if got := builds.Load(); got != 2 {
		t.Errorf("build called %d times, want 2", got)
	}
}

func TestGetWithoutCreate(t *testing.T) {
	m := NewManager(testBuild(nil))

	if _, ok := m.Get("missing"); ok {
		t.Error("Get returned a handle for an id never created")
	}

	m.GetOrCreate("id-1", "tok")
	if _, ok := m.Get("id-1"); !ok {
		t.Error("Get did not find a created handle")
	}
}

func TestCloseChannelEvictsHandleOnLastClose(t *testing.T) {
	m := NewManager(testBuild(nil))

	h, ch1 := m.OpenChannel("id-1", "tok")
	_, ch2 := m.OpenChannel("id-1", "tok")
	if h.ChannelCount() != 2 {
		t.Fatalf("ChannelCount = %d, want 2", h.ChannelCount())
	}

	m.CloseChannel("id-1", ch1)
	if _, ok := m.Get("id-1"); !ok {
		t.Fatal("handle evicted while a channel remained open")
	}

	m.CloseChannel("id-1", ch2)
	if _, ok := m.Get("id-1"); ok {
		t.Error("handle not evicted after last channel closed")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}

	select {
	case <-ch1.Done():
	default:
		t.Error("ch1 not cancelled by CloseChannel")
	}
}

func TestBroadcastOrderAndDelivery(t *testing.T) {
	m := NewManager(testBuild(nil))

	h, ch := m.OpenChannel("id-1", "tok")

	const n = 10
	for i := 0; i < n; i++ {
		msg := json.RawMessage(fmt.Sprintf(`{"seq":%d}`, i))
		if delivered := h.Broadcast(msg); delivered != 1 {
			t.Fatalf("Broadcast(%d) delivered to %d channels, want 1", i, delivered)
		}
	}

	for i := 0; i < n; i++ {
		want := fmt.Sprintf(`{"seq":%d}`, i)
		got := <-ch.Messages()
		if string(got) != want {
			t.Errorf("message %d = %s, want %s", i, got, want)
		}
	}
}

func TestBroadcastDropsOnFullQueue(t *testing.T) {
	m := NewManager(testBuild(nil))

	h, _ := m.OpenChannel("id-1", "tok")

	msg := json.RawMessage(`{}`)
	for i := 0; i < queueDepth; i++ {
		if delivered := h.Broadcast(msg); delivered != 1 {
			t.Fatalf("Broadcast(%d) delivered to %d channels, want 1", i, delivered)
		}
	}
	if delivered := h.Broadcast(msg); delivered != 0 {
		t.Errorf("Broadcast on full queue delivered to %d channels, want 0", delivered)
	}
}

func TestEvictCancelsChannels(t *testing.T) {
	m := NewManager(testBuild(nil))

	_, ch1 := m.OpenChannel("id-1", "tok")
	_, ch2 := m.OpenChannel("id-1", "tok")

	m.Evict("id-1")

	for i, ch := range []*Channel{ch1, ch2} {
		select {
		case <-ch.Done():
		default:
			t.Errorf("channel %d not cancelled by Evict", i+1)
		}
	}
	if _, ok := m.Get("id-1"); ok {
		t.Error("handle still present after Evict")
	}
}

func TestNextPingMonotonic(t *testing.T) {
	ch := newChannel()
	for want := int64(1); want <= 3; want++ {
		if got := ch.NextPing(); got != want {
			t.Errorf("NextPing = %d, want %d", got, want)
		}
	}
}
