package gpio

import (
	"sync"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// FakeButton is a test double that delivers scripted edges.
type FakeButton struct {
	edges chan logic.Edge

	mu sync.Mutex

	// Closed tracks if Close was called.
	Closed bool

	// Dropped counts edges pushed while the queue was full.
	Dropped int
}

// NewFakeButton creates a FakeButton with a queue of EdgeQueue edges.
func NewFakeButton() *FakeButton {
	return &FakeButton{edges: make(chan logic.Edge, EdgeQueue)}
}

// Push queues an edge without blocking, like the real event handler.
// It reports whether the edge was queued.
func (f *FakeButton) Push(e logic.Edge) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Closed {
		return false
	}
	select {
	case f.edges <- e:
		return true
	default:
		f.Dropped++
		return false
	}
}

// Click queues a press at t and a release held ms later.
func (f *FakeButton) Click(t, held logic.Millis) {
	f.Push(logic.Edge{Kind: logic.EdgePress, At: t})
	f.Push(logic.Edge{Kind: logic.EdgeRelease, At: t + held})
}

// Edges returns the edge channel.
func (f *FakeButton) Edges() <-chan logic.Edge {
	return f.edges
}

// Close marks the button closed and closes the edge channel.
func (f *FakeButton) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Closed {
		f.Closed = true
		close(f.edges)
	}
	return nil
}
