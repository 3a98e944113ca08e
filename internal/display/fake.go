package display

import (
	"sync"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// Call is one recorded draw request.
type Call struct {
	View   string // "live", "highlow" or "history"
	Label  string
	A, B   float64 // in/out for live, high/low for highlow
	Window [logic.HistorySize]float64
}

// Fake records draw requests for test assertions.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	// Err, if set, is returned by every draw.
	Err error
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.Err
}

// DrawLive records a live view.
func (f *Fake) DrawLive(in, out float64) error {
	return f.record(Call{View: "live", A: in, B: out})
}

// DrawHighLow records a high/low view.
func (f *Fake) DrawHighLow(label string, high, low float64) error {
	return f.record(Call{View: "highlow", Label: label, A: high, B: low})
}

// DrawHistory records a history view.
func (f *Fake) DrawHistory(label string, window [logic.HistorySize]float64) error {
	return f.record(Call{View: "history", Label: label, Window: window})
}

// Calls returns a copy of every recorded call.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Last returns the most recent call, or the zero Call.
func (f *Fake) Last() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}
