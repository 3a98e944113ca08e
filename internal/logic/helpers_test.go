package logic

import "fmt"

// scriptSource returns scripted readings per channel. Once a channel's script
// is exhausted its last value repeats.
type scriptSource struct {
	readings [NumChannels][]float64
	index    [NumChannels]int
	calls    int
}

func newScriptSource(in, out []float64) *scriptSource {
	return &scriptSource{readings: [NumChannels][]float64{in, out}}
}

func (s *scriptSource) ReadChannel(ch Channel) float64 {
	s.calls++
	vals := s.readings[ch]
	if len(vals) == 0 {
		return 0
	}
	v := vals[s.index[ch]]
	if s.index[ch] < len(vals)-1 {
		s.index[ch]++
	}
	return v
}

type drawCall struct {
	kind   string
	label  string
	a, b   float64
	window [HistorySize]float64
}

func (c drawCall) String() string {
	return fmt.Sprintf("%s(%s %v %v)", c.kind, c.label, c.a, c.b)
}

// recordRenderer records every draw request.
type recordRenderer struct {
	calls []drawCall
	err   error
}

func (r *recordRenderer) DrawLive(in, out float64) error {
	r.calls = append(r.calls, drawCall{kind: "live", a: in, b: out})
	return r.err
}

func (r *recordRenderer) DrawHighLow(label string, high, low float64) error {
	r.calls = append(r.calls, drawCall{kind: "highlow", label: label, a: high, b: low})
	return r.err
}

func (r *recordRenderer) DrawHistory(label string, window [HistorySize]float64) error {
	r.calls = append(r.calls, drawCall{kind: "history", label: label, window: window})
	return r.err
}

func (r *recordRenderer) last() drawCall {
	if len(r.calls) == 0 {
		return drawCall{}
	}
	return r.calls[len(r.calls)-1]
}
