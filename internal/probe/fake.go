package probe

import "github.com/sweeney/thermo-monitor/internal/logic"

// Fake is a test double that returns scripted readings per channel.
type Fake struct {
	// Readings contains the scripted values per channel. Each call to
	// ReadChannel consumes the next value; the last one repeats.
	Readings [logic.NumChannels][]float64

	index [logic.NumChannels]int

	// Reads counts ReadChannel calls per channel.
	Reads [logic.NumChannels]int
}

// NewFake creates a Fake with the given inside and outside readings.
func NewFake(in, out []float64) *Fake {
	return &Fake{Readings: [logic.NumChannels][]float64{in, out}}
}

// ReadChannel returns the channel's next scripted reading, or Disconnected
// when none are configured.
func (f *Fake) ReadChannel(ch logic.Channel) float64 {
	f.Reads[ch]++
	vals := f.Readings[ch]
	if len(vals) == 0 {
		return Disconnected
	}
	v := vals[f.index[ch]]
	if f.index[ch] < len(vals)-1 {
		f.index[ch]++
	}
	return v
}

// Close is a no-op.
func (f *Fake) Close() error {
	return nil
}

// Reset rewinds every channel to its first reading.
func (f *Fake) Reset() {
	f.index = [logic.NumChannels]int{}
	f.Reads = [logic.NumChannels]int{}
}
