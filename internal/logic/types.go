package logic

import "fmt"

// HistorySize is the number of 15-minute bins in the 24 hour window.
const HistorySize = 96

// Timing constants, in clock milliseconds.
const (
	BinDuration        Millis = 15 * 60 * 1000
	DebounceWindow     Millis = 50
	LongPressThreshold Millis = 2000
)

// Millis is a monotonic millisecond counter that wraps at 32 bits.
// Durations must be computed with Since so they stay correct across the wrap.
type Millis uint32

// Since returns the unsigned time elapsed from earlier to m.
func (m Millis) Since(earlier Millis) Millis {
	return m - earlier
}

// Channel identifies one of the two temperature probes.
type Channel int

const (
	Inside Channel = iota
	Outside
)

// Channels lists every channel in display order.
var Channels = [...]Channel{Inside, Outside}

// NumChannels is the number of probe channels.
const NumChannels = len(Channels)

func (c Channel) String() string {
	switch c {
	case Inside:
		return "in"
	case Outside:
		return "out"
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Label is the short caption drawn on screen for the channel.
func (c Channel) Label() string {
	switch c {
	case Inside:
		return "In"
	case Outside:
		return "Out"
	}
	return "?"
}

// Cursor is a history bin index, always in [0, HistorySize).
type Cursor uint8

// BinAt returns the bin the clock is currently in.
func BinAt(now Millis) Cursor {
	return Cursor((now / BinDuration) % HistorySize)
}

// Next returns the following bin, wrapping after the last.
func (c Cursor) Next() Cursor {
	return Cursor((int(c) + 1) % HistorySize)
}

// Offset returns the bin n steps from c. n may be negative.
func (c Cursor) Offset(n int) Cursor {
	i := (int(c) + n) % HistorySize
	if i < 0 {
		i += HistorySize
	}
	return Cursor(i)
}

// Mode is the active display view.
type Mode uint32

const (
	ModeLive Mode = iota
	ModeHighLowIn
	ModeHighLowOut
	ModeHistoryIn
	ModeHistoryOut

	NumModes
)

// Valid reports whether m is a defined mode.
func (m Mode) Valid() bool {
	return m < NumModes
}

// Next returns the mode a short press moves to.
func (m Mode) Next() Mode {
	if !m.Valid() {
		return ModeLive
	}
	return (m + 1) % NumModes
}

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "LIVE"
	case ModeHighLowIn:
		return "HIGH_LOW_IN"
	case ModeHighLowOut:
		return "HIGH_LOW_OUT"
	case ModeHistoryIn:
		return "HISTORY_IN"
	case ModeHistoryOut:
		return "HISTORY_OUT"
	}
	return fmt.Sprintf("MODE(%d)", uint32(m))
}

// Press is the outcome of classifying one button edge.
type Press int

const (
	PressNone Press = iota
	PressShort
	PressLong
)

func (p Press) String() string {
	switch p {
	case PressShort:
		return "SHORT"
	case PressLong:
		return "LONG"
	}
	return "NONE"
}

// EdgeKind is the direction of a raw button transition.
type EdgeKind int

const (
	EdgePress EdgeKind = iota
	EdgeRelease
)

func (k EdgeKind) String() string {
	if k == EdgePress {
		return "PRESS"
	}
	return "RELEASE"
}

// Edge is a raw button transition stamped by the clock.
type Edge struct {
	Kind EdgeKind
	At   Millis
}

// SampleSource returns the current reading for a channel in degrees Celsius.
// Faulty probes may return sentinel values; they are not filtered.
type SampleSource interface {
	ReadChannel(ch Channel) float64
}

// Renderer draws one view. Pixel layout is the renderer's concern.
type Renderer interface {
	DrawLive(in, out float64) error
	DrawHighLow(label string, high, low float64) error
	DrawHistory(label string, window [HistorySize]float64) error
}
