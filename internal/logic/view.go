package logic

import "sync/atomic"

// Action is the side effect a view transition asks the device to perform.
type Action int

const (
	ActionNone Action = iota
	ActionRedraw
	ActionResetInside
	ActionResetOutside
)

func (a Action) String() string {
	switch a {
	case ActionRedraw:
		return "REDRAW"
	case ActionResetInside:
		return "RESET_IN"
	case ActionResetOutside:
		return "RESET_OUT"
	}
	return "NONE"
}

// View is the display mode state machine. The mode is a single atomic word
// so it can be read from any goroutine without locking.
type View struct {
	mode atomic.Uint32
}

// NewView starts in the live view.
func NewView() *View {
	return &View{}
}

// Mode returns the active mode. A corrupted value is coerced back to live.
func (v *View) Mode() Mode {
	m := Mode(v.mode.Load())
	if !m.Valid() {
		v.mode.Store(uint32(ModeLive))
		return ModeLive
	}
	return m
}

// Set forces the mode. Out of range values are stored as-is and recovered on
// the next read.
func (v *View) Set(m Mode) {
	v.mode.Store(uint32(m))
}

// Transition applies a classified press and returns what the device must do.
// Every press changes displayed content, so the result is never ActionNone
// unless p is PressNone.
func (v *View) Transition(p Press) Action {
	switch p {
	case PressShort:
		v.Set(v.Mode().Next())
		return ActionRedraw
	case PressLong:
		switch v.Mode() {
		case ModeHighLowIn:
			return ActionResetInside
		case ModeHighLowOut:
			return ActionResetOutside
		default:
			v.Set(ModeLive)
			return ActionRedraw
		}
	}
	return ActionNone
}

// DependsOnSamples reports whether fresh samples change what mode m shows.
func DependsOnSamples(m Mode) bool {
	switch m {
	case ModeLive, ModeHighLowIn, ModeHighLowOut, ModeHistoryIn, ModeHistoryOut:
		return true
	}
	return false
}
