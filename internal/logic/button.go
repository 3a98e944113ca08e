package logic

// ButtonState is the classifier's position in a press/release cycle.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonPressed
)

func (s ButtonState) String() string {
	if s == ButtonPressed {
		return "PRESSED"
	}
	return "IDLE"
}

// Classifier debounces raw edges and turns each release into a short or long
// press. Nothing is emitted at press time, so a long hold yields one event.
type Classifier struct {
	debounce     Millis
	longPress    Millis
	state        ButtonState
	pressStart   Millis
	lastAccepted Millis
	bounced      int
}

// NewClassifier creates a classifier with the given debounce window and
// long press threshold.
func NewClassifier(debounce, longPress Millis) *Classifier {
	return &Classifier{
		debounce:  debounce,
		longPress: longPress,
	}
}

// Process consumes one edge and returns the press it completes, if any.
// Edges within the debounce window of the last accepted edge are dropped.
func (c *Classifier) Process(e Edge) Press {
	if e.At.Since(c.lastAccepted) <= c.debounce {
		c.bounced++
		return PressNone
	}

	switch e.Kind {
	case EdgePress:
		// A second press without a release just restarts the hold.
		c.state = ButtonPressed
		c.pressStart = e.At
		c.lastAccepted = e.At
		return PressNone

	case EdgeRelease:
		if c.state != ButtonPressed {
			return PressNone
		}
		c.state = ButtonIdle
		c.lastAccepted = e.At
		if e.At.Since(c.pressStart) > c.longPress {
			return PressLong
		}
		return PressShort
	}
	return PressNone
}

// State returns the current classifier state.
func (c *Classifier) State() ButtonState {
	return c.state
}

// Bounced returns how many edges were dropped by the debounce filter.
func (c *Classifier) Bounced() int {
	return c.bounced
}
