// Package gpio provides button edge events with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/thermo-monitor/internal/logic"

// Button delivers raw press/release edges stamped in clock milliseconds.
type Button interface {
	// Edges returns the channel edges are delivered on. It is closed by Close.
	Edges() <-chan logic.Edge

	// Close releases GPIO resources.
	Close() error
}

// DefaultPinButton is the BCM pin the push button is wired to (to ground,
// using the internal pull-up).
const DefaultPinButton = 17

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// EdgeQueue is the capacity of the edge channel. Edges that arrive while it
// is full are dropped.
const EdgeQueue = 16
