//go:build !linux

package gpio

import (
	"errors"

	"go.uber.org/zap"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// RealButton is not available on non-Linux platforms.
type RealButton struct{}

// NewRealButton returns an error on non-Linux platforms.
func NewRealButton(chipName string, pin int, log *zap.Logger) (*RealButton, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Edges returns nil; a nil channel never delivers.
func (b *RealButton) Edges() <-chan logic.Edge {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (b *RealButton) Close() error {
	return nil
}
