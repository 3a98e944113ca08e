//go:build !linux

package probe

import (
	"errors"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/onewire"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// OneWire is not available on non-Linux platforms.
type OneWire struct{}

// NewOneWire returns an error on non-Linux platforms.
func NewOneWire(master uint32, addrs [logic.NumChannels]onewire.Address, log *zap.Logger) (*OneWire, error) {
	return nil, errors.New("probe: 1-wire not supported on this platform (requires Linux)")
}

// ReadChannel always reports a disconnected probe.
func (o *OneWire) ReadChannel(ch logic.Channel) float64 {
	return Disconnected
}

// Addresses returns empty addresses on non-Linux platforms.
func (o *OneWire) Addresses() [logic.NumChannels]string {
	return [logic.NumChannels]string{}
}

// Close is a no-op on non-Linux platforms.
func (o *OneWire) Close() error {
	return nil
}
