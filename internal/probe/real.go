//go:build linux

package probe

import (
	"fmt"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/onewire"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ds18b20"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/netlink"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// OneWire reads two DS18B20 probes through the kernel's 1-wire netlink
// interface (w1 master driver must be loaded).
type OneWire struct {
	bus   *netlink.OneWire
	devs  [logic.NumChannels]*ds18b20.Dev
	addrs [logic.NumChannels]onewire.Address
	log   *zap.Logger
}

// NewOneWire opens the given w1 master and binds one probe per channel.
// A zero address is discovered: the bus is searched and the lowest addresses
// not already claimed are assigned Inside first.
func NewOneWire(master uint32, addrs [logic.NumChannels]onewire.Address, log *zap.Logger) (*OneWire, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := netlink.New(master)
	if err != nil {
		return nil, fmt.Errorf("open w1 master %d: %w", master, err)
	}

	if addrs[logic.Inside] == 0 || addrs[logic.Outside] == 0 {
		found, err := bus.Search(false)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("search 1-wire bus: %w", err)
		}
		addrs, err = assignAddresses(addrs, found)
		if err != nil {
			bus.Close()
			return nil, err
		}
	}

	o := &OneWire{bus: bus, addrs: addrs, log: log}
	for _, ch := range logic.Channels {
		dev, err := ds18b20.New(bus, addrs[ch], Resolution)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("open %s probe %s: %w", ch, FormatAddress(addrs[ch]), err)
		}
		o.devs[ch] = dev
		log.Info("probe bound", zap.Stringer("channel", ch), zap.String("address", FormatAddress(addrs[ch])))
	}
	return o, nil
}

// ReadChannel converts and reads one probe. Failures are logged and reported
// as Disconnected; there is no retry.
func (o *OneWire) ReadChannel(ch logic.Channel) float64 {
	var env physic.Env
	if err := o.devs[ch].Sense(&env); err != nil {
		o.log.Warn("probe read failed",
			zap.Stringer("channel", ch),
			zap.String("address", FormatAddress(o.addrs[ch])),
			zap.Error(err))
		return Disconnected
	}
	return env.Temperature.Celsius()
}

// Addresses returns the bound probe addresses in sysfs form.
func (o *OneWire) Addresses() [logic.NumChannels]string {
	var out [logic.NumChannels]string
	for _, ch := range logic.Channels {
		out[ch] = FormatAddress(o.addrs[ch])
	}
	return out
}

// Close releases the 1-wire bus.
func (o *OneWire) Close() error {
	if err := o.bus.Close(); err != nil {
		return fmt.Errorf("close w1 master: %w", err)
	}
	return nil
}
