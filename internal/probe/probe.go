// Package probe provides temperature sample sources for the monitor.
// The real implementation reads DS18B20 probes over the Linux 1-wire bus.
// The fake implementation allows testing without hardware.
package probe

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/onewire"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// Disconnected is the reading reported for a probe that cannot be read.
// It matches the value DS18B20 libraries conventionally use, and like any
// other reading it is stored and displayed unfiltered.
const Disconnected = -127.0

// Resolution is the DS18B20 conversion resolution in bits.
const Resolution = 12

// ParseAddress parses a 1-wire address either in Linux sysfs form
// ("28-0316a2794aff": family, dash, 48-bit serial) or as a raw 64-bit hex
// value ("0x..."). Empty input returns 0, meaning "discover".
func ParseAddress(s string) (onewire.Address, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, nil
	}

	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("parse address %q: %w", s, err)
		}
		return onewire.Address(v), nil
	}

	family, serial, ok := strings.Cut(s, "-")
	if !ok || len(family) != 2 || len(serial) != 12 {
		return 0, fmt.Errorf("parse address %q: want ff-ssssssssssss or 0x...", s)
	}
	f, err := strconv.ParseUint(family, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("parse family %q: %w", family, err)
	}
	sn, err := strconv.ParseUint(serial, 16, 48)
	if err != nil {
		return 0, fmt.Errorf("parse serial %q: %w", serial, err)
	}

	// Little-endian on the wire: family in the low byte, CRC in the high byte.
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], f|sn<<8)
	raw[7] = onewire.CalcCRC(raw[:7])
	return onewire.Address(binary.LittleEndian.Uint64(raw[:])), nil
}

// FormatAddress renders an address in Linux sysfs form.
func FormatAddress(a onewire.Address) string {
	return fmt.Sprintf("%02x-%012x", uint64(a)&0xff, (uint64(a)>>8)&0xffffffffffff)
}

// assignAddresses fills zero entries of addrs from the discovered devices in
// ascending address order, skipping any already configured.
func assignAddresses(addrs [logic.NumChannels]onewire.Address, found []onewire.Address) ([logic.NumChannels]onewire.Address, error) {
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })

	claimed := map[onewire.Address]bool{}
	for _, a := range addrs {
		if a != 0 {
			claimed[a] = true
		}
	}
	next := 0
	for _, ch := range logic.Channels {
		if addrs[ch] != 0 {
			continue
		}
		for next < len(found) && claimed[found[next]] {
			next++
		}
		if next >= len(found) {
			return addrs, fmt.Errorf("no 1-wire probe found for %s channel (%d on bus)", ch, len(found))
		}
		addrs[ch] = found[next]
		claimed[found[next]] = true
	}
	return addrs, nil
}
