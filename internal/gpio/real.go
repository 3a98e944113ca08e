//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// RealButton watches a GPIO line for both edges using the kernel's event
// interface. Edge timestamps come from the kernel's monotonic clock.
type RealButton struct {
	chip  *gpiocdev.Chip
	line  *gpiocdev.Line
	edges chan logic.Edge
	log   *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewRealButton requests pin on chip as an input with pull-up and both-edge
// detection. The button shorts the line to ground, so a falling edge is a
// press and a rising edge a release.
func NewRealButton(chipName string, pin int, log *zap.Logger) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	b := &RealButton{
		chip:  chip,
		edges: make(chan logic.Edge, EdgeQueue),
		log:   log,
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(b.handle))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}
	b.line = line
	return b, nil
}

// handle runs on the gpiocdev event goroutine. It never blocks.
func (b *RealButton) handle(evt gpiocdev.LineEvent) {
	edge, ok := edgeFromEvent(evt)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.edges <- edge:
	default:
		b.log.Warn("button edge queue full, dropping edge", zap.Stringer("edge", edge.Kind))
	}
}

func edgeFromEvent(evt gpiocdev.LineEvent) (logic.Edge, bool) {
	at := logic.Millis(evt.Timestamp.Milliseconds())
	switch evt.Type {
	case gpiocdev.LineEventFallingEdge:
		return logic.Edge{Kind: logic.EdgePress, At: at}, true
	case gpiocdev.LineEventRisingEdge:
		return logic.Edge{Kind: logic.EdgeRelease, At: at}, true
	}
	return logic.Edge{}, false
}

// Edges returns the edge channel.
func (b *RealButton) Edges() <-chan logic.Edge {
	return b.edges
}

// Close releases the line and chip and closes the edge channel.
// The line is reconfigured to input with pull-down (the Pi boot default)
// before release.
func (b *RealButton) Close() error {
	var errs []error

	if b.line != nil {
		if err := b.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pin: %w", err))
		}
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.edges)
	}
	b.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
