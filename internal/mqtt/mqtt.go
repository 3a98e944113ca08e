// Package mqtt publishes monitor telemetry to MQTT with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// Topic is the MQTT topic for committed samples.
const Topic = "environment/thermo/monitor/samples"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "environment/thermo/monitor/system"

// Publisher publishes telemetry to MQTT.
type Publisher interface {
	// Publish sends a committed sample to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(sample SampleEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SampleEvent is a committed sample with its wall-clock time.
type SampleEvent struct {
	Timestamp time.Time
	Sample    logic.Sample
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "EXTREMA_RESET"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload for a sample.
type Payload struct {
	Sample SamplePayload `json:"sample"`
}

// SamplePayload contains the sample details.
type SamplePayload struct {
	Timestamp string       `json:"timestamp"`
	Bin       int          `json:"bin"`
	In        ChannelState `json:"in"`
	Out       ChannelState `json:"out"`
}

// ChannelState is one channel's reading and running extrema.
type ChannelState struct {
	Reading float64 `json:"reading"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
}

func channelState(s logic.Sample, ch logic.Channel) ChannelState {
	return ChannelState{
		Reading: s.Readings[ch],
		High:    s.Extrema[ch].High,
		Low:     s.Extrema[ch].Low,
	}
}

// FormatPayload creates the JSON payload for a sample.
func FormatPayload(event SampleEvent) ([]byte, error) {
	payload := Payload{
		Sample: SamplePayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Bin:       int(event.Sample.Bin),
			In:        channelState(event.Sample, logic.Inside),
			Out:       channelState(event.Sample, logic.Outside),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// Nop discards everything. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(SampleEvent) error       { return nil }
func (Nop) PublishSystem(SystemEvent) error { return nil }
func (Nop) Close() error                    { return nil }
func (Nop) IsConnected() bool               { return false }
