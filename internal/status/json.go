package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Mode          string       `json:"mode"`
	Bin           int          `json:"bin"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	In            ChannelJSON  `json:"in"`
	Out           ChannelJSON  `json:"out"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	History       *HistoryJSON `json:"history,omitempty"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ChannelJSON is one channel's current reading and extrema.
type ChannelJSON struct {
	Reading float64 `json:"reading"`
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of device counters.
type CountsJSON struct {
	Samples      int `json:"samples"`
	ShortPresses int `json:"short_presses"`
	LongPresses  int `json:"long_presses"`
	Resets       int `json:"resets"`
	Bounced      int `json:"bounced"`
}

// HistoryJSON holds both 24 hour windows, oldest first.
type HistoryJSON struct {
	BinSeconds int       `json:"bin_seconds"`
	In         []float64 `json:"in"`
	Out        []float64 `json:"out"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs    int64  `json:"poll_ms"`
	Broker    string `json:"broker"`
	HTTPAddr  string `json:"http_addr"`
	WSBroker  string `json:"ws_broker,omitempty"`
	Display   string `json:"display"`
	PinButton int    `json:"pin_button"`
	ProbeIn   string `json:"probe_in,omitempty"`
	ProbeOut  string `json:"probe_out,omitempty"`
}

func channelJSON(dev logic.Snapshot, ch logic.Channel) ChannelJSON {
	return ChannelJSON{
		Reading: dev.Readings[ch],
		High:    dev.Extrema[ch].High,
		Low:     dev.Extrema[ch].Low,
	}
}

func buildInner(snap Snapshot) StatusInner {
	dev := snap.Device
	mode := dev.Mode
	if !mode.Valid() {
		mode = logic.ModeLive
	}

	return StatusInner{
		Mode:          mode.String(),
		Bin:           int(dev.Cursor),
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		In:            channelJSON(dev, logic.Inside),
		Out:           channelJSON(dev, logic.Outside),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Samples:      dev.Counts.Samples,
			ShortPresses: dev.Counts.ShortPresses,
			LongPresses:  dev.Counts.LongPresses,
			Resets:       dev.Counts.Resets,
			Bounced:      dev.Counts.Bounced,
		},
		Config: ConfigJSON{
			PollMs:    snap.Config.PollMs,
			Broker:    snap.Config.Broker,
			HTTPAddr:  snap.Config.HTTPAddr,
			WSBroker:  snap.Config.WSBroker,
			Display:   snap.Config.Display,
			PinButton: snap.Config.PinButton,
			ProbeIn:   snap.Config.Probes[logic.Inside],
			ProbeOut:  snap.Config.Probes[logic.Outside],
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

func buildHistory(snap Snapshot, inner *StatusInner) {
	w := snap.Device.Windows
	inner.History = &HistoryJSON{
		BinSeconds: int(logic.BinDuration / 1000),
		In:         append([]float64(nil), w[logic.Inside][:]...),
		Out:        append([]float64(nil), w[logic.Outside][:]...),
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason),
// including both history windows.
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)
	buildHistory(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
// History is omitted to keep the retained message small.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// Summary returns the status fields shared by every output, without network
// info or history.
func Summary(snap Snapshot) StatusInner {
	return buildInner(snap)
}
