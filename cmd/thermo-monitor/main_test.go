package main

import (
	"bytes"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sweeney/thermo-monitor/internal/display"
	"github.com/sweeney/thermo-monitor/internal/gpio"
	"github.com/sweeney/thermo-monitor/internal/logic"
	"github.com/sweeney/thermo-monitor/internal/mqtt"
	"github.com/sweeney/thermo-monitor/internal/probe"
	"github.com/sweeney/thermo-monitor/internal/status"
)

// TestEnvVarNames verifies the env var constants match what pi-helper writes
// to /run/pi-helper.env. If pi-helper changes its var names, this test fails
// and we update the constants, not the other way around.
func TestEnvVarNames(t *testing.T) {
	want := map[string]string{
		"NETWORK_TYPE":        envNetworkType,
		"NETWORK_IP":          envNetworkIP,
		"NETWORK_STATUS":      envNetworkStatus,
		"NETWORK_GATEWAY":     envNetworkGateway,
		"NETWORK_WIFI_STATUS": envNetworkWifiStatus,
		"NETWORK_WIFI_SSID":   envNetworkWifiSSID,
	}
	for canonical, got := range want {
		assert.Equal(t, canonical, got)
	}
}

func TestReadNetworkInfoAllSet(t *testing.T) {
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.100")
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkGateway, "192.168.1.1")
	t.Setenv(envNetworkWifiStatus, "connected")
	t.Setenv(envNetworkWifiSSID, "MyNetwork")

	assert.Equal(t, &status.NetworkInfo{
		Type:       "wifi",
		IP:         "192.168.1.100",
		Status:     "connected",
		Gateway:    "192.168.1.1",
		WifiStatus: "connected",
		SSID:       "MyNetwork",
	}, readNetworkInfo())
}

func TestReadNetworkInfoUnset(t *testing.T) {
	t.Setenv(envNetworkStatus, "")
	assert.Nil(t, readNetworkInfo())
}

func TestResolveWSBroker(t *testing.T) {
	tests := []struct {
		ws, broker, want string
	}{
		{"=broker", "tcp://192.168.1.200:1883", "ws://192.168.1.200:9001"},
		{"=broker", "", ""},
		{"off", "tcp://192.168.1.200:1883", ""},
		{"ws://10.0.0.5:8080/mqtt", "tcp://192.168.1.200:1883", "ws://10.0.0.5:8080/mqtt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveWSBroker(tt.ws, tt.broker, zap.NewNop()), "ws=%q broker=%q", tt.ws, tt.broker)
	}
}

func TestOpenRenderer(t *testing.T) {
	r, closeFn, err := openRenderer(options{display: "none"})
	require.NoError(t, err)
	assert.IsType(t, display.Discard{}, r)
	assert.NoError(t, closeFn())

	r, _, err = openRenderer(options{display: "console"})
	require.NoError(t, err)
	assert.IsType(t, &display.Console{}, r)

	_, _, err = openRenderer(options{display: "lcd"})
	assert.ErrorContains(t, err, `unknown display "lcd"`)
}

func TestPrintReadings(t *testing.T) {
	var buf bytes.Buffer
	printReadings(&buf, probe.NewFake([]float64{21.456}, []float64{probe.Disconnected}))
	assert.Equal(t, "In: 21.46, Out: -127.00\n", buf.String())
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// harness runs runLoop on its own goroutine against fakes. Ticks are sent on
// an unbuffered channel, so a tick send returns only once the loop is idle
// again.
type harness struct {
	t       *testing.T
	src     *probe.Fake
	screen  *display.Fake
	button  *gpio.FakeButton
	pub     *mqtt.FakePublisher
	tracker *status.Tracker

	clock atomic.Uint32
	tick  chan time.Time
	sig   chan os.Signal
	errCh chan error
}

func newHarness(t *testing.T, in, out []float64, setup ...func(*harness)) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		src:     probe.NewFake(in, out),
		screen:  display.NewFake(),
		button:  gpio.NewFakeButton(),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(testNow, status.Config{}),
		tick:    make(chan time.Time),
		sig:     make(chan os.Signal, 1),
		errCh:   make(chan error, 1),
	}
	for _, fn := range setup {
		fn(h)
	}

	dev, err := logic.NewDevice(h.src, h.screen)
	require.NoError(t, err)

	l := loop{
		dev:        dev,
		edges:      h.button.Edges(),
		publisher:  h.pub,
		mqttStatus: h.pub,
		tracker:    h.tracker,
		clock:      func() logic.Millis { return logic.Millis(h.clock.Load()) },
		now:        func() time.Time { return testNow },
		tick:       h.tick,
		sig:        h.sig,
		log:        zap.NewNop(),
	}
	go func() { h.errCh <- runLoop(l) }()
	return h
}

func (h *harness) tickAt(now logic.Millis) {
	h.clock.Store(uint32(now))
	h.tick <- testNow
}

// click queues a press/release pair and waits until the loop has taken both.
func (h *harness) click(at, held logic.Millis) {
	h.t.Helper()
	h.button.Click(at, held)
	require.Eventually(h.t, func() bool { return len(h.button.Edges()) == 0 }, time.Second, time.Millisecond)
	// Sync on an idle tick: the clock is left where it was, so nothing new is due
	// unless the caller arranged it.
	h.tick <- testNow
}

func (h *harness) stop(sig os.Signal) {
	h.t.Helper()
	h.sig <- sig
	require.NoError(h.t, <-h.errCh)
}

func TestRunLoopFirstSampleDueImmediately(t *testing.T) {
	h := newHarness(t, []float64{20, 21}, []float64{5, 6})

	h.tickAt(10)
	h.tickAt(1000)
	h.stop(syscall.SIGTERM)

	require.Len(t, h.pub.Samples, 1)
	s := h.pub.Samples[0]
	assert.Equal(t, testNow, s.Timestamp)
	assert.Equal(t, logic.Cursor(0), s.Sample.Bin)
	assert.Equal(t, [logic.NumChannels]float64{21, 6}, s.Sample.Readings)
}

func TestRunLoopSamplesOncePerBin(t *testing.T) {
	h := newHarness(t, []float64{20, 21, 22, 23, 24}, []float64{5})

	for k := logic.Millis(0); k < 4; k++ {
		h.tickAt(k * logic.BinDuration)
		h.tickAt(k*logic.BinDuration + 100)
		h.tickAt(k*logic.BinDuration + logic.BinDuration/2)
	}
	h.stop(syscall.SIGTERM)

	require.Len(t, h.pub.Samples, 4)
	for i, s := range h.pub.Samples {
		assert.Equal(t, logic.Cursor(i), s.Sample.Bin)
		assert.Equal(t, float64(21+i), s.Sample.Readings[logic.Inside])
	}
	assert.Equal(t, 4, h.tracker.Snapshot().Device.Counts.Samples)
}

func TestRunLoopSampleRedrawsCurrentView(t *testing.T) {
	h := newHarness(t, []float64{20, 25}, []float64{5})

	h.tickAt(0)
	h.stop(syscall.SIGTERM)

	calls := h.screen.Calls()
	require.Len(t, calls, 2, "startup draw plus one per sample")
	assert.Equal(t, display.Call{View: "live", A: 25, B: 5}, calls[1])
}

func TestRunLoopShortPressCyclesView(t *testing.T) {
	h := newHarness(t, []float64{20}, []float64{5})
	h.tickAt(1) // bin 0 sampled; the clock then stays in bin 0

	h.click(1000, 100)
	h.click(2000, 100)
	h.click(3000, 100)
	h.stop(syscall.SIGTERM)

	last := h.screen.Last()
	assert.Equal(t, "history", last.View)
	assert.Equal(t, "In", last.Label)
	snap := h.tracker.Snapshot()
	assert.Equal(t, logic.ModeHistoryIn, snap.Device.Mode)
	assert.Equal(t, 3, snap.Device.Counts.ShortPresses)
}

func TestRunLoopBounceIgnored(t *testing.T) {
	h := newHarness(t, []float64{20}, []float64{5})
	h.tickAt(1)

	h.button.Push(logic.Edge{Kind: logic.EdgePress, At: 1000})
	h.button.Push(logic.Edge{Kind: logic.EdgeRelease, At: 1020})
	h.button.Push(logic.Edge{Kind: logic.EdgePress, At: 1030})
	h.button.Push(logic.Edge{Kind: logic.EdgeRelease, At: 1200})
	require.Eventually(t, func() bool { return len(h.button.Edges()) == 0 }, time.Second, time.Millisecond)
	h.tickAt(2)
	h.stop(syscall.SIGTERM)

	snap := h.tracker.Snapshot()
	assert.Equal(t, 1, snap.Device.Counts.ShortPresses)
	assert.Equal(t, 2, snap.Device.Counts.Bounced)
	assert.Equal(t, logic.ModeHighLowIn, snap.Device.Mode)
}

func TestRunLoopLongPressResetPublishesEvent(t *testing.T) {
	h := newHarness(t, []float64{20, 30}, []float64{5})
	h.tickAt(0)

	h.click(1000, 100)  // -> HighLowIn
	h.click(2000, 2500) // reset inside
	h.stop(syscall.SIGTERM)

	snap := h.tracker.Snapshot()
	assert.Equal(t, logic.Pair{High: 30, Low: 30}, snap.Device.Extrema[logic.Inside])
	assert.Equal(t, logic.ModeHighLowIn, snap.Device.Mode)

	require.Len(t, h.pub.SystemEvents, 2)
	assert.Equal(t, "EXTREMA_RESET", h.pub.SystemEvents[0].Event)
	assert.Equal(t, "in", h.pub.SystemEvents[0].Reason)
	assert.Equal(t, "SHUTDOWN", h.pub.SystemEvents[1].Event)
}

func TestRunLoopLongPressOutsideHighLowReturnsLive(t *testing.T) {
	h := newHarness(t, []float64{20}, []float64{5})
	h.tickAt(0)

	h.click(1000, 100)
	h.click(2000, 100)
	h.click(3000, 100)
	h.click(4000, 2200)
	h.stop(syscall.SIGTERM)

	assert.Equal(t, "live", h.screen.Last().View)
	require.Len(t, h.pub.SystemEvents, 1, "no reset event")
}

func TestRunLoopPublishErrorContinues(t *testing.T) {
	h := newHarness(t, []float64{20}, []float64{5}, func(h *harness) {
		h.pub.PublishError = errors.New("broker down")
	})

	h.tickAt(0)
	h.tickAt(logic.BinDuration)
	h.stop(syscall.SIGTERM)

	assert.Empty(t, h.pub.Samples)
	assert.Equal(t, 2, h.tracker.Snapshot().Device.Counts.Samples)
	require.Len(t, h.pub.SystemEvents, 1)
}

func TestRunLoopRendererErrorContinues(t *testing.T) {
	h := newHarness(t, []float64{20, 21}, []float64{5})
	h.screen.Err = errors.New("i2c nack")

	h.tickAt(0)
	h.click(1000, 100)
	h.stop(syscall.SIGTERM)

	snap := h.tracker.Snapshot()
	assert.Equal(t, 1, snap.Device.Counts.Samples)
	assert.Equal(t, logic.ModeHighLowIn, snap.Device.Mode)
	assert.Len(t, h.pub.Samples, 1)
}

func TestRunLoopButtonClosedKeepsSampling(t *testing.T) {
	h := newHarness(t, []float64{20}, []float64{5})

	require.NoError(t, h.button.Close())
	h.tickAt(0)
	h.tickAt(logic.BinDuration)
	h.stop(syscall.SIGTERM)

	assert.Len(t, h.pub.Samples, 2)
}

func TestRunLoopShutdownSignals(t *testing.T) {
	for _, tt := range []struct {
		sig  os.Signal
		want string
	}{
		{syscall.SIGTERM, "SIGTERM"},
		{syscall.SIGINT, "SIGINT"},
		{syscall.SIGHUP, "UNKNOWN"},
	} {
		t.Run(tt.want, func(t *testing.T) {
			h := newHarness(t, []float64{20}, []float64{5})
			h.stop(tt.sig)

			require.Len(t, h.pub.SystemEvents, 1)
			ev := h.pub.SystemEvents[0]
			assert.Equal(t, "SHUTDOWN", ev.Event)
			assert.Equal(t, tt.want, ev.Reason)
			assert.True(t, ev.Retained)
			assert.Contains(t, string(h.pub.SystemPayloads[0]), `"event":"SHUTDOWN"`)
		})
	}
}

func TestRunLoopTracksMQTTConnection(t *testing.T) {
	h := newHarness(t, []float64{20}, []float64{5}, func(h *harness) {
		h.pub.Connected = true
	})

	h.tickAt(0)
	h.stop(syscall.SIGTERM)

	snap := h.tracker.Snapshot()
	assert.True(t, snap.MQTTConnected)
	assert.True(t, snap.Ready)
}
