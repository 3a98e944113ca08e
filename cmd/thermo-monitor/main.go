// Command thermo-monitor samples two DS18B20 probes into a 24 hour history,
// shows it on an OLED with a one-button UI, and publishes samples to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/onewire"

	"github.com/sweeney/thermo-monitor/internal/display"
	"github.com/sweeney/thermo-monitor/internal/gpio"
	"github.com/sweeney/thermo-monitor/internal/logger"
	"github.com/sweeney/thermo-monitor/internal/logic"
	"github.com/sweeney/thermo-monitor/internal/mqtt"
	"github.com/sweeney/thermo-monitor/internal/probe"
	"github.com/sweeney/thermo-monitor/internal/status"
	"github.com/sweeney/thermo-monitor/internal/web"
)

const serviceName = "thermo-monitor"

type options struct {
	poll          time.Duration
	broker        string
	httpAddr      string
	wsBroker      string
	pinButton     int
	gpioChip      string
	i2cBus        string
	display       string
	probeIn       string
	probeOut      string
	w1Master      uint
	printReadings bool
}

func main() {
	var opts options
	flag.DurationVar(&opts.poll, "poll", 100*time.Millisecond, "Sampling scheduler polling interval")
	flag.StringVar(&opts.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.wsBroker, "ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	flag.IntVar(&opts.pinButton, "pin-button", gpio.DefaultPinButton, "BCM pin number for the push button")
	flag.StringVar(&opts.gpioChip, "gpio-chip", gpio.DefaultChip, "GPIO character device")
	flag.StringVar(&opts.i2cBus, "i2c", "", "I2C bus for the OLED (empty for the first bus)")
	flag.StringVar(&opts.display, "display", "oled", "Renderer: oled, console or none")
	flag.StringVar(&opts.probeIn, "probe-in", "", "1-wire address of the inside probe (empty to discover)")
	flag.StringVar(&opts.probeOut, "probe-out", "", "1-wire address of the outside probe (empty to discover)")
	flag.UintVar(&opts.w1Master, "w1-master", 0, "1-wire bus master index")
	flag.BoolVar(&opts.printReadings, "print-readings", false, "Print both probe readings and exit")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "json", "Log format: json or console")

	flag.Parse()

	log, err := logger.New(*logLevel, *logFormat, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	opts.wsBroker = resolveWSBroker(opts.wsBroker, opts.broker, log)
	if err := run(opts, log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func run(opts options, log *zap.Logger) error {
	// Initialize probes
	var addrs [logic.NumChannels]onewire.Address
	for ch, s := range [logic.NumChannels]string{opts.probeIn, opts.probeOut} {
		a, err := probe.ParseAddress(s)
		if err != nil {
			return err
		}
		addrs[ch] = a
	}
	probes, err := probe.NewOneWire(uint32(opts.w1Master), addrs, log)
	if err != nil {
		return fmt.Errorf("init probes: %w", err)
	}
	defer probes.Close()

	// Print readings mode
	if opts.printReadings {
		printReadings(os.Stdout, probes)
		return nil
	}

	renderer, closeRenderer, err := openRenderer(opts)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer closeRenderer()

	button, err := gpio.NewRealButton(opts.gpioChip, opts.pinButton, log)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer button.Close()

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.Nop{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.Nop{}
	if opts.broker != "" {
		p, err := mqtt.NewRealPublisher(opts.broker, serviceName, log)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus = p, p
	}
	defer publisher.Close()

	// Takes the first readings and draws the live view.
	dev, err := logic.NewDevice(probes, renderer)
	if err != nil {
		log.Warn("initial draw failed", zap.Error(err))
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:    opts.poll.Milliseconds(),
		Broker:    opts.broker,
		HTTPAddr:  opts.httpAddr,
		WSBroker:  opts.wsBroker,
		Display:   opts.display,
		PinButton: opts.pinButton,
		Probes:    probes.Addresses(),
	})
	tracker.Update(dev.Snapshot())
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warn("failed to publish startup event", zap.Error(err))
	} else {
		log.Info("published startup event")
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server error", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("http status server listening", zap.String("addr", opts.httpAddr))
	}

	log.Info("started",
		zap.Duration("poll", opts.poll),
		zap.String("broker", opts.broker),
		zap.String("display", opts.display),
		zap.Int("pin_button", opts.pinButton),
	)

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
	clock := func() logic.Millis {
		// Truncation to 32 bits is the wrap.
		return logic.Millis(time.Since(start).Milliseconds())
	}

	return runLoop(loop{
		dev:        dev,
		edges:      button.Edges(),
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		clock:      clock,
		now:        time.Now,
		tick:       ticker.C,
		sig:        sigCh,
		log:        log,
	})
}

// openRenderer returns the renderer selected by --display and a func that
// releases it.
func openRenderer(opts options) (logic.Renderer, func() error, error) {
	switch opts.display {
	case "oled":
		oled, err := display.NewOLED(opts.i2cBus)
		if err != nil {
			return nil, nil, err
		}
		return oled, oled.Close, nil
	case "console":
		return display.NewConsole(os.Stdout), func() error { return nil }, nil
	case "none":
		return display.Discard{}, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown display %q", opts.display)
}

func printReadings(w io.Writer, src logic.SampleSource) {
	in := src.ReadChannel(logic.Inside)
	out := src.ReadChannel(logic.Outside)
	fmt.Fprintf(w, "In: %.2f, Out: %.2f\n", in, out)
}

// loop holds everything runLoop touches, so tests can inject fakes, clocks
// and channels.
type loop struct {
	dev        *logic.Device
	edges      <-chan logic.Edge
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	clock      func() logic.Millis
	now        func() time.Time
	tick       <-chan time.Time
	sig        <-chan os.Signal
	log        *zap.Logger
}

func runLoop(l loop) error {
	edges := l.edges
	for {
		select {
		case s := <-l.sig:
			l.log.Info("shutting down", zap.Stringer("signal", s))
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: l.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if l.tracker != nil {
				l.refresh()
				snap := l.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := l.publisher.PublishSystem(event); err != nil {
				l.log.Warn("failed to publish shutdown event", zap.Error(err))
			} else {
				l.log.Info("published shutdown event")
			}
			return nil

		case e, ok := <-edges:
			if !ok {
				// Closed button: keep sampling without it.
				l.log.Warn("button edge channel closed")
				edges = nil
				continue
			}
			resets := l.dev.Snapshot().Counts.Resets
			p, err := l.dev.HandleEdge(e)
			if err != nil {
				l.log.Warn("redraw failed", zap.Error(err))
			}
			if p == logic.PressNone {
				continue
			}
			l.log.Info("button", zap.Stringer("press", p), zap.Stringer("mode", l.dev.Mode()))

			snap := l.dev.Snapshot()
			if snap.Counts.Resets != resets {
				l.publishReset(snap)
			}
			l.refresh()

		case <-l.tick:
			sample, ok, err := l.dev.Tick(l.clock())
			if err != nil {
				l.log.Warn("redraw failed", zap.Error(err))
			}
			if ok {
				l.log.Info("sample",
					zap.Uint8("bin", uint8(sample.Bin)),
					zap.Float64("in", sample.Readings[logic.Inside]),
					zap.Float64("out", sample.Readings[logic.Outside]),
				)
				event := mqtt.SampleEvent{Timestamp: l.now(), Sample: sample}
				if err := l.publisher.Publish(event); err != nil {
					// Don't crash on publish failure
					l.log.Warn("publish error", zap.Error(err))
				}
			}
			l.refresh()
		}
	}
}

// refresh copies device and connection state into the tracker for HTTP consumers.
func (l loop) refresh() {
	if l.tracker == nil {
		return
	}
	l.tracker.Update(l.dev.Snapshot())
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l loop) publishReset(snap logic.Snapshot) {
	ch := logic.Inside
	if snap.Mode == logic.ModeHighLowOut {
		ch = logic.Outside
	}
	l.log.Info("extrema reset", zap.Stringer("channel", ch), zap.Float64("reading", snap.Readings[ch]))

	event := mqtt.SystemEvent{
		Timestamp: l.now(),
		Event:     "EXTREMA_RESET",
		Reason:    ch.String(),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		l.log.Warn("failed to publish reset event", zap.Error(err))
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string, log *zap.Logger) string {
	if ws == "off" || (ws == "=broker" && broker == "") {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Warn("ws-broker: cannot parse --broker", zap.String("broker", broker), zap.Error(err))
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
