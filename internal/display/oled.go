package display

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// OLED draws views on a 128x32 SSD1306 over I2C.
type OLED struct {
	bus   i2c.BusCloser
	dev   *ssd1306.Dev
	frame *Frame
}

// NewOLED opens the named I2C bus ("" for the first available) and
// initializes the panel.
func NewOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = Width
	opts.H = Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	return &OLED{bus: bus, dev: dev, frame: NewFrame()}, nil
}

func (o *OLED) flush() error {
	if err := o.dev.Draw(o.dev.Bounds(), o.frame.Image(), image.Point{}); err != nil {
		return fmt.Errorf("draw ssd1306: %w", err)
	}
	return nil
}

// DrawLive shows the current readings.
func (o *OLED) DrawLive(in, out float64) error {
	o.frame.Live(in, out)
	return o.flush()
}

// DrawHighLow shows one channel's extrema.
func (o *OLED) DrawHighLow(label string, high, low float64) error {
	o.frame.HighLow(label, high, low)
	return o.flush()
}

// DrawHistory plots one channel's 24 hour window.
func (o *OLED) DrawHistory(label string, window [logic.HistorySize]float64) error {
	o.frame.History(label, window)
	return o.flush()
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	var errs []error
	if err := o.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
	}
	if err := o.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	return errors.Join(errs...)
}
