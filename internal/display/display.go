// Package display renders the monitor's views. The OLED renderer drives an
// SSD1306 panel over I2C; the console renderer prints the same views to a
// terminal for running without hardware.
package display

import "github.com/sweeney/thermo-monitor/internal/logic"

// Discard accepts every view and draws nothing.
type Discard struct{}

func (Discard) DrawLive(in, out float64) error                              { return nil }
func (Discard) DrawHighLow(label string, high, low float64) error           { return nil }
func (Discard) DrawHistory(label string, w [logic.HistorySize]float64) error { return nil }
