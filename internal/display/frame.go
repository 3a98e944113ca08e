package display

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

// Screen geometry of the 128x32 OLED.
const (
	Width  = 128
	Height = 32

	// GraphX is the column the history graph starts at. The graph is one
	// pixel per bin, so it runs to the right edge.
	GraphX = Width - logic.HistorySize

	majorTick = logic.HistorySize / 4  // 6 hours
	minorTick = logic.HistorySize / 24 // 1 hour
)

var face = basicfont.Face7x13

// Frame composes views into a 1-bit image in the display's memory layout.
type Frame struct {
	img *image1bit.VerticalLSB
}

// NewFrame allocates a blank frame.
func NewFrame() *Frame {
	return &Frame{img: image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))}
}

// Image returns the composed frame.
func (f *Frame) Image() *image1bit.VerticalLSB {
	return f.img
}

// Lit reports whether the pixel at (x, y) is on.
func (f *Frame) Lit(x, y int) bool {
	return bool(f.img.BitAt(x, y))
}

func (f *Frame) clear() {
	for i := range f.img.Pix {
		f.img.Pix[i] = 0
	}
}

// text draws s with its baseline at y.
func (f *Frame) text(x, y int, s string) {
	d := font.Drawer{
		Dst:  f.img,
		Src:  image.NewUniform(image1bit.On),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (f *Frame) set(x, y int) {
	if image.Pt(x, y).In(f.img.Rect) {
		f.img.SetBit(x, y, image1bit.On)
	}
}

// line draws a straight line with Bresenham's algorithm.
func (f *Frame) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		f.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Live shows both current readings.
func (f *Frame) Live(in, out float64) {
	f.clear()
	f.text(0, 12, fmt.Sprintf("In:  %.2f", in))
	f.text(0, 28, fmt.Sprintf("Out: %.2f", out))
}

// HighLow shows one channel's extrema, high above low.
func (f *Frame) HighLow(label string, high, low float64) {
	f.clear()
	f.text(0, 20, label+":")
	f.text(64, 12, fmt.Sprintf("%.2f", high))
	f.text(64, 28, fmt.Sprintf("%.2f", low))
}

// History plots a chronological window, oldest at GraphX and newest at the
// right edge, scaled to the window's own range.
func (f *Frame) History(label string, window [logic.HistorySize]float64) {
	f.clear()

	for i := 0; i < logic.HistorySize; i++ {
		x := GraphX + i
		switch {
		case i%majorTick == 0:
			f.line(x, Height-1, x, Height-4)
		case i%minorTick == 0:
			f.line(x, Height-1, x, Height-2)
		}
	}

	lo, hi := bounds(window)
	prev := plotY(window[0], lo, hi)
	f.set(GraphX, prev)
	for k := 1; k < logic.HistorySize; k++ {
		y := plotY(window[k], lo, hi)
		f.line(GraphX+k-1, prev, GraphX+k, y)
		prev = y
	}

	f.text(0, 9, fmt.Sprintf("%.1f", hi))
	f.text(0, 20, label)
	f.text(0, Height-1, fmt.Sprintf("%.1f", lo))
}

// bounds returns the min and max of the window.
func bounds(window [logic.HistorySize]float64) (lo, hi float64) {
	lo, hi = window[0], window[0]
	for _, v := range window[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// plotY maps v into a screen row, top row for hi and bottom row for lo.
// A flat or non-finite range plots at mid height.
func plotY(v, lo, hi float64) int {
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return Height / 2
	}
	y := Height - 1 - int(math.Round((v-lo)*float64(Height-1)/span))
	if y < 0 {
		return 0
	}
	if y > Height-1 {
		return Height - 1
	}
	return y
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
