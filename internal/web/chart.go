package web

import (
	"bytes"
	"fmt"
	"math"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

const (
	chartWidth  = 768 // 8 px per bin
	chartHeight = 240
	chartPad    = 20
)

// HistoryChart renders a 24 hour window (oldest first) as an SVG line chart.
// The right edge is the most recent bin.
func HistoryChart(label string, window [logic.HistorySize]float64) []byte {
	low, high := window[0], window[0]
	for _, v := range window {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	lo := math.Floor(low) - 1
	hi := math.Ceil(high) + 1

	tempToY := func(v float64) float64 {
		return chartPad + (hi-v)/(hi-lo)*(chartHeight-2*chartPad)
	}
	binToX := func(k int) float64 {
		return float64(k) * chartWidth / (logic.HistorySize - 1)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\">\n", chartWidth, chartHeight)
	fmt.Fprintf(&buf, "<rect width=\"%d\" height=\"%d\" fill=\"white\"/>\n", chartWidth, chartHeight)

	buf.WriteString("<g stroke=\"#ddd\" stroke-width=\"1\">\n")
	step := gridStep(hi - lo)
	for t := math.Ceil(lo/step) * step; t <= hi; t += step {
		y := tempToY(t)
		fmt.Fprintf(&buf, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\"/>\n", y, chartWidth, y)
	}
	// Every 6 hours
	for k := 0; k < logic.HistorySize; k += 24 {
		x := binToX(k)
		fmt.Fprintf(&buf, "<line x1=\"%.1f\" y1=\"0\" x2=\"%.1f\" y2=\"%d\"/>\n", x, x, chartHeight)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<polyline fill=\"none\" stroke=\"#1f77b4\" stroke-width=\"2\" points=\"")
	for k, v := range window {
		if k > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%.1f,%.1f", binToX(k), tempToY(v))
	}
	buf.WriteString("\"/>\n")

	buf.WriteString("<g font-family=\"monospace\" font-size=\"12\" fill=\"#333\">\n")
	fmt.Fprintf(&buf, "<text x=\"4\" y=\"14\">%s max %.2f</text>\n", label, high)
	fmt.Fprintf(&buf, "<text x=\"4\" y=\"%d\">min %.2f</text>\n", chartHeight-4, low)
	buf.WriteString("</g>\n")

	buf.WriteString("</svg>")
	return buf.Bytes()
}

// gridStep picks a horizontal grid spacing giving roughly 4 to 10 lines.
func gridStep(span float64) float64 {
	for _, s := range []float64{1, 2, 5, 10, 20, 50} {
		if span/s <= 10 {
			return s
		}
	}
	return 100
}
