package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/thermo-monitor/internal/logic"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Console prints each view as a bordered panel. It stands in for the OLED
// when the daemon runs without a display attached.
type Console struct {
	w     io.Writer
	panel lipgloss.Style
	title lipgloss.Style
	muted lipgloss.Style
}

// NewConsole renders to w, picking a color profile for w.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w: w,
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		title: r.NewStyle().Bold(true),
		muted: r.NewStyle().Faint(true),
	}
}

func (c *Console) print(body string) error {
	_, err := fmt.Fprintln(c.w, c.panel.Render(body))
	return err
}

// DrawLive shows the current readings.
func (c *Console) DrawLive(in, out float64) error {
	return c.print(fmt.Sprintf("%s %6.2f\n%s %6.2f",
		c.title.Render("In: "), in,
		c.title.Render("Out:"), out))
}

// DrawHighLow shows one channel's extrema.
func (c *Console) DrawHighLow(label string, high, low float64) error {
	return c.print(fmt.Sprintf("%s\nhigh %6.2f\nlow  %6.2f",
		c.title.Render(label), high, low))
}

// DrawHistory shows one channel's 24 hour window as a sparkline.
func (c *Console) DrawHistory(label string, window [logic.HistorySize]float64) error {
	lo, hi := bounds(window)
	return c.print(fmt.Sprintf("%s  %s\n%s\n%s",
		c.title.Render(label),
		c.muted.Render(fmt.Sprintf("max %.1f  min %.1f", hi, lo)),
		Sparkline(window[:]),
		c.muted.Render(axis())))
}

// Sparkline maps values onto block characters scaled to their own range.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		i := top / 2
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(top))
		}
		i = max(0, min(top, i))
		b.WriteRune(sparkBlocks[i])
	}
	return b.String()
}

// axis marks every 6 hours under a full sparkline.
func axis() string {
	var b strings.Builder
	for i := 0; i < logic.HistorySize; i++ {
		if i%majorTick == 0 {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
