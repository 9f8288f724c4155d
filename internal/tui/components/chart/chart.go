// Package chart draws small text charts for the terminal.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/steady/internal/analytics"
)

var ticks = []rune("▁▂▃▄▅▆▇█")

var (
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Sparkline draws one cell per x slot in [0, slots), scaling y between lo and
// hi. Slots without a point are left blank.
func Sparkline(points []analytics.Point, slots int, lo, hi float64) string {
	if slots <= 0 {
		return ""
	}
	cells := make([]rune, slots)
	for i := range cells {
		cells[i] = ' '
	}
	for _, p := range points {
		x := int(p.X)
		if x < 0 || x >= slots {
			continue
		}
		cells[x] = ticks[level(p.Y, lo, hi)]
	}
	return lineStyle.Render(string(cells))
}

func level(y, lo, hi float64) int {
	if hi <= lo || math.IsNaN(y) {
		return 0
	}
	f := (y - lo) / (hi - lo)
	f = math.Max(0, math.Min(1, f))
	return int(math.Round(f * float64(len(ticks)-1)))
}

// Bars draws one labeled horizontal bar per point, scaled so the largest
// value fills width cells.
func Bars(points []analytics.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	labelWidth := 0
	maxY := 0.0
	for _, p := range points {
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
		maxY = math.Max(maxY, p.Y)
	}

	var b strings.Builder
	for _, p := range points {
		n := 0
		if maxY > 0 {
			n = int(math.Round(p.Y / maxY * float64(width)))
		}
		if n == 0 && p.Y > 0 {
			n = 1
		}
		label := p.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(p.Label))
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render(label),
			barStyle.Render(strings.Repeat("█", n)),
			formatValue(p.Y),
		)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// Axis labels the first and last day under a sparkline of the given width.
func Axis(start, end string, width int) string {
	gap := width - lipgloss.Width(start) - lipgloss.Width(end)
	if gap < 1 {
		return axisStyle.Render(start)
	}
	return axisStyle.Render(start + strings.Repeat(" ", gap) + end)
}

// Compress averages points spread over total x slots into at most slots
// columns. Columns with no points are omitted.
func Compress(points []analytics.Point, total, slots int) []analytics.Point {
	if slots <= 0 || total <= slots {
		return points
	}
	sums := make([]float64, slots)
	counts := make([]int, slots)
	for _, p := range points {
		i := int(p.X) * slots / total
		if i < 0 || i >= slots {
			continue
		}
		sums[i] += p.Y
		counts[i]++
	}
	out := make([]analytics.Point, 0, slots)
	for i := range sums {
		if counts[i] > 0 {
			out = append(out, analytics.Point{X: float64(i), Y: sums[i] / float64(counts[i])})
		}
	}
	return out
}
