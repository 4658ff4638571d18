package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB3BA"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	pointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8E6CF"))
	nanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

const (
	minPlotWidth  = 20
	minPlotHeight = 5
	maxLabelWidth = 12
)

// Render draws a Figure as terminal text no wider than width columns.
func Render(f *Figure, width, height int) string {
	var b strings.Builder
	if f.Title != "" {
		b.WriteString(titleStyle.Render(f.Title))
		b.WriteString("\n\n")
	}
	if f.Empty() {
		return b.String()
	}
	if f.Grid != nil {
		b.WriteString(renderGrid(*f.Grid))
	} else {
		b.WriteString(renderSeries(f.Series[0], f.XLabel, f.YLabel, width, height))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func renderGrid(g Grid) string {
	rowW := 0
	for _, r := range g.Rows {
		rowW = max(rowW, lipgloss.Width(truncate(r, maxLabelWidth)))
	}
	cellW := 6
	for _, c := range g.Cols {
		cellW = max(cellW, lipgloss.Width(truncate(c, 8))+1)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowW+1))
	for _, c := range g.Cols {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", cellW, truncate(c, 8))))
	}
	b.WriteString("\n")
	for i, r := range g.Rows {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%-*s", rowW, truncate(r, maxLabelWidth))))
		b.WriteString(" ")
		for j, v := range g.Values[i] {
			label := fmt.Sprintf("%*s", cellW, g.Labels[i][j])
			if math.IsNaN(v) {
				b.WriteString(nanStyle.Render(label))
				continue
			}
			b.WriteString(lipgloss.NewStyle().
				Background(lipgloss.Color(divergingColor(v))).
				Foreground(lipgloss.Color("#111827")).
				Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// divergingColor maps [-1, 1] onto blue - white - red.
func divergingColor(v float64) string {
	v = math.Max(-1, math.Min(1, v))
	lerp := func(a, b int, t float64) int { return a + int(math.Round(float64(b-a)*t)) }
	white := [3]int{0xF7, 0xF7, 0xF7}
	blue := [3]int{0x3B, 0x4C, 0xC0}
	red := [3]int{0xB4, 0x04, 0x26}
	end, t := red, v
	if v < 0 {
		end, t = blue, -v
	}
	return fmt.Sprintf("#%02X%02X%02X",
		lerp(white[0], end[0], t), lerp(white[1], end[1], t), lerp(white[2], end[2], t))
}

func renderSeries(s Series, xLabel, yLabel string, width, height int) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, y := range s.Y {
		if !finite(y) {
			continue
		}
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	if math.IsInf(lo, 1) {
		return nanStyle.Render("(no values to plot)") + "\n"
	}
	if lo == hi && math.Abs(lo) < math.MaxFloat64/2 {
		lo, hi = lo-1, hi+1
	}

	hiLabel, loLabel := fmt.Sprintf("%.4g", hi), fmt.Sprintf("%.4g", lo)
	gutter := max(len(hiLabel), len(loLabel)) + 1
	w := max(minPlotWidth, width-gutter-1)
	h := max(minPlotHeight, height)

	grid := make([][]bool, h)
	for i := range grid {
		grid[i] = make([]bool, w)
	}
	n := len(s.Y)
	for i, y := range s.Y {
		if !finite(y) {
			continue
		}
		col := 0
		if n > 1 {
			col = int(math.Round(float64(i) / float64(n-1) * float64(w-1)))
		}
		grid[scaleRow(y, lo, hi, h)][col] = true
	}

	var b strings.Builder
	if yLabel != "" {
		b.WriteString(axisStyle.Render(yLabel))
		b.WriteString("\n")
	}
	for r, line := range grid {
		label := ""
		switch r {
		case 0:
			label = hiLabel
		case h - 1:
			label = loLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", gutter, label)))
		for _, on := range line {
			if on {
				b.WriteString(pointStyle.Render("•"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", gutter) + "└" + strings.Repeat("─", w)))
	b.WriteString("\n")
	last := fmt.Sprintf("%d", max(n-1, 0))
	pad := max(1, w-len(last)-1)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s0%s%s", gutter+1, "", strings.Repeat(" ", pad), last)))
	b.WriteString("\n")
	if xLabel != "" {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s%s", gutter+1, "", xLabel)))
		b.WriteString("\n")
	}
	return b.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// scaleRow maps y in [lo, hi] to a grid row, 0 being the top. Halving before
// subtracting keeps the span finite for values near ±MaxFloat64.
func scaleRow(y, lo, hi float64, h int) int {
	span := hi/2 - lo/2
	if span <= 0 || !finite(span) {
		return (h - 1) / 2
	}
	f := (hi/2 - y/2) / span * float64(h-1)
	if !finite(f) {
		return (h - 1) / 2
	}
	return min(h-1, max(0, int(math.Round(f))))
}
