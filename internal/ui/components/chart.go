// Package components holds the chart and spinner widgets shared by the
// explorer tabs.
package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

const (
	minPlotWidth  = 20
	minPlotHeight = 3
	noData        = "No data available"
)

var (
	lineColors = []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue, asciigraph.Green, asciigraph.Yellow}
	sparkRunes = []rune("▁▂▃▄▅▆▇█")
)

// peak returns the largest value, or 1 when nothing is positive, so callers
// can divide by it.
func peak(values []float64) float64 {
	p := 0.0
	for _, v := range values {
		p = max(p, v)
	}
	if p == 0 {
		return 1
	}
	return p
}

func plotOptions(width, height int, caption string) []asciigraph.Option {
	return []asciigraph.Option{
		asciigraph.Width(max(width, minPlotWidth)),
		asciigraph.Height(max(height, minPlotHeight)),
		asciigraph.Caption(caption),
	}
}

// RenderLineChart plots one series.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render(noData)
	}
	return asciigraph.Plot(data, plotOptions(width, height, caption)...)
}

// RenderMultiLineChart plots every series on a shared axis, colored in
// order. Short series are zero-padded to the longest one.
func RenderMultiLineChart(series [][]float64, width, height int, caption string) string {
	n := 0
	for _, s := range series {
		n = max(n, len(s))
	}
	if n == 0 {
		return styles.HelpStyle.Render(noData)
	}

	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		data[i] = make([]float64, n)
		copy(data[i], s)
		colors[i] = lineColors[i%len(lineColors)]
	}

	opts := append(plotOptions(width, height, caption), asciigraph.SeriesColors(colors...))
	return asciigraph.PlotMany(data, opts...)
}

// RenderBarChart draws one horizontal bar per value with right-aligned
// labels and the count after the bar. Bars cycle through styles.Palette.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, ansi.StringWidth(l))
	}
	span := max(width-labelWidth-10, 10)
	top := peak(values)

	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte('\n')
		}
		var label string
		if i < len(labels) {
			label = labels[i]
		}
		fill := max(int(v/top*float64(span)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Palette[i%len(styles.Palette)]).Render(strings.Repeat("█", fill))

		b.WriteString(strings.Repeat(" ", labelWidth-ansi.StringWidth(label)))
		b.WriteString(label + " │" + bar + " " + strconv.FormatFloat(v, 'f', 0, 64))
	}
	return b.String()
}

// RenderSparkline compresses values into at most width block characters,
// sampling evenly when there are more values than columns.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	top := peak(values)
	step := max(float64(len(values))/float64(width), 1)
	out := make([]rune, 0, min(width, len(values)))
	for col := range width {
		idx := int(float64(col) * step)
		if idx >= len(values) {
			break
		}
		lvl := int(values[idx] / top * float64(len(sparkRunes)-1))
		out = append(out, sparkRunes[min(max(lvl, 0), len(sparkRunes)-1)])
	}
	return string(out)
}

// LegendItem is one colored legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend lays legend entries out on one line.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s %s", lipgloss.NewStyle().Foreground(it.Color).Render("■"), it.Label)
	}
	return strings.Join(parts, "  ")
}
