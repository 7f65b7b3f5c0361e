// Package chart draws report aggregates as plain-text charts.
package chart

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/catalog-eda/internal/models"
)

// Kind selects how a Spec is drawn.
type Kind int

const (
	// KindBar draws horizontal bars, one per label.
	KindBar Kind = iota
	// KindLine draws an ASCII line chart over ordered points.
	KindLine
	// KindHistogram draws bars labelled with bin ranges.
	KindHistogram
	// KindSummary draws a table of numeric summaries.
	KindSummary
	// KindGrouped draws the summary table followed by one histogram per
	// group.
	KindGrouped
)

// MaxBuckets caps the number of bars in a bucketed distribution.
const MaxBuckets = 12

// Group is one partition's bucketed distribution.
type Group struct {
	Key    string
	Labels []string
	Values []float64
	N      int
}

// Spec is one chart: a title plus the labels and values to draw.
type Spec struct {
	Name      string
	Title     string
	XLabel    string
	YLabel    string
	Labels    []string
	Values    []float64
	Summaries []models.Summary
	Groups    []Group
	Kind      Kind
}

// Size bounds the drawing area in terminal cells.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used for files written to disk.
var DefaultSize = Size{Width: 72, Height: 12}

// Specs lists the charts of a report in display order.
func Specs(r *models.Report) []Spec {
	return []Spec{
		histogramSpec(r.ReleaseYears),
		{
			Name: models.ChartReleaseYearCounts, Title: "Titles per release year",
			XLabel: "Release year", YLabel: "Titles",
			Labels: r.ReleaseYearCounts.Labels(), Values: r.ReleaseYearCounts.Values(), Kind: KindLine,
		},
		{
			Name: models.ChartTypes, Title: "Movies vs TV shows",
			XLabel: "Type", YLabel: "Count",
			Labels: r.Types.Labels(), Values: r.Types.Values(), Kind: KindBar,
		},
		{
			Name: models.ChartRatings, Title: "Top ratings",
			XLabel: "Rating", YLabel: "Count",
			Labels: r.Ratings.Labels(), Values: r.Ratings.Values(), Kind: KindBar,
		},
		{
			Name: models.ChartGenres, Title: "Top genres",
			XLabel: "Genre", YLabel: "Count",
			Labels: r.Genres.Labels(), Values: r.Genres.Values(), Kind: KindBar,
		},
		{
			Name: models.ChartCountries, Title: "Top producing countries",
			XLabel: "Country", YLabel: "Count",
			Labels: r.Countries.Labels(), Values: r.Countries.Values(), Kind: KindBar,
		},
		durationSpec(r),
		{
			Name: models.ChartAddedByYear, Title: "Titles added per year",
			XLabel: "Year", YLabel: "Titles",
			Labels: r.AddedByYear.Labels(), Values: r.AddedByYear.Values(), Kind: KindLine,
		},
		{
			Name: models.ChartAddedByMonth, Title: "Titles added per month",
			XLabel: "Month", YLabel: "Titles",
			Labels: r.AddedByMonth.Labels(), Values: r.AddedByMonth.Values(), Kind: KindLine,
		},
	}
}

func histogramSpec(h models.Histogram) Spec {
	s := Spec{
		Name: models.ChartReleaseYears, Title: "Distribution of release years",
		XLabel: "Release year", YLabel: "Titles", Kind: KindHistogram,
		Labels: make([]string, len(h)), Values: make([]float64, len(h)),
	}
	for i, b := range h {
		s.Labels[i] = binLabel(b.Low, b.High)
		s.Values[i] = float64(b.Count)
	}
	return s
}

// binLabel prints whole edges without decimals. Fractional edges get enough
// decimals to resolve the bin width, so neighbouring bins never share a label.
func binLabel(lo, hi float64) string {
	if lo == math.Trunc(lo) && hi == math.Trunc(hi) {
		return fmt.Sprintf("%.0f-%.0f", lo, hi)
	}
	prec := 1
	if w := hi - lo; w > 0 {
		prec = min(max(prec, int(math.Ceil(-math.Log10(w)))), 6)
	}
	return fmt.Sprintf("%.*f-%.*f", prec, lo, prec, hi)
}

func durationSpec(r *models.Report) Spec {
	s := Spec{
		Name: models.ChartDurations, Title: "Duration by type",
		XLabel: "Type", YLabel: "Duration (minutes or seasons)", Kind: KindGrouped,
	}
	for _, p := range r.Durations {
		values, labels := Buckets(p.Values, MaxBuckets)
		s.Labels = append(s.Labels, p.Key)
		s.Summaries = append(s.Summaries, r.DurationSummaries[p.Key])
		s.Groups = append(s.Groups, Group{Key: p.Key, Labels: labels, Values: values, N: len(p.Values)})
	}
	return s
}

// Buckets groups integer values into at most n equal-width ranges starting
// at the minimum. Labels are "lo" for single-value ranges and "lo-hi"
// otherwise.
func Buckets(values []int, n int) ([]float64, []string) {
	if len(values) == 0 || n <= 0 {
		return nil, nil
	}

	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo + 1
	width := (span + n - 1) / n
	count := (span + width - 1) / width

	counts := make([]float64, count)
	for _, v := range values {
		counts[(v-lo)/width]++
	}

	labels := make([]string, count)
	for i := range labels {
		start := lo + i*width
		end := min(start+width-1, hi)
		if start == end {
			labels[i] = strconv.Itoa(start)
		} else {
			labels[i] = fmt.Sprintf("%d-%d", start, end)
		}
	}
	return counts, labels
}

// Draw renders s as text without colour codes.
func Draw(s Spec, size Size) string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(s.Title)))
	b.WriteString("\n\n")

	if len(s.Labels) == 0 {
		b.WriteString("No data available\n")
		return b.String()
	}

	switch s.Kind {
	case KindLine:
		b.WriteString(Line(s.Values, s.Labels, size, s.YLabel+" by "+strings.ToLower(s.XLabel)))
	case KindSummary:
		b.WriteString(SummaryTable(s.Labels, s.Summaries))
	case KindGrouped:
		b.WriteString(SummaryTable(s.Labels, s.Summaries))
		for _, g := range s.Groups {
			fmt.Fprintf(&b, "\n\n%s distribution (%d titles)\n", g.Key, g.N)
			if len(g.Values) == 0 {
				b.WriteString("No values")
				continue
			}
			b.WriteString(Bars(g.Values, g.Labels, size.Width))
		}
	default:
		b.WriteString(Bars(s.Values, s.Labels, size.Width))
	}
	b.WriteString("\n")
	return b.String()
}

// Line plots values with asciigraph and prints the first and last labels
// under the plot. Fewer than two points fall back to bars.
func Line(values []float64, labels []string, size Size, caption string) string {
	if len(values) < 2 {
		return Bars(values, labels, size.Width)
	}
	size = clamp(size)

	graph := asciigraph.Plot(values,
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.Caption(caption),
	)

	first, last := labels[0], labels[len(labels)-1]
	axis := fmt.Sprintf("%s .. %s (%d points)", first, last, len(values))
	return graph + "\n" + axis
}

// Bars draws a horizontal bar chart with left-aligned labels.
func Bars(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		if n := len([]rune(l)); n > maxLabelLen {
			maxLabelLen = n
		}
	}

	barWidth := max(width-maxLabelLen-10, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		pad := strings.Repeat(" ", maxLabelLen-len([]rune(label)))
		barLen := max(int(v/maxVal*float64(barWidth)), 0)
		lines = append(lines, label+pad+" |"+strings.Repeat("#", barLen)+" "+formatValue(v))
	}
	return strings.Join(lines, "\n")
}

// SummaryTable prints one row per partition.
func SummaryTable(keys []string, sums []models.Summary) string {
	keyWidth := len("group")
	for _, k := range keys {
		keyWidth = max(keyWidth, len([]rune(k)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %6s %8s %8s %6s %6s %6s %6s %6s\n",
		keyWidth, "group", "n", "mean", "std", "min", "q1", "median", "q3", "max")
	for i, k := range keys {
		s := sums[i]
		fmt.Fprintf(&b, "%-*s %6d %8.1f %8.1f %6.0f %6.1f %6.1f %6.1f %6.0f\n",
			keyWidth, k, s.N, s.Mean, s.StdDev, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp(s Size) Size {
	if s.Width < 20 {
		s.Width = 20
	}
	if s.Height < 3 {
		s.Height = 3
	}
	return s
}
