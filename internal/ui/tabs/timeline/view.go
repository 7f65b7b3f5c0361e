package timeline

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// View renders the timeline tab.
func (m *Model) View() string {
	ev := m.state.Report()
	if ev == nil || ev.Report == nil {
		return m.Frame(styles.HelpStyle.Render(components.WaitingText))
	}

	rep := ev.Report
	sections := []string{m.renderHeader(), m.renderAdded(rep)}
	if m.granularity == models.GranularityYear {
		sections = append(sections, m.renderReleasedVsAdded(rep))
	}
	sections = append(sections, m.renderReleaseHistogram(rep.ReleaseYears))

	return m.Scrolled(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) cardWidth() int {
	return m.CardWidth(50, 0)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Timeline")
	mode := styles.SelectorStyle.Render("[g] per " + m.granularity.String())
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", mode),
		styles.HelpStyle.Render("Only periods with additions are shown"),
		"",
	)
}

func (m *Model) series(rep *models.Report) models.TimelineSeries {
	if m.granularity == models.GranularityMonth {
		return rep.AddedByMonth
	}
	return rep.AddedByYear
}

func (m *Model) renderAdded(rep *models.Report) string {
	series := m.series(rep)
	chartWidth := m.cardWidth() - 14

	rows := []string{styles.CardTitleStyle.Render("Titles added per " + m.granularity.String())}
	if len(series) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No dated additions"))
	} else {
		first, last := series[0].Period, series[len(series)-1].Period
		caption := fmt.Sprintf("%s to %s, %d periods", first, last, len(series))
		rows = append(rows,
			components.RenderLineChart(series.Values(), chartWidth, 10, caption),
			"",
			styles.LabelStyle.Render("Trend")+components.RenderSparkline(series.Values(), chartWidth-18),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderReleasedVsAdded(rep *models.Report) string {
	added, released, first, last := AlignYears(rep.AddedByYear, rep.ReleaseYearCounts)

	rows := []string{styles.CardTitleStyle.Render("Released vs added")}
	if len(added) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No dated additions"))
	} else {
		caption := fmt.Sprintf("%d to %d", first, last)
		rows = append(rows,
			components.RenderMultiLineChart([][]float64{added, released}, m.cardWidth()-14, 8, caption),
			"",
			components.RenderLegend([]components.LegendItem{
				{Label: "added", Color: styles.Palette[0]},
				{Label: "released", Color: styles.Palette[1]},
			}),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderReleaseHistogram(h models.Histogram) string {
	rows := []string{styles.CardTitleStyle.Render("Release years")}

	if len(h) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No release years"))
	} else {
		values := make([]float64, len(h))
		labels := make([]string, len(h))
		for i, b := range h {
			values[i] = float64(b.Count)
			labels[i] = fmt.Sprintf("%.0f-%.0f", b.Low, b.High)
		}
		rows = append(rows, components.RenderBarChart(values, labels, m.cardWidth()-6))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// AlignYears lines up yearly additions with release-year counts over the
// years that have additions. Years missing from either side count as 0.
func AlignYears(added models.TimelineSeries, released models.FrequencyTable) (a, r []float64, first, last int) {
	if len(added) == 0 {
		return nil, nil, 0, 0
	}

	first, last = added[0].Period.Year, added[len(added)-1].Period.Year
	a = make([]float64, last-first+1)
	r = make([]float64, last-first+1)

	for _, p := range added {
		a[p.Period.Year-first] = float64(p.Count)
	}
	for _, e := range released {
		year, err := strconv.Atoi(e.Label)
		if err != nil || year < first || year > last {
			continue
		}
		r[year-first] = float64(e.Count)
	}
	return a, r, first, last
}
