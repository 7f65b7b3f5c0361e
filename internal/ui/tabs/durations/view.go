package durations

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/chart"
	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// View renders the durations tab.
func (m *Model) View() string {
	ev := m.state.Report()
	if ev == nil || ev.Report == nil {
		return m.Frame(styles.HelpStyle.Render(components.WaitingText))
	}

	rep := ev.Report
	sections := []string{
		styles.TitleStyle.Render("Durations"),
		styles.HelpStyle.Render("Movies in minutes, TV shows in seasons"),
		"",
		m.renderSummaries(rep),
	}
	if len(rep.Durations) > 0 {
		sections = append(sections, m.renderDistribution(rep.Durations[m.partition%len(rep.Durations)]))
	}

	return m.Scrolled(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) cardWidth() int {
	return m.CardWidth(50, 0)
}

func (m *Model) renderSummaries(rep *models.Report) string {
	rows := []string{styles.CardTitleStyle.Render("Summary")}

	if len(rep.Durations) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No durations parsed"))
	} else {
		keys := rep.Durations.Keys()
		sums := make([]models.Summary, len(keys))
		for i, k := range keys {
			sums[i] = rep.DurationSummaries[k]
		}
		rows = append(rows, chart.SummaryTable(keys, sums))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDistribution(p models.Partition) string {
	values, labels := chart.Buckets(p.Values, chart.MaxBuckets)

	rows := []string{
		styles.CardTitleStyle.Render(fmt.Sprintf("%s distribution (%d titles)", p.Key, len(p.Values))),
	}
	if len(values) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No values"))
	} else {
		rows = append(rows, components.RenderBarChart(values, labels, m.cardWidth()-6))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
