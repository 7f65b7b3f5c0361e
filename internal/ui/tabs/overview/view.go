package overview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	ev := m.state.Report()
	if ev == nil || ev.Report == nil {
		return components.RenderSpinnerCentered(m.spinner, m.Width(), m.Height())
	}

	sections := []string{
		m.renderTitle(),
		m.renderRunCard(ev),
		m.renderTypesCard(ev),
	}
	if len(ev.Report.NonMissing) > 0 {
		sections = append(sections, m.renderColumnsCard(ev))
	}
	if len(ev.Warnings) > 0 {
		sections = append(sections, m.renderWarningsCard(ev))
	}

	return m.Scrolled(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Catalog overview")
	dataset := ""
	if m.config != nil {
		dataset = m.config.DatasetPath
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(dataset), "")
}

func (m *Model) cardWidth() int {
	return m.CardWidth(50, 90)
}

func row(label, value string) string {
	return styles.LabelStyle.Render(label) + value
}

func (m *Model) renderRunCard(ev *services.ReportReadyEvent) string {
	rep := ev.Report

	warnings := styles.WarningRateStyle(rep.WarningCount, rep.RecordCount).
		Render(fmt.Sprintf("%d", rep.WarningCount))

	fingerprint := rep.Fingerprint
	if len(fingerprint) > 16 {
		fingerprint = fingerprint[:16]
	}

	rows := []string{
		styles.CardTitleStyle.Render("Latest run"),
		row("Titles", styles.ValueStyle.Render(fmt.Sprintf("%d", rep.RecordCount))),
		row("Field warnings", warnings),
		row("Fingerprint", fingerprint),
		row("Elapsed", ev.Elapsed.Round(time.Millisecond).String()),
		row("Trigger", ev.Trigger),
	}

	if ev.Run != nil {
		rows = append(rows, row("Recorded as", fmt.Sprintf("run #%d", ev.Run.ID)))
		status := styles.SuccessTextStyle.Render("matches earlier runs")
		if ev.Drift {
			status = styles.WarningTextStyle.Render("differs from an earlier run of the same dataset")
		}
		rows = append(rows, row("Determinism", status))
	}
	if len(ev.Files) > 0 && m.config != nil {
		rows = append(rows, row("Charts", fmt.Sprintf("%d files in %s", len(ev.Files), m.config.OutputDir)))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderTypesCard(ev *services.ReportReadyEvent) string {
	types := ev.Report.Types
	rows := []string{styles.CardTitleStyle.Render("Movies vs TV shows")}

	if len(types) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No content types recorded"))
	} else {
		chartWidth := m.cardWidth() - 6
		rows = append(rows, components.RenderBarChart(types.Values(), types.Labels(), chartWidth))

		legend := make([]components.LegendItem, 0, len(types))
		total := types.Total()
		for i, e := range types {
			share := 100 * float64(e.Count) / float64(total)
			legend = append(legend, components.LegendItem{
				Label: fmt.Sprintf("%s %.1f%%", e.Label, share),
				Color: styles.ContentTypeColor(e.Label, i),
			})
		}
		rows = append(rows, "", components.RenderLegend(legend))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderColumnsCard(ev *services.ReportReadyEvent) string {
	rep := ev.Report
	rows := []string{styles.CardTitleStyle.Render("Non-null counts")}

	width := 0
	for _, c := range rep.NonMissing {
		width = max(width, len(c.Column))
	}
	for _, c := range rep.NonMissing {
		count := styles.ValueStyle.Render(fmt.Sprintf("%6d", c.Count))
		if c.Count < rep.RecordCount {
			count = styles.WarningTextStyle.Render(fmt.Sprintf("%6d", c.Count)) +
				styles.HelpStyle.Render(fmt.Sprintf(" (%d missing)", rep.RecordCount-c.Count))
		}
		rows = append(rows, fmt.Sprintf("%-*s %s", width, c.Column, count))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderWarningsCard(ev *services.ReportReadyEvent) string {
	rows := []string{styles.CardTitleStyle.Render(fmt.Sprintf("Field warnings (%d)", len(ev.Warnings)))}

	for i, w := range ev.Warnings {
		if i == maxWarnings {
			rows = append(rows, styles.HelpStyle.Render(
				fmt.Sprintf("... and %d more", len(ev.Warnings)-maxWarnings)))
			break
		}
		rows = append(rows, styles.WarningTextStyle.Render(w.String()))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(strings.Join(rows, "\n"))
}
