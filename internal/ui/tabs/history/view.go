package history

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

const runRowFormat = "%5s  %-16s %8s %8s %4s %4s  %-12s"

func (m *Model) View() string {
	var body string
	switch {
	case m.errorMsg != "":
		body = styles.ErrorTextStyle.Render("Error:") + " " + m.errorMsg
	case !m.loaded:
		body = styles.HelpStyle.Render("Loading run history...")
	case len(m.runs) == 0:
		body = lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Run history"),
			styles.HelpStyle.Render("No runs recorded yet."),
			styles.HelpStyle.Render("Runs appear here after each analysis."),
		)
	default:
		return m.Scrolled(lipgloss.JoinVertical(lipgloss.Left,
			m.header(),
			m.runTable(),
			m.monthlyCard(),
		))
	}
	return m.Frame(body)
}

func (m *Model) header() string {
	title := styles.TitleStyle.Render("Run history")
	limit := styles.SelectorStyle.Render(fmt.Sprintf("[n] last %d runs", m.Limit()))
	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", limit)

	if run, ok := m.Selected(); ok && m.confirm {
		prompt := styles.WarningTextStyle.Render(fmt.Sprintf("Delete run #%d? (y/n)", run.ID))
		return lipgloss.JoinVertical(lipgloss.Left, line, prompt, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, "")
}

func (m *Model) cardWidth() int {
	return m.CardWidth(60, 0)
}

// drifted reports whether run i changed fingerprint against the next older
// run of the same file and options.
func (m *Model) drifted(i int) bool {
	if i+1 >= len(m.runs) {
		return false
	}
	cur, prev := m.runs[i], m.runs[i+1]
	return cur.DatasetSHA256 == prev.DatasetSHA256 && cur.SameOptions(prev) && cur.Fingerprint != prev.Fingerprint
}

func (m *Model) runTable() string {
	lines := []string{
		styles.CardTitleStyle.Render(fmt.Sprintf("Recent runs (%d)", len(m.runs))),
		styles.TableHeaderStyle.Render("  " + fmt.Sprintf(runRowFormat,
			"id", "created", "titles", "warnings", "top", "bins", "fingerprint")),
	}
	for i, run := range m.runs {
		style := styles.TableCellStyle
		if m.drifted(i) {
			style = styles.WarningTextStyle
		}
		marker := "  "
		if i == m.cursor {
			marker = styles.SelectorStyle.Render(">") + " "
		}
		lines = append(lines, marker+style.Render(formatRun(run)))
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatRun(run models.Run) string {
	fp := run.Fingerprint
	if len(fp) > 12 {
		fp = fp[:12]
	}
	itoa := strconv.Itoa
	return fmt.Sprintf(runRowFormat,
		"#"+strconv.FormatInt(run.ID, 10),
		run.CreatedAt.Local().Format("2006-01-02 15:04"),
		itoa(run.RecordCount),
		itoa(run.WarningCount),
		itoa(run.TopN),
		itoa(run.HistogramBins),
		fp,
	)
}

func (m *Model) monthlyCard() string {
	lines := []string{styles.CardTitleStyle.Render("Runs per month")}
	if len(m.monthly) == 0 {
		lines = append(lines, styles.HelpStyle.Render("No runs recorded"))
	} else {
		values := make([]float64, len(m.monthly))
		labels := make([]string, len(m.monthly))
		for i, mc := range m.monthly {
			values[i], labels[i] = float64(mc.Count), mc.Period.String()
		}
		lines = append(lines, components.RenderBarChart(values, labels, m.cardWidth()-6))
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
