package categories

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// View renders the categories tab.
func (m *Model) View() string {
	ev := m.state.Report()
	if ev == nil || ev.Report == nil {
		return m.Frame(styles.HelpStyle.Render(components.WaitingText))
	}

	t := tables[m.selected]
	freq := t.get(ev.Report)

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTable(t, freq),
	)
	return m.Scrolled(content)
}

func (m *Model) renderHeader() string {
	selectors := make([]string, 0, len(tables))
	for i, t := range tables {
		if i == m.selected {
			selectors = append(selectors, styles.SelectorStyle.Render(t.title))
		} else {
			selectors = append(selectors, lipgloss.NewStyle().Padding(1, 1).
				Foreground(styles.TextSecondary).Render(t.title))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Categories"),
		lipgloss.JoinHorizontal(lipgloss.Center, selectors...),
		"",
	)
}

func (m *Model) renderTable(t table, freq models.FrequencyTable) string {
	cardWidth := m.CardWidth(40, 0)

	rows := []string{
		styles.CardTitleStyle.Render(t.title),
		styles.HelpStyle.Render(fmt.Sprintf("%s, %d distinct shown, %d total", t.caption, len(freq), freq.Total())),
		"",
	}

	if len(freq) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No values recorded"))
	} else {
		rows = append(rows, components.RenderBarChart(freq.Values(), freq.Labels(), cardWidth-6))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
