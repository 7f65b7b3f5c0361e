package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

var toastBadges = map[ToastKind]string{
	ToastSuccess: "[OK]",
	ToastError:   "[ERR]",
	ToastWarning: "[WARN]",
	ToastInfo:    "[INFO]",
}

func toastTextStyle(kind ToastKind) lipgloss.Style {
	switch kind {
	case ToastSuccess:
		return styles.SuccessTextStyle
	case ToastError:
		return styles.ErrorTextStyle.Bold(true)
	case ToastWarning:
		return styles.WarningTextStyle
	default:
		return styles.InfoTextStyle
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return styles.DocStyle.Render(m.spin.View() + " Loading...")
	}

	body := m.navbar() + "\n"
	if t := m.current(); t != nil {
		body += t.View()
	} else {
		body += styles.DocStyle.Render(styles.HelpStyle.Render(m.active.String() + " is not available."))
	}

	if m.help {
		panel := m.helpPanel()
		x := (m.width - lipgloss.Width(panel)) / 2
		y := (m.height - lipgloss.Height(panel)) / 2
		body = overlay(body, panel, x, y)
	}
	if stack := m.toastStack(); stack != "" {
		body = overlay(body, stack, m.width-lipgloss.Width(stack)-2, 2)
	}
	return body
}

func (m *Model) navbar() string {
	items := make([]string, len(m.tabs))
	for i := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, TabID(i))
		if TabID(i) == m.active {
			items[i] = styles.ActiveTabStyle.Render(label)
		} else {
			items[i] = styles.InactiveTabStyle.Render(label)
		}
	}
	return styles.TabBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

func (m *Model) toastStack() string {
	toasts := m.state.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, len(toasts))
	for i, t := range toasts {
		badge := toastBadges[t.Kind]
		if t.Kind == ToastProgress {
			badge = m.spin.View()
		}
		rendered[i] = styles.ToastStyle.Render(toastTextStyle(t.Kind).Render(badge + " " + t.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func (m *Model) helpPanel() string {
	lines := []string{styles.TitleStyle.Render("Keyboard Shortcuts")}

	section := func(title string, bindings []key.Binding) {
		lines = append(lines, styles.SubTitleStyle.Render(title))
		for _, b := range bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}

	var global []key.Binding
	for _, group := range m.keys.FullHelp() {
		global = append(global, group...)
	}
	section("Global", global)
	if t := m.current(); t != nil {
		if bindings := t.ShortHelp(); len(bindings) > 0 {
			section(m.active.String()+" tab", bindings)
		}
	}

	lines = append(lines, styles.HelpStyle.Render("Press ? or esc to close"))
	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

// overlay draws top over base with its top-left corner at column x, row y.
// Cells of base left and right of top are kept.
func overlay(base, top string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	rows := strings.Split(base, "\n")
	topRows := strings.Split(top, "\n")
	w := lipgloss.Width(top)

	for len(rows) < y+len(topRows) {
		rows = append(rows, "")
	}
	for i, tr := range topRows {
		row := rows[y+i]
		left := ansi.Truncate(row, x, "")
		if gap := x - ansi.StringWidth(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		rows[y+i] = left + tr + ansi.TruncateLeft(row, x+w, "")
	}
	return strings.Join(rows, "\n")
}
