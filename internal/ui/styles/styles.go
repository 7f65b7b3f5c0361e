// Package styles holds the lipgloss styles shared by the explorer tabs and
// the plain-text command output.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme colors. Content types keep a fixed color everywhere they appear.
var (
	Primary       = lipgloss.Color("203")
	Secondary     = lipgloss.Color("67")
	Border        = lipgloss.Color("240")
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
	Panel         = lipgloss.Color("235")

	Movie  = lipgloss.Color("203")
	TVShow = lipgloss.Color("75")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")
)

// Palette is cycled through for bars and series that have no fixed color.
var Palette = []lipgloss.Color{"203", "75", "114", "221", "176", "80"}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func heading(c lipgloss.TerminalColor) lipgloss.Style {
	return fg(c).Bold(true).MarginBottom(1)
}

func framed(border lipgloss.Border, c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Border(border).BorderForeground(c)
}

// Text.
var (
	TitleStyle     = heading(Primary)
	SubTitleStyle  = heading(Secondary)
	CardTitleStyle = heading(Primary)
	LabelStyle     = fg(TextSecondary).Width(18)
	ValueStyle     = fg(TextPrimary).Bold(true)
	HelpStyle      = fg(TextMuted)

	ErrorTextStyle   = fg(Error)
	SuccessTextStyle = fg(Success)
	WarningTextStyle = fg(Warning)
	InfoTextStyle    = fg(Info)
)

// Layout.
var (
	// DocStyle wraps the body of every tab.
	DocStyle  = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)
	CardStyle = framed(lipgloss.RoundedBorder(), Border).Padding(1, 2).MarginBottom(1)

	// SelectorStyle frames the current choice of a tab key, e.g. "[g] per month".
	SelectorStyle = framed(lipgloss.RoundedBorder(), Primary).
			Foreground(Primary).Bold(true).Padding(0, 1)

	TableHeaderStyle = fg(Primary).Bold(true).
				BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(Border)
	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Explorer chrome.
var (
	TabBarStyle = lipgloss.NewStyle().Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(Border)
	ActiveTabStyle   = fg(Primary).Bold(true).Underline(true).Padding(0, 2)
	InactiveTabStyle = fg(TextMuted).Padding(0, 2)

	HelpPanelStyle = framed(lipgloss.DoubleBorder(), Primary).Padding(1, 3).Background(Panel)
	ToastStyle     = framed(lipgloss.RoundedBorder(), Primary).Padding(0, 1).MarginBottom(1)
)

// WarningRateStyle picks a style for the share of rows that produced
// field warnings.
func WarningRateStyle(warnings, records int) lipgloss.Style {
	if records <= 0 || warnings == 0 {
		return SuccessTextStyle
	}
	switch rate := float64(warnings) / float64(records); {
	case rate < 0.01:
		return InfoTextStyle
	case rate < 0.05:
		return WarningTextStyle
	default:
		return ErrorTextStyle
	}
}

// ContentTypeColor returns the fixed color of a content type, or a palette
// color chosen by position.
func ContentTypeColor(contentType string, i int) lipgloss.Color {
	switch contentType {
	case "Movie":
		return Movie
	case "TV Show":
		return TVShow
	}
	return Palette[i%len(Palette)]
}

// CenterBoth centers content in a width x height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
