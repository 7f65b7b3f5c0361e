// Package timeline is the tab for catalog additions over time.
package timeline

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/app"
	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
)

// Model shows additions over time per year or per month.
type Model struct {
	components.Pane
	state       *app.State
	toggle      key.Binding
	granularity models.Granularity
}

// New starts with yearly buckets.
func New(state *app.State) *Model {
	return &Model{
		Pane:        components.NewPane(),
		state:       state,
		toggle:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle year/month")),
		granularity: models.GranularityYear,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportUpdatedMsg:
		m.Top()
	case tea.KeyMsg:
		if !key.Matches(msg, m.toggle) {
			return m, m.Scroll(msg)
		}
		if m.granularity == models.GranularityYear {
			m.granularity = models.GranularityMonth
		} else {
			m.granularity = models.GranularityYear
		}
		m.Top()
	}
	return m, nil
}

// Granularity returns the bucket size on screen.
func (m *Model) Granularity() models.Granularity {
	return m.granularity
}

func (m *Model) ShortHelp() []key.Binding { return []key.Binding{m.toggle} }

func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.toggle}, m.ScrollKeys()}
}
