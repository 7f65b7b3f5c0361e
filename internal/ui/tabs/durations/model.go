// Package durations is the tab for per-type duration distributions.
package durations

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/app"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
)

// Model shows duration summaries and one partition's distribution. The
// partition key cycles through the content types in the report.
type Model struct {
	components.Pane
	state     *app.State
	next      key.Binding
	partition int
}

func New(state *app.State) *Model {
	return &Model{
		Pane:  components.NewPane(),
		state: state,
		next:  key.NewBinding(key.WithKeys("p", "]"), key.WithHelp("p", "next type")),
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportUpdatedMsg:
		m.partition = 0
		m.Top()
	case tea.KeyMsg:
		if !key.Matches(msg, m.next) {
			return m, m.Scroll(msg)
		}
		if n := m.partitionCount(); n > 0 {
			m.partition = (m.partition + 1) % n
		}
	}
	return m, nil
}

func (m *Model) partitionCount() int {
	ev := m.state.Report()
	if ev == nil || ev.Report == nil {
		return 0
	}
	return len(ev.Report.Durations)
}

func (m *Model) ShortHelp() []key.Binding { return []key.Binding{m.next} }

func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.next}, m.ScrollKeys()}
}
