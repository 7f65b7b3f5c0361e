// Package overview is the landing tab: the latest run, content types and
// field warnings.
package overview

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/app"
	"github.com/j-veylop/catalog-eda/internal/config"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
)

// maxWarnings is how many field warnings are listed.
const maxWarnings = 8

// Model shows a spinner until the first report arrives.
type Model struct {
	components.Pane
	state   *app.State
	config  *config.Config
	spinner components.LoadingSpinner
}

func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		Pane:    components.NewPane(),
		state:   state,
		config:  cfg,
		spinner: components.NewSpinner("Analyzing dataset..."),
	}
}

func (m *Model) Init() tea.Cmd {
	if m.config != nil {
		m.spinner.Start("Analyzing " + filepath.Base(m.config.DatasetPath) + "...")
	}
	return m.spinner.Init()
}

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportUpdatedMsg:
		m.Top()
	case tea.KeyMsg:
		return m, m.Scroll(msg)
	default:
		if m.state.Report() == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) ShortHelp() []key.Binding  { return m.ScrollKeys() }
func (m *Model) FullHelp() [][]key.Binding { return [][]key.Binding{m.ScrollKeys()} }
