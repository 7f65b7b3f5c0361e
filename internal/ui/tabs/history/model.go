// Package history is the explorer tab listing recorded analysis runs.
package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/app"
	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
)

// limits are the run counts the tab cycles through.
var limits = []int{10, 25, 50}

type keyMap struct {
	Limit   key.Binding
	Up      key.Binding
	Down    key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Limit:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "toggle run count")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous run")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next run")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete run")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm delete")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "keep run")),
	}
}

type (
	loadedMsg struct {
		runs    []models.Run
		monthly []models.MonthlyRunCount
	}
	loadFailedMsg struct{ err error }
	deletedMsg    struct {
		id  int64
		err error
	}
)

// Model is the history tab. The selected run can be deleted after a
// confirmation keypress.
type Model struct {
	components.Pane
	state *app.State
	mgr   *services.Manager
	keys  keyMap

	limit    int
	runs     []models.Run
	monthly  []models.MonthlyRunCount
	cursor   int
	confirm  bool
	loaded   bool
	loading  bool
	errorMsg string
}

// New creates the tab. mgr may be nil, in which case the tab explains that
// run recording is off.
func New(state *app.State, mgr *services.Manager) *Model {
	return &Model{
		Pane:  components.NewPane(),
		state: state,
		mgr:   mgr,
		keys:  defaultKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.reload()
}

// reload fetches runs between a start and stop of the shared loading flag.
func (m *Model) reload() tea.Cmd {
	m.loading = true
	return tea.Sequence(
		func() tea.Msg { return app.StartLoadingMsg{Resource: app.ResourceHistory} },
		m.fetch(),
		func() tea.Msg { return app.StopLoadingMsg{Resource: app.ResourceHistory} },
	)
}

func (m *Model) fetch() tea.Cmd {
	mgr, limit := m.mgr, limits[m.limit]
	return func() tea.Msg {
		if mgr == nil || mgr.Database() == nil {
			return loadFailedMsg{err: services.ErrNoHistory}
		}
		runs, err := mgr.RecentRuns(limit)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		monthly, err := mgr.RunsPerMonth()
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{runs: runs, monthly: monthly}
	}
}

func (m *Model) remove(id int64) tea.Cmd {
	mgr := m.mgr
	return func() tea.Msg {
		if mgr == nil {
			return deletedMsg{id: id, err: services.ErrNoHistory}
		}
		return deletedMsg{id: id, err: mgr.DeleteRun(id)}
	}
}

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.runs, m.monthly = msg.runs, msg.monthly
		m.cursor = min(m.cursor, max(len(m.runs)-1, 0))
		m.loaded, m.loading = true, false
		m.errorMsg = ""

	case loadFailedMsg:
		m.loading = false
		m.errorMsg = msg.err.Error()

	case deletedMsg:
		if msg.err != nil {
			return m, app.Notify(app.ToastError, fmt.Sprintf("Delete run #%d: %v", msg.id, msg.err))
		}
		return m, tea.Batch(app.Notify(app.ToastSuccess, fmt.Sprintf("Run #%d deleted", msg.id)), m.reload())

	case app.TabSwitchMsg:
		m.confirm = false
		if msg.Tab == app.TabHistory && !m.loading {
			return m, m.reload()
		}

	case app.ReportUpdatedMsg:
		if !m.loading {
			return m, m.reload()
		}

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m *Model) onKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.confirm {
		m.confirm = false
		if run, ok := m.Selected(); ok && key.Matches(msg, m.keys.Confirm) {
			return m, m.remove(run.ID)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Limit):
		m.limit = (m.limit + 1) % len(limits)
		return m, m.reload()
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.runs)-1, 0))
	case key.Matches(msg, m.keys.Delete):
		_, m.confirm = m.Selected()
	default:
		return m, m.Scroll(msg)
	}
	return m, nil
}

// Selected returns the run under the cursor.
func (m *Model) Selected() (models.Run, bool) {
	if m.cursor < 0 || m.cursor >= len(m.runs) {
		return models.Run{}, false
	}
	return m.runs[m.cursor], true
}

// Limit returns how many runs the tab shows.
func (m *Model) Limit() int {
	return limits[m.limit]
}

func (m *Model) ShortHelp() []key.Binding {
	if m.confirm {
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Limit, m.keys.Delete}
}

func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Limit, m.keys.Delete, m.keys.Confirm, m.keys.Cancel},
	}
}
