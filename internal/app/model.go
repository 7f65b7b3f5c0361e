// Package app is the explorer's root Bubble Tea model. It owns the tab bar,
// toasts and the help overlay, and feeds analysis events to the tabs through
// a shared State.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// TabID identifies a tab by position.
type TabID int

// Tabs, in navbar order.
const (
	TabOverview TabID = iota
	TabCategories
	TabDurations
	TabTimeline
	TabHistory
)

var tabNames = []string{"Overview", "Categories", "Durations", "Timeline", "History"}

func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab is a page of the explorer. Only the active tab receives messages.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// chromeHeight is the space taken by the tab bar and margins.
const chromeHeight = 5

// Model is the root model.
type Model struct {
	tabs   []Tab
	active TabID

	state *State
	mgr   *services.Manager
	keys  KeyMap
	spin  spinner.Model

	// ctx is canceled on quit so a running analysis stops with the program.
	ctx    context.Context
	cancel context.CancelFunc
	events <-chan services.ServiceEvent

	width, height int
	ready         bool
	help          bool
}

// NewModel returns a root model without tabs. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.InfoTextStyle))
	return &Model{
		tabs:   make([]Tab, len(tabNames)),
		state:  NewState(),
		mgr:    mgr,
		keys:   DefaultKeyMap(),
		spin:   spin,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetTabs installs the tabs, sized to the current window.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	m.resizeTabs()
}

// State returns the state shared with the tabs.
func (m *Model) State() *State { return m.state }

// ActiveTab returns the tab currently shown.
func (m *Model) ActiveTab() TabID { return m.active }

// Ready reports whether the first window size arrived.
func (m *Model) Ready() bool { return m.ready }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.state.SetProgress("Loading...")

	cmds := []tea.Cmd{m.spin.Tick, pruneTick()}
	if m.mgr != nil {
		cmds = append(cmds, subscribe(m.mgr), firstReport(m.ctx, m.mgr))
	}
	for _, t := range m.tabs {
		if t != nil {
			cmds = append(cmds, t.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var own tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		m.resizeTabs()
	case tea.KeyMsg:
		own = m.onKey(msg)
	case spinner.TickMsg:
		m.spin, own = m.spin.Update(msg)
	case services.ServiceEvent:
		own = tea.Batch(m.onEvent(msg), m.listen())
	default:
		own = m.onMsg(msg)
	}

	var tab tea.Cmd
	if t := m.current(); t != nil {
		m.tabs[m.active], tab = t.Update(msg)
	}
	return m, tea.Batch(own, tab)
}

func (m *Model) onMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pruneMsg:
		m.state.PruneToasts()
		return pruneTick()
	case subscribedMsg:
		m.events = msg.ch
		return m.listen()
	case firstReportMsg:
		return m.adopt(msg.ev, false)
	case analysisDoneMsg:
		m.idle(ResourceInitial, ResourceAnalysis)
		// Failed stages were already reported through an ErrorEvent.
		if errors.Is(msg.err, context.Canceled) {
			return Notify(ToastInfo, "Analysis canceled")
		}
	case ToastMsg:
		id := m.state.PushToast(msg.Kind, msg.Text, msg.TTL)
		if msg.TTL > 0 {
			return dropToastAfter(id, msg.TTL)
		}
	case dropToastMsg:
		m.state.DropToast(msg.id)
	case StartLoadingMsg:
		m.busy(msg.Resource)
	case StopLoadingMsg:
		m.idle(msg.Resource)
	case TabSwitchMsg:
		m.active = msg.Tab
		m.resizeTabs()
	}
	return nil
}

func (m *Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return services.WaitForEvent(m.events)
}

func (m *Model) onEvent(ev services.ServiceEvent) tea.Cmd {
	switch ev := ev.(type) {
	case services.AnalysisStartedEvent:
		m.busy(ResourceAnalysis)
		if ev.Trigger == services.TriggerWatch {
			m.state.SetProgress("Dataset changed, analyzing...")
		}
	case services.ReportReadyEvent:
		return m.adopt(&ev, true)
	case services.ErrorEvent:
		m.idle(ResourceInitial, ResourceAnalysis)
		return Notify(ToastError, fmt.Sprintf("[%s] %v", ev.Service, ev.Error))
	}
	return nil
}

// adopt stores a finished run and tells the active tab about it. Toasts are
// only raised for runs that finished while the explorer was open.
func (m *Model) adopt(ev *services.ReportReadyEvent, announce bool) tea.Cmd {
	if ev == nil {
		return nil
	}
	m.state.SetReport(ev)
	m.idle(ResourceInitial, ResourceAnalysis)

	cmds := []tea.Cmd{func() tea.Msg { return ReportUpdatedMsg{} }}
	if announce {
		rep := ev.Report
		cmds = append(cmds, Notify(ToastSuccess, fmt.Sprintf("Analyzed %d titles in %s",
			rep.RecordCount, ev.Elapsed.Round(time.Millisecond))))
		if rep.WarningCount > 0 {
			cmds = append(cmds, Notify(ToastWarning, fmt.Sprintf("%d rows had unparseable fields", rep.WarningCount)))
		}
		if ev.Drift {
			cmds = append(cmds, Notify(ToastWarning, "Aggregates differ from an earlier run over the same dataset"))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) busy(r Resource) {
	m.state.SetLoading(r, true)
	if r == ResourceHistory {
		m.state.SetProgress("Loading run history...")
		return
	}
	m.state.SetProgress("Analyzing...")
}

func (m *Model) idle(rs ...Resource) {
	for _, r := range rs {
		m.state.SetLoading(r, false)
	}
	if !m.state.AnyLoading() {
		m.state.ClearProgress()
	}
}

func (m *Model) rerun() tea.Cmd {
	switch {
	case m.mgr == nil:
		return nil
	case m.state.IsLoading(ResourceAnalysis):
		return Notify(ToastInfo, "Analysis already running")
	}
	m.busy(ResourceAnalysis)
	return analyze(m.ctx, m.mgr)
}

func (m *Model) onKey(msg tea.KeyMsg) tea.Cmd {
	for i, b := range m.keys.Jump {
		if key.Matches(msg, b) {
			return SwitchTab(TabID(i))
		}
	}

	n := len(m.tabs)
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help = !m.help
	case key.Matches(msg, m.keys.Close):
		m.help = false
	case key.Matches(msg, m.keys.Rerun):
		return m.rerun()
	case m.help:
		// Tab cycling is off while the overlay is open.
	case key.Matches(msg, m.keys.Next):
		return SwitchTab(TabID((int(m.active) + 1) % n))
	case key.Matches(msg, m.keys.Prev):
		return SwitchTab(TabID((int(m.active) + n - 1) % n))
	}
	return nil
}

func (m *Model) current() Tab {
	if int(m.active) < len(m.tabs) {
		return m.tabs[m.active]
	}
	return nil
}

func (m *Model) resizeTabs() {
	if !m.ready {
		return
	}
	for _, t := range m.tabs {
		if t != nil {
			t.SetSize(m.width, max(0, m.height-chromeHeight))
		}
	}
}
