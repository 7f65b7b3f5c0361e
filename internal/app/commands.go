package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/services"
)

const (
	pruneInterval = 2 * time.Second

	toastTTL      = 5 * time.Second
	shortToastTTL = 3 * time.Second
	errorToastTTL = 10 * time.Second
)

func pruneTick() tea.Cmd {
	return tea.Tick(pruneInterval, func(t time.Time) tea.Msg { return pruneMsg(t) })
}

// ttlFor is how long a toast of each kind stays up.
func ttlFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastError:
		return errorToastTTL
	case ToastInfo:
		return shortToastTTL
	case ToastProgress:
		return 0
	default:
		return toastTTL
	}
}

// Notify returns a command that shows text as a toast of the given kind.
func Notify(kind ToastKind, text string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Kind: kind, Text: text, TTL: ttlFor(kind)}
	}
}

func dropToastAfter(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return dropToastMsg{id: id} })
}

// SwitchTab returns a command that activates tab.
func SwitchTab(tab TabID) tea.Cmd {
	return func() tea.Msg { return TabSwitchMsg{Tab: tab} }
}

func subscribe(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg { return subscribedMsg{ch: ch} }
}

// analyze runs the pipeline once. The manager broadcasts progress and the
// report, so only the error comes back.
func analyze(ctx context.Context, mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Analyze(ctx)
		return analysisDoneMsg{err: err}
	}
}

// firstReport reuses a report the manager already holds, or starts the
// first run.
func firstReport(ctx context.Context, mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		if ev := mgr.LastReport(); ev != nil {
			return firstReportMsg{ev: ev}
		}
		return analyze(ctx, mgr)()
	}
}
