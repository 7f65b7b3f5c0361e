package app

import (
	"time"

	"github.com/j-veylop/catalog-eda/internal/services"
)

// Messages tabs may send or receive.
type (
	// StartLoadingMsg marks a resource as busy.
	StartLoadingMsg struct{ Resource Resource }

	// StopLoadingMsg marks a resource as idle again.
	StopLoadingMsg struct{ Resource Resource }

	// ReportUpdatedMsg tells the active tab that State holds a new report.
	ReportUpdatedMsg struct{}

	// TabSwitchMsg makes Tab the active tab. The new tab receives it too.
	TabSwitchMsg struct{ Tab TabID }

	// ToastMsg shows a toast for TTL, or until dropped when TTL <= 0.
	ToastMsg struct {
		Kind ToastKind
		Text string
		TTL  time.Duration
	}
)

// Messages internal to the root model.
type (
	pruneMsg      time.Time
	dropToastMsg  struct{ id int }
	subscribedMsg struct{ ch <-chan services.ServiceEvent }

	// analysisDoneMsg carries only the error; the report arrives as an event.
	analysisDoneMsg struct{ err error }

	// firstReportMsg carries a report finished before the explorer subscribed.
	firstReportMsg struct{ ev *services.ReportReadyEvent }
)
