package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/catalog-eda/internal/services"
)

// Resource names something the explorer waits on.
type Resource string

// Resources tracked by State.
const (
	ResourceInitial  Resource = "initial"
	ResourceAnalysis Resource = "analysis"
	ResourceHistory  Resource = "history"
)

var resources = []Resource{ResourceInitial, ResourceAnalysis, ResourceHistory}

// ToastKind selects how a toast is rendered.
type ToastKind int

// Toast kinds.
const (
	ToastSuccess ToastKind = iota
	ToastError
	ToastWarning
	ToastInfo
	// ToastProgress is the single sticky toast shown while work is running.
	ToastProgress
)

var toastKindNames = [...]string{"success", "error", "warning", "info", "progress"}

func (k ToastKind) String() string {
	if k < 0 || int(k) >= len(toastKindNames) {
		return "unknown"
	}
	return toastKindNames[k]
}

// Toast is a short message floating over the current tab.
type Toast struct {
	ID   int
	Kind ToastKind
	Text string
	// Expires is zero for toasts that stay until dropped.
	Expires time.Time
}

func (t Toast) live(now time.Time) bool {
	return t.Expires.IsZero() || now.Before(t.Expires)
}

const (
	progressID = -1
	maxToasts  = 10
)

// State is shared between the root model and the tabs. The tabs only read
// the report; everything else is owned by the root model.
type State struct {
	mu  sync.RWMutex
	now func() time.Time

	report  *services.ReportReadyEvent
	updated time.Time

	busy map[Resource]bool

	toasts []Toast
	lastID int
}

// NewState returns a state that is waiting for its first report.
func NewState() *State {
	return &State{
		now:  time.Now,
		busy: map[Resource]bool{ResourceInitial: true},
	}
}

// Report returns the latest completed run, or nil before the first one.
func (s *State) Report() *services.ReportReadyEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// SetReport stores a completed run.
func (s *State) SetReport(ev *services.ReportReadyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = ev
	s.updated = s.now()
}

// Age is the time since the last report arrived, or 0 before the first.
func (s *State) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.updated.IsZero() {
		return 0
	}
	return s.now().Sub(s.updated)
}

// SetLoading marks r as busy or idle. Unknown resources are ignored.
func (s *State) SetLoading(r Resource, on bool) {
	if !slices.Contains(resources, r) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.busy[r] = true
	} else {
		delete(s.busy, r)
	}
}

// IsLoading reports whether r is busy.
func (s *State) IsLoading(r Resource) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[r]
}

// AnyLoading reports whether anything is busy.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.busy) > 0
}

// Loading lists the busy resources in a stable order.
func (s *State) Loading() []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Resource
	for _, r := range resources {
		if s.busy[r] {
			out = append(out, r)
		}
	}
	return out
}

// PushToast adds a toast that disappears after ttl, or stays when ttl <= 0.
// Only the newest maxToasts are kept; the progress toast is never evicted.
func (s *State) PushToast(kind ToastKind, text string, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	t := Toast{ID: s.lastID, Kind: kind, Text: text}
	if ttl > 0 {
		t.Expires = s.now().Add(ttl)
	}
	s.toasts = append(s.toasts, t)

	for len(s.toasts) > maxToasts {
		i := slices.IndexFunc(s.toasts, func(t Toast) bool { return t.ID != progressID })
		s.toasts = slices.Delete(s.toasts, i, i+1)
	}
	return t.ID
}

// DropToast removes a toast by ID.
func (s *State) DropToast(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = slices.DeleteFunc(s.toasts, func(t Toast) bool { return t.ID == id })
}

// Toasts returns the toasts that have not expired, oldest first.
func (s *State) Toasts() []Toast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := make([]Toast, 0, len(s.toasts))
	for _, t := range s.toasts {
		if t.live(now) {
			out = append(out, t)
		}
	}
	return out
}

// PruneToasts forgets expired toasts.
func (s *State) PruneToasts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.toasts = slices.DeleteFunc(s.toasts, func(t Toast) bool { return !t.live(now) })
}

// ClearToasts drops every toast, including the progress toast.
func (s *State) ClearToasts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = nil
}

// SetProgress shows text in the progress toast, creating it if needed.
func (s *State) SetProgress(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.toasts, func(t Toast) bool { return t.ID == progressID }); i >= 0 {
		s.toasts[i].Text = text
		return
	}
	s.toasts = append(s.toasts, Toast{ID: progressID, Kind: ToastProgress, Text: text})
}

// ClearProgress removes the progress toast.
func (s *State) ClearProgress() {
	s.DropToast(progressID)
}
