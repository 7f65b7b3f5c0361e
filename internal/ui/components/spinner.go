package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// elapsedAfter is how long a run must take before its duration is shown.
const elapsedAfter = time.Second

var spinnerLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// LoadingSpinner shows a label next to a spinner while an analysis runs,
// with the time spent so far once it exceeds a second.
type LoadingSpinner struct {
	model   spinner.Model
	label   string
	started time.Time
	now     func() time.Time
}

// NewSpinner creates a spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{model: s, label: label, now: time.Now}
}

// Init returns the first tick.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.model.Tick
}

// Update advances the animation on its own tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// Start relabels the spinner and restarts the elapsed clock.
func (l *LoadingSpinner) Start(label string) {
	l.label = label
	l.started = l.now()
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// Elapsed returns the time since Start, or 0 if it was never called.
func (l LoadingSpinner) Elapsed() time.Duration {
	if l.started.IsZero() {
		return 0
	}
	return l.now().Sub(l.started)
}

// ViewWithLabel renders the spinner frame, the label and, for slow runs,
// the elapsed time.
func (l LoadingSpinner) ViewWithLabel() string {
	text := l.label
	if d := l.Elapsed(); d >= elapsedAfter {
		text = fmt.Sprintf("%s (%s)", text, d.Round(100*time.Millisecond))
	}
	return l.model.View() + " " + spinnerLabelStyle.Render(text)
}

// RenderSpinnerCentered renders a spinner centered in a given width and height.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}
