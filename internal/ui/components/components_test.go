package components

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.Label() != "Loading" {
		t.Error("Spinner label mismatch")
	}
	if s.Elapsed() != 0 {
		t.Error("elapsed should be zero before Start")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestSpinner_Elapsed(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSpinner("Init")
	s.now = func() time.Time { return now }

	s.Start("Analyzing titles.csv")
	if s.Label() != "Analyzing titles.csv" {
		t.Errorf("Label = %s", s.Label())
	}

	tests := []struct {
		after time.Duration
		want  string
		hide  bool
	}{
		{after: 300 * time.Millisecond, want: "(", hide: true},
		{after: 1500 * time.Millisecond, want: "(1.5s)"},
		{after: 12*time.Second + 340*time.Millisecond, want: "(12.3s)"},
	}
	for _, tt := range tests {
		s.now = func() time.Time { return now.Add(tt.after) }
		view := s.ViewWithLabel()
		if !strings.Contains(view, "Analyzing titles.csv") {
			t.Errorf("label missing from %q", view)
		}
		if got := strings.Contains(view, tt.want); got == tt.hide {
			t.Errorf("after %v: view %q, want %q shown=%v", tt.after, view, tt.want, !tt.hide)
		}
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	view := RenderSpinnerCentered(NewSpinner("Loading..."), 20, 5)
	if len(strings.Split(view, "\n")) != 5 {
		t.Errorf("expected 5 lines, got %q", view)
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Titles added"); !strings.Contains(s, "Titles added") {
		t.Errorf("caption missing from %q", s)
	}
	if s := RenderLineChart(nil, 20, 5, ""); !strings.Contains(s, "No data") {
		t.Errorf("expected empty message, got %q", s)
	}
}

func TestRenderMultiLineChart(t *testing.T) {
	s := RenderMultiLineChart([][]float64{{1, 2, 3}, {3, 2}}, 20, 5, "Movie vs TV Show")
	if !strings.Contains(s, "Movie vs TV Show") {
		t.Errorf("caption missing from %q", s)
	}
	if s := RenderMultiLineChart([][]float64{{}, nil}, 20, 5, ""); !strings.Contains(s, "No data") {
		t.Errorf("expected empty message, got %q", s)
	}
}

func TestRenderBarChart(t *testing.T) {
	s := RenderBarChart([]float64{10, 20}, []string{"PG", "TV-MA"}, 40)
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "   PG │") {
		t.Errorf("labels should be right aligned: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " 20") {
		t.Errorf("value missing: %q", lines[1])
	}
	if RenderBarChart(nil, nil, 40) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"rising", []float64{0, 7}, 10, "▁█"},
		{"flat zero", []float64{0, 0, 0}, 10, "▁▁▁"},
		{"sampled", []float64{0, 0, 7, 7}, 2, "▁█"},
		{"empty", nil, 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("RenderSparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLegend(t *testing.T) {
	s := RenderLegend([]LegendItem{
		{Label: "Movie", Color: lipgloss.Color("#ffffff")},
		{Label: "TV Show", Color: lipgloss.Color("#000000")},
	})
	if !strings.Contains(s, "Movie") || !strings.Contains(s, "TV Show") {
		t.Errorf("legend = %q", s)
	}
}

func TestPane(t *testing.T) {
	p := NewPane()
	p.SetSize(100, 10)

	if p.Width() != 100 || p.Height() != 10 {
		t.Fatalf("size = %dx%d", p.Width(), p.Height())
	}

	widths := []struct {
		lo, hi, want int
	}{
		{50, 0, 92},
		{50, 90, 90},
		{120, 0, 120},
	}
	for _, w := range widths {
		if got := p.CardWidth(w.lo, w.hi); got != w.want {
			t.Errorf("CardWidth(%d, %d) = %d, want %d", w.lo, w.hi, got, w.want)
		}
	}

	lines := make([]string, 40)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %02d", i)
	}
	doc := strings.Join(lines, "\n")

	if view := p.Scrolled(doc); !strings.Contains(view, "line 00") || strings.Contains(view, "line 39") {
		t.Errorf("first page should show the top only: %q", view)
	}
	p.Scroll(tea.KeyMsg{Type: tea.KeyPgDown})
	if strings.Contains(p.Scrolled(doc), "line 00") {
		t.Error("page down should move past the first line")
	}
	p.Top()
	if !strings.Contains(p.Scrolled(doc), "line 00") {
		t.Error("Top should return to the first line")
	}
	if len(p.ScrollKeys()) != 2 {
		t.Error("expected up and down bindings")
	}
}
