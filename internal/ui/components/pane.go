package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// WaitingText is what report tabs show before the first analysis finishes.
const WaitingText = "Waiting for the first analysis run..."

// Pane is the padded, scrollable area a tab draws into. Tabs embed it to
// get SetSize and the scroll bindings.
type Pane struct {
	vp     viewport.Model
	width  int
	height int
	up     key.Binding
	down   key.Binding
}

// NewPane returns an empty pane. It has no size until SetSize.
func NewPane() Pane {
	return Pane{
		vp:   viewport.New(0, 0),
		up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	}
}

// SetSize resizes the pane. The viewport loses the document padding.
func (p *Pane) SetSize(width, height int) {
	p.width, p.height = width, height
	p.vp.Width = max(width-6, 0)
	p.vp.Height = max(height-2, 0)
}

func (p *Pane) Width() int  { return p.width }
func (p *Pane) Height() int { return p.height }

// CardWidth is the pane width minus margins, kept within [lo, hi]. A hi of
// zero means no upper bound.
func (p *Pane) CardWidth(lo, hi int) int {
	w := max(p.width-8, lo)
	if hi > 0 {
		w = min(w, hi)
	}
	return w
}

// Scroll feeds a key to the viewport.
func (p *Pane) Scroll(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

// Top scrolls back to the first line.
func (p *Pane) Top() { p.vp.GotoTop() }

// ScrollKeys returns the bindings Scroll reacts to, for help views.
func (p *Pane) ScrollKeys() []key.Binding {
	return []key.Binding{p.up, p.down}
}

// Frame renders content padded to the pane without scrolling.
func (p *Pane) Frame(content string) string {
	return styles.DocStyle.Width(p.width).Height(p.height).Render(content)
}

// Scrolled renders content through the viewport at the current offset.
func (p *Pane) Scrolled(content string) string {
	p.vp.SetContent(content)
	return p.Frame(p.vp.View())
}
