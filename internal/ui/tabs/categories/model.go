// Package categories is the tab that browses the report's frequency tables.
package categories

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/catalog-eda/internal/app"
	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/ui/components"
)

// table is one browsable frequency table of the report.
type table struct {
	title   string
	caption string
	get     func(*models.Report) models.FrequencyTable
}

var tables = []table{
	{
		title:   "Ratings",
		caption: "titles per rating",
		get:     func(r *models.Report) models.FrequencyTable { return r.Ratings },
	},
	{
		title:   "Genres",
		caption: "every listed genre counted",
		get:     func(r *models.Report) models.FrequencyTable { return r.Genres },
	},
	{
		title:   "Countries",
		caption: "first listed country only",
		get:     func(r *models.Report) models.FrequencyTable { return r.Countries },
	},
	{
		title:   "Release years",
		caption: "titles per release year",
		get:     func(r *models.Report) models.FrequencyTable { return r.ReleaseYearCounts },
	},
}

type keyMap struct {
	Next key.Binding
	Prev key.Binding
}

// Model browses one frequency table at a time.
type Model struct {
	components.Pane
	state    *app.State
	keys     keyMap
	selected int
}

func New(state *app.State) *Model {
	return &Model{
		Pane:  components.NewPane(),
		state: state,
		keys: keyMap{
			Next: key.NewBinding(key.WithKeys("]", "c"), key.WithHelp("]/c", "next table")),
			Prev: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev table")),
		},
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ReportUpdatedMsg:
		m.Top()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.selected = (m.selected + 1) % len(tables)
		case key.Matches(msg, m.keys.Prev):
			m.selected = (m.selected + len(tables) - 1) % len(tables)
		default:
			return m, m.Scroll(msg)
		}
		m.Top()
	}
	return m, nil
}

// Selected returns the title of the table on screen.
func (m *Model) Selected() string {
	return tables[m.selected].title
}

func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Prev}
}

func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp(), m.ScrollKeys()}
}
