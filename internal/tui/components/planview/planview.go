package planview

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/steady/internal/crisis"
)

// Model shows the safety plan in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	markdown string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.markdown == "" {
		return "Loading your safety plan..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

// SetPlan replaces the Markdown source and re-renders it.
func (m *Model) SetPlan(markdown string) {
	m.markdown = markdown
	m.render()
}

func (m *Model) render() {
	if m.markdown == "" {
		return
	}
	out, err := crisis.Render(m.markdown, m.width)
	if err != nil {
		out = m.markdown
	}
	m.viewport.SetContent(out)
}
