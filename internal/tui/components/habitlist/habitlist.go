package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/steady/internal/analytics"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type Item struct {
	Status analytics.HabitStatus
}

func (i Item) Title() string {
	switch {
	case i.Status.DoneToday:
		return "✓ " + i.Status.Habit.Title
	case !i.Status.Scheduled:
		return "· " + i.Status.Habit.Title
	default:
		return "○ " + i.Status.Habit.Title
	}
}

func (i Item) Description() string {
	desc := "not scheduled today"
	switch {
	case i.Status.DoneToday:
		desc = "done today"
	case i.Status.Scheduled:
		desc = "not done yet"
	}
	if s := i.Status.Streak; s.Current > 0 {
		desc += fmt.Sprintf(" | %d-day streak", s.Current)
	}
	if r := i.Status.Habit.ReminderTime; r != "" {
		desc += " | reminder " + r
	}
	return desc
}

func (i Item) FilterValue() string { return i.Status.Habit.Title }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter", "x"),
			key.WithHelp("space", "toggle done"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func items(statuses []analytics.HabitStatus) []list.Item {
	out := make([]list.Item, len(statuses))
	for i, s := range statuses {
		out[i] = Item{Status: s}
	}
	return out
}

func New(statuses []analytics.HabitStatus, width, height int) Model {
	l := list.New(items(statuses), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func (m *Model) SetHabits(statuses []analytics.HabitStatus) {
	m.list.SetItems(items(statuses))
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Status.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
