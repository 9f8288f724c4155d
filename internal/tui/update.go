package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/errors"
	"github.com/julianstephens/steady/internal/tui/components/habitlist"
)

const tabCount = 4

// chrome is the height taken by the tab bar, message line and help.
const chrome = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habitList.SetSize(msg.Width-h, msg.Height-v-chrome)
		m.planView.SetSize(msg.Width-h, msg.Height-v-chrome)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - h)
		}
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		m.dashboard = msg.dashboard
		m.habitList.SetHabits(msg.dashboard.Habits)
		if len(msg.messages) > 0 {
			m.setError(strings.Join(msg.messages, "; "))
		}
		return m, nil

	case chartsLoadedMsg:
		if msg.period != m.period {
			return m, nil
		}
		m.charts = msg.charts
		m.insights = msg.insights
		if len(msg.messages) > 0 {
			m.setError(strings.Join(msg.messages, "; "))
		}
		return m, nil

	case planLoadedMsg:
		if msg.err != nil {
			m.setError(errors.UserMessage("load safety plan", msg.err))
			return m, nil
		}
		m.planView.SetPlan(msg.markdown)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(errors.UserMessage(msg.action, msg.err))
			return m, nil
		}
		m.setNotice(msg.notice)
		return m, m.reload()

	case onboardedMsg:
		if msg.err != nil {
			m.setError(errors.UserMessage("save settings", msg.err))
		}
		return m, nil

	case habitlist.ToggleHabitMsg:
		return m, m.toggleHabit(msg.ID)

	case habitlist.AddHabitMsg:
		return m.openForm(StateAddHabit)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateActive(msg)
	}

	m.message = ""

	if m.state == StateWelcome {
		if key.Matches(keyMsg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = StateToday
		return m, m.completeOnboarding()
	}

	if m.state == StateHabits && m.habitList.Filtering() {
		return m.updateActive(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.CheckIn):
		return m.openForm(StateCheckIn)
	case key.Matches(keyMsg, m.keys.AddWin):
		return m.openForm(StateAddWin)
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, m.reload()
	case key.Matches(keyMsg, m.keys.Period) && m.state == StateInsights:
		m.period = nextPeriod(m.period)
		return m, m.loadCharts()
	}

	return m.updateActive(msg)
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		m.message = ""
		if keyMsg.Type == tea.KeyEsc {
			m.closeForm()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		save := m.submitForm()
		m.closeForm()
		return m, save
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	case StateCrisis:
		m.planView, cmd = m.planView.Update(msg)
	}
	return m, cmd
}

func nextPeriod(p constants.Period) constants.Period {
	periods := constants.Periods()
	for i, candidate := range periods {
		if candidate == p {
			return periods[(i+1)%len(periods)]
		}
	}
	return periods[0]
}
