package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/steady/internal/analytics"
	"github.com/julianstephens/steady/internal/checkin"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/crisis"
	"github.com/julianstephens/steady/internal/habits"
)

type dashboardLoadedMsg struct {
	dashboard analytics.Dashboard
	messages  []string
}

type chartsLoadedMsg struct {
	period   constants.Period
	charts   analytics.Charts
	insights analytics.JournalInsights
	messages []string
}

type planLoadedMsg struct {
	markdown string
	err      error
}

// savedMsg reports the outcome of a write and triggers a reload.
type savedMsg struct {
	notice string
	action string
	err    error
}

type onboardedMsg struct {
	err error
}

func (m Model) reload() tea.Cmd {
	return tea.Batch(m.loadDashboard(), m.loadCharts(), m.loadPlan())
}

func (m Model) loadDashboard() tea.Cmd {
	svc := m.analytics()
	return func() tea.Msg {
		dash, messages := svc.Dashboard(context.Background())
		return dashboardLoadedMsg{dashboard: dash, messages: messages}
	}
}

func (m Model) loadCharts() tea.Cmd {
	svc := m.analytics()
	period := m.period
	return func() tea.Msg {
		msg := chartsLoadedMsg{period: period}
		var warn string
		msg.charts, warn = svc.Charts(period)
		if warn != "" {
			msg.messages = append(msg.messages, warn)
		}
		msg.insights, warn = svc.Journal(period)
		if warn != "" {
			msg.messages = append(msg.messages, warn)
		}
		return msg
	}
}

func (m Model) loadPlan() tea.Cmd {
	svc := m.crisis()
	return func() tea.Msg {
		plan, err := svc.Plan()
		if err != nil {
			return planLoadedMsg{err: err}
		}
		contacts, err := svc.Contacts()
		if err != nil {
			return planLoadedMsg{err: err}
		}
		return planLoadedMsg{markdown: crisis.Markdown(plan, contacts)}
	}
}

func (m Model) toggleHabit(id string) tea.Cmd {
	svc := m.habitService()
	return func() tea.Msg {
		tick, err := svc.Toggle(id, "")
		if err != nil {
			return savedMsg{action: "update habit", err: err}
		}
		if tick.Done {
			return savedMsg{notice: "Marked done for today"}
		}
		return savedMsg{notice: "Marked not done for today"}
	}
}

func (m Model) saveCheckIn(form CheckInFormModel) tea.Cmd {
	svc := m.checkins()
	return func() tea.Msg {
		entry, err := svc.Record(checkin.Input{
			MoodLevel: form.Level,
			Tags:      checkin.ParseTags(form.Tags),
			Notes:     strings.TrimSpace(form.Notes),
		})
		if err != nil {
			return savedMsg{action: "save check-in", err: err}
		}
		return savedMsg{notice: fmt.Sprintf("Checked in at %d/10", entry.MoodLevel)}
	}
}

func (m Model) saveHabit(form HabitFormModel) tea.Cmd {
	svc := m.habitService()
	return func() tea.Msg {
		habit, err := svc.Create(habits.NewHabit{
			Title:    form.Title,
			Schedule: form.Schedule,
			Reminder: form.Reminder,
		})
		if err != nil {
			return savedMsg{action: "add habit", err: err}
		}
		return savedMsg{notice: fmt.Sprintf("Added habit %q", habit.Title)}
	}
}

func (m Model) saveWin(form WinFormModel) tea.Cmd {
	svc := m.journal()
	return func() tea.Msg {
		if _, err := svc.AddMicroWin(form.Description, form.Category); err != nil {
			return savedMsg{action: "save win", err: err}
		}
		return savedMsg{notice: "Win logged. Nice one."}
	}
}

func (m Model) completeOnboarding() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		settings, err := store.GetSettings()
		if err != nil {
			return onboardedMsg{err: err}
		}
		settings.OnboardingComplete = true
		return onboardedMsg{err: store.SaveSettings(settings)}
	}
}
