package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steady/internal/analytics"
	"github.com/julianstephens/steady/internal/checkin"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/crisis"
	"github.com/julianstephens/steady/internal/habits"
	"github.com/julianstephens/steady/internal/journal"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/tui/components/habitlist"
	"github.com/julianstephens/steady/internal/tui/components/planview"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHabits
	StateInsights
	StateCrisis
	StateWelcome
	StateCheckIn
	StateAddHabit
	StateAddWin
)

var tabTitles = []string{"Today", "Habits", "Insights", "Crisis"}

type CheckInFormModel struct {
	Level int
	Tags  string
	Notes string
}

type HabitFormModel struct {
	Title    string
	Schedule string
	Reminder string
}

type WinFormModel struct {
	Description string
	Category    models.WinCategory
}

type Model struct {
	store         storage.Provider
	now           func() time.Time
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model
	planView      planview.Model
	form          *huh.Form
	checkInForm   *CheckInFormModel
	habitForm     *HabitFormModel
	winForm       *WinFormModel
	dashboard     analytics.Dashboard
	charts        analytics.Charts
	insights      analytics.JournalInsights
	period        constants.Period
	// message is cleared on the next key press.
	message  string
	isError  bool
	loading  bool
	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		store:     store,
		now:       now,
		state:     StateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, 0, 0),
		planView:  planview.New(0, 0),
		period:    constants.PeriodMonth,
		loading:   true,
	}

	settings, err := store.GetSettings()
	if err != nil {
		logger.Warn("Failed to load settings for onboarding check", "error", err)
	} else if !settings.OnboardingComplete {
		m.state = StateWelcome
	}
	return m
}

func (m Model) checkins() *checkin.Service {
	return checkin.NewService(m.store).WithClock(m.now)
}

func (m Model) habitService() *habits.Service {
	return habits.NewService(m.store).WithClock(m.now)
}

func (m Model) journal() *journal.Service {
	return journal.NewService(m.store).WithClock(m.now)
}

func (m Model) crisis() *crisis.Service {
	return crisis.NewService(m.store).WithClock(m.now)
}

func (m Model) analytics() *analytics.Service {
	return analytics.NewService(m.store).WithClock(m.now)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.CheckIn}
	switch m.state {
	case StateInsights:
		keys = append(keys, m.keys.Period)
	case StateToday:
		keys = append(keys, m.keys.AddWin)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	actions := []key.Binding{m.keys.CheckIn, m.keys.AddWin, m.keys.Refresh}
	switch m.state {
	case StateInsights:
		actions = append(actions, m.keys.Period)
	case StateCrisis:
		actions = append(actions, m.keys.Up, m.keys.Down)
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return m.reload()
}

func (m *Model) setError(msg string) {
	m.message = msg
	m.isError = true
}

func (m *Model) setNotice(msg string) {
	m.message = msg
	m.isError = false
}
