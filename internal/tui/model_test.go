package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/steady/internal/checkin"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/habits"
	"github.com/julianstephens/steady/internal/journal"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage/sqlite"
	"github.com/julianstephens/steady/internal/tui/components/habitlist"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func setupStore(t *testing.T, onboarded bool) *sqlite.Store {
	t.Helper()
	gokeyring.MockInit()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "steady.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	settings.Timezone = "UTC"
	settings.OnboardingComplete = onboarded
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	return store
}

// drain runs cmd and feeds every resulting message back through Update.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, cmd := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, cmd)
		}
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, store *sqlite.Store) Model {
	t.Helper()
	m := NewModel(store, clock)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	return drain(t, m, m.Init())
}

func TestWelcomeUntilDismissed(t *testing.T) {
	store := setupStore(t, false)
	m := NewModel(store, clock)
	if m.state != StateWelcome {
		t.Fatalf("expected welcome screen, got state %d", m.state)
	}
	if !strings.Contains(m.View(), "Welcome to steady") {
		t.Errorf("welcome view missing greeting:\n%s", m.View())
	}

	m, cmd := press(t, m, runes("x"))
	if m.state != StateToday {
		t.Errorf("expected Today after dismissing, got %d", m.state)
	}
	drain(t, m, cmd)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if !settings.OnboardingComplete {
		t.Error("onboarding should be recorded as complete")
	}
	if NewModel(store, clock).state != StateToday {
		t.Error("welcome screen should not return once dismissed")
	}
}

func TestTabNavigation(t *testing.T) {
	m := NewModel(setupStore(t, true), clock)
	want := []SessionState{StateHabits, StateInsights, StateCrisis, StateToday}
	for _, s := range want {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != s {
			t.Fatalf("tab: expected state %d, got %d", s, m.state)
		}
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateCrisis {
		t.Errorf("shift+tab: expected Crisis, got %d", m.state)
	}
}

func TestDashboardLoads(t *testing.T) {
	store := setupStore(t, true)
	if _, err := checkin.NewService(store).WithClock(clock).Record(checkin.Input{MoodLevel: 7, Tags: []string{"calm"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := habits.NewService(store).WithClock(clock).Create(habits.NewHabit{Title: "Walk", Schedule: "daily"}); err != nil {
		t.Fatal(err)
	}

	m := loaded(t, store)
	if m.message != "" {
		t.Fatalf("unexpected message: %s", m.message)
	}
	view := m.View()
	for _, want := range []string{"Streak: 1 day", "○ Walk", "calm", "Average 7.0/10"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q:\n%s", want, view)
		}
	}
}

func TestToggleHabit(t *testing.T) {
	store := setupStore(t, true)
	habit, err := habits.NewService(store).WithClock(clock).Create(habits.NewHabit{Title: "Stretch", Schedule: "daily"})
	if err != nil {
		t.Fatal(err)
	}
	m := loaded(t, store)

	updated, cmd := m.Update(habitlist.ToggleHabitMsg{ID: habit.ID})
	m = drain(t, updated.(Model), cmd)

	done, err := store.IsHabitDoneOn(habit.ID, "2026-10-19")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("habit should be done today")
	}
	if m.message != "Marked done for today" || m.isError {
		t.Errorf("unexpected message %q (error %v)", m.message, m.isError)
	}
	if len(m.dashboard.Habits) != 1 || !m.dashboard.Habits[0].DoneToday {
		t.Errorf("dashboard not refreshed: %+v", m.dashboard.Habits)
	}
}

func TestMessageClearedOnNextKey(t *testing.T) {
	m := NewModel(setupStore(t, true), clock)
	updated, _ := m.Update(savedMsg{action: "save check-in", err: errTest})
	m = updated.(Model)
	if !m.isError || !strings.Contains(m.View(), "Could not save check-in: boom") {
		t.Fatalf("error not shown:\n%s", m.View())
	}

	m, _ = press(t, m, runes("x"))
	if m.message != "" {
		t.Errorf("message should clear on key press, got %q", m.message)
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")

func TestCheckInForm(t *testing.T) {
	m := NewModel(setupStore(t, true), clock)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runes("c"))
	if m.state != StateCheckIn || m.form == nil {
		t.Fatalf("expected check-in form, got state %d", m.state)
	}
	if m.checkInForm.Level != 5 {
		t.Errorf("default level = %d", m.checkInForm.Level)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHabits || m.form != nil {
		t.Errorf("esc should return to Habits, got state %d", m.state)
	}
}

func TestSaveCheckIn(t *testing.T) {
	store := setupStore(t, true)
	m := loaded(t, store)

	m = drain(t, m, m.saveCheckIn(CheckInFormModel{Level: 3, Tags: "tired, Low ", Notes: " rough night "}))
	if m.message != "Checked in at 3/10" {
		t.Errorf("message = %q", m.message)
	}
	entries, err := checkin.NewService(store).WithClock(clock).Recent(7, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Notes != "rough night" {
		t.Errorf("notes = %q", entries[0].Notes)
	}
	if m.dashboard.MoodStreak.Current != 1 {
		t.Errorf("streak = %d after refresh", m.dashboard.MoodStreak.Current)
	}
}

func TestSaveHabitRejectsBadSchedule(t *testing.T) {
	m := loaded(t, setupStore(t, true))
	m = drain(t, m, m.saveHabit(HabitFormModel{Title: "Read", Schedule: "sometimes"}))
	if !m.isError || !strings.HasPrefix(m.message, "Could not add habit") {
		t.Errorf("expected add habit error, got %q", m.message)
	}
}

func TestSaveWin(t *testing.T) {
	store := setupStore(t, true)
	m := loaded(t, store)
	m = drain(t, m, m.saveWin(WinFormModel{Description: "Went outside", Category: models.WinHealth}))
	if m.isError {
		t.Fatalf("unexpected error: %s", m.message)
	}
	wins, err := journal.NewService(store).WithClock(clock).ListMicroWins(10, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(wins) != 1 || wins[0].Category != models.WinHealth {
		t.Errorf("unexpected wins: %+v", wins)
	}
}

func TestInsightsPeriod(t *testing.T) {
	store := setupStore(t, true)
	if _, err := checkin.NewService(store).WithClock(clock).Record(checkin.Input{MoodLevel: 6, Tags: []string{"hopeful"}}); err != nil {
		t.Fatal(err)
	}
	m := loaded(t, store)

	m, _ = press(t, m, runes("p"))
	if m.period != constants.PeriodMonth {
		t.Errorf("period should only change on Insights, got %s", m.period)
	}

	m.state = StateInsights
	m, cmd := press(t, m, runes("p"))
	if m.period != constants.PeriodThreeMonths {
		t.Fatalf("period = %s", m.period)
	}
	m = drain(t, m, cmd)
	view := m.View()
	for _, want := range []string{"Last 3months", "Mood (daily average, 0-10)", "hopeful"} {
		if !strings.Contains(view, want) {
			t.Errorf("insights missing %q:\n%s", want, view)
		}
	}

	stale := m.charts
	updated, _ := m.Update(chartsLoadedMsg{period: constants.PeriodWeek})
	if got := updated.(Model).charts; got.Start != stale.Start {
		t.Error("results for another period should be ignored")
	}
}

func TestCrisisTabShowsPlan(t *testing.T) {
	m := loaded(t, setupStore(t, true))
	m.state = StateCrisis
	if !strings.Contains(m.View(), "988") {
		t.Errorf("crisis tab should list crisis lines:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(setupStore(t, true), clock)
	m, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestNextPeriodWraps(t *testing.T) {
	if got := nextPeriod(constants.PeriodYear); got != constants.PeriodWeek {
		t.Errorf("nextPeriod(year) = %s", got)
	}
}
