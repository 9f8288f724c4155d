package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/utils"
	"github.com/julianstephens/steady/internal/validation"
)

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func moodWord(level int) string {
	switch {
	case level >= 9:
		return "great"
	case level >= 7:
		return "good"
	case level >= 5:
		return "okay"
	case level >= 3:
		return "low"
	default:
		return "struggling"
	}
}

func newCheckInForm(f *CheckInFormModel) *huh.Form {
	levels := make([]huh.Option[int], 0, constants.MaxMoodLevel-constants.MinMoodLevel+1)
	for i := constants.MaxMoodLevel; i >= constants.MinMoodLevel; i-- {
		levels = append(levels, huh.NewOption(fmt.Sprintf("%2d  %s", i, moodWord(i)), i))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How are you feeling right now?").
				Options(levels...).
				Value(&f.Level),
			huh.NewInput().
				Title("Emotions").
				Description("Comma-separated, e.g. calm, tired").
				Value(&f.Tags),
			huh.NewText().
				Title("Notes").
				Description("Optional").
				Value(&f.Notes),
		),
	).WithShowHelp(true)
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Value(&f.Title).
				Validate(required("title")),
			huh.NewInput().
				Title("Schedule").
				Description("daily, weekdays, weekends or days like mon,wed,fri").
				Value(&f.Schedule).
				Validate(func(s string) error {
					_, err := utils.ParseSchedule(s)
					return err
				}),
			huh.NewInput().
				Title("Reminder").
				Description("HH:MM, leave empty for none").
				Value(&f.Reminder).
				Validate(func(s string) error {
					return validation.ReminderTime(strings.TrimSpace(s))
				}),
		),
	).WithShowHelp(true)
}

func newWinForm(f *WinFormModel) *huh.Form {
	categories := make([]huh.Option[models.WinCategory], 0, len(models.WinCategories()))
	for _, c := range models.WinCategories() {
		categories = append(categories, huh.NewOption(strings.ReplaceAll(string(c), "_", " "), c))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What went well?").
				Value(&f.Description).
				Validate(required("description")),
			huh.NewSelect[models.WinCategory]().
				Title("Category").
				Options(categories...).
				Value(&f.Category),
		),
	).WithShowHelp(true)
}

// openForm switches to a form state, remembering the tab to return to.
func (m Model) openForm(state SessionState) (Model, tea.Cmd) {
	switch state {
	case StateCheckIn:
		m.checkInForm = &CheckInFormModel{Level: 5}
		m.form = newCheckInForm(m.checkInForm)
	case StateAddHabit:
		m.habitForm = &HabitFormModel{Schedule: "daily"}
		m.form = newHabitForm(m.habitForm)
	case StateAddWin:
		m.winForm = &WinFormModel{Category: models.WinOther}
		m.form = newWinForm(m.winForm)
	default:
		return m, nil
	}
	if m.state < StateWelcome {
		m.previousState = m.state
	}
	m.state = state
	return m, m.form.Init()
}

// submitForm returns the save command for the finished form.
func (m Model) submitForm() tea.Cmd {
	switch m.state {
	case StateCheckIn:
		return m.saveCheckIn(*m.checkInForm)
	case StateAddHabit:
		return m.saveHabit(*m.habitForm)
	case StateAddWin:
		return m.saveWin(*m.winForm)
	}
	return nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.checkInForm = nil
	m.habitForm = nil
	m.winForm = nil
	m.state = m.previousState
}
