package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/steady/internal/analytics"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/tui/components/chart"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateWelcome:
		return m.viewWelcome()
	case StateToday:
		content = m.viewToday()
	case StateHabits:
		content = m.habitList.View()
	case StateInsights:
		content = m.viewInsights()
	case StateCrisis:
		content = m.viewCrisis()
	case StateCheckIn, StateAddHabit, StateAddWin:
		content = m.form.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewMessage(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active > StateCrisis {
		active = m.previousState
	}
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewMessage() string {
	if m.message == "" {
		return ""
	}
	if m.isError {
		return errorStyle.Render("⚠ " + m.message)
	}
	return noticeStyle.Render("✓ " + m.message)
}

func (m Model) viewWelcome() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Welcome to steady"),
		"",
		"A quiet place to check in with yourself.",
		"",
		"  c    record how you're feeling",
		"  tab  move between Today, Habits, Insights and Crisis",
		"  w    log a small win",
		"",
		"If you are in crisis, the Crisis tab lists people and lines you can reach.",
		"",
		mutedStyle.Render("Press any key to begin."),
	)
	box := welcomeStyle.Render(body)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) viewToday() string {
	if m.loading {
		return "Loading..."
	}
	d := m.dashboard
	var b strings.Builder

	b.WriteString(headingStyle.Render("Check-ins") + "\n")
	fmt.Fprintf(&b, "Streak: %s (longest %d)\n", days(d.MoodStreak.Current), d.MoodStreak.Longest)
	if d.MoodStreak.TodayPending {
		b.WriteString(mutedStyle.Render("You haven't checked in today. Press 'c' when you're ready.") + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("This week") + "\n")
	b.WriteString(weekLine(d.Week) + "\n")

	if len(d.TopEmotions) > 0 {
		b.WriteString("\n" + headingStyle.Render("Top emotions") + "\n")
		b.WriteString(chart.Bars(analytics.FrequencySeries(d.TopEmotions), 20) + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Habits today") + "\n")
	if len(d.Habits) == 0 {
		b.WriteString(mutedStyle.Render("No habits yet. Add one on the Habits tab.") + "\n")
	}
	for _, h := range d.Habits {
		mark := "○"
		switch {
		case h.DoneToday:
			mark = "✓"
		case !h.Scheduled:
			mark = "·"
		}
		line := fmt.Sprintf("%s %s", mark, h.Habit.Title)
		if h.Streak.Current > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  %s", days(h.Streak.Current)))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func weekLine(s analytics.Summary) string {
	if s.Current.Count == 0 {
		return mutedStyle.Render("No check-ins yet this week.")
	}
	line := fmt.Sprintf("Average %.1f/10 on %d of %d days  %s %s",
		s.Current.Average, s.Current.ActiveDays, s.Period.Days(), s.Trend.Arrow(), s.Trend)
	if s.HabitCompletion > 0 {
		line += fmt.Sprintf("  habits %.0f%%", s.HabitCompletion)
	}
	return line
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func (m Model) viewInsights() string {
	c := m.charts
	width := m.width - 8
	if width < 20 {
		width = 60
	}
	total := m.period.Days()
	slots := min(total, width)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", headingStyle.Render("Last "+string(m.period)), mutedStyle.Render("(p to change)"))
	if c.Start == "" {
		b.WriteString(mutedStyle.Render("No data for this period yet.") + "\n")
		return b.String()
	}

	b.WriteString("Mood (daily average, 0-10)\n")
	b.WriteString(chart.Sparkline(chart.Compress(c.Mood, total, slots), slots,
		float64(constants.MinMoodLevel), float64(constants.MaxMoodLevel)) + "\n")
	b.WriteString(chart.Axis(c.Start, c.End, slots) + "\n\n")

	b.WriteString("Habits done per day\n")
	b.WriteString(chart.Sparkline(chart.Compress(c.Habits, total, slots), slots, 0, maxY(c.Habits)) + "\n\n")

	if len(c.Emotions) > 0 {
		b.WriteString("Emotions\n")
		b.WriteString(chart.Bars(c.Emotions, width/2) + "\n\n")
	}

	j := m.insights
	if j.Reframes > 0 || j.OpenWorries > 0 {
		b.WriteString(headingStyle.Render("Journal") + "\n")
		fmt.Fprintf(&b, "Reframes: %d, open worries: %d\n", j.Reframes, j.OpenWorries)
		if len(j.Distortions) > 0 {
			b.WriteString(chart.Bars(analytics.FrequencySeries(j.Distortions), width/2) + "\n")
		}
	}
	return b.String()
}

func maxY(points []analytics.Point) float64 {
	hi := 1.0
	for _, p := range points {
		if p.Y > hi {
			hi = p.Y
		}
	}
	return hi
}

func (m Model) viewCrisis() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.planView.View(),
		mutedStyle.Render("Use `steady crisis call <name>` to reach someone now."),
	)
}
