package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/steady/internal/constants"
	apperrors "github.com/julianstephens/steady/internal/errors"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/utils"
)

// Reader is the slice of storage.Provider the analytics service reads from.
type Reader interface {
	GetSettings() (models.Settings, error)
	GetMoodAggregate(userID, startDay, endDay string) (models.MoodAggregate, error)
	GetDailyMoods(userID, startDay, endDay string) ([]models.DailyMood, error)
	GetTagCounts(userID, startDay, endDay string) ([]models.TagCount, error)
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(includeDisabled bool) ([]models.Habit, error)
	GetHabitTicks(habitID, startDate, endDate string) ([]models.HabitTick, error)
	GetHabitTicksInRange(startDate, endDate string) ([]models.HabitTick, error)
	ListReframes(q storage.JournalQuery) ([]models.ReframeEntry, error)
	ListWorries(q storage.JournalQuery, includeResolved bool) ([]models.WorryEntry, error)
	ListMicroWins(q storage.JournalQuery) ([]models.MicroWin, error)
}

// Service is the analytics use-case boundary. Every method logs storage
// failures and returns a safe zero value with a user-visible message.
type Service struct {
	store Reader
	now   func() time.Time
}

func NewService(store Reader) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// callContext is the per-call view of settings and the current day.
type callContext struct {
	settings models.Settings
	loc      *time.Location
	today    string
}

// resolve loads settings and derives today in the user's timezone.
func (s *Service) resolve() (callContext, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return callContext{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, falling back to local", "timezone", settings.Timezone, "error", err)
		loc = time.Local
	}
	return callContext{
		settings: settings,
		loc:      loc,
		today:    utils.DayOf(s.now(), loc),
	}, nil
}

func fail(action string, err error) string {
	logger.Error("Analytics query failed", "action", action, "error", err)
	return apperrors.UserMessage(action, err)
}

// MoodStreak returns consecutive days with at least one check-in.
func (s *Service) MoodStreak() (StreakResult, string) {
	cc, err := s.resolve()
	if err != nil {
		return StreakResult{}, fail("calculate mood streak", err)
	}
	result, err := s.moodStreak(cc)
	if err != nil {
		return StreakResult{}, fail("calculate mood streak", err)
	}
	return result, ""
}

func (s *Service) moodStreak(cc callContext) (StreakResult, error) {
	lookback := ClampLookback(cc.settings.StreakLookbackDays)
	start, end, err := utils.Window(cc.today, lookback)
	if err != nil {
		return StreakResult{}, err
	}
	daily, err := s.store.GetDailyMoods(cc.settings.UserID, start, end)
	if err != nil {
		return StreakResult{}, err
	}
	days := make(map[string]bool, len(daily))
	for _, d := range daily {
		days[d.Day] = d.Count > 0
	}
	return Streak(cc.today, lookback, SetChecker(days), nil)
}

// HabitStreak returns consecutive scheduled days the habit was done.
// Unscheduled days are skipped.
func (s *Service) HabitStreak(habitID string) (StreakResult, string) {
	cc, err := s.resolve()
	if err != nil {
		return StreakResult{}, fail("calculate habit streak", err)
	}
	habit, err := s.store.GetHabit(habitID)
	if err != nil {
		return StreakResult{}, fail("calculate habit streak", err)
	}
	result, err := s.habitStreak(cc, habit)
	if err != nil {
		return StreakResult{}, fail("calculate habit streak", err)
	}
	return result, ""
}

func (s *Service) habitStreak(cc callContext, habit models.Habit) (StreakResult, error) {
	lookback := ClampLookback(cc.settings.StreakLookbackDays)
	start, end, err := utils.Window(cc.today, lookback)
	if err != nil {
		return StreakResult{}, err
	}
	ticks, err := s.store.GetHabitTicks(habit.ID, start, end)
	if err != nil {
		return StreakResult{}, err
	}
	done := make(map[string]bool, len(ticks))
	for _, t := range ticks {
		done[t.Date] = t.Done
	}
	skip := func(day string) bool {
		d, err := utils.ParseDate(day)
		if err != nil {
			return false
		}
		return !habit.ScheduledOn(d.Weekday())
	}
	return Streak(cc.today, lookback, SetChecker(done), skip)
}

// Summary compares the named window with the preceding window of equal length.
func (s *Service) Summary(period constants.Period) (Summary, string) {
	cc, err := s.resolve()
	if err != nil {
		return Summary{Period: period, Trend: TrendStable}, fail("build summary", err)
	}
	summary, err := s.summary(cc, period)
	if err != nil {
		return Summary{Period: period, Trend: TrendStable}, fail("build summary", err)
	}
	return summary, ""
}

func (s *Service) summary(cc callContext, period constants.Period) (Summary, error) {
	days := period.Days()
	if days == 0 {
		return Summary{}, fmt.Errorf("unknown period %q", period)
	}
	start, end, err := utils.Window(cc.today, days)
	if err != nil {
		return Summary{}, err
	}
	prevStart, prevEnd, err := utils.PreviousWindow(start, end)
	if err != nil {
		return Summary{}, err
	}

	current, err := s.store.GetMoodAggregate(cc.settings.UserID, start, end)
	if err != nil {
		return Summary{}, err
	}
	previous, err := s.store.GetMoodAggregate(cc.settings.UserID, prevStart, prevEnd)
	if err != nil {
		return Summary{}, err
	}

	summary := ComposeSummary(period,
		PeriodStats{Start: start, End: end, MoodAggregate: current},
		PeriodStats{Start: prevStart, End: prevEnd, MoodAggregate: previous},
	)

	if summary.Daily, err = s.store.GetDailyMoods(cc.settings.UserID, start, end); err != nil {
		return Summary{}, err
	}

	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return Summary{}, err
	}
	ticks, err := s.store.GetHabitTicksInRange(start, end)
	if err != nil {
		return Summary{}, err
	}
	summary.HabitCompletion = HabitCompletionRate(habits, ticks, start, end, cc.loc)
	return summary, nil
}

// TopEmotions ranks emotion tags in the window and compares them with the
// preceding window. limit <= 0 returns every tag.
func (s *Service) TopEmotions(period constants.Period, limit int) ([]Ranked, string) {
	cc, err := s.resolve()
	if err != nil {
		return nil, fail("rank emotions", err)
	}
	ranked, err := s.topEmotions(cc, period, limit)
	if err != nil {
		return nil, fail("rank emotions", err)
	}
	return ranked, ""
}

func (s *Service) topEmotions(cc callContext, period constants.Period, limit int) ([]Ranked, error) {
	days := period.Days()
	if days == 0 {
		return nil, fmt.Errorf("unknown period %q", period)
	}
	start, end, err := utils.Window(cc.today, days)
	if err != nil {
		return nil, err
	}
	prevStart, prevEnd, err := utils.PreviousWindow(start, end)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetTagCounts(cc.settings.UserID, start, end)
	if err != nil {
		return nil, err
	}
	previous, err := s.store.GetTagCounts(cc.settings.UserID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	ranked := CompareTo(Rank(FromTagCounts(current)), FromTagCounts(previous))
	return Top(ranked, limit), nil
}

// JournalInsights ranks distortions and categories across journal entries.
type JournalInsights struct {
	Distortions     []Ranked
	WorryCategories []Ranked
	WinCategories   []Ranked
	OpenWorries     int
	Reframes        int
	AvgRelief       float64
}

// Journal ranks journal activity in the window against the preceding window.
func (s *Service) Journal(period constants.Period) (JournalInsights, string) {
	cc, err := s.resolve()
	if err != nil {
		return JournalInsights{}, fail("summarize journal", err)
	}
	insights, err := s.journal(cc, period)
	if err != nil {
		return JournalInsights{}, fail("summarize journal", err)
	}
	return insights, ""
}

func (s *Service) journal(cc callContext, period constants.Period) (JournalInsights, error) {
	days := period.Days()
	if days == 0 {
		return JournalInsights{}, fmt.Errorf("unknown period %q", period)
	}
	start, end, err := utils.Window(cc.today, days)
	if err != nil {
		return JournalInsights{}, err
	}
	prevStart, _, err := utils.PreviousWindow(start, end)
	if err != nil {
		return JournalInsights{}, err
	}

	since, _ := utils.ParseDateInLocation(start, cc.loc)
	prevSince, _ := utils.ParseDateInLocation(prevStart, cc.loc)
	until, _ := utils.ParseDateInLocation(end, cc.loc)
	until = until.AddDate(0, 0, 1)

	cur := storage.JournalQuery{Since: since, Until: until}
	prev := storage.JournalQuery{Since: prevSince, Until: since}

	reframes, err := s.store.ListReframes(cur)
	if err != nil {
		return JournalInsights{}, err
	}
	prevReframes, err := s.store.ListReframes(prev)
	if err != nil {
		return JournalInsights{}, err
	}
	worries, err := s.store.ListWorries(cur, true)
	if err != nil {
		return JournalInsights{}, err
	}
	prevWorries, err := s.store.ListWorries(prev, true)
	if err != nil {
		return JournalInsights{}, err
	}
	wins, err := s.store.ListMicroWins(cur)
	if err != nil {
		return JournalInsights{}, err
	}
	prevWins, err := s.store.ListMicroWins(prev)
	if err != nil {
		return JournalInsights{}, err
	}

	insights := JournalInsights{
		Distortions:     CompareTo(Rank(DistortionCounts(reframes)), DistortionCounts(prevReframes)),
		WorryCategories: CompareTo(Rank(WorryCategoryCounts(worries)), WorryCategoryCounts(prevWorries)),
		WinCategories:   CompareTo(Rank(WinCategoryCounts(wins)), WinCategoryCounts(prevWins)),
		Reframes:        len(reframes),
	}
	for _, w := range worries {
		if !w.Resolved {
			insights.OpenWorries++
		}
	}
	rated, relief := 0, 0
	for _, r := range reframes {
		if r.IntensityAfter > 0 {
			rated++
			relief += r.IntensityBefore - r.IntensityAfter
		}
	}
	if rated > 0 {
		insights.AvgRelief = float64(relief) / float64(rated)
	}
	return insights, nil
}

// HabitStatus is one habit's line on the dashboard.
type HabitStatus struct {
	Habit     models.Habit
	DoneToday bool
	Scheduled bool
	Streak    StreakResult
}

// Dashboard is everything the home screen shows.
type Dashboard struct {
	Today       string
	MoodStreak  StreakResult
	Week        Summary
	TopEmotions []Ranked
	Habits      []HabitStatus
}

// Dashboard gathers the home screen concurrently. Each part falls back to its
// zero value on failure, and the returned messages describe what failed.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, []string) {
	cc, err := s.resolve()
	if err != nil {
		return Dashboard{Week: Summary{Period: constants.PeriodWeek, Trend: TrendStable}}, []string{fail("load dashboard", err)}
	}

	dash := Dashboard{Today: cc.today, Week: Summary{Period: constants.PeriodWeek, Trend: TrendStable}}
	var mu sync.Mutex
	var messages []string
	report := func(action string, err error) {
		mu.Lock()
		messages = append(messages, fail(action, err))
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		streak, err := s.moodStreak(cc)
		if err != nil {
			report("calculate mood streak", err)
			return nil
		}
		dash.MoodStreak = streak
		return nil
	})
	g.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		week, err := s.summary(cc, constants.PeriodWeek)
		if err != nil {
			report("build weekly summary", err)
			return nil
		}
		dash.Week = week
		return nil
	})
	g.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		top, err := s.topEmotions(cc, constants.PeriodWeek, 5)
		if err != nil {
			report("rank emotions", err)
			return nil
		}
		dash.TopEmotions = top
		return nil
	})
	g.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		statuses, err := s.habitStatuses(cc)
		if err != nil {
			report("load habits", err)
			return nil
		}
		dash.Habits = statuses
		return nil
	})
	_ = g.Wait()

	return dash, messages
}

func (s *Service) habitStatuses(cc callContext) ([]HabitStatus, error) {
	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	today, err := utils.ParseDate(cc.today)
	if err != nil {
		return nil, err
	}
	ticks, err := s.store.GetHabitTicksInRange(cc.today, cc.today)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(ticks))
	for _, t := range ticks {
		done[t.HabitID] = t.Done
	}

	statuses := make([]HabitStatus, 0, len(habits))
	for _, h := range habits {
		streak, err := s.habitStreak(cc, h)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, HabitStatus{
			Habit:     h,
			DoneToday: done[h.ID],
			Scheduled: h.ScheduledOn(today.Weekday()),
			Streak:    streak,
		})
	}
	return statuses, nil
}

// Charts holds the plotted series for one window.
type Charts struct {
	Start    string
	End      string
	Mood     []Point
	Habits   []Point
	Emotions []Point
}

// Charts builds chart series for the named window.
func (s *Service) Charts(period constants.Period) (Charts, string) {
	cc, err := s.resolve()
	if err != nil {
		return Charts{}, fail("build charts", err)
	}
	charts, err := s.charts(cc, period)
	if err != nil {
		return Charts{}, fail("build charts", err)
	}
	return charts, ""
}

func (s *Service) charts(cc callContext, period constants.Period) (Charts, error) {
	days := period.Days()
	if days == 0 {
		return Charts{}, fmt.Errorf("unknown period %q", period)
	}
	start, end, err := utils.Window(cc.today, days)
	if err != nil {
		return Charts{}, err
	}
	daily, err := s.store.GetDailyMoods(cc.settings.UserID, start, end)
	if err != nil {
		return Charts{}, err
	}
	ticks, err := s.store.GetHabitTicksInRange(start, end)
	if err != nil {
		return Charts{}, err
	}
	tags, err := s.store.GetTagCounts(cc.settings.UserID, start, end)
	if err != nil {
		return Charts{}, err
	}
	return Charts{
		Start:    start,
		End:      end,
		Mood:     MoodSeries(daily, start),
		Habits:   HabitSeries(ticks, start, end),
		Emotions: FrequencySeries(Top(Rank(FromTagCounts(tags)), 8)),
	}, nil
}
