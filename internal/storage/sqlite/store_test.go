package sqlite

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mood(userID string, level int, day string, tags ...string) models.MoodEntry {
	ts, _ := time.Parse("2006-01-02", day)
	return models.MoodEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		MoodLevel:   level,
		EmotionTags: tags,
		Timestamp:   ts.Add(12 * time.Hour),
		Day:         day,
	}
}

func TestInitCreatesDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.UserID == "" {
		t.Error("expected generated user id")
	}
	if settings.Timezone != "Local" {
		t.Errorf("expected default timezone Local, got %q", settings.Timezone)
	}
	if settings.StreakLookbackDays != 365 {
		t.Errorf("expected lookback 365, got %d", settings.StreakLookbackDays)
	}

	// Init is idempotent and keeps the generated id
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	again, _ := store.GetSettings()
	if again.UserID != settings.UserID {
		t.Errorf("user id changed across Init: %q -> %q", settings.UserID, again.UserID)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected Load to fail for a database that was never initialized")
	}
}

func TestMoodEntryCRUD(t *testing.T) {
	store := setupTestStore(t)

	entry := mood("user-1", 6, "2026-03-01", "calm", "tired")
	entry.Notes = "slow morning"
	if err := store.AddMoodEntry(entry); err != nil {
		t.Fatalf("AddMoodEntry failed: %v", err)
	}

	got, err := store.GetMoodEntry(entry.ID)
	if err != nil {
		t.Fatalf("GetMoodEntry failed: %v", err)
	}
	if diff := cmp.Diff(entry, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	entry.MoodLevel = 8
	entry.EmotionTags = []string{"hopeful"}
	if err := store.UpdateMoodEntry(entry); err != nil {
		t.Fatalf("UpdateMoodEntry failed: %v", err)
	}
	got, _ = store.GetMoodEntry(entry.ID)
	if got.MoodLevel != 8 || !cmp.Equal(got.EmotionTags, []string{"hopeful"}) {
		t.Errorf("update not applied: %+v", got)
	}

	if err := store.DeleteMoodEntry(entry.ID); err != nil {
		t.Fatalf("DeleteMoodEntry failed: %v", err)
	}
	if _, err := store.GetMoodEntry(entry.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteMoodEntry(entry.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	var tagRows int
	if err := store.DB().QueryRow("SELECT count(*) FROM mood_entry_tags").Scan(&tagRows); err != nil {
		t.Fatal(err)
	}
	if tagRows != 0 {
		t.Errorf("expected tags to be removed with entry, found %d", tagRows)
	}
}

func TestDeleteMoodEntriesBefore(t *testing.T) {
	store := setupTestStore(t)

	for _, day := range []string{"2026-01-01", "2026-01-15", "2026-02-01", "2026-02-10"} {
		if err := store.AddMoodEntry(mood("user-1", 5, day, "ok")); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.AddMoodEntry(mood("user-2", 5, "2026-01-01")); err != nil {
		t.Fatal(err)
	}

	removed, err := store.DeleteMoodEntriesBefore("user-1", "2026-02-01")
	if err != nil {
		t.Fatalf("DeleteMoodEntriesBefore failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}

	left, _ := store.ListMoodEntries("user-1", "2000-01-01", "2100-01-01", 0)
	if len(left) != 2 {
		t.Errorf("expected 2 remaining entries, got %d", len(left))
	}
	other, _ := store.ListMoodEntries("user-2", "2000-01-01", "2100-01-01", 0)
	if len(other) != 1 {
		t.Errorf("other user's entries must be untouched, got %d", len(other))
	}
}

func TestListMoodEntriesNewestFirstWithLimit(t *testing.T) {
	store := setupTestStore(t)
	for _, day := range []string{"2026-04-01", "2026-04-03", "2026-04-02"} {
		if err := store.AddMoodEntry(mood("u", 5, day)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListMoodEntries("u", "2026-04-01", "2026-04-30", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Day != "2026-04-03" || got[1].Day != "2026-04-02" {
		t.Errorf("unexpected order: %s, %s", got[0].Day, got[1].Day)
	}
}

func TestMoodAggregate(t *testing.T) {
	store := setupTestStore(t)
	days := []string{"2026-05-01", "2026-05-02", "2026-05-03", "2026-05-04"}
	for i, level := range []int{2, 4, 6, 8} {
		if err := store.AddMoodEntry(mood("u", level, days[i])); err != nil {
			t.Fatal(err)
		}
	}

	agg, err := store.GetMoodAggregate("u", "2026-05-01", "2026-05-07")
	if err != nil {
		t.Fatalf("GetMoodAggregate failed: %v", err)
	}
	want := models.MoodAggregate{Count: 4, Average: 5.0, Min: 2, Max: 8, ActiveDays: 4}
	if diff := cmp.Diff(want, agg); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}

	empty, err := store.GetMoodAggregate("u", "2025-01-01", "2025-01-07")
	if err != nil {
		t.Fatalf("empty aggregate failed: %v", err)
	}
	if empty != (models.MoodAggregate{}) {
		t.Errorf("expected zero aggregate, got %+v", empty)
	}
}

func TestDailyMoodsAndTagCounts(t *testing.T) {
	store := setupTestStore(t)
	entries := []models.MoodEntry{
		mood("u", 3, "2026-06-01", "anxious", "tired"),
		mood("u", 5, "2026-06-01", "anxious"),
		mood("u", 9, "2026-06-02", "happy"),
	}
	for _, e := range entries {
		if err := store.AddMoodEntry(e); err != nil {
			t.Fatal(err)
		}
	}

	daily, err := store.GetDailyMoods("u", "2026-06-01", "2026-06-30")
	if err != nil {
		t.Fatal(err)
	}
	wantDaily := []models.DailyMood{
		{Day: "2026-06-01", Average: 4, Count: 2},
		{Day: "2026-06-02", Average: 9, Count: 1},
	}
	if diff := cmp.Diff(wantDaily, daily); diff != "" {
		t.Errorf("daily mismatch (-want +got):\n%s", diff)
	}

	counts, err := store.GetTagCounts("u", "2026-06-01", "2026-06-30")
	if err != nil {
		t.Fatal(err)
	}
	byTag := map[string]models.TagCount{}
	for _, c := range counts {
		byTag[c.Tag] = c
	}
	if byTag["anxious"].Count != 2 || math.Abs(byTag["anxious"].AvgMood-4) > 1e-9 {
		t.Errorf("unexpected anxious count: %+v", byTag["anxious"])
	}
	if byTag["happy"].Count != 1 || byTag["tired"].Count != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestHasMoodEntryOn(t *testing.T) {
	store := setupTestStore(t)
	if err := store.AddMoodEntry(mood("u", 5, "2026-07-10")); err != nil {
		t.Fatal(err)
	}

	ok, err := store.HasMoodEntryOn("u", "2026-07-10")
	if err != nil || !ok {
		t.Errorf("expected entry on 2026-07-10, got %v, %v", ok, err)
	}
	ok, err = store.HasMoodEntryOn("u", "2026-07-11")
	if err != nil || ok {
		t.Errorf("expected no entry on 2026-07-11, got %v, %v", ok, err)
	}
}

func newHabit(title string) models.Habit {
	return models.Habit{
		ID:        uuid.New().String(),
		Title:     title,
		Schedule:  "1111111",
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}

func TestHabitCRUD(t *testing.T) {
	store := setupTestStore(t)

	habit := newHabit("Morning walk")
	habit.ReminderTime = "07:30"
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	byTitle, err := store.GetHabitByTitle("morning WALK")
	if err != nil {
		t.Fatalf("GetHabitByTitle should be case-insensitive: %v", err)
	}
	if byTitle.ID != habit.ID || byTitle.ReminderTime != "07:30" {
		t.Errorf("unexpected habit: %+v", byTitle)
	}

	if err := store.AddHabit(newHabit("MORNING WALK")); err == nil {
		t.Error("expected duplicate title to be rejected")
	}

	if err := store.SetHabitEnabled(habit.ID, false); err != nil {
		t.Fatalf("SetHabitEnabled failed: %v", err)
	}
	enabled, _ := store.GetAllHabits(false)
	if len(enabled) != 0 {
		t.Errorf("disabled habit should be hidden, got %d", len(enabled))
	}
	all, _ := store.GetAllHabits(true)
	if len(all) != 1 || all[0].Enabled {
		t.Errorf("expected one disabled habit, got %+v", all)
	}

	habit.Title = "Evening walk"
	habit.Schedule = "1010100"
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, _ := store.GetHabit(habit.ID)
	if got.Title != "Evening walk" || got.Schedule != "1010100" || !got.Enabled {
		t.Errorf("update not applied: %+v", got)
	}

	if err := store.SetHabitEnabled("missing", true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHabitTickReplaceOnConflict(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Journal")
	if err := store.AddHabit(habit); err != nil {
		t.Fatal(err)
	}

	if err := store.SetHabitTick(models.HabitTick{HabitID: habit.ID, Date: "2026-08-01", Done: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetHabitTick(models.HabitTick{HabitID: habit.ID, Date: "2026-08-01", Done: false}); err != nil {
		t.Fatal(err)
	}

	ticks, err := store.GetHabitTicks(habit.ID, "2026-08-01", "2026-08-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(ticks) != 1 {
		t.Fatalf("expected exactly one tick row, got %d", len(ticks))
	}
	if ticks[0].Done {
		t.Error("expected latest write (done=false) to win")
	}

	done, err := store.IsHabitDoneOn(habit.ID, "2026-08-01")
	if err != nil || done {
		t.Errorf("IsHabitDoneOn = %v, %v; want false, nil", done, err)
	}
	done, err = store.IsHabitDoneOn(habit.ID, "2026-08-02")
	if err != nil || done {
		t.Errorf("missing tick should read as not done, got %v, %v", done, err)
	}
}

func TestDeleteHabitCascadesTicks(t *testing.T) {
	store := setupTestStore(t)
	habit := newHabit("Stretch")
	keep := newHabit("Read")
	for _, h := range []models.Habit{habit, keep} {
		if err := store.AddHabit(h); err != nil {
			t.Fatal(err)
		}
	}
	for _, day := range []string{"2026-09-01", "2026-09-02", "2026-09-03"} {
		if err := store.SetHabitTick(models.HabitTick{HabitID: habit.ID, Date: day, Done: true}); err != nil {
			t.Fatal(err)
		}
		if err := store.SetHabitTick(models.HabitTick{HabitID: keep.ID, Date: day, Done: true}); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.DeleteHabit(habit.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	ticks, err := store.GetHabitTicks(habit.ID, "2000-01-01", "2100-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(ticks) != 0 {
		t.Errorf("expected no ticks after cascade, got %d", len(ticks))
	}
	var raw int
	if err := store.DB().QueryRow("SELECT count(*) FROM habit_ticks WHERE habit_id = ?", habit.ID).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if raw != 0 {
		t.Errorf("expected 0 raw tick rows, got %d", raw)
	}

	kept, _ := store.GetHabitTicks(keep.ID, "2000-01-01", "2100-01-01")
	if len(kept) != 3 {
		t.Errorf("other habit's ticks must survive, got %d", len(kept))
	}
}

func TestTickRequiresExistingHabit(t *testing.T) {
	store := setupTestStore(t)
	err := store.SetHabitTick(models.HabitTick{HabitID: "nope", Date: "2026-01-01", Done: true})
	if err == nil {
		t.Error("expected foreign key violation for unknown habit")
	}
}

func TestJournalRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	reframe := models.ReframeEntry{
		ID:               uuid.New().String(),
		Situation:        "Missed a deadline",
		AutomaticThought: "I always fail",
		Distortions:      []models.Distortion{models.DistortionOvergeneralization, models.DistortionLabeling},
		BalancedThought:  "I missed one deadline and can renegotiate",
		IntensityBefore:  8,
		IntensityAfter:   4,
		CreatedAt:        now,
	}
	if err := store.AddReframe(reframe); err != nil {
		t.Fatalf("AddReframe failed: %v", err)
	}
	gotReframe, err := store.GetReframe(reframe.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(reframe, gotReframe); diff != "" {
		t.Errorf("reframe mismatch (-want +got):\n%s", diff)
	}

	worry := models.WorryEntry{
		ID:        uuid.New().String(),
		Worry:     "Rent increase",
		Category:  models.WorryFinances,
		Intensity: 6,
		CreatedAt: now,
	}
	if err := store.AddWorry(worry); err != nil {
		t.Fatal(err)
	}
	resolvedAt := now.Add(48 * time.Hour)
	worry.Resolved = true
	worry.ResolvedAt = &resolvedAt
	if err := store.UpdateWorry(worry); err != nil {
		t.Fatal(err)
	}
	open, _ := store.ListWorries(storage.JournalQuery{}, false)
	if len(open) != 0 {
		t.Errorf("resolved worry should be hidden, got %d", len(open))
	}
	all, _ := store.ListWorries(storage.JournalQuery{}, true)
	if len(all) != 1 || all[0].ResolvedAt == nil || !all[0].ResolvedAt.Equal(resolvedAt) {
		t.Errorf("unexpected worries: %+v", all)
	}

	for i := 0; i < 3; i++ {
		win := models.MicroWin{
			ID:          uuid.New().String(),
			Description: "Drank water",
			Category:    models.WinHealth,
			CreatedAt:   now.Add(time.Duration(i) * time.Hour),
		}
		if err := store.AddMicroWin(win); err != nil {
			t.Fatal(err)
		}
	}
	wins, _ := store.ListMicroWins(storage.JournalQuery{Limit: 2})
	if len(wins) != 2 {
		t.Fatalf("expected limit 2, got %d", len(wins))
	}
	if !wins[0].CreatedAt.After(wins[1].CreatedAt) {
		t.Error("expected newest first")
	}
	ranged, _ := store.ListMicroWins(storage.JournalQuery{Since: now.Add(90 * time.Minute)})
	if len(ranged) != 1 {
		t.Errorf("expected 1 win since +90m, got %d", len(ranged))
	}
}

func TestSupportContactsAndSafetyPlan(t *testing.T) {
	store := setupTestStore(t)

	contact := models.SupportContact{
		ID:           uuid.New().String(),
		UserID:       "u",
		Name:         "Sam",
		Phone:        "+15550100",
		Relationship: "friend",
		CreatedAt:    time.Now(),
	}
	therapist := contact
	therapist.ID = uuid.New().String()
	therapist.Name = "Dr. Lee"
	therapist.IsProfessional = true
	for _, c := range []models.SupportContact{contact, therapist} {
		if err := store.AddSupportContact(c); err != nil {
			t.Fatal(err)
		}
	}

	contacts, err := store.ListSupportContacts("u")
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 2 || contacts[0].Name != "Dr. Lee" {
		t.Errorf("expected professionals first, got %+v", contacts)
	}

	if _, err := store.GetSafetyPlan("u"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing plan, got %v", err)
	}

	plan := models.SafetyPlan{
		UserID:           "u",
		WarningSigns:     []string{"not sleeping"},
		CopingStrategies: []string{"walk", "music"},
		UpdatedAt:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.SaveSafetyPlan(plan); err != nil {
		t.Fatal(err)
	}
	plan.ReasonsToLive = []string{"my sister"}
	if err := store.SaveSafetyPlan(plan); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetSafetyPlan("u")
	if err != nil {
		t.Fatal(err)
	}
	want := plan
	want.SafePlaces = []string{}
	want.ProfessionalContacts = []string{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}
