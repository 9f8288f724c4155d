package models

import "time"

// Habit is a recurring behavior the user wants to track.
type Habit struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Schedule     string    `json:"schedule" yaml:"schedule"`                               // 7 chars of 0/1, Monday first
	ReminderTime string    `json:"reminder_time,omitempty" yaml:"reminder_time,omitempty"` // HH:MM or empty
	Enabled      bool      `json:"enabled" yaml:"enabled"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// ScheduledOn reports whether the habit's schedule includes the weekday.
func (h Habit) ScheduledOn(wd time.Weekday) bool {
	// Monday is index 0 in the schedule mask
	idx := (int(wd) + 6) % 7
	if len(h.Schedule) != 7 {
		return true
	}
	return h.Schedule[idx] == '1'
}

// HabitTick is the per-day completion record for a habit.
// (HabitID, Date) is unique.
type HabitTick struct {
	HabitID string `json:"habit_id" yaml:"habit_id"`
	Date    string `json:"date" yaml:"date"` // YYYY-MM-DD
	Done    bool   `json:"done" yaml:"done"`
}
