package models

import "time"

// MoodEntry is a single check-in.
type MoodEntry struct {
	ID          string    `json:"id" yaml:"id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	MoodLevel   int       `json:"mood_level" yaml:"mood_level"`     // 0-10
	EmotionTags []string  `json:"emotion_tags" yaml:"emotion_tags"` // ordered, normalized
	Notes       string    `json:"notes" yaml:"notes"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Day         string    `json:"day" yaml:"day"` // YYYY-MM-DD in the user's timezone
}

// MoodAggregate is the count/avg/min/max row for a date range.
type MoodAggregate struct {
	Count      int
	Average    float64
	Min        int
	Max        int
	ActiveDays int
}

// DailyMood is the average mood for one calendar day.
type DailyMood struct {
	Day     string
	Average float64
	Count   int
}

// TagCount is the raw per-tag occurrence count for a date range.
type TagCount struct {
	Tag     string
	Count   int
	AvgMood float64
}
