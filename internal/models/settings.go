package models

// Settings represents application-wide settings
type Settings struct {
	UserID             string `json:"user_id"`
	Timezone           string `json:"timezone"` // IANA timezone name or "Local"
	OnboardingComplete bool   `json:"onboarding_complete"`
	StreakLookbackDays int    `json:"streak_lookback_days"`
	NotificationsOn    bool   `json:"notifications_enabled"`
	JournalEncryption  bool   `json:"journal_encryption"`
	JournalSalt        string `json:"journal_salt,omitempty"` // base64 argon2id salt
	LastReminderCheck  string `json:"last_reminder_check,omitempty"`
}
