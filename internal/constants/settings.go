package constants

const (
	SettingUserID             = "user_id"
	SettingTimezone           = "timezone"
	SettingOnboardingComplete = "onboarding_complete"
	SettingStreakLookbackDays = "streak_lookback_days"
	SettingNotifications      = "notifications_enabled"
	SettingJournalEncryption  = "journal_encryption"
	SettingJournalSalt        = "journal_salt"
	SettingLastReminderCheck  = "last_reminder_check"

	DefaultTimezone           = "Local" // Use system local timezone by default
	DefaultStreakLookbackDays = 365
	DefaultNotifications      = true
	DefaultJournalEncryption  = false
	DefaultHabitSchedule      = "1111111"
)
