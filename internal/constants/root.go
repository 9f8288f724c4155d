package constants

const (
	AppName            = "steady"
	DefaultKeyringUser = "database-connection"
	JournalKeyringUser = "journal-passphrase"
	DefaultConfigPath  = "~/.config/steady/steady.db"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string when set
	EnvDBConnection = "STEADY_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is how timestamps are persisted. Always UTC so that
	// lexical order matches chronological order in both backends.
	TimestampFormat = "2006-01-02T15:04:05Z"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "steady-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "steady-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.steady"
	TrayExecutablePrefix   = "steady-tray"

	// Scales
	MinMoodLevel      = 0
	MaxMoodLevel      = 10
	MinIntensity      = 1
	MaxIntensity      = 10
	MaxTagLength      = 32
	MaxTagsPerEntry   = 12
	DefaultListLimit  = 20
	MaxTitleLength    = 80
	HabitScheduleSize = 7

	// Streak lookback bounds in days
	MinStreakLookbackDays = 30
	MaxStreakLookbackDays = 365

	// TrendThresholdPercent is the band around zero treated as stable
	TrendThresholdPercent = 5.0
)
