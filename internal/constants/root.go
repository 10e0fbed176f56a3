package constants

import "time"

const (
	AppName            = "pomohabit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/pomohabit/pomohabit.db"
	DefaultConfigFile  = "~/.config/pomohabit/config.yaml"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "pomohabit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "pomohabit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.pomohabit"
	TrayAppExecutable      = "pomohabit-tray"

	// Environment variables
	EnvDBConnection = "POMOHABIT_DB_CONNECTION"
)

// Interval lengths. These are fixed; there is no setting for them.
const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute

	// TickInterval is the unit the timer counts down by.
	TickInterval = time.Second

	// DailyTarget is the number of completed work sessions that fills a day's progress.
	DailyTarget = 4
)
