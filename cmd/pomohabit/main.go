package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	_ "time/tzdata"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/cli/backups"
	"github.com/julianstephens/pomohabit/internal/cli/habits"
	"github.com/julianstephens/pomohabit/internal/cli/pomodoro"
	"github.com/julianstephens/pomohabit/internal/cli/settings"
	"github.com/julianstephens/pomohabit/internal/cli/system"
	"github.com/julianstephens/pomohabit/internal/config"
	"github.com/julianstephens/pomohabit/internal/constants"
	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"SQLite database path, PostgreSQL connection string without a password, or 'postgres' to read the connection string from POMOHABIT_DB_CONNECTION or the OS keyring." default:"${default_db}" env:"POMOHABIT_DB"`
	ConfigFile string `help:"YAML file with default flag values." name:"config-file" default:"${default_config_file}" env:"POMOHABIT_CONFIG_FILE"`
	Debug      bool   `help:"Log at debug level and mirror logs to stderr." env:"POMOHABIT_DEBUG"`
	LogLevel   string `help:"Log level: debug, info, warn or error." name:"log-level" env:"POMOHABIT_LOG_LEVEL"`
	Notify     bool   `help:"Send a desktop notification when an interval ends." env:"POMOHABIT_NOTIFY"`

	Init     system.InitCmd       `cmd:"" help:"Initialize pomohabit storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Note     habits.NoteCmd       `cmd:"" help:"Manage habit notes."`
	Focus    pomodoro.FocusCmd    `cmd:"" help:"Run one work or break interval in the foreground."`
	Today    pomodoro.TodayCmd    `cmd:"" help:"Show today's progress across all habits."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"View or change settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// Commands that open the store themselves, or do not use it.
var selfLoading = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	configFile := config.ExpandHome(config.FileFromArgs(os.Args[1:], constants.DefaultConfigFile))

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Pomodoro timer and daily habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAMLLoader, configFile),
		kong.Vars{
			"version":             constants.Version,
			"default_db":          constants.DefaultConfigPath,
			"default_config_file": constants.DefaultConfigFile,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		Level:     CLI.LogLevel,
		ConfigDir: logDir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	command := strings.Fields(ctx.Command())[0]
	appCtx := &cli.Context{Notify: CLI.Notify}

	if command != "keyring" {
		store, err := cli.NewStore(CLI.Config)
		if err != nil {
			apperr.Fatal(err)
		}
		appCtx.Store = store
		if !selfLoading[command] {
			if err := store.Load(); err != nil {
				apperr.Fatal(err)
			}
		}
	}

	err := ctx.Run(appCtx)
	if appCtx.Store != nil {
		if cerr := appCtx.Store.Close(); cerr != nil {
			logger.Warn("Failed to close store", "error", cerr)
		}
	}
	apperr.Fatal(err)
}

// logDir keeps logs next to a SQLite database, or in the default config
// directory for PostgreSQL.
func logDir(cfg string) string {
	if cfg == cli.PostgresFromEnvironment || storage.IsPostgres(cfg) {
		return filepath.Dir(config.ExpandHome(constants.DefaultConfigPath))
	}
	return filepath.Dir(config.ExpandHome(cfg))
}
