package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/storage"
	"github.com/julianstephens/pomohabit/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized pomohabit storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

// reset deletes an existing SQLite database file.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if storage.IsPostgres(dbPath) {
		return errors.New("--force is only supported for SQLite databases")
	}
	if c.Source != "" {
		absDB, err1 := filepath.Abs(dbPath)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	_, err := os.Stat(dbPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ctx.PerformAutomaticBackup("init --force")
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyData copies settings, habits, sessions and notes from another store.
func (c *InitCmd) copyData(ctx *cli.Context) error {
	if storage.IsPostgres(c.Source) {
		if err := postgres.ValidateConnString(c.Source); err != nil {
			return err
		}
	}
	src := storage.New(c.Source)
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	habits, err := src.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := ctx.Store.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("    Copied %d habits\n", len(habits))

	sessions, err := src.GetSessionsInRange(zero, zero)
	if err != nil {
		return fmt.Errorf("failed to get sessions from source: %w", err)
	}
	for _, s := range sessions {
		if err := ctx.Store.AddSession(s); err != nil {
			return fmt.Errorf("failed to add session %s: %w", s.ID, err)
		}
	}
	ctx.Printf("    Copied %d sessions\n", len(sessions))

	notes, err := src.GetNotesInRange(zero, zero)
	if err != nil {
		return fmt.Errorf("failed to get notes from source: %w", err)
	}
	for _, n := range notes {
		if err := ctx.Store.AddNote(n); err != nil {
			return fmt.Errorf("failed to add note %s: %w", n.ID, err)
		}
	}
	ctx.Printf("    Copied %d notes\n", len(notes))
	return nil
}
