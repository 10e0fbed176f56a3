package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/pomohabit/internal/backup"
	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/storage"
	"github.com/julianstephens/pomohabit/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	optional bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, optional: true},
	{name: "Timezone", run: checkTimezone, needsDB: true},
	{name: "Session integrity", run: checkSessionIntegrity, needsDB: true},
	{name: "Abandoned sessions", run: checkAbandonedSessions, needsDB: true, optional: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := 0
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case c.optional:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed++
		}
	}

	ctx.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	_, err := ctx.Store.GetSettings()
	return err
}

func checkSchemaVersion(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	return r.Validate()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	pending, err := r.Pending()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%d pending migration(s), run 'pomohabit migrate'", pending)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if storage.IsPostgres(path) {
		return nil
	}
	mgr := backup.NewManager(path)
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s, run 'pomohabit backup create'", mgr.Dir())
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if _, err := utils.LocationFromSettings(settings); err != nil {
		return err
	}
	if time.Now().Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", time.Now().Format(time.RFC3339))
	}
	return nil
}

// checkSessionIntegrity looks for sessions and notes whose habit is gone
// and sessions that end before they start.
func checkSessionIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	sessions, err := ctx.Store.GetSessionsInRange(zero, zero)
	if err != nil {
		return err
	}
	notes, err := ctx.Store.GetNotesInRange(zero, zero)
	if err != nil {
		return err
	}

	orphans, inverted := 0, 0
	for _, s := range sessions {
		if !known[s.HabitID] {
			orphans++
		}
		if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
			inverted++
		}
	}
	for _, n := range notes {
		if !known[n.HabitID] {
			orphans++
		}
	}

	if orphans > 0 {
		return fmt.Errorf("found %d sessions or notes referencing deleted habits", orphans)
	}
	if inverted > 0 {
		return fmt.Errorf("found %d sessions ending before they start", inverted)
	}
	return nil
}

// checkAbandonedSessions reports open sessions older than a day, left by
// paused timers that were never resumed.
func checkAbandonedSessions(ctx *cli.Context) error {
	cutoff := time.Now().Add(-24 * time.Hour)
	sessions, err := ctx.Store.GetSessionsInRange(zero, cutoff)
	if err != nil {
		return err
	}
	open := 0
	for _, s := range sessions {
		if !s.Completed() {
			open++
		}
	}
	if open > 0 {
		return fmt.Errorf("%d open sessions older than a day; they do not count toward progress", open)
	}
	return nil
}
