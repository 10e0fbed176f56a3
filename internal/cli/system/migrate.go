package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/migration"
)

var zero time.Time

// migrator is implemented by both storage backends.
type migrator interface {
	Migrations() (*migration.Runner, error)
}

func runner(ctx *cli.Context) (*migration.Runner, error) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil, fmt.Errorf("storage backend does not support migrations")
	}
	return m.Migrations()
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	r, err := runner(ctx)
	if err != nil {
		return err
	}
	current, err := r.CurrentVersion()
	if err != nil {
		return err
	}
	applied, err := r.Apply()
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if applied == 0 {
		ctx.Printf("✓ Schema is up to date (version %d)\n", current)
		return nil
	}
	latest, err := r.CurrentVersion()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Applied %d migration(s): version %d → %d\n", applied, current, latest)
	return nil
}
