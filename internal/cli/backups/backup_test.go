package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/pomohabit/internal/backup"
	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/storage/postgres"
	"github.com/julianstephens/pomohabit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out, store
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, _ := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: pomohabit-") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out, store := setupTestDB(t)

	if err := store.AddHabit(models.Habit{ID: "h1", Title: "Read", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	info, err := backup.NewManager(store.GetConfigPath()).Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.AddHabit(models.Habit{ID: "h2", Title: "Write", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if err := (&BackupRestoreCmd{BackupFile: info.Name(), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Database restored successfully!") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Created backup of current database") {
		t.Errorf("expected a pre-restore snapshot: %q", out.String())
	}

	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	habits, err := store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != 1 || habits[0].ID != "h1" {
		t.Errorf("restored habits = %+v", habits)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, store := setupTestDB(t)
	info, err := backup.NewManager(store.GetConfigPath()).Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ctx.In = strings.NewReader("no\n")

	if err := (&BackupRestoreCmd{BackupFile: info.Path}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, _ := setupTestDB(t)
	err := (&BackupRestoreCmd{BackupFile: "pomohabit-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupRejectsPostgres(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://user@localhost/pomohabit"), Out: &bytes.Buffer{}}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backups to be refused for PostgreSQL")
	}
}
