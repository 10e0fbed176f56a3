package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, out, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(out.String(), "Initialized pomohabit storage") {
		t.Errorf("unexpected output: %q", out.String())
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.Timezone != "Local" {
		t.Errorf("Timezone = %q, want Local", settings.Timezone)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, out, _ := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	habit := models.Habit{ID: "h1", Title: "Read", CreatedAt: time.Now()}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("expected deletion message, got %q", out.String())
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected empty database after --force, found %d habits", len(habits))
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, _, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "same") {
		t.Errorf("expected same-path error, got %v", err)
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "source.db")
	src := sqlite.NewStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatalf("failed to init source: %v", err)
	}
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)
	if err := src.AddHabit(models.Habit{ID: "h1", Title: "Read", CreatedAt: start}); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if err := src.AddSession(models.Session{ID: "s1", HabitID: "h1", StartTime: start, EndTime: &end}); err != nil {
		t.Fatalf("AddSession() error = %v", err)
	}
	if err := src.AddNote(models.Note{ID: "n1", HabitID: "h1", Text: "ch. 3", CreatedAt: end}); err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	ctx, out, _ := setupTestInitDB(t)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}
	for _, want := range []string{"Copied 1 habits", "Copied 1 sessions", "Copied 1 notes"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q: %q", want, out.String())
		}
	}

	sessions, err := ctx.Store.GetSessionsForHabit("h1", zero, zero)
	if err != nil {
		t.Fatalf("GetSessionsForHabit() error = %v", err)
	}
	if len(sessions) != 1 || sessions[0].EndTime == nil || !sessions[0].EndTime.Equal(end) {
		t.Errorf("copied sessions = %+v", sessions)
	}
}
