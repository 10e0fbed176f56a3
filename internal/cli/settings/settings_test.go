package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/pomohabit/internal/cli"
	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/models"
	"github.com/julianstephens/pomohabit/internal/storage/sqlite"
)

// 05:00 UTC is 01:00 in New York on the same day.
var now = time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.SaveSettings(models.Settings{Timezone: "UTC"}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return store
}

func newContext(store *sqlite.Store) (*cli.Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out, Clock: func() time.Time { return now }}, out
}

func strPtr(s string) *string { return &s }

func TestSettingsCmd_List(t *testing.T) {
	ctx, out := newContext(setupTestDB(t))

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Timezone:   UTC") {
		t.Errorf("unexpected list output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Local time:") {
		t.Errorf("expected local time line, got %q", out.String())
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out := newContext(setupTestDB(t))

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestSettingsCmd_UpdateTimezone(t *testing.T) {
	store := setupTestDB(t)
	ctx, out := newContext(store)

	if err := (&SettingsCmd{Timezone: strPtr("Europe/Paris"), List: true}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	if !strings.Contains(out.String(), "Settings updated successfully.") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Timezone:   Europe/Paris") {
		t.Errorf("expected updated timezone in listing, got %q", out.String())
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "Europe/Paris" {
		t.Errorf("expected Europe/Paris, got %q", settings.Timezone)
	}

	if err := (&SettingsCmd{Timezone: strPtr("  ")}).Run(ctx); err != nil {
		t.Fatalf("settings reset failed: %v", err)
	}
	settings, _ = store.GetSettings()
	if settings.Timezone != "Local" {
		t.Errorf("expected blank timezone to reset to Local, got %q", settings.Timezone)
	}
}

func TestSettingsCmd_RejectsUnknownTimezone(t *testing.T) {
	store := setupTestDB(t)
	ctx, _ := newContext(store)

	err := (&SettingsCmd{Timezone: strPtr("Mars/Olympus_Mons")}).Run(ctx)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	settings, _ := store.GetSettings()
	if settings.Timezone != "UTC" {
		t.Errorf("expected timezone to stay UTC, got %q", settings.Timezone)
	}
}

func TestTimezoneMovesDayBoundary(t *testing.T) {
	store := setupTestDB(t)
	ctx, _ := newContext(store)

	m, err := ctx.Tracker()
	if err != nil {
		t.Fatalf("Tracker() error = %v", err)
	}
	habit, err := m.AddHabit("Read", "")
	if err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	// 03:00 UTC on the 10th is 23:00 on the 9th in New York.
	start := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	end := start.Add(25 * time.Minute)
	if err := store.AddSession(models.Session{ID: "s1", HabitID: habit.ID, StartTime: start, EndTime: &end}); err != nil {
		t.Fatalf("AddSession() error = %v", err)
	}

	dash, err := m.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dash.Summary.TotalPomodoros != 1 {
		t.Errorf("expected 1 pomodoro in UTC, got %d", dash.Summary.TotalPomodoros)
	}

	if err := (&SettingsCmd{Timezone: strPtr("America/New_York")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	next, _ := newContext(store)
	m, err = next.Tracker()
	if err != nil {
		t.Fatalf("Tracker() error = %v", err)
	}
	if m.Location().String() != "America/New_York" {
		t.Errorf("expected America/New_York, got %s", m.Location())
	}
	dash, err = m.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dash.Summary.TotalPomodoros != 0 {
		t.Errorf("expected the session to fall on the previous New York day, got %d", dash.Summary.TotalPomodoros)
	}
	if got := dash.Day.Format("2006-01-02 15:04 MST"); got != "2026-03-10 00:00 EDT" {
		t.Errorf("unexpected day start %s", got)
	}
}
