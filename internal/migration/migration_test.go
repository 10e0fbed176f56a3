package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/pomohabit/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func TestCurrentVersionFresh(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(nil), SQLite)

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestMigrationsSortedAndParsed(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"002_second.sql": "CREATE TABLE b (id INTEGER);",
		"001_first.sql":  "CREATE TABLE a (id INTEGER);",
		"README.md":      "ignored",
	}), SQLite)

	got, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" {
		t.Errorf("unexpected first migration: %+v", got[0])
	}
	if got[1].Version != 2 || got[1].Name != "second" {
		t.Errorf("unexpected second migration: %+v", got[1])
	}
}

func TestMigrationsRejectsBadNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{name: "no underscore", files: map[string]string{"001.sql": "SELECT 1;"}, want: "invalid migration filename"},
		{name: "non-numeric", files: map[string]string{"abc_x.sql": "SELECT 1;"}, want: "invalid version"},
		{name: "zero version", files: map[string]string{"000_x.sql": "SELECT 1;"}, want: "invalid version"},
		{name: "duplicate", files: map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}, want: "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(setupTestDB(t), mapFS(tt.files), SQLite).Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyIsIncremental(t *testing.T) {
	db := setupTestDB(t)
	files := mapFS(map[string]string{
		"001_first.sql": "CREATE TABLE a (id INTEGER);",
	})

	applied, err := NewRunner(db, files, SQLite).Apply()
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}

	files["002_second.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE b (id INTEGER);")}
	runner := NewRunner(db, files, SQLite)
	pending, err := runner.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("expected 1 pending, got %d", pending)
	}

	applied, err = runner.Apply()
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied on second run, got %d", applied)
	}

	version, _ := runner.CurrentVersion()
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE a (id INTEGER);",
		"002_broken.sql": "CREATE TABLE (",
	}), SQLite)

	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 applied before failure, got %d", applied)
	}
	version, _ := runner.CurrentVersion()
	if version != 1 {
		t.Errorf("expected version to stay at 1, got %d", version)
	}
}

func TestValidateNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{"001_a.sql": "CREATE TABLE a (id INTEGER);"}), SQLite)
	if _, err := runner.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	if err := runner.Validate(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("expected newer-schema error, got %v", err)
	}
	if _, err := runner.Apply(); err == nil {
		t.Error("Apply should refuse a newer schema")
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	db := setupTestDB(t)
	if _, err := NewRunner(db, sub, SQLite).Apply(); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	for _, table := range []string{"settings", "habits", "sessions", "notes"} {
		var n int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s missing (n=%d, err=%v)", table, n, err)
		}
	}
}
