package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyMigrationsRunsEachFileOnce(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE widgets (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE widgets;
`)},
		"0002_more.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
ALTER TABLE widgets ADD COLUMN name TEXT NOT NULL DEFAULT '';
`)},
	}

	db := openTestDB(t)
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// Second run must be a no-op.
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	if _, err := db.Exec("INSERT INTO widgets (id, name) VALUES ('w1', 'one')"); err != nil {
		t.Fatalf("use migrated schema: %v", err)
	}

	var applied int
	if err := db.QueryRow("SELECT COUNT(1) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", applied)
	}
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	content := `
-- +migrate Up
CREATE TABLE a (id TEXT);
-- +migrate Down
DROP TABLE a;
`
	up := ExtractUpMigration(content)
	if want := "\nCREATE TABLE a (id TEXT);\n"; up != want {
		t.Fatalf("up section = %q, want %q", up, want)
	}

	noMarkers := "CREATE TABLE b (id TEXT);"
	if got := ExtractUpMigration(noMarkers); got != noMarkers {
		t.Fatalf("expected passthrough without markers, got %q", got)
	}
}
