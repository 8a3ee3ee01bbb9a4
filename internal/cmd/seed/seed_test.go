package seed

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/stepwise/internal/services/feedback/storage/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "feedback.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestRunSeedsDemoRoster(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "feedback.db")
	var out bytes.Buffer

	if err := Run(context.Background(), Config{DBPath: dbPath}, &out); err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if !strings.Contains(out.String(), "project-demo") {
		t.Fatalf("expected seed summary, got %q", out.String())
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	steps, err := store.StepsForProject(context.Background(), "project-demo")
	if err != nil {
		t.Fatalf("steps for project: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected demo steps, got %+v", steps)
	}
}
