// Package seed installs demo roster fixtures into a local feedback
// database. The HTTP API treats the roster as read-only, so this command
// is how a development database gets its projects, steps, and users.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/louisbranch/stepwise/internal/platform/cmd"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"STEPWISE_FEEDBACK_DB_PATH" envDefault:"feedback.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the feedback SQLite database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DemoRoster is the fixture installed by default: one project with a
// two-step checkout walkthrough and two client reviewers.
func DemoRoster() sqlite.RosterFixture {
	return sqlite.RosterFixture{
		ProjectID:   "project-demo",
		ProjectName: "Demo Rollout",
		Suites: []sqlite.SuiteFixture{{
			ID:   "suite-checkout",
			Name: "Checkout",
			Cases: []sqlite.CaseFixture{{
				ID:   "case-guest-checkout",
				Name: "Guest checkout",
				Steps: []sqlite.StepFixture{
					{ID: "step-open-cart", Description: "Open the cart and review the order"},
					{ID: "step-pay", Description: "Pay with a test card and confirm the receipt"},
				},
			}},
		}},
		Users: []sqlite.UserFixture{
			{ID: "user-alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Reviewer", Role: "client"},
			{ID: "user-bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Reviewer", Role: "client"},
		},
	}
}

// Run opens the database, applies migrations, and installs the demo
// fixture. Re-running is safe; existing rows are left untouched.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open feedback store: %w", err)
	}
	defer store.Close()

	fixture := DemoRoster()
	if err := store.SeedRoster(ctx, fixture); err != nil {
		return fmt.Errorf("seed roster: %w", err)
	}

	fmt.Fprintf(out, "Seeded project %s into %s\n", fixture.ProjectID, cfg.DBPath)
	for _, user := range fixture.Users {
		fmt.Fprintf(out, "  reviewer: %s\n", user.Email)
	}
	return nil
}
