package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RosterFixture describes a project directory to install for local
// development. The API never writes roster rows, so fixtures are the only
// supported path for creating projects, steps, and users.
type RosterFixture struct {
	ProjectID   string
	ProjectName string
	Suites      []SuiteFixture
	Users       []UserFixture
}

// SuiteFixture is one suite with its cases.
type SuiteFixture struct {
	ID    string
	Name  string
	Cases []CaseFixture
}

// CaseFixture is one case with its ordered steps.
type CaseFixture struct {
	ID    string
	Name  string
	Steps []StepFixture
}

// StepFixture is one step. Ordinal is assigned from slice position.
type StepFixture struct {
	ID          string
	Description string
}

// UserFixture is one user enrolled in the fixture's project.
type UserFixture struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// SeedRoster installs a roster fixture inside one transaction. Rows that
// already exist are left untouched, so re-running a fixture is safe.
func (s *Store) SeedRoster(ctx context.Context, fixture RosterFixture) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(fixture.ProjectID) == "" {
		return fmt.Errorf("fixture project id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(time.Now())
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO projects (id, name, created_at) VALUES (?, ?, ?)",
		fixture.ProjectID, fixture.ProjectName, now); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	for i, suite := range fixture.Suites {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO suites (id, project_id, name, created_at) VALUES (?, ?, ?, ?)",
			suite.ID, fixture.ProjectID, suite.Name, now+int64(i)); err != nil {
			return fmt.Errorf("seed suite %s: %w", suite.ID, err)
		}
		for j, c := range suite.Cases {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO cases (id, suite_id, name, created_at) VALUES (?, ?, ?, ?)",
				c.ID, suite.ID, c.Name, now+int64(j)); err != nil {
				return fmt.Errorf("seed case %s: %w", c.ID, err)
			}
			for ordinal, step := range c.Steps {
				if _, err := tx.ExecContext(ctx,
					"INSERT OR IGNORE INTO steps (id, case_id, ordinal, description, created_at) VALUES (?, ?, ?, ?, ?)",
					step.ID, c.ID, ordinal, step.Description, now); err != nil {
					return fmt.Errorf("seed step %s: %w", step.ID, err)
				}
			}
		}
	}

	// created_at offsets keep roster order matching fixture order.
	for i, user := range fixture.Users {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO users (id, email, first_name, last_name, role, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			user.ID, user.Email, user.FirstName, user.LastName, user.Role, now+int64(i)); err != nil {
			return fmt.Errorf("seed user %s: %w", user.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO project_members (project_id, user_id, created_at) VALUES (?, ?, ?)",
			fixture.ProjectID, user.ID, now); err != nil {
			return fmt.Errorf("seed membership %s: %w", user.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}
