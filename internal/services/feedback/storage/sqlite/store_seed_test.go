package sqlite

import (
	"context"
	"testing"
)

func demoFixture() RosterFixture {
	return RosterFixture{
		ProjectID:   "project-demo",
		ProjectName: "Demo Rollout",
		Suites: []SuiteFixture{{
			ID:   "suite-demo",
			Name: "Checkout",
			Cases: []CaseFixture{{
				ID:   "case-demo",
				Name: "Guest checkout",
				Steps: []StepFixture{
					{ID: "step-demo-1", Description: "Open the cart"},
					{ID: "step-demo-2", Description: "Pay with card"},
				},
			}},
		}},
		Users: []UserFixture{
			{ID: "user-demo-1", Email: "alice@example.com", FirstName: "Alice", LastName: "Demo", Role: "client"},
			{ID: "user-demo-2", Email: "bob@example.com", FirstName: "Bob", LastName: "Demo", Role: "client"},
		},
	}
}

func TestSeedRosterInstallsFixture(t *testing.T) {
	t.Parallel()
	s := openTempStore(t)
	ctx := context.Background()

	if err := s.SeedRoster(ctx, demoFixture()); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	steps, err := s.StepsForProject(ctx, "project-demo")
	if err != nil {
		t.Fatalf("steps for project: %v", err)
	}
	if len(steps) != 2 || steps[0].ID != "step-demo-1" || steps[1].ID != "step-demo-2" {
		t.Fatalf("unexpected steps: %+v", steps)
	}

	users, err := s.ClientUsersForProject(ctx, "project-demo")
	if err != nil {
		t.Fatalf("client users: %v", err)
	}
	if len(users) != 2 || users[0].ID != "user-demo-1" || users[1].ID != "user-demo-2" {
		t.Fatalf("unexpected roster order: %+v", users)
	}
}

func TestSeedRosterIsIdempotent(t *testing.T) {
	t.Parallel()
	s := openTempStore(t)
	ctx := context.Background()

	if err := s.SeedRoster(ctx, demoFixture()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := s.SeedRoster(ctx, demoFixture()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	steps, err := s.StepsForProject(ctx, "project-demo")
	if err != nil {
		t.Fatalf("steps for project: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected fixture rows once, got %+v", steps)
	}
}

func TestSeedRosterRequiresProject(t *testing.T) {
	t.Parallel()
	s := openTempStore(t)

	if err := s.SeedRoster(context.Background(), RosterFixture{}); err == nil {
		t.Fatal("expected error for missing project id")
	}
}
