package domain

import "time"

// Role identifies how a user participates in a project.
type Role string

const (
	// RoleSupplier authors suites, cases, and steps.
	RoleSupplier Role = "supplier"
	// RoleClient reviews cases step by step and records feedback.
	RoleClient Role = "client"
)

// Status label set. The set is closed and mirrored by the seeded
// step_statuses table; StatusNotStarted is the synthesized sentinel for
// pairs without feedback and is never persisted as an event.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusPassed     = "Passed"
	StatusFailed     = "Failed"
)

// StatusLabel is one entry of the configured status label set.
type StatusLabel struct {
	ID    int64
	Label string
}

// Step is one unit of work within a case, with a fixed ordinal position.
// Steps are owned by the directory and read-only to this service.
type Step struct {
	ID          string
	CaseID      string
	Ordinal     int
	Description string
}

// User is a project participant. Owned externally; read-only here.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
}

// FeedbackEvent is one immutable feedback submission for a (step, user) pair.
//
// Seq is assigned by storage on append and breaks creation-timestamp ties:
// for equal timestamps the higher sequence is the later-created event.
type FeedbackEvent struct {
	Seq         int64
	ID          string
	StepID      string
	UserID      string
	Notes       string
	StatusID    int64
	StatusLabel string
	CreatedAt   time.Time
}
