// Package storage defines the persistence contracts for the feedback
// service. Implementations live in subpackages; callers depend on these
// interfaces only.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// FeedbackRecord is one persisted feedback event row.
type FeedbackRecord struct {
	Seq         int64
	ID          string
	StepID      string
	UserID      string
	Notes       string
	StatusID    int64
	StatusLabel string
	CreatedAt   time.Time
}

// StepRecord is one persisted step row.
type StepRecord struct {
	ID          string
	CaseID      string
	Ordinal     int
	Description string
}

// UserRecord is one persisted user row.
type UserRecord struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      string
	CreatedAt time.Time
}

// StatusRecord is one row of the seeded status label set.
type StatusRecord struct {
	ID    int64
	Label string
}

// AuditEvent records one request-scoped operation for traceability.
type AuditEvent struct {
	ID         string
	EventName  string
	Severity   string
	UserEmail  string
	Resource   string
	TraceID    string
	SpanID     string
	Detail     string
	OccurredAt time.Time
}

// FeedbackLog is the append-only feedback event store.
//
// AppendFeedback assigns Seq and returns the stored record. List results
// are ordered newest first: created_at descending, then Seq descending so
// same-timestamp events resolve to the later insert.
type FeedbackLog interface {
	AppendFeedback(ctx context.Context, record FeedbackRecord) (FeedbackRecord, error)
	ListFeedbackByPair(ctx context.Context, stepID, userID string) ([]FeedbackRecord, error)
	ListFeedbackByStep(ctx context.Context, stepID string) ([]FeedbackRecord, error)
	ListFeedbackByProject(ctx context.Context, projectID string) ([]FeedbackRecord, error)
}

// RosterStore reads the directory data feedback hangs off of: projects,
// steps, users, and the status label set. All reads are read-only here;
// roster ownership belongs to the wider platform.
type RosterStore interface {
	GetStep(ctx context.Context, stepID string) (StepRecord, error)
	StepsForCase(ctx context.Context, caseID string) ([]StepRecord, error)
	StepsForProject(ctx context.Context, projectID string) ([]StepRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	ClientUsersForProject(ctx context.Context, projectID string) ([]UserRecord, error)
	ProjectForStep(ctx context.Context, stepID string) (string, error)
	ListStatusLabels(ctx context.Context) ([]StatusRecord, error)
}

// AuditEventStore persists audit events emitted around API operations.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, event AuditEvent) error
}

// Store is the full persistence surface the feedback app wires together.
type Store interface {
	FeedbackLog
	RosterStore
	AuditEventStore

	Close() error
}
