// Package audit records durable operational audit events for the feedback
// service. Events are best-effort: emission failures are logged by callers
// and never fail the request that triggered them.
package audit

import (
	"context"
	"time"

	"github.com/louisbranch/stepwise/internal/platform/id"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
)

// Severity describes the audit severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Canonical audit event names.
const (
	// HTTPRead captures durable audit events for read-only HTTP handlers.
	HTTPRead = "telemetry.http.read"
	// HTTPWrite captures durable audit events for write-path HTTP handlers.
	HTTPWrite = "telemetry.http.write"
)

// Emitter records operational audit events.
type Emitter struct {
	store storage.AuditEventStore
	clock func() time.Time
	newID func() (string, error)
}

// NewEmitter creates a new audit event emitter.
func NewEmitter(store storage.AuditEventStore) *Emitter {
	return &Emitter{store: store, clock: time.Now, newID: id.NewID}
}

// Emit records an audit event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, event storage.AuditEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if event.ID == "" {
		eventID, err := e.newID()
		if err != nil {
			return err
		}
		event.ID = eventID
	}
	if event.OccurredAt.IsZero() {
		if e.clock == nil {
			event.OccurredAt = time.Now().UTC()
		} else {
			event.OccurredAt = e.clock().UTC()
		}
	}
	return e.store.AppendAuditEvent(ctx, event)
}
