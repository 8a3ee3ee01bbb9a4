package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
)

// AppendAuditEvent persists one audit event row.
func (s *Store) AppendAuditEvent(ctx context.Context, event storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	event.ID = strings.TrimSpace(event.ID)
	event.EventName = strings.TrimSpace(event.EventName)
	if event.ID == "" {
		return fmt.Errorf("audit event id is required")
	}
	if event.EventName == "" {
		return fmt.Errorf("audit event name is required")
	}
	if event.OccurredAt.IsZero() {
		return fmt.Errorf("audit event occurred_at is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO audit_events (id, event_name, severity, user_email, resource, trace_id, span_id, detail, occurred_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, event.ID, event.EventName, event.Severity, event.UserEmail, event.Resource,
		event.TraceID, event.SpanID, event.Detail, toMillis(event.OccurredAt))
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
