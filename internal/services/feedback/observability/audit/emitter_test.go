package audit

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
)

type captureStore struct {
	events []storage.AuditEvent
}

func (c *captureStore) AppendAuditEvent(_ context.Context, event storage.AuditEvent) error {
	c.events = append(c.events, event)
	return nil
}

func TestEmitFillsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	store := &captureStore{}
	emitter := NewEmitter(store)
	emitter.clock = func() time.Time {
		return time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	}
	emitter.newID = func() (string, error) { return "audit-1", nil }

	err := emitter.Emit(context.Background(), storage.AuditEvent{
		EventName: HTTPWrite,
		Severity:  string(SeverityInfo),
		UserEmail: "client@example.com",
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	event := store.events[0]
	if event.ID != "audit-1" {
		t.Fatalf("expected generated id, got %q", event.ID)
	}
	if !event.OccurredAt.Equal(time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected clock timestamp, got %v", event.OccurredAt)
	}
}

func TestEmitNilStoreIsNoOp(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter(nil)
	if err := emitter.Emit(context.Background(), storage.AuditEvent{EventName: HTTPRead}); err != nil {
		t.Fatalf("expected nil-store no-op, got %v", err)
	}
}
