package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
)

type fakeStore struct {
	steps     map[string]Step
	users     map[string]User
	labels    []StatusLabel
	events    []FeedbackEvent
	nextSeq   int64
	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		steps: map[string]Step{},
		users: map[string]User{},
		labels: []StatusLabel{
			{ID: 1, Label: StatusNotStarted},
			{ID: 2, Label: StatusInProgress},
			{ID: 3, Label: StatusPassed},
			{ID: 4, Label: StatusFailed},
		},
	}
}

func (f *fakeStore) GetStep(_ context.Context, stepID string) (Step, error) {
	step, ok := f.steps[stepID]
	if !ok {
		return Step{}, apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return step, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, apperrors.New(apperrors.CodeNotFound, "record not found")
}

func (f *fakeStore) ListStatusLabels(_ context.Context) ([]StatusLabel, error) {
	return f.labels, nil
}

func (f *fakeStore) AppendFeedback(_ context.Context, event FeedbackEvent) (FeedbackEvent, error) {
	if f.appendErr != nil {
		return FeedbackEvent{}, f.appendErr
	}
	f.nextSeq++
	event.Seq = f.nextSeq
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeStore) ListFeedbackByPair(_ context.Context, stepID, userID string) ([]FeedbackEvent, error) {
	var out []FeedbackEvent
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].StepID == stepID && f.events[i].UserID == userID {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func sequentialIDGenerator(ids ...string) func() (string, error) {
	index := 0
	return func() (string, error) {
		if index >= len(ids) {
			return "", fmt.Errorf("id generator exhausted after %d ids", len(ids))
		}
		id := ids[index]
		index++
		return id, nil
	}
}

func seedRoster(store *fakeStore) {
	store.steps["step-a"] = Step{ID: "step-a", CaseID: "case-1", Ordinal: 0, Description: "Open the login page"}
	store.users["user-1"] = User{ID: "user-1", Email: "client@example.com", Role: RoleClient}
}

func TestSubmitAppendsEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedRoster(store)
	svc := NewService(store, fixedClock(now), sequentialIDGenerator("evt-1"))

	event, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "step-a",
		UserEmail:   "client@example.com",
		Notes:       "looks good",
		StatusLabel: StatusPassed,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if event.ID != "evt-1" {
		t.Fatalf("expected generated id evt-1, got %q", event.ID)
	}
	if event.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", event.Seq)
	}
	if event.StatusLabel != StatusPassed || event.StatusID != 3 {
		t.Fatalf("unexpected status: %+v", event)
	}
	if !event.CreatedAt.Equal(now) {
		t.Fatalf("expected clock timestamp, got %v", event.CreatedAt)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected one persisted event, got %d", len(store.events))
	}
}

func TestSubmitNeverMutatesPriorEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedRoster(store)
	svc := NewService(store, fixedClock(now), sequentialIDGenerator("evt-1", "evt-2"))

	first, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "step-a",
		UserEmail:   "client@example.com",
		Notes:       "x",
		StatusLabel: StatusPassed,
	})
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	if _, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "step-a",
		UserEmail:   "client@example.com",
		Notes:       "y",
		StatusLabel: StatusFailed,
	}); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	if len(store.events) != 2 {
		t.Fatalf("expected history to grow to 2 events, got %d", len(store.events))
	}
	if store.events[0].ID != first.ID || store.events[0].Notes != "x" || store.events[0].StatusLabel != StatusPassed {
		t.Fatalf("prior event was altered: %+v", store.events[0])
	}
}

func TestSubmitRejectsUnknownStatusBeforeWrite(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedRoster(store)
	svc := NewService(store, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "step-a",
		UserEmail:   "client@example.com",
		StatusLabel: "Sorta Passed",
	})
	if !errors.Is(err, apperrors.New(apperrors.CodeFeedbackStatusUnknown, "")) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
	if len(store.events) != 0 {
		t.Fatal("expected no write for rejected submission")
	}
}

func TestSubmitRejectsSentinelStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedRoster(store)
	svc := NewService(store, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "step-a",
		UserEmail:   "client@example.com",
		StatusLabel: StatusNotStarted,
	})
	if !errors.Is(err, apperrors.New(apperrors.CodeFeedbackStatusSentinel, "")) {
		t.Fatalf("expected sentinel status error, got %v", err)
	}
	if len(store.events) != 0 {
		t.Fatal("expected no write for sentinel submission")
	}
}

func TestSubmitRejectsUnknownStepAndUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedRoster(store)
	svc := NewService(store, nil, nil)

	if _, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "missing-step",
		UserEmail:   "client@example.com",
		StatusLabel: StatusPassed,
	}); !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("expected not found for unknown step, got %v", err)
	}

	if _, err := svc.Submit(context.Background(), SubmitInput{
		StepID:      "step-a",
		UserEmail:   "stranger@example.com",
		StatusLabel: StatusPassed,
	}); !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
	if len(store.events) != 0 {
		t.Fatal("expected no writes for rejected submissions")
	}
}

func TestPairHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedRoster(store)
	svc := NewService(store, fixedClock(base), sequentialIDGenerator("evt-1", "evt-2"))

	if _, err := svc.Submit(context.Background(), SubmitInput{
		StepID: "step-a", UserEmail: "client@example.com", Notes: "first", StatusLabel: StatusInProgress,
	}); err != nil {
		t.Fatalf("submit first: %v", err)
	}
	svc.clock = fixedClock(base.Add(time.Minute))
	if _, err := svc.Submit(context.Background(), SubmitInput{
		StepID: "step-a", UserEmail: "client@example.com", Notes: "second", StatusLabel: StatusPassed,
	}); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	history, err := svc.PairHistory(context.Background(), "step-a", "client@example.com")
	if err != nil {
		t.Fatalf("pair history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 events, got %d", len(history))
	}
	if history[0].Notes != "second" || history[1].Notes != "first" {
		t.Fatalf("expected newest-first ordering, got %+v", history)
	}
}
