package domain

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
	"github.com/louisbranch/stepwise/internal/platform/id"
)

var (
	// ErrStepRequired indicates a submission without a step reference.
	ErrStepRequired = apperrors.New(apperrors.CodeFeedbackStepRequired, "step id is required")
	// ErrUserRequired indicates a submission without a resolved reviewer identity.
	ErrUserRequired = apperrors.New(apperrors.CodeFeedbackUserRequired, "user email is required")
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = apperrors.New(apperrors.CodeUnknown, "feedback store is not configured")
)

// Store is the domain persistence boundary for feedback submissions.
type Store interface {
	GetStep(ctx context.Context, stepID string) (Step, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListStatusLabels(ctx context.Context) ([]StatusLabel, error)
	AppendFeedback(ctx context.Context, event FeedbackEvent) (FeedbackEvent, error)
	ListFeedbackByPair(ctx context.Context, stepID, userID string) ([]FeedbackEvent, error)
}

// SubmitInput describes one feedback submission.
type SubmitInput struct {
	StepID      string
	UserEmail   string
	Notes       string
	StatusLabel string
}

// Service orchestrates feedback submission and history reads.
type Service struct {
	store Store
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs feedback domain use-cases.
func NewService(store Store, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store: store,
		clock: clock,
		newID: newID,
	}
}

// Submit validates and appends one feedback event for a (step, user) pair.
//
// Validation and reference resolution happen before any write: an
// unrecognized or sentinel status label, an unknown step, or an unknown user
// reject the submission without touching the log.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (FeedbackEvent, error) {
	if s == nil || s.store == nil {
		return FeedbackEvent{}, ErrStoreNotConfigured
	}
	stepID := strings.TrimSpace(input.StepID)
	if stepID == "" {
		return FeedbackEvent{}, ErrStepRequired
	}
	userEmail := strings.TrimSpace(input.UserEmail)
	if userEmail == "" {
		return FeedbackEvent{}, ErrUserRequired
	}

	label, err := s.resolveStatusLabel(ctx, input.StatusLabel)
	if err != nil {
		return FeedbackEvent{}, err
	}
	user, err := s.store.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return FeedbackEvent{}, err
	}
	step, err := s.store.GetStep(ctx, stepID)
	if err != nil {
		return FeedbackEvent{}, err
	}

	eventID, err := s.newID()
	if err != nil {
		return FeedbackEvent{}, err
	}
	event := FeedbackEvent{
		ID:          eventID,
		StepID:      step.ID,
		UserID:      user.ID,
		Notes:       input.Notes,
		StatusID:    label.ID,
		StatusLabel: label.Label,
		CreatedAt:   s.nowUTC(),
	}
	return s.store.AppendFeedback(ctx, event)
}

// PairHistory returns the full feedback history for a (step, user) pair,
// newest first. An empty history is a normal result, not an error.
func (s *Service) PairHistory(ctx context.Context, stepID, userEmail string) ([]FeedbackEvent, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	stepID = strings.TrimSpace(stepID)
	if stepID == "" {
		return nil, ErrStepRequired
	}
	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return nil, ErrUserRequired
	}
	user, err := s.store.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.store.ListFeedbackByPair(ctx, stepID, user.ID)
}

func (s *Service) resolveStatusLabel(ctx context.Context, label string) (StatusLabel, error) {
	label = strings.TrimSpace(label)
	if label == StatusNotStarted {
		return StatusLabel{}, apperrors.WithMetadata(
			apperrors.CodeFeedbackStatusSentinel,
			"sentinel status label cannot be persisted",
			map[string]string{"label": label},
		)
	}
	labels, err := s.store.ListStatusLabels(ctx)
	if err != nil {
		return StatusLabel{}, err
	}
	for _, known := range labels {
		if known.Label == label {
			return known, nil
		}
	}
	return StatusLabel{}, apperrors.WithMetadata(
		apperrors.CodeFeedbackStatusUnknown,
		"status label is not recognized",
		map[string]string{"label": label},
	)
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
