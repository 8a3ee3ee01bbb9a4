package server

import (
	"context"

	"github.com/louisbranch/stepwise/internal/services/feedback/domain"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
)

// domainStoreAdapter narrows the persistence layer to the domain service's
// Store contract, translating records into domain types at the boundary.
type domainStoreAdapter struct {
	store storage.Store
}

func newDomainStoreAdapter(store storage.Store) *domainStoreAdapter {
	return &domainStoreAdapter{store: store}
}

func (a *domainStoreAdapter) GetStep(ctx context.Context, stepID string) (domain.Step, error) {
	if a == nil || a.store == nil {
		return domain.Step{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetStep(ctx, stepID)
	if err != nil {
		return domain.Step{}, err
	}
	return toDomainStep(record), nil
}

func (a *domainStoreAdapter) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if a == nil || a.store == nil {
		return domain.User{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(record), nil
}

func (a *domainStoreAdapter) ListStatusLabels(ctx context.Context) ([]domain.StatusLabel, error) {
	if a == nil || a.store == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.store.ListStatusLabels(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]domain.StatusLabel, 0, len(records))
	for _, record := range records {
		labels = append(labels, domain.StatusLabel{ID: record.ID, Label: record.Label})
	}
	return labels, nil
}

func (a *domainStoreAdapter) AppendFeedback(ctx context.Context, event domain.FeedbackEvent) (domain.FeedbackEvent, error) {
	if a == nil || a.store == nil {
		return domain.FeedbackEvent{}, domain.ErrStoreNotConfigured
	}
	stored, err := a.store.AppendFeedback(ctx, storage.FeedbackRecord{
		ID:          event.ID,
		StepID:      event.StepID,
		UserID:      event.UserID,
		Notes:       event.Notes,
		StatusID:    event.StatusID,
		StatusLabel: event.StatusLabel,
		CreatedAt:   event.CreatedAt,
	})
	if err != nil {
		return domain.FeedbackEvent{}, err
	}
	return toDomainFeedbackEvent(stored), nil
}

func (a *domainStoreAdapter) ListFeedbackByPair(ctx context.Context, stepID, userID string) ([]domain.FeedbackEvent, error) {
	if a == nil || a.store == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.store.ListFeedbackByPair(ctx, stepID, userID)
	if err != nil {
		return nil, err
	}
	return toDomainFeedbackEvents(records), nil
}

// aggregateStoreAdapter exposes the persistence layer through the aggregate
// engine's log and roster contracts.
type aggregateStoreAdapter struct {
	store storage.Store
}

func newAggregateStoreAdapter(store storage.Store) *aggregateStoreAdapter {
	return &aggregateStoreAdapter{store: store}
}

func (a *aggregateStoreAdapter) ListFeedbackByPair(ctx context.Context, stepID, userID string) ([]domain.FeedbackEvent, error) {
	records, err := a.store.ListFeedbackByPair(ctx, stepID, userID)
	if err != nil {
		return nil, err
	}
	return toDomainFeedbackEvents(records), nil
}

func (a *aggregateStoreAdapter) ListFeedbackByStep(ctx context.Context, stepID string) ([]domain.FeedbackEvent, error) {
	records, err := a.store.ListFeedbackByStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	return toDomainFeedbackEvents(records), nil
}

func (a *aggregateStoreAdapter) ListFeedbackByProject(ctx context.Context, projectID string) ([]domain.FeedbackEvent, error) {
	records, err := a.store.ListFeedbackByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toDomainFeedbackEvents(records), nil
}

func (a *aggregateStoreAdapter) GetStep(ctx context.Context, stepID string) (domain.Step, error) {
	record, err := a.store.GetStep(ctx, stepID)
	if err != nil {
		return domain.Step{}, err
	}
	return toDomainStep(record), nil
}

func (a *aggregateStoreAdapter) StepsForProject(ctx context.Context, projectID string) ([]domain.Step, error) {
	records, err := a.store.StepsForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	steps := make([]domain.Step, 0, len(records))
	for _, record := range records {
		steps = append(steps, toDomainStep(record))
	}
	return steps, nil
}

func (a *aggregateStoreAdapter) StepsForCase(ctx context.Context, caseID string) ([]domain.Step, error) {
	records, err := a.store.StepsForCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	steps := make([]domain.Step, 0, len(records))
	for _, record := range records {
		steps = append(steps, toDomainStep(record))
	}
	return steps, nil
}

func (a *aggregateStoreAdapter) ClientUsersForProject(ctx context.Context, projectID string) ([]domain.User, error) {
	records, err := a.store.ClientUsersForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		users = append(users, toDomainUser(record))
	}
	return users, nil
}

func (a *aggregateStoreAdapter) ProjectForStep(ctx context.Context, stepID string) (string, error) {
	return a.store.ProjectForStep(ctx, stepID)
}

func toDomainStep(record storage.StepRecord) domain.Step {
	return domain.Step{
		ID:          record.ID,
		CaseID:      record.CaseID,
		Ordinal:     record.Ordinal,
		Description: record.Description,
	}
}

func toDomainUser(record storage.UserRecord) domain.User {
	return domain.User{
		ID:        record.ID,
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Role:      domain.Role(record.Role),
		CreatedAt: record.CreatedAt,
	}
}

func toDomainFeedbackEvent(record storage.FeedbackRecord) domain.FeedbackEvent {
	return domain.FeedbackEvent{
		Seq:         record.Seq,
		ID:          record.ID,
		StepID:      record.StepID,
		UserID:      record.UserID,
		Notes:       record.Notes,
		StatusID:    record.StatusID,
		StatusLabel: record.StatusLabel,
		CreatedAt:   record.CreatedAt,
	}
}

func toDomainFeedbackEvents(records []storage.FeedbackRecord) []domain.FeedbackEvent {
	events := make([]domain.FeedbackEvent, 0, len(records))
	for _, record := range records {
		events = append(events, toDomainFeedbackEvent(record))
	}
	return events
}
