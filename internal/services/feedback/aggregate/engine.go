// Package aggregate derives current feedback state from the append-only
// event log. Nothing here writes: every answer is a reduction over events,
// so the log stays the single source of truth.
package aggregate

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
	"github.com/louisbranch/stepwise/internal/services/feedback/domain"
)

// FeedbackLog reads slices of the append-only feedback event log.
type FeedbackLog interface {
	ListFeedbackByPair(ctx context.Context, stepID, userID string) ([]domain.FeedbackEvent, error)
	ListFeedbackByStep(ctx context.Context, stepID string) ([]domain.FeedbackEvent, error)
	ListFeedbackByProject(ctx context.Context, projectID string) ([]domain.FeedbackEvent, error)
}

// Roster reads the directory the engine projects against: steps, client
// users, and the step-to-project relation.
type Roster interface {
	GetStep(ctx context.Context, stepID string) (domain.Step, error)
	StepsForProject(ctx context.Context, projectID string) ([]domain.Step, error)
	ClientUsersForProject(ctx context.Context, projectID string) ([]domain.User, error)
	ProjectForStep(ctx context.Context, stepID string) (string, error)
}

// Current is the derived state of one (step, user) pair.
//
// Recorded distinguishes a real latest event from the synthesized
// "Not Started" sentinel a pair gets when no feedback exists yet.
type Current struct {
	StepID      string
	UserID      string
	Notes       string
	StatusLabel string
	EventID     string
	Seq         int64
	CreatedAt   time.Time
	Recorded    bool
}

// Matrix is the project-wide view: every client user crossed with every
// step, each cell holding the pair's current state.
type Matrix struct {
	ProjectID string
	Steps     []domain.Step
	Users     []domain.User
	// Cells is indexed [step][user], matching the order of Steps and Users.
	Cells [][]Current
}

// Engine answers "what is the current feedback" questions by folding the
// event log. It holds no state between calls.
type Engine struct {
	log    FeedbackLog
	roster Roster
}

// NewEngine builds an Engine over an event log and roster.
func NewEngine(log FeedbackLog, roster Roster) *Engine {
	return &Engine{log: log, roster: roster}
}

// Latest returns the current state for one (step, user) pair. A pair with
// no events yields the sentinel with Recorded false.
func (e *Engine) Latest(ctx context.Context, stepID, userID string) (Current, error) {
	if e == nil || e.log == nil {
		return Current{}, apperrors.New(apperrors.CodeUnknown, "aggregate engine is not configured")
	}
	events, err := e.log.ListFeedbackByPair(ctx, stepID, userID)
	if err != nil {
		return Current{}, err
	}
	current := notStarted(stepID, userID)
	for _, event := range events {
		current = reduce(current, event)
	}
	return current, nil
}

// LatestPerUser returns the current state of one step for every client user
// on the step's project, in roster order. Users without feedback appear
// with the sentinel so the result always covers the full roster.
func (e *Engine) LatestPerUser(ctx context.Context, stepID string) ([]Current, error) {
	if e == nil || e.log == nil || e.roster == nil {
		return nil, apperrors.New(apperrors.CodeUnknown, "aggregate engine is not configured")
	}
	projectID, err := e.roster.ProjectForStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	users, err := e.roster.ClientUsersForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	events, err := e.log.ListFeedbackByStep(ctx, stepID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]Current, len(users))
	for _, user := range users {
		byUser[user.ID] = notStarted(stepID, user.ID)
	}
	for _, event := range events {
		current, ok := byUser[event.UserID]
		if !ok {
			continue
		}
		byUser[event.UserID] = reduce(current, event)
	}

	out := make([]Current, 0, len(users))
	for _, user := range users {
		out = append(out, byUser[user.ID])
	}
	return out, nil
}

// ProjectMatrix folds the whole project log once into a step-by-user grid.
func (e *Engine) ProjectMatrix(ctx context.Context, projectID string) (Matrix, error) {
	if e == nil || e.log == nil || e.roster == nil {
		return Matrix{}, apperrors.New(apperrors.CodeUnknown, "aggregate engine is not configured")
	}
	steps, err := e.roster.StepsForProject(ctx, projectID)
	if err != nil {
		return Matrix{}, err
	}
	users, err := e.roster.ClientUsersForProject(ctx, projectID)
	if err != nil {
		return Matrix{}, err
	}
	events, err := e.log.ListFeedbackByProject(ctx, projectID)
	if err != nil {
		return Matrix{}, err
	}

	stepIndex := make(map[string]int, len(steps))
	for i, step := range steps {
		stepIndex[step.ID] = i
	}
	userIndex := make(map[string]int, len(users))
	for i, user := range users {
		userIndex[user.ID] = i
	}

	cells := make([][]Current, len(steps))
	for si, step := range steps {
		row := make([]Current, len(users))
		for ui, user := range users {
			row[ui] = notStarted(step.ID, user.ID)
		}
		cells[si] = row
	}
	for _, event := range events {
		si, ok := stepIndex[event.StepID]
		if !ok {
			continue
		}
		ui, ok := userIndex[event.UserID]
		if !ok {
			continue
		}
		cells[si][ui] = reduce(cells[si][ui], event)
	}

	return Matrix{
		ProjectID: projectID,
		Steps:     steps,
		Users:     users,
		Cells:     cells,
	}, nil
}

// reduce keeps whichever of the accumulated state and the event is newer.
// Ties on CreatedAt break on the storage-assigned sequence.
func reduce(current Current, event domain.FeedbackEvent) Current {
	if current.Recorded {
		if event.CreatedAt.Before(current.CreatedAt) {
			return current
		}
		if event.CreatedAt.Equal(current.CreatedAt) && event.Seq < current.Seq {
			return current
		}
	}
	return Current{
		StepID:      event.StepID,
		UserID:      event.UserID,
		Notes:       event.Notes,
		StatusLabel: event.StatusLabel,
		EventID:     event.ID,
		Seq:         event.Seq,
		CreatedAt:   event.CreatedAt,
		Recorded:    true,
	}
}

func notStarted(stepID, userID string) Current {
	return Current{
		StepID:      stepID,
		UserID:      userID,
		StatusLabel: domain.StatusNotStarted,
	}
}
