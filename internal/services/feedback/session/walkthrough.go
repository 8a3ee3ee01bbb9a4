// Package session drives one reviewer's pass through a case, step by step.
//
// A Walkthrough is a single-user, in-memory cursor over a case's steps. It
// caches each step's latest feedback so repeated navigation does not re-read
// the log, and it only appends an event when the draft actually differs from
// that cached baseline.
package session

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
	"github.com/louisbranch/stepwise/internal/services/feedback/aggregate"
	"github.com/louisbranch/stepwise/internal/services/feedback/domain"
)

// FeedbackReader resolves the current state of a (step, user) pair.
type FeedbackReader interface {
	Latest(ctx context.Context, stepID, userID string) (aggregate.Current, error)
}

// FeedbackWriter appends validated feedback events.
type FeedbackWriter interface {
	Submit(ctx context.Context, input domain.SubmitInput) (domain.FeedbackEvent, error)
}

// Directory resolves the case roster the walkthrough navigates.
type Directory interface {
	StepsForCase(ctx context.Context, caseID string) ([]domain.Step, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// CascadeOutcome reports how far a FailRemaining cascade got.
//
// Committed lists the step IDs that were marked Failed, in write order.
// When a write fails the cascade stops: FailedStepID names the step whose
// write failed and Err carries the cause. Steps after FailedStepID were
// never attempted.
type CascadeOutcome struct {
	Committed    []string
	FailedStepID string
	Err          error
}

// Walkthrough is one reviewer's cursor over a case.
type Walkthrough struct {
	reader FeedbackReader
	writer FeedbackWriter
	dir    Directory

	caseID string
	user   domain.User
	steps  []domain.Step
	active int

	draftNotes  string
	draftStatus string

	// cache holds the last-known state per step for this user. Entries are
	// updated on every successful commit and rebuilt after a cascade.
	cache map[string]aggregate.Current
}

// NewWalkthrough builds an unstarted walkthrough. Begin must run before any
// navigation or commit.
func NewWalkthrough(reader FeedbackReader, writer FeedbackWriter, dir Directory) *Walkthrough {
	return &Walkthrough{
		reader: reader,
		writer: writer,
		dir:    dir,
		active: -1,
		cache:  map[string]aggregate.Current{},
	}
}

// Begin loads the case's steps, resolves the reviewer, and positions the
// cursor on the first step. A case with no steps is rejected.
func (w *Walkthrough) Begin(ctx context.Context, caseID, userEmail string) error {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return apperrors.New(apperrors.CodeNotFound, "case id is required")
	}
	user, err := w.dir.GetUserByEmail(ctx, strings.TrimSpace(userEmail))
	if err != nil {
		return err
	}
	steps, err := w.dir.StepsForCase(ctx, caseID)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return apperrors.WithMetadata(apperrors.CodeCaseHasNoSteps,
			"case has no steps to walk through",
			map[string]string{"case_id": caseID})
	}

	w.caseID = caseID
	w.user = user
	w.steps = steps
	w.cache = make(map[string]aggregate.Current, len(steps))
	return w.focus(ctx, 0)
}

// ActiveStep returns the step under the cursor.
func (w *Walkthrough) ActiveStep() domain.Step {
	if w.active < 0 || w.active >= len(w.steps) {
		return domain.Step{}
	}
	return w.steps[w.active]
}

// ActiveIndex returns the cursor position.
func (w *Walkthrough) ActiveIndex() int { return w.active }

// Steps returns the steps of the case in ordinal order.
func (w *Walkthrough) Steps() []domain.Step { return w.steps }

// Draft returns the uncommitted notes and status for the active step.
func (w *Walkthrough) Draft() (notes, statusLabel string) {
	return w.draftNotes, w.draftStatus
}

// GoTo moves the cursor to the step at index. The target step's state is
// fetched before the cursor moves, so a fetch error leaves the walkthrough
// unchanged. An out-of-range index is rejected without side effects.
func (w *Walkthrough) GoTo(ctx context.Context, index int) error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	if index < 0 || index >= len(w.steps) {
		return apperrors.WithMetadata(apperrors.CodeStepIndexOutOfRange,
			"step index is out of range",
			map[string]string{"case_id": w.caseID})
	}
	return w.focus(ctx, index)
}

// Next moves the cursor forward one step. At the last step it is a no-op.
func (w *Walkthrough) Next(ctx context.Context) error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	if w.active+1 >= len(w.steps) {
		return nil
	}
	return w.focus(ctx, w.active+1)
}

// Prev moves the cursor back one step. At the first step it is a no-op.
func (w *Walkthrough) Prev(ctx context.Context) error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	if w.active == 0 {
		return nil
	}
	return w.focus(ctx, w.active-1)
}

// SetNotes replaces the draft notes for the active step.
func (w *Walkthrough) SetNotes(notes string) { w.draftNotes = notes }

// SetStatus replaces the draft status label for the active step.
func (w *Walkthrough) SetStatus(statusLabel string) { w.draftStatus = statusLabel }

// Commit appends the active step's draft as a new event, unless the draft
// matches the last-known state, in which case nothing is written. Revisiting
// a step and committing unchanged content therefore never grows the log.
func (w *Walkthrough) Commit(ctx context.Context) error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	return w.commitStep(ctx, w.ActiveStep().ID, w.draftNotes, w.draftStatus)
}

// Advance commits the active step and moves the cursor forward. It reports
// whether the committed step was the last one of the case.
func (w *Walkthrough) Advance(ctx context.Context) (caseComplete bool, err error) {
	if err := w.requireStarted(); err != nil {
		return false, err
	}
	if err := w.Commit(ctx); err != nil {
		return false, err
	}
	if w.active+1 >= len(w.steps) {
		return true, nil
	}
	return false, w.focus(ctx, w.active+1)
}

// FailRemaining commits the active step's draft as-is, then marks every
// step after the cursor Failed, one write at a time in ordinal order. Each
// cascaded event carries forward the step's last-known notes. The cascade
// stops at the first write error; earlier writes stand, later steps are
// untouched. The cursor does not move, and the per-step cache is rebuilt
// from the log afterwards either way.
func (w *Walkthrough) FailRemaining(ctx context.Context) CascadeOutcome {
	if err := w.requireStarted(); err != nil {
		return CascadeOutcome{Err: err}
	}

	outcome := CascadeOutcome{}
	if err := w.commitStep(ctx, w.ActiveStep().ID, w.draftNotes, w.draftStatus); err != nil {
		outcome.FailedStepID = w.ActiveStep().ID
		outcome.Err = err
	} else {
		for index := w.active + 1; index < len(w.steps); index++ {
			step := w.steps[index]
			baseline, err := w.lastKnown(ctx, step.ID)
			if err != nil {
				outcome.FailedStepID = step.ID
				outcome.Err = err
				break
			}
			// Cascaded failures always append, even over an existing
			// Failed state; only commit() deduplicates.
			if err := w.appendStep(ctx, step.ID, baseline.Notes, domain.StatusFailed); err != nil {
				outcome.FailedStepID = step.ID
				outcome.Err = err
				break
			}
			outcome.Committed = append(outcome.Committed, step.ID)
		}
	}

	// Derived state may now disagree with the cache, including after a
	// partial cascade. Drop it and re-read from the log.
	w.cache = make(map[string]aggregate.Current, len(w.steps))
	if err := w.focus(ctx, w.active); err != nil && outcome.Err == nil {
		outcome.Err = err
	}
	return outcome
}

// AllRemainingFailed reports whether every step after the active one has
// Failed as its current status, reading fresh from the log rather than the
// cache. With no steps after the cursor it is vacuously true.
func (w *Walkthrough) AllRemainingFailed(ctx context.Context) (bool, error) {
	if err := w.requireStarted(); err != nil {
		return false, err
	}
	for index := w.active + 1; index < len(w.steps); index++ {
		current, err := w.reader.Latest(ctx, w.steps[index].ID, w.user.ID)
		if err != nil {
			return false, err
		}
		if !current.Recorded || current.StatusLabel != domain.StatusFailed {
			return false, nil
		}
	}
	return true, nil
}

// focus fetches the target step's state first and only then moves the
// cursor, so errors cannot leave the cursor on a step with stale drafts.
func (w *Walkthrough) focus(ctx context.Context, index int) error {
	step := w.steps[index]
	current, err := w.lastKnown(ctx, step.ID)
	if err != nil {
		return err
	}
	w.active = index
	w.draftNotes = current.Notes
	w.draftStatus = current.StatusLabel
	return nil
}

func (w *Walkthrough) commitStep(ctx context.Context, stepID, notes, statusLabel string) error {
	baseline, err := w.lastKnown(ctx, stepID)
	if err != nil {
		return err
	}
	if notes == baseline.Notes && statusLabel == baseline.StatusLabel {
		return nil
	}
	if statusLabel == domain.StatusNotStarted {
		// The sentinel is never written; an untouched status with edited
		// notes stays a draft until a real status is chosen.
		return nil
	}
	return w.appendStep(ctx, stepID, notes, statusLabel)
}

func (w *Walkthrough) appendStep(ctx context.Context, stepID, notes, statusLabel string) error {
	event, err := w.writer.Submit(ctx, domain.SubmitInput{
		StepID:      stepID,
		UserEmail:   w.user.Email,
		Notes:       notes,
		StatusLabel: statusLabel,
	})
	if err != nil {
		return err
	}
	w.cache[stepID] = aggregate.Current{
		StepID:      event.StepID,
		UserID:      event.UserID,
		Notes:       event.Notes,
		StatusLabel: event.StatusLabel,
		EventID:     event.ID,
		Seq:         event.Seq,
		CreatedAt:   event.CreatedAt,
		Recorded:    true,
	}
	return nil
}

// lastKnown returns the cached state for a step, reading through to the
// log on a cache miss.
func (w *Walkthrough) lastKnown(ctx context.Context, stepID string) (aggregate.Current, error) {
	if current, ok := w.cache[stepID]; ok {
		return current, nil
	}
	fetched, err := w.reader.Latest(ctx, stepID, w.user.ID)
	if err != nil {
		return aggregate.Current{}, err
	}
	w.cache[stepID] = fetched
	return fetched, nil
}

func (w *Walkthrough) requireStarted() error {
	if w == nil || w.active < 0 || len(w.steps) == 0 {
		return apperrors.New(apperrors.CodeUnknown, "walkthrough has not begun")
	}
	return nil
}
