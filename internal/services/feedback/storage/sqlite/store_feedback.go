package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
)

const feedbackColumns = `
f.seq, f.id, f.step_id, f.user_id, f.notes, f.status_id, st.label, f.created_at
`

// AppendFeedback validates references and inserts one immutable feedback
// event. The sentinel label and unknown labels are rejected before the
// insert; the returned record carries the storage-assigned sequence.
func (s *Store) AppendFeedback(ctx context.Context, record storage.FeedbackRecord) (storage.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.FeedbackRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.FeedbackRecord{}, fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeFeedbackRecord(record)
	if err != nil {
		return storage.FeedbackRecord{}, err
	}

	status, err := s.statusByLabel(ctx, normalized.StatusLabel)
	if err != nil {
		return storage.FeedbackRecord{}, err
	}
	if _, err := s.GetStep(ctx, normalized.StepID); err != nil {
		return storage.FeedbackRecord{}, err
	}
	if err := s.userExists(ctx, normalized.UserID); err != nil {
		return storage.FeedbackRecord{}, err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO feedback_events (id, step_id, user_id, notes, status_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, normalized.ID, normalized.StepID, normalized.UserID, normalized.Notes, status.ID, toMillis(normalized.CreatedAt))
	if err != nil {
		return storage.FeedbackRecord{}, fmt.Errorf("append feedback event: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return storage.FeedbackRecord{}, fmt.Errorf("read feedback event seq: %w", err)
	}

	normalized.Seq = seq
	normalized.StatusID = status.ID
	normalized.StatusLabel = status.Label
	return normalized, nil
}

// ListFeedbackByPair returns the full history for one (step, user) pair,
// newest first.
func (s *Store) ListFeedbackByPair(ctx context.Context, stepID, userID string) ([]storage.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	stepID = strings.TrimSpace(stepID)
	userID = strings.TrimSpace(userID)
	if stepID == "" {
		return nil, fmt.Errorf("step id is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+feedbackColumns+`
FROM feedback_events f
JOIN step_statuses st ON st.id = f.status_id
WHERE f.step_id = ? AND f.user_id = ?
ORDER BY f.created_at DESC, f.seq DESC
`, stepID, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback by pair: %w", err)
	}
	defer rows.Close()
	return collectFeedback(rows)
}

// ListFeedbackByStep returns all client feedback for one step, newest first.
func (s *Store) ListFeedbackByStep(ctx context.Context, stepID string) ([]storage.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	stepID = strings.TrimSpace(stepID)
	if stepID == "" {
		return nil, fmt.Errorf("step id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+feedbackColumns+`
FROM feedback_events f
JOIN step_statuses st ON st.id = f.status_id
JOIN users u ON u.id = f.user_id
WHERE f.step_id = ? AND u.role = 'client'
ORDER BY f.created_at DESC, f.seq DESC
`, stepID)
	if err != nil {
		return nil, fmt.Errorf("list feedback by step: %w", err)
	}
	defer rows.Close()
	return collectFeedback(rows)
}

// ListFeedbackByProject returns all client feedback across every step of a
// project, newest first.
func (s *Store) ListFeedbackByProject(ctx context.Context, projectID string) ([]storage.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("project id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+feedbackColumns+`
FROM feedback_events f
JOIN step_statuses st ON st.id = f.status_id
JOIN users u ON u.id = f.user_id
JOIN steps s ON s.id = f.step_id
JOIN cases c ON c.id = s.case_id
JOIN suites su ON su.id = c.suite_id
WHERE su.project_id = ? AND u.role = 'client'
ORDER BY f.created_at DESC, f.seq DESC
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list feedback by project: %w", err)
	}
	defer rows.Close()
	return collectFeedback(rows)
}

func normalizeFeedbackRecord(record storage.FeedbackRecord) (storage.FeedbackRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.StepID = strings.TrimSpace(record.StepID)
	record.UserID = strings.TrimSpace(record.UserID)
	record.StatusLabel = strings.TrimSpace(record.StatusLabel)
	if record.ID == "" {
		return storage.FeedbackRecord{}, fmt.Errorf("feedback event id is required")
	}
	if record.StepID == "" {
		return storage.FeedbackRecord{}, apperrors.New(apperrors.CodeFeedbackStepRequired, "step id is required")
	}
	if record.UserID == "" {
		return storage.FeedbackRecord{}, apperrors.New(apperrors.CodeFeedbackUserRequired, "user id is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.FeedbackRecord{}, fmt.Errorf("feedback event created_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

// statusByLabel resolves a label against the seeded set. The sentinel is a
// valid label for reads but can never be written, so it is rejected here.
func (s *Store) statusByLabel(ctx context.Context, label string) (storage.StatusRecord, error) {
	if label == "Not Started" {
		return storage.StatusRecord{}, apperrors.WithMetadata(
			apperrors.CodeFeedbackStatusSentinel,
			"sentinel status label cannot be persisted",
			map[string]string{"label": label},
		)
	}
	var status storage.StatusRecord
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, label FROM step_statuses WHERE label = ?", label,
	).Scan(&status.ID, &status.Label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.StatusRecord{}, apperrors.WithMetadata(
				apperrors.CodeFeedbackStatusUnknown,
				"status label is not recognized",
				map[string]string{"label": label},
			)
		}
		return storage.StatusRecord{}, fmt.Errorf("resolve status label: %w", err)
	}
	return status, nil
}

func (s *Store) userExists(ctx context.Context, userID string) error {
	var found int
	err := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", userID).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("check user: %w", err)
	}
	return nil
}

func collectFeedback(rows *sql.Rows) ([]storage.FeedbackRecord, error) {
	var records []storage.FeedbackRecord
	for rows.Next() {
		var record storage.FeedbackRecord
		var createdAt int64
		if err := rows.Scan(
			&record.Seq, &record.ID, &record.StepID, &record.UserID,
			&record.Notes, &record.StatusID, &record.StatusLabel, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan feedback event: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback events: %w", err)
	}
	return records, nil
}
