package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
)

// GetStep loads one step by id.
func (s *Store) GetStep(ctx context.Context, stepID string) (storage.StepRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.StepRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.StepRecord{}, fmt.Errorf("storage is not configured")
	}
	stepID = strings.TrimSpace(stepID)
	if stepID == "" {
		return storage.StepRecord{}, storage.ErrNotFound
	}

	var record storage.StepRecord
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, case_id, ordinal, description
FROM steps
WHERE id = ?
`, stepID).Scan(&record.ID, &record.CaseID, &record.Ordinal, &record.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.StepRecord{}, storage.ErrNotFound
		}
		return storage.StepRecord{}, fmt.Errorf("get step: %w", err)
	}
	return record, nil
}

// StepsForCase lists a case's steps in ordinal order.
func (s *Store) StepsForCase(ctx context.Context, caseID string) ([]storage.StepRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, fmt.Errorf("case id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, case_id, ordinal, description
FROM steps
WHERE case_id = ?
ORDER BY ordinal ASC
`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list steps for case: %w", err)
	}
	defer rows.Close()
	return collectSteps(rows)
}

// StepsForProject lists every step under a project. Suites and cases are
// walked in creation order, steps in ordinal order, so the result is stable
// across calls regardless of event arrival.
func (s *Store) StepsForProject(ctx context.Context, projectID string) ([]storage.StepRecord, error) {
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
SELECT st.id, st.case_id, st.ordinal, st.description
FROM steps st
JOIN cases c ON c.id = st.case_id
JOIN suites su ON su.id = c.suite_id
WHERE su.project_id = ?
ORDER BY su.created_at ASC, su.id ASC, c.created_at ASC, c.id ASC, st.ordinal ASC
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list steps for project: %w", err)
	}
	defer rows.Close()
	return collectSteps(rows)
}

// GetUserByEmail loads one user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.UserRecord{}, fmt.Errorf("storage is not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.UserRecord{}, storage.ErrNotFound
	}

	var record storage.UserRecord
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, email, first_name, last_name, role, created_at
FROM users
WHERE email = ?
`, email).Scan(&record.ID, &record.Email, &record.FirstName, &record.LastName, &record.Role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.UserRecord{}, storage.ErrNotFound
		}
		return storage.UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

// ClientUsersForProject lists a project's client members, oldest first.
// Join order and the tie on id keep roster order deterministic.
func (s *Store) ClientUsersForProject(ctx context.Context, projectID string) ([]storage.UserRecord, error) {
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
SELECT u.id, u.email, u.first_name, u.last_name, u.role, u.created_at
FROM users u
JOIN project_members pm ON pm.user_id = u.id
WHERE pm.project_id = ? AND u.role = 'client'
ORDER BY u.created_at ASC, u.id ASC
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list client users for project: %w", err)
	}
	defer rows.Close()

	var records []storage.UserRecord
	for rows.Next() {
		var record storage.UserRecord
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.Email, &record.FirstName, &record.LastName, &record.Role, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return records, nil
}

// ProjectForStep resolves the project a step belongs to.
func (s *Store) ProjectForStep(ctx context.Context, stepID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	stepID = strings.TrimSpace(stepID)
	if stepID == "" {
		return "", storage.ErrNotFound
	}

	var projectID string
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT su.project_id
FROM steps st
JOIN cases c ON c.id = st.case_id
JOIN suites su ON su.id = c.suite_id
WHERE st.id = ?
`, stepID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("resolve project for step: %w", err)
	}
	return projectID, nil
}

// ListStatusLabels returns the seeded status label set in id order.
func (s *Store) ListStatusLabels(ctx context.Context) ([]storage.StatusRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, label FROM step_statuses ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list status labels: %w", err)
	}
	defer rows.Close()

	var records []storage.StatusRecord
	for rows.Next() {
		var record storage.StatusRecord
		if err := rows.Scan(&record.ID, &record.Label); err != nil {
			return nil, fmt.Errorf("scan status label: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status labels: %w", err)
	}
	return records, nil
}

func collectSteps(rows *sql.Rows) ([]storage.StepRecord, error) {
	var records []storage.StepRecord
	for rows.Next() {
		var record storage.StepRecord
		if err := rows.Scan(&record.ID, &record.CaseID, &record.Ordinal, &record.Description); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return records, nil
}
