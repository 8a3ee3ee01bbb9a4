package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/stepwise/internal/services/feedback/storage/sqlite"
	_ "modernc.org/sqlite"
)

func TestRunRequiresConfig(t *testing.T) {
	t.Parallel()

	if err := Run(context.Background(), Config{Port: 0, DBPath: "x.db"}); err == nil {
		t.Fatal("expected error for missing port")
	}
	if err := Run(context.Background(), Config{Port: 8095, DBPath: " "}); err == nil {
		t.Fatal("expected error for missing db path")
	}
}

func TestHandlerEndToEnd(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "feedback.db")
	store, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	seedDirectory(t, dbPath)

	handler := NewHandler(store)

	// Submit feedback as the seeded client.
	req := httptest.NewRequest(http.MethodPost, "/api/feedback",
		strings.NewReader(`{"step_id":"step-a","notes":"checkout loads","status_label":"Passed"}`))
	req.Header.Set("X-User-Email", "client@example.com")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// The pair history reflects the write.
	req = httptest.NewRequest(http.MethodGet, "/api/feedback/pair?step_id=step-a&user_email=client@example.com", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("pair: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var pairBody struct {
		History []struct {
			Notes  string `json:"notes"`
			Status struct {
				Label string `json:"label"`
			} `json:"status"`
		} `json:"history"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &pairBody); err != nil {
		t.Fatalf("decode pair response: %v", err)
	}
	if len(pairBody.History) != 1 || pairBody.History[0].Status.Label != "Passed" {
		t.Fatalf("unexpected pair history: %+v", pairBody)
	}

	// The step view covers the full roster, sentinel included.
	req = httptest.NewRequest(http.MethodGet, "/api/feedback/steps/step-a", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("step: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var stepBody struct {
		Feedback []struct {
			UserID      string `json:"user_id"`
			StatusLabel string `json:"status_label"`
			Recorded    bool   `json:"recorded"`
		} `json:"feedback"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &stepBody); err != nil {
		t.Fatalf("decode step response: %v", err)
	}
	if len(stepBody.Feedback) != 2 {
		t.Fatalf("expected one row per client, got %+v", stepBody)
	}
	if !stepBody.Feedback[0].Recorded || stepBody.Feedback[0].StatusLabel != "Passed" {
		t.Fatalf("expected recorded row first in roster order, got %+v", stepBody.Feedback)
	}
	if stepBody.Feedback[1].Recorded || stepBody.Feedback[1].StatusLabel != "Not Started" {
		t.Fatalf("expected sentinel for silent client, got %+v", stepBody.Feedback)
	}

	// The project matrix is steps x clients.
	req = httptest.NewRequest(http.MethodGet, "/api/feedback/projects/project-1", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("project: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var matrixBody struct {
		Cells [][]struct {
			StatusLabel string `json:"status_label"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &matrixBody); err != nil {
		t.Fatalf("decode matrix response: %v", err)
	}
	if len(matrixBody.Cells) != 2 || len(matrixBody.Cells[0]) != 2 {
		t.Fatalf("expected 2x2 matrix, got %+v", matrixBody)
	}
	if matrixBody.Cells[0][0].StatusLabel != "Passed" {
		t.Fatalf("expected recorded cell, got %+v", matrixBody.Cells[0][0])
	}
	if matrixBody.Cells[1][1].StatusLabel != "Not Started" {
		t.Fatalf("expected sentinel cell, got %+v", matrixBody.Cells[1][1])
	}

	// Unknown status labels are rejected with a localized message.
	req = httptest.NewRequest(http.MethodPost, "/api/feedback",
		strings.NewReader(`{"step_id":"step-a","status_label":"Meh"}`))
	req.Header.Set("X-User-Email", "client@example.com")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown label, got %d", resp.Code)
	}
}

// seedDirectory writes roster rows directly; the service treats the
// directory as read-only so tests seed at the SQL level.
func seedDirectory(t *testing.T, dbPath string) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open seed connection: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	later := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
	statements := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)", []any{"project-1", "Rollout", at}},
		{"INSERT INTO suites (id, project_id, name, created_at) VALUES (?, ?, ?, ?)", []any{"suite-1", "project-1", "Checkout", at}},
		{"INSERT INTO cases (id, suite_id, name, created_at) VALUES (?, ?, ?, ?)", []any{"case-1", "suite-1", "Guest checkout", at}},
		{"INSERT INTO steps (id, case_id, ordinal, description, created_at) VALUES (?, ?, ?, ?, ?)", []any{"step-a", "case-1", 0, "Open cart", at}},
		{"INSERT INTO steps (id, case_id, ordinal, description, created_at) VALUES (?, ?, ?, ?, ?)", []any{"step-b", "case-1", 1, "Pay", at}},
		{"INSERT INTO users (id, email, first_name, last_name, role, created_at) VALUES (?, ?, ?, ?, ?, ?)", []any{"client-1", "client@example.com", "First", "Client", "client", at}},
		{"INSERT INTO users (id, email, first_name, last_name, role, created_at) VALUES (?, ?, ?, ?, ?, ?)", []any{"client-2", "other@example.com", "Second", "Client", "client", later}},
		{"INSERT INTO project_members (project_id, user_id, created_at) VALUES (?, ?, ?)", []any{"project-1", "client-1", at}},
		{"INSERT INTO project_members (project_id, user_id, created_at) VALUES (?, ?, ?)", []any{"project-1", "client-2", at}},
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement.query, statement.args...); err != nil {
			t.Fatalf("seed directory: %v", err)
		}
	}
}
