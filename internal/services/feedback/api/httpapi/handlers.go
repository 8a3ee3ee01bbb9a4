package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
	"github.com/louisbranch/stepwise/internal/platform/requestctx"
	"github.com/louisbranch/stepwise/internal/services/feedback/domain"
)

// userEmailHeader carries the caller identity resolved by the gateway.
const userEmailHeader = "X-User-Email"

type submitRequest struct {
	StepID      string `json:"step_id"`
	Notes       string `json:"notes"`
	StatusLabel string `json:"status_label"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userEmail := requestctx.UserEmailFromContext(r.Context())
	if userEmail == "" {
		userEmail = strings.TrimSpace(r.Header.Get(userEmailHeader))
	}
	if userEmail == "" {
		renderError(w, r, domain.ErrUserRequired)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, apperrors.Wrap(apperrors.CodeMalformedRequest, "request body is not valid JSON", err))
		return
	}

	event, err := s.service.Submit(r.Context(), domain.SubmitInput{
		StepID:      req.StepID,
		UserEmail:   userEmail,
		Notes:       req.Notes,
		StatusLabel: req.StatusLabel,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"feedback": toEventJSON(event)})
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	stepID := strings.TrimSpace(r.URL.Query().Get("step_id"))
	userEmail := strings.TrimSpace(r.URL.Query().Get("user_email"))
	if stepID == "" {
		renderError(w, r, domain.ErrStepRequired)
		return
	}
	if userEmail == "" {
		renderError(w, r, domain.ErrUserRequired)
		return
	}
	onlyLatest := false
	if raw := r.URL.Query().Get("only_latest"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			renderError(w, r, apperrors.WithMetadata(apperrors.CodeMalformedRequest,
				"only_latest must be a boolean",
				map[string]string{"value": raw}))
			return
		}
		onlyLatest = parsed
	}

	if onlyLatest {
		user, err := s.users.GetUserByEmail(r.Context(), userEmail)
		if err != nil {
			renderError(w, r, err)
			return
		}
		current, err := s.reader.Latest(r.Context(), stepID, user.ID)
		if err != nil {
			renderError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"feedback": toCurrentJSON(current)})
		return
	}

	history, err := s.service.PairHistory(r.Context(), stepID, userEmail)
	if err != nil {
		renderError(w, r, err)
		return
	}
	events := make([]feedbackEventJSON, 0, len(history))
	for _, event := range history {
		events = append(events, toEventJSON(event))
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": events})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	stepID := strings.TrimSpace(r.PathValue("stepID"))
	if stepID == "" {
		renderError(w, r, domain.ErrStepRequired)
		return
	}

	rows, err := s.reader.LatestPerUser(r.Context(), stepID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	out := make([]currentJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCurrentJSON(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step_id":  stepID,
		"feedback": out,
	})
}

type matrixStepJSON struct {
	ID          string `json:"id"`
	CaseID      string `json:"case_id"`
	Ordinal     int    `json:"ordinal"`
	Description string `json:"description"`
}

type matrixUserJSON struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.PathValue("projectID"))
	if projectID == "" {
		renderError(w, r, apperrors.New(apperrors.CodeFeedbackProjectRequired, "project id is required"))
		return
	}

	matrix, err := s.reader.ProjectMatrix(r.Context(), projectID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	steps := make([]matrixStepJSON, 0, len(matrix.Steps))
	for _, step := range matrix.Steps {
		steps = append(steps, matrixStepJSON{
			ID:          step.ID,
			CaseID:      step.CaseID,
			Ordinal:     step.Ordinal,
			Description: step.Description,
		})
	}
	users := make([]matrixUserJSON, 0, len(matrix.Users))
	for _, user := range matrix.Users {
		users = append(users, matrixUserJSON{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}
	cells := make([][]currentJSON, 0, len(matrix.Cells))
	for _, row := range matrix.Cells {
		cellRow := make([]currentJSON, 0, len(row))
		for _, cell := range row {
			cellRow = append(cellRow, toCurrentJSON(cell))
		}
		cells = append(cells, cellRow)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project_id": matrix.ProjectID,
		"steps":      steps,
		"users":      users,
		"cells":      cells,
	})
}
