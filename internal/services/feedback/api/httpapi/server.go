// Package httpapi exposes the feedback service over HTTP/JSON.
//
// Caller identity is resolved upstream and arrives as the X-User-Email
// header; this service trusts it the way it trusts any other gateway-set
// metadata. The three query shapes are distinct routes on purpose so no
// handler has to guess intent from which fields happen to be present.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/louisbranch/stepwise/internal/services/feedback/aggregate"
	"github.com/louisbranch/stepwise/internal/services/feedback/domain"
)

// FeedbackService is the write-and-history surface the API needs.
type FeedbackService interface {
	Submit(ctx context.Context, input domain.SubmitInput) (domain.FeedbackEvent, error)
	PairHistory(ctx context.Context, stepID, userEmail string) ([]domain.FeedbackEvent, error)
}

// AggregateReader is the derived-state surface the API needs.
type AggregateReader interface {
	Latest(ctx context.Context, stepID, userID string) (aggregate.Current, error)
	LatestPerUser(ctx context.Context, stepID string) ([]aggregate.Current, error)
	ProjectMatrix(ctx context.Context, projectID string) (aggregate.Matrix, error)
}

// UserResolver maps caller emails to directory users.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// Server wires feedback HTTP routes to the domain service and aggregate
// engine.
type Server struct {
	service FeedbackService
	reader  AggregateReader
	users   UserResolver
}

// NewServer builds the feedback HTTP server.
func NewServer(service FeedbackService, reader AggregateReader, users UserResolver) *Server {
	return &Server{service: service, reader: reader, users: users}
}

// Routes returns the feedback API handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("POST /api/feedback", s.handleSubmit)
	mux.HandleFunc("GET /api/feedback/pair", s.handlePair)
	mux.HandleFunc("GET /api/feedback/steps/{stepID}", s.handleStep)
	mux.HandleFunc("GET /api/feedback/projects/{projectID}", s.handleProject)
	return mux
}

// feedbackEventJSON is the wire projection of one persisted event.
type feedbackEventJSON struct {
	ID        string     `json:"id"`
	StepID    string     `json:"step_id"`
	UserID    string     `json:"user_id"`
	Notes     string     `json:"notes"`
	Status    statusJSON `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type statusJSON struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// currentJSON is the wire projection of a derived pair state. EventID and
// CreatedAt are absent for the synthesized Not Started sentinel.
type currentJSON struct {
	StepID      string     `json:"step_id"`
	UserID      string     `json:"user_id"`
	Notes       string     `json:"notes"`
	StatusLabel string     `json:"status_label"`
	Recorded    bool       `json:"recorded"`
	EventID     string     `json:"event_id,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func toEventJSON(event domain.FeedbackEvent) feedbackEventJSON {
	return feedbackEventJSON{
		ID:     event.ID,
		StepID: event.StepID,
		UserID: event.UserID,
		Notes:  event.Notes,
		Status: statusJSON{
			ID:    event.StatusID,
			Label: event.StatusLabel,
		},
		CreatedAt: event.CreatedAt,
	}
}

func toCurrentJSON(current aggregate.Current) currentJSON {
	out := currentJSON{
		StepID:      current.StepID,
		UserID:      current.UserID,
		Notes:       current.Notes,
		StatusLabel: current.StatusLabel,
		Recorded:    current.Recorded,
	}
	if current.Recorded {
		out.EventID = current.EventID
		createdAt := current.CreatedAt
		out.CreatedAt = &createdAt
	}
	return out
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
