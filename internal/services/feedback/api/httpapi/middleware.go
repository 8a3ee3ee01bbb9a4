package httpapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/stepwise/internal/platform/requestctx"
	"github.com/louisbranch/stepwise/internal/services/feedback/observability/audit"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
	"go.opentelemetry.io/otel/trace"
)

// WithIdentity copies the gateway-resolved caller identity into the request
// context so handlers and audit share one source.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if email := strings.TrimSpace(r.Header.Get(userEmailHeader)); email != "" {
			r = r.WithContext(requestctx.WithUserEmail(r.Context(), email))
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for audit classification.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// WithAudit emits one durable audit event per handled request. Emission is
// best-effort: failures are logged and never affect the response.
func WithAudit(emitter *audit.Emitter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		if emitter == nil {
			return
		}

		eventName := audit.HTTPWrite
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			eventName = audit.HTTPRead
		}
		severity := audit.SeverityInfo
		if recorder.status >= http.StatusInternalServerError {
			severity = audit.SeverityError
		} else if recorder.status >= http.StatusBadRequest {
			severity = audit.SeverityWarn
		}

		var traceID, spanID string
		if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
			spanID = sc.SpanID().String()
		}

		userEmail := strings.TrimSpace(r.Header.Get(userEmailHeader))
		if userEmail == "" {
			userEmail = strings.TrimSpace(r.URL.Query().Get("user_email"))
		}

		if err := emitter.Emit(r.Context(), storage.AuditEvent{
			EventName: eventName,
			Severity:  string(severity),
			UserEmail: userEmail,
			Resource:  r.URL.Path,
			TraceID:   traceID,
			SpanID:    spanID,
			Detail:    http.StatusText(recorder.status),
		}); err != nil {
			log.Printf("audit emit %s %s: %v", r.Method, r.URL.Path, err)
		}
	})
}
