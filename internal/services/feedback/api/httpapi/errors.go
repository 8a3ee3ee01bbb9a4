package httpapi

import (
	"errors"
	"net/http"

	apperrors "github.com/louisbranch/stepwise/internal/platform/errors"
	"github.com/louisbranch/stepwise/internal/platform/errors/i18n"
	"golang.org/x/text/language"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var supportedLocales = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pt-BR"),
}

var localeMatcher = language.NewMatcher(supportedLocales)

// resolveLocale picks a supported locale from the Accept-Language header,
// falling back to en-US.
func resolveLocale(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return i18n.BaseLocale
	}
	_, index, _ := localeMatcher.Match(tags...)
	return supportedLocales[index].String()
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// renderError writes a localized JSON error envelope. Internal messages and
// causes stay in the structured error for logs; the client only sees the
// code and the translated message.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	locale := resolveLocale(r)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeUnknown, "internal error", err)
	}

	catalog := i18n.GetCatalog(locale)
	message := catalog.Format(string(appErr.Code), appErr.Metadata)
	statusErr := appErr.ToGRPCStatus(locale, message)

	writeJSON(w, httpStatusFromError(statusErr, http.StatusInternalServerError), map[string]any{
		"error": errorBody{
			Code:    string(appErr.Code),
			Message: message,
		},
	})
}

// httpStatusFromError maps common gRPC status codes to HTTP status codes.
// It returns fallback when err is not a gRPC status or is unmapped.
func httpStatusFromError(err error, fallback int) int {
	st, ok := status.FromError(err)
	if !ok {
		return fallback
	}
	switch st.Code() {
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return fallback
	}
}
