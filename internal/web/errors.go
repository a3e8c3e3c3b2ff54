package web

// errors.go provides unified error response handling for the web layer.
//
// Every failed request is:
//   - logged with the technical error and request ID
//   - answered with a coded user message from core.MapError
//   - written as an HTML fragment for HTMX requests, JSON otherwise
//
// The status code is derived from the error category, so handlers only
// ever call respondError(w, r, err).

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/JonMunkholm/reshape/internal/logging"
	"github.com/JonMunkholm/reshape/internal/web/templates"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errNotJSONFile    = errors.New("not a json file")
	errNoFile         = errors.New("no file provided")
	errRateLimited    = errors.New("rate limit exceeded")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrDuplicateField), errors.Is(err, core.ErrDuplicateRule):
		return http.StatusConflict
	case errors.Is(err, core.ErrIndex), errors.Is(err, core.ErrShape), errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrParse), errors.Is(err, core.ErrProfile),
		errors.Is(err, errBadRequestBody), errors.Is(err, errNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNotJSONFile):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, status)
		return
	}
	respondErrorJSON(w, userMsg, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error alert", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
