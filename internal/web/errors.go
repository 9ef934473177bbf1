package web

// errors.go turns service errors into HTTP responses.
//
// The error flow:
//  1. Handler receives an error from the service
//  2. Calls respondError(w, r, err)
//  3. The status comes from statusFor and the message from core.MapError
//  4. The technical error is logged with the request ID for correlation
//  5. The client gets the user message as JSON, or as HTML when it asked for it
//
// Data errors never come through here. They are part of a 200 report.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	"github.com/input-output-hk/atala-prism-sub004/internal/logging"
	"github.com/input-output-hk/atala-prism-sub004/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var errNoFile = errors.New("no file provided")

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrUnknownSchema):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNotContactImport):
		return http.StatusConflict
	case errors.Is(err, core.ErrReportHasErrors):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyImports), errors.Is(err, core.ErrNoContactStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errNoFile), strings.Contains(err.Error(), "invalid csv"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its user message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	if status == http.StatusRequestEntityTooLarge {
		userMsg = core.MapError(core.ErrFileTooLarge)
	}

	logger := logging.FromContext(r.Context())
	logAttrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", logAttrs...)
	} else {
		logger.Warn("request error", logAttrs...)
	}

	if status == http.StatusServiceUnavailable && errors.Is(err, core.ErrTooManyImports) {
		w.Header().Set("Retry-After", "5")
	}

	if wantsHTML(r) {
		respondErrorHTML(w, r, userMsg, status)
		return
	}
	writeJSON(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// respondErrorHTML renders the user message as an HTML alert.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// wantsHTML reports whether the client asked for an HTML report.
func wantsHTML(r *http.Request) bool {
	if r.URL.Query().Get("format") == "html" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
