// Package response writes the JSON envelopes and plain-text bodies the API
// answers with.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/bookshelf/pkg/apperr"
	"github.com/shashiranjanraj/bookshelf/pkg/logger"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// JSON writes v as the whole response body.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, status int, format string, args ...interface{}) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, format, args...)
}

// OK sends 200 "success".
func OK(w http.ResponseWriter) {
	Text(w, http.StatusOK, "success")
}

// Error sends a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, message string, errs map[string]string) {
	if message == "" {
		message = "Validation failed"
	}
	JSON(w, http.StatusBadRequest, envelope{
		Status:  http.StatusBadRequest,
		Message: message,
		Errors:  errs,
	})
}

// Unauthorized sends a 401 with a challenge for scheme ("Basic", "Bearer").
func Unauthorized(w http.ResponseWriter, scheme, message string) {
	if scheme != "" {
		w.Header().Set("WWW-Authenticate", scheme+` realm="bookshelf"`)
	}
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// FromError maps err onto its status code and envelope. Internal failures
// are logged with the request-scoped logger and answered with a generic 500.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	switch status {
	case http.StatusInternalServerError:
		logger.WithCtx(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
		Error(w, status, "Internal Server Error")
	case http.StatusBadRequest:
		ValidationError(w, apperr.PublicMessage(err), apperr.FieldErrors(err))
	default:
		Error(w, status, apperr.PublicMessage(err))
	}
}
