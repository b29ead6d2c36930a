// internal/app/features/errors/errors.go

// Package errors carries the shared error responses for the JSON API:
// the ErrorLogger handlers use for unexpected failures, and the envelope
// helpers that keep every error body the same shape.
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs server-side logging with a client-safe JSON response,
// so handlers never leak internal error detail to callers while still
// recording the full failure.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger over the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError records the internal failure and answers 500 with the
// user-facing message. internalMsg and err go to the log only.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, internalMsg string, err error, userMsg string) {
	e.log.Error(internalMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteError(w, http.StatusInternalServerError, "internal", userMsg)
}
