// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the envelope every error response uses. Code is a stable
// machine-readable identifier; Message is actionable prose for the user.
// Details carries error-specific payloads, like the child count on a
// has_children refusal or the committed ids of a partial batch.
type ErrorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	} `json:"error"`
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorDetails(w, status, code, message, nil)
}

// WriteErrorDetails writes the standard error envelope with extra payload.
func WriteErrorDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	var body ErrorBody
	body.Error.Code = code
	body.Error.Message = message
	body.Error.Details = details
	WriteJSON(w, status, body)
}
