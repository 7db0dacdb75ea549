// Package shared holds the JSON envelope helpers used by every HTTP
// handler so error translation stays consistent across domains.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "docvault/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorBody is the JSON error envelope. The message names the identifiers
// that caused the failure so callers can correct input instead of retrying
// blindly.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError translates a domain error into the HTTP error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := ""
	var de *dErrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), errorBody{Error: string(code), Message: message})
}
