// Package shared centralizes domain error translation and JSON writing so
// every handler produces the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "anuragmeds/pkg/domain-errors"
)

// WriteError translates a domain error into the JSON error envelope. Internal
// detail never reaches the caller; only the coded, caller-safe message does.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             string(code),
		"error_description": dErrors.MessageOf(err),
	})
}

// WriteJSON writes a success payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
