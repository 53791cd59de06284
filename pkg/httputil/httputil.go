package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Use-case response statuses. Callers must inspect the envelope status rather
// than the HTTP status alone: validation and propagation failures ride a 200
// response with status "Error".
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Envelope is the response shape shared by all use-case endpoints.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON serializes v with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a 200 Success envelope carrying data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// WriteFailure writes an Error envelope. The HTTP code is the caller's
// choice; domain failures use 200 to keep the envelope authoritative.
func WriteFailure(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Envelope{Status: StatusError, Message: msg})
}

// Decode reads a JSON body into T, rejecting bodies that are not valid JSON.
// Unknown fields are tolerated so message schemas can evolve independently.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, fmt.Errorf("decode request body: %w", err)
	}
	return v, nil
}
