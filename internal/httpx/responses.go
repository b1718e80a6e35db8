package httpx

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the error body shape: a human-readable message plus an
// optional detail string for unexpected failures.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSON writes v as the response body with the given status code. Successful
// responses are the raw record or array, not an envelope.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONMessage writes {"message": ...}.
func JSONMessage(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}

// JSONErrorDetail writes {"message": ..., "error": ...} for unexpected
// failures where the underlying error is useful for diagnostics.
func JSONErrorDetail(w http.ResponseWriter, status int, message string, err error) {
	resp := MessageResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	JSON(w, status, resp)
}
