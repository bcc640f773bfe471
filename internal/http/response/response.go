package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body. Encoding errors past the header write
// can only be logged by the server, not surfaced to the client.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Error writes the `{error, details?}` shape the frontend consumes.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	JSON(w, r, status, errorBody{Error: message, Details: details})
}
