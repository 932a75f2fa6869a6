package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// sendErrorWithDetails includes the underlying error message unless the
// server runs in production, where upstream detail stays internal.
func sendErrorWithDetails(w http.ResponseWriter, message string, statusCode int, err error, production bool) {
	resp := ErrorResponse{Error: message}
	if err != nil && !production {
		resp.Details = err.Error()
	}
	writeJSON(w, statusCode, resp)
}
