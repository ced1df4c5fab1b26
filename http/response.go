package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mediavault/mediavault"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the response matching the error taxonomy.
// NotFound is reported before Unauthorized by construction: the service
// checks existence first. Anything unclassified is an opaque 500; the
// detail is logged, not surfaced.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediavault.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, mediavault.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Object not found")
	case errors.Is(err, mediavault.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Invalid owner for the specified object")
	case errors.Is(err, mediavault.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", "An object with the same name already exists")
	default:
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
