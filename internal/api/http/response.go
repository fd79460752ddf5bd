package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/logger"
)

// envelope is the wire shape for every response: {success, data | message}.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

// writeError maps the service error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, envelope{Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, envelope{Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Message: err.Error()})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal server error"})
	}
}

// writeNotFoundOrDenied is the neutral outcome for engine-level boolean
// failures; it deliberately does not reveal whether the resource exists.
func writeNotFoundOrDenied(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, envelope{Message: "not found or not authorized"})
}

func writeConflict(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, envelope{Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body"})
		return false
	}
	return true
}
