package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"fitness-backend/internal/apperrors"
)

type envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Message: "success", Data: data})
}

// Error maps a service error to its status code and writes the error
// envelope. Unclassified errors become a 500 with a generic message so
// internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch apperrors.KindOf(err) {
	case apperrors.KindInvalid:
		status, message = http.StatusBadRequest, err.Error()
	case apperrors.KindUnauthorized:
		status, message = http.StatusUnauthorized, err.Error()
	case apperrors.KindForbidden:
		status, message = http.StatusForbidden, err.Error()
	case apperrors.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case apperrors.KindConflict:
		status, message = http.StatusConflict, err.Error()
	default:
		log.Printf("[ERROR] %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Message: message})
}
