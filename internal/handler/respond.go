package handler

import (
	"encoding/json"
	"net/http"

	appErr "github.com/havenhouse/hms/internal/errors"
)

// inline error responder
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondServiceError maps the error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case appErr.IsInvalidInput(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case appErr.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	case appErr.IsUnauthorized(err):
		respondError(w, http.StatusUnauthorized, err.Error())
	case appErr.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
