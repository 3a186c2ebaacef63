package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses. Validation
// failures carry their per-field messages; everything unrecognized collapses
// to a generic 500.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   appErr.Message,
			"fields":  appErr.Fields,
		})
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnavailable:
		respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userID extracts the already-authenticated caller identity. Session
// resolution happens upstream; an empty value means an anonymous caller.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
