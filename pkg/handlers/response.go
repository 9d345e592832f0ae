// Package handlers contains the HTTP handlers for the chatbot API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps sentinel service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrNoActiveConnection):
		_ = ErrorResponse(w, http.StatusConflict, "no_active_connection", "No database connected. Connect a database first.")
	case errors.Is(err, apperrors.ErrNoSchemaAvailable):
		_ = ErrorResponse(w, http.StatusConflict, "no_schema_available", "No schema available for the active connection.")
	case errors.Is(err, apperrors.ErrConnectionFailed):
		_ = ErrorResponse(w, http.StatusBadGateway, "connection_failed", "Could not connect to the database with the supplied credentials.")
	case errors.Is(err, apperrors.ErrSchemaExtractionFailed):
		_ = ErrorResponse(w, http.StatusBadGateway, "schema_extraction_failed", "Connected but could not read the database schema.")
	case errors.Is(err, apperrors.ErrTranslationFailed):
		_ = ErrorResponse(w, http.StatusUnprocessableEntity, "translation_failed", "Could not translate the question into a query.")
	case errors.Is(err, apperrors.ErrInvalidOperation):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_operation", err.Error())
	default:
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
