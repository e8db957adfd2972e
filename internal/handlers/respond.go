package handlers

import (
	"encoding/json"
	"net/http"

	"sterna-backend/internal/models"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

func errorRespWithDetails(message string, details []models.FieldError) models.ErrorResponse {
	return models.ErrorResponse{Error: message, Details: details}
}
