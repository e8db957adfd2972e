package services

import (
	"errors"

	"sterna-backend/internal/models"
)

// ErrGenerationFailed is returned for every completion failure. Transport,
// auth and quota errors are not distinguished.
var ErrGenerationFailed = errors.New("failed to generate AI response")

// ValidationError reports request fields that failed validation. It is
// returned before any side effect.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string { return "Validation error" }

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, models.FieldError{Field: field, Message: message})
}
