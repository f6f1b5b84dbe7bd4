// Package server provides the HTTP REST API for the interview assistant.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-assistant/internal/extract"
)

// ErrNoSession indicates an operation that needs an active candidate session
type ErrNoSession struct{}

func (e *ErrNoSession) Error() string {
	return "no active interview session"
}

// ErrCandidateNotFound indicates a roster lookup miss
type ErrCandidateNotFound struct {
	ID string
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		noSession *ErrNoSession
		notFound  *ErrCandidateNotFound
		invalid   *ErrValidation
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &noSession):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrNotAResume):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extract.ErrUnsupportedFile):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
