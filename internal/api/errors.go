package api

import (
	"errors"
	"fmt"

	"inviter/internal/models"
)

// Sentinel errors for failures the UI gives distinct treatment.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("invitation expired")
)

// APIError is any other non-2xx response, carrying the server's detail
// message when the body had one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ConflictError reports a duplicate response submission. The server
// includes the answer it already recorded so the client can converge
// on it instead of surfacing an error.
type ConflictError struct {
	PreviousAnswer models.Answer
}

func (e *ConflictError) Error() string {
	return "response already recorded"
}

// Detail extracts the server-provided detail message from an error, or
// returns fallback. Used wherever a failure becomes user-visible copy.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
