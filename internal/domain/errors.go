package domain

import (
	"errors"
	"math"
	"net/http"
	"time"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
)

// ValidationError indicates rejected input. Field names the first check
// that failed (for uploads: "extension", "content_type", "entity_type", "size").
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (project, proposal, user)
	ResourceID   int64  // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// RateLimitedError is returned when an identifier has exhausted its attempts
// for the current window.
type RateLimitedError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string        { return e.Message }
func (e *RateLimitedError) StatusCode() int      { return http.StatusTooManyRequests }
func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// RetryAfterMinutes rounds the remaining window up to whole minutes.
func (e *RateLimitedError) RetryAfterMinutes() int {
	return int(math.Ceil(e.RetryAfter.Minutes()))
}
