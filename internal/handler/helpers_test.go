package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/domain"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation field", &domain.ValidationError{Message: "bad", Field: "title"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: title", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("project 1: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("file 2: %w", domain.ErrForbidden), http.StatusForbidden},
		{"conflict type", &domain.ConflictError{Message: "exists"}, http.StatusConflict},
		{"wrapped conflict sentinel", fmt.Errorf("proposal exists: %w", domain.ErrConflict), http.StatusConflict},
		{"rate limited type", &domain.RateLimitedError{Message: "slow", RetryAfter: time.Minute}, http.StatusTooManyRequests},
		{"wrapped rate limited sentinel", fmt.Errorf("login: %w", domain.ErrRateLimited), http.StatusTooManyRequests},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleCreateConflict_SentinelWithoutExisting(t *testing.T) {
	fetched := false
	fetch := func(id int64) (*struct{}, error) {
		fetched = true
		return &struct{}{}, nil
	}

	rec := httptest.NewRecorder()
	HandleCreateConflict(rec, fmt.Errorf("proposal for project 3 already exists: %w", domain.ErrConflict), fetch)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if fetched {
		t.Error("fetch should not run without an existing id")
	}
}
