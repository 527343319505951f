package services

import (
	"context"
	"time"

	"marketplace/internal/domain/models"
)

// EntityAuthorizer decides whether a principal may see an entity that files
// are attached to. Each entity type has its own rule; unknown types and
// missing entities are denied.
type EntityAuthorizer interface {
	CanViewEntity(ctx context.Context, principal models.Principal, entityType models.EntityType, entityID int64) (bool, error)
}

// AttemptLimiter counts attempts per key and rejects keys that exhausted
// their window with *domain.RateLimitedError.
type AttemptLimiter interface {
	Attempt(ctx context.Context, key string) error
}

// RegisterRequest represents a new account
type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

// LoginRequest represents password credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned after a successful register or login
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AccountService registers accounts and exchanges credentials for tokens
type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
}
