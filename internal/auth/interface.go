package auth

import (
	"fmt"
	"strconv"

	"marketplace/internal/domain"
	"marketplace/internal/domain/models"
)

// JWTVerifier defines the interface for JWT token verification.
// This abstraction allows for different JWT verification implementations
// while keeping the middleware agnostic to the verification details.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

// PrincipalFromClaims converts verified claims into the request principal.
// The subject must be a positive numeric user id and the role a known role.
func PrincipalFromClaims(claims *models.Claims) (models.Principal, error) {
	id, err := strconv.ParseInt(claims.GetUserID(), 10, 64)
	if err != nil || id <= 0 {
		return models.Principal{}, fmt.Errorf("invalid subject %q: %w", claims.GetUserID(), domain.ErrUnauthorized)
	}
	if !claims.Role.Valid() {
		return models.Principal{}, fmt.Errorf("invalid role %q: %w", claims.Role, domain.ErrUnauthorized)
	}
	return models.Principal{ID: id, Role: claims.Role}, nil
}
