package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by access tokens.
// The subject claim holds the numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
