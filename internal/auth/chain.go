package auth

import (
	"errors"

	"marketplace/internal/domain/models"
)

// ChainVerifier accepts a token if any of its verifiers does. It lets
// locally issued HS256 tokens and externally issued JWKS tokens coexist.
type ChainVerifier struct {
	verifiers []JWTVerifier
}

// NewChainVerifier creates a verifier trying each verifier in order
func NewChainVerifier(verifiers ...JWTVerifier) *ChainVerifier {
	return &ChainVerifier{verifiers: verifiers}
}

// VerifyToken returns the claims of the first verifier that accepts the token
func (c *ChainVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	var errs []error
	for _, v := range c.verifiers {
		claims, err := v.VerifyToken(tokenString)
		if err == nil {
			return claims, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no token verifiers configured")
	}
	return nil, errors.Join(errs...)
}

// Close closes every verifier
func (c *ChainVerifier) Close() error {
	var errs []error
	for _, v := range c.verifiers {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
