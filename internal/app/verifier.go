package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"

	"marketplace/internal/auth"
	"marketplace/internal/config"
)

// NewTokenAuth returns the HS256 issuer used by login and the verifier used
// by the auth middleware. With JWKS_URL set, tokens from the external key
// set are accepted as well.
func NewTokenAuth(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*auth.HMACVerifier, auth.JWTVerifier, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if !cfg.IsDev() {
			return nil, nil, errors.New("JWT_SECRET is required outside development")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, nil, err
		}
		secret = hex.EncodeToString(buf)
		logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	issuer, err := auth.NewHMACVerifier(secret, cfg.TokenTTL, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.JWKSURL == "" {
		return issuer, issuer, nil
	}

	jwks, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return issuer, auth.NewChainVerifier(issuer, jwks), nil
}
