package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/domain/services"
	"marketplace/internal/httputil"
)

// maxLoginBody caps the buffered login body
const maxLoginBody = 64 << 10

// LoginGuard counts login attempts per client IP and email. Exhausted keys
// receive 429 before the credentials are checked.
func LoginGuard(limiter services.AttemptLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLoginBody))
			if err != nil {
				httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var creds struct {
				Email string `json:"email"`
			}
			// Malformed bodies are left for the handler to reject
			_ = json.Unmarshal(body, &creds)

			key := clientIP(r) + ":" + strings.ToLower(strings.TrimSpace(creds.Email))

			if err := limiter.Attempt(r.Context(), key); err != nil {
				var limited *domain.RateLimitedError
				if errors.As(err, &limited) {
					logger.Warn("login rate limited",
						"ip", clientIP(r),
						"retry_after_minutes", limited.RetryAfterMinutes(),
					)
					httputil.RespondRateLimited(w, limited)
					return
				}
				logger.Error("login limiter failed", "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
