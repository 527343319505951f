package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"marketplace/internal/httputil"
)

// Throttle applies a token bucket per client IP
type Throttle struct {
	limiters sync.Map // ip -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewThrottle creates a throttle allowing rps requests per second with the
// given burst
func NewThrottle(rps float64, burst int) *Throttle {
	return &Throttle{
		rate:  rate.Limit(rps),
		burst: burst,
	}
}

func (t *Throttle) limiter(key string) *rate.Limiter {
	if l, ok := t.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := t.limiters.LoadOrStore(key, rate.NewLimiter(t.rate, t.burst))
	return l.(*rate.Limiter)
}

// Allow reports whether a request for key may proceed
func (t *Throttle) Allow(key string) bool {
	return t.limiter(key).Allow()
}

// Middleware rejects requests over the per-IP rate with 429
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := t.limiter(clientIP(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(t.burst))
		if !l.Allow() {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "1")
			httputil.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(l.Tokens())))

		next.ServeHTTP(w, r)
	})
}
