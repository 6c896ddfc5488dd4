// Package middleware holds HTTP wrappers applied in front of every route.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"muze-kasif/internal/config"
	"muze-kasif/internal/logger"
)

// TokenBucket is a per-second limiter shared by every route.
// Background: sits in front of the access log and the API mux; enabled and
// sized by RATE_LIMIT_ENABLED and RATE_LIMIT_QPS.
// Constraints: refills to capacity at the start of each wall-clock second;
// requests beyond capacity are rejected, never queued. One bucket per process,
// not per client.
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

// NewTokenBucket starts full, reading time.Now.
func NewTokenBucket(capacity int) *TokenBucket {
	return &TokenBucket{capacity: capacity, tokens: capacity, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit wraps next with a global token bucket.
// Background: returns next untouched when the limiter is disabled or QPS is
// not positive, so the chain in cmd/main.go never branches.
// Constraints: a rejected request gets 429 with retry-after: 1 and an empty
// body; it is logged at debug only.
func RateLimit(cfg config.RateLimitConfig, next http.Handler) http.Handler {
	if !cfg.Enabled || cfg.QPS <= 0 {
		return next
	}
	logger.L().Info("rate_limit_enabled", "qps", cfg.QPS)
	return limit(NewTokenBucket(cfg.QPS), next)
}

func limit(tb *TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			logger.L().Debug("rate_limited", "path", r.URL.Path)
			w.Header().Set("retry-after", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
