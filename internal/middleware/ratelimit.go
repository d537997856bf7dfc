package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"loanapproval/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RateLimiter applies a fixed-window rate limit per client IP, backed by Redis.
type RateLimiter struct {
	cache  *redis.Client
	limit  int
	window time.Duration
	logger logger.Logger
}

// NewRateLimiter constructs a RateLimiter with the given limit and window.
func NewRateLimiter(cache *redis.Client, limit int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		limit:  limit,
		window: window,
		logger: log,
	}
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		key := "ratelimit:" + ip

		count, err := rl.cache.Incr(r.Context(), key).Result()
		if err != nil {
			rl.logger.Error("Rate limit counter failed", map[string]interface{}{"ip": ip, "error": err.Error()})
			jsonError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if count == 1 {
			if err := rl.cache.Expire(r.Context(), key, rl.window).Err(); err != nil {
				rl.logger.Error("Rate limit expiry failed", map[string]interface{}{"ip": ip, "error": err.Error()})
				jsonError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		if count > int64(rl.limit) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			rl.logger.Warn("Rate limit exceeded", map[string]interface{}{"ip": ip, "path": r.URL.Path})
			jsonError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.limit-int(count)))

		next.ServeHTTP(w, r)
	})
}
