package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/ratelimit"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

// Rate limited actions
const (
	ActionUpload = "upload"
	ActionDelete = "delete"
)

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

// NewRateLimitConfig builds the per-action limiters. A nil client disables rate limiting.
func NewRateLimitConfig(redisClient *redis.Client, limits config.RateLimits) *RateLimitConfig {
	rlc := &RateLimitConfig{
		limiters: make(map[string]*ratelimit.TokenBucket),
	}
	if redisClient == nil {
		return rlc
	}

	rlc.limiters[ActionUpload] = ratelimit.NewTokenBucket(redisClient, limits.Uploads.Capacity, limits.Uploads.Refill)
	rlc.limiters[ActionDelete] = ratelimit.NewTokenBucket(redisClient, limits.Deletes.Capacity, limits.Deletes.Refill)

	return rlc
}

// subject identifies who is charged: the authenticated user, or the client address.
func subject(r *http.Request) string {
	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limiter, exists := rlc.limiters[action]
		if !exists {
			// No limiter configured for this action
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Take(r.Context(), subject(r), action)
			if err != nil {
				// Redis trouble must not take uploads down with it
				slog.Warn("rate limit check failed, allowing request",
					slog.String("action", action),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(res.Reset.Seconds())))

			if !res.Allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
