package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// LimitDecision is the outcome of an abuse-limiter check. Reason is one of
// models.ErrRateLimited or models.ErrBlocked when the request is denied.
type LimitDecision struct {
	Allowed bool
	Reason  error
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Check(ctx context.Context, key string) (LimitDecision, error)
}

const (
	rateLimitKeyPrefix = "ratelimit:"
	blocklistKey       = "ratelimit:blocklist"
)

// RedisLimiter is a fixed-window rate limiter with a manual blocklist.
// A key on the blocklist set is denied outright with DenyBlocked; otherwise
// the request count in the current window is compared against max.
type RedisLimiter struct {
	client *goredis.Client
	max    int64
	window time.Duration
}

func NewRedisLimiter(client *goredis.Client, max int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) (LimitDecision, error) {
	blocked, err := l.client.SIsMember(ctx, blocklistKey, key).Result()
	if err != nil {
		return LimitDecision{}, err
	}
	if blocked {
		return LimitDecision{Allowed: false, Reason: models.ErrBlocked}, nil
	}

	count, err := l.client.Incr(ctx, rateLimitKeyPrefix+key).Result()
	if err != nil {
		return LimitDecision{}, err
	}
	if count == 1 {
		l.client.Expire(ctx, rateLimitKeyPrefix+key, l.window)
	}
	if count > l.max {
		return LimitDecision{Allowed: false, Reason: models.ErrRateLimited}, nil
	}
	return LimitDecision{Allowed: true}, nil
}

// RateLimitMiddleware consults the limiter before the handler runs, so a
// denied request never reaches the command service and has no side effects.
// Keyed by user ID when authenticated, client IP otherwise. Fails open on
// limiter errors: a Redis outage must not take writes down with it.
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetUserID(c)
		if !ok {
			key = c.ClientIP()
		}

		decision, err := limiter.Check(c.Request.Context(), key)
		if err != nil {
			log.Printf("Rate limiter check failed for %s: %v", key, err)
			c.Next()
			return
		}
		if !decision.Allowed {
			if errors.Is(decision.Reason, models.ErrBlocked) {
				RespondWithError(c, http.StatusForbidden, "Request blocked")
			} else {
				RespondWithError(c, http.StatusTooManyRequests, "Too many requests, slow down")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
