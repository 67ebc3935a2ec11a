package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "ratelimit:"

// Result describes one rate limit decision.
type Result struct {
	Allowed    bool
	Remaining  int
	Limit      int
	RetryAfter time.Duration
}

// Limiter is a fixed-window request counter backed by Redis. Windows are
// aligned to wall-clock multiples of the window size, one counter per key
// per window.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// New creates a Limiter allowing limit requests per window. Non-positive
// arguments fall back to 60 per minute.
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow counts a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	windowStart := now.Truncate(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, windowStart.Unix())

	n, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, err
	}
	if n == 1 {
		_ = l.rdb.Expire(ctx, redisKey, l.window).Err()
	}
	remaining := l.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    int(n) <= l.limit,
		Remaining:  remaining,
		Limit:      l.limit,
		RetryAfter: windowStart.Add(l.window).Sub(now),
	}, nil
}

// Middleware enforces l per authenticated user, falling back to the client
// IP on routes that run before authentication. Health endpoints are never
// limited. Redis errors do not block requests.
func Middleware(l *Limiter, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/health") {
			c.Next()
			return
		}
		key := c.ClientIP()
		if u, ok := auth.UserFromContext(c); ok {
			key = u.ID
		}
		res, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.RetryAfter).Unix(), 10))
		if !res.Allowed {
			retry := int(res.RetryAfter.Round(time.Second).Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.CodeRateLimited, "rate limit exceeded, try again later"))
			return
		}
		c.Next()
	}
}
