package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const testRedisAddr = "localhost:6379"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew_Defaults(t *testing.T) {
	l := New(nil, 0, 0)
	if l.limit != 60 {
		t.Errorf("limit = %d, want 60", l.limit)
	}
	if l.window != time.Minute {
		t.Errorf("window = %v, want 1m", l.window)
	}

	l = New(nil, 100, 5*time.Second)
	if l.limit != 100 || l.window != 5*time.Second {
		t.Errorf("limiter = %d/%v, want 100/5s", l.limit, l.window)
	}
}

func TestMiddleware_SkipsHealth(t *testing.T) {
	// nil Redis client: the middleware must never touch it on health paths.
	l := New(nil, 1, time.Minute)
	log := logrus.New()

	e := gin.New()
	e.GET("/health/live", Middleware(l, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "" {
			t.Error("rate limit headers set on a health endpoint")
		}
	}
}

func redisOrSkip(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAllow(t *testing.T) {
	client := redisOrSkip(t)
	l := New(client, 3, time.Minute)
	key := "test-" + uuid.NewString()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied, want allowed", i)
		}
		if res.Remaining != 3-i {
			t.Errorf("request %d: Remaining = %d, want %d", i, res.Remaining, 3-i)
		}
		if res.Limit != 3 {
			t.Errorf("Limit = %d, want 3", res.Limit)
		}
	}

	res, err := l.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if res.Allowed {
		t.Error("request over the limit allowed")
	}
	if res.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", res.Remaining)
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v, want within (0, 1m]", res.RetryAfter)
	}
}

func TestMiddleware_Limits(t *testing.T) {
	client := redisOrSkip(t)
	l := New(client, 2, time.Minute)
	log := logrus.New()

	e := gin.New()
	e.GET("/api/things", Middleware(l, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	// All requests share one client IP, so they count against one key. The
	// IP is randomized per run so reruns inside one window never collide.
	b := uuid.New()
	addr := fmt.Sprintf("10.%d.%d.%d:1234", b[0], b[1], b[2])
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		w := do()
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200 (body %s)", i, w.Code, w.Body.String())
		}
		if w.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("X-RateLimit-Limit = %q, want 2", w.Header().Get("X-RateLimit-Limit"))
		}
	}

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 (body %s)", w.Code, w.Body.String())
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing on 429")
	}
}
