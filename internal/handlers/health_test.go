package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/config"

	"github.com/gin-gonic/gin"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func newHealthRouter(db DBPinger) *gin.Engine {
	cfg := config.Config{}
	cfg.App.Env = "test"
	cfg.App.Version = "1.2.3"
	h := NewHealthHandler(cfg, db, nil)
	e := gin.New()
	e.GET("/health", h.Health)
	e.GET("/health/live", h.Live)
	e.GET("/health/ready", h.Ready)
	return e
}

func getJSON(t *testing.T, e *gin.Engine, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return w.Code, body
}

func TestHealth_AllHealthy(t *testing.T) {
	e := newHealthRouter(fakePinger{})

	code, body := getJSON(t, e, "/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["environment"] != "test" || body["version"] != "1.2.3" {
		t.Errorf("env/version = %v/%v", body["environment"], body["version"])
	}
	checks, ok := body["checks"].(map[string]any)
	if !ok {
		t.Fatalf("checks missing: %v", body)
	}
	db, ok := checks["database"].(map[string]any)
	if !ok || db["status"] != "healthy" {
		t.Errorf("database check = %v", checks["database"])
	}
	if _, ok := checks["redis"]; ok {
		t.Error("redis check present without a redis client")
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	e := newHealthRouter(fakePinger{err: errors.New("connection refused")})

	// The report endpoint stays 200 even when unhealthy; only the body flips.
	code, body := getJSON(t, e, "/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", body["status"])
	}
}

func TestReady(t *testing.T) {
	code, body := getJSON(t, newHealthRouter(fakePinger{}), "/health/ready")
	if code != http.StatusOK || body["status"] != "ready" {
		t.Errorf("ready = %d/%v, want 200/ready", code, body["status"])
	}

	code, body = getJSON(t, newHealthRouter(fakePinger{err: errors.New("down")}), "/health/ready")
	if code != http.StatusServiceUnavailable || body["status"] != "not_ready" {
		t.Errorf("not ready = %d/%v, want 503/not_ready", code, body["status"])
	}
}

func TestLive(t *testing.T) {
	code, body := getJSON(t, newHealthRouter(fakePinger{}), "/health/live")
	if code != http.StatusOK || body["status"] != "alive" {
		t.Errorf("live = %d/%v, want 200/alive", code, body["status"])
	}
}
