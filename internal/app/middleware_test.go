package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_Assigned(t *testing.T) {
	e := gin.New()
	e.Use(requestID())
	var inCtx string
	e.GET("/", func(c *gin.Context) {
		inCtx = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get("X-Request-ID")
	if got == "" {
		t.Fatal("X-Request-ID not set on response")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID", got)
	}
	if inCtx != got {
		t.Errorf("context id %q != header id %q", inCtx, got)
	}
}

func TestRequestID_InboundHonored(t *testing.T) {
	e := gin.New()
	e.Use(requestID())
	e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-from-gateway")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-from-gateway" {
		t.Errorf("X-Request-ID = %q, want req-from-gateway", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := gin.New()
	e.Use(securityHeaders())
	e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'self'",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "geolocation=(), microphone=(), camera=()",
	}
	for k, v := range want {
		if got := w.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()

	e := gin.New()
	e.Use(requestID(), requestLogger(log))
	e.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	e.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	e.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	cases := []struct {
		path      string
		wantLevel logrus.Level
		wantCode  int
	}{
		{path: "/ok", wantLevel: logrus.InfoLevel, wantCode: 200},
		{path: "/missing", wantLevel: logrus.WarnLevel, wantCode: 404},
		{path: "/boom", wantLevel: logrus.ErrorLevel, wantCode: 500},
	}

	for _, tc := range cases {
		hook.Reset()
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

		entry := hook.LastEntry()
		if entry == nil {
			t.Fatalf("%s: nothing logged", tc.path)
		}
		if entry.Level != tc.wantLevel {
			t.Errorf("%s: level = %v, want %v", tc.path, entry.Level, tc.wantLevel)
		}
		if entry.Data["status"] != tc.wantCode {
			t.Errorf("%s: status field = %v, want %d", tc.path, entry.Data["status"], tc.wantCode)
		}
		if entry.Data["method"] != http.MethodGet {
			t.Errorf("%s: method field = %v", tc.path, entry.Data["method"])
		}
		if entry.Data["request_id"] == "" {
			t.Errorf("%s: request_id field empty", tc.path)
		}
		if _, ok := entry.Data["duration_ms"]; !ok {
			t.Errorf("%s: duration_ms field missing", tc.path)
		}
	}
}
