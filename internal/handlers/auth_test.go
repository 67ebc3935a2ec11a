package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskflow/internal/idp"

	"github.com/gin-gonic/gin"
)

func authProvider(t *testing.T, withToken bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handleAuth := func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Password == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "sess-1"})
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "user-1", "email": body.Email, "name": "Someone"},
		})
	}
	mux.HandleFunc("/api/auth/sign-up/email", handleAuth)
	mux.HandleFunc("/api/auth/sign-in/email", handleAuth)
	if withToken {
		mux.HandleFunc("/api/auth/token", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token": "signed.jwt.value"})
		})
	}
	return httptest.NewServer(mux)
}

func newAuthRouter(client *idp.Client) *gin.Engine {
	e := gin.New()
	h := NewAuthHandler(client)
	e.POST("/api/auth/sign-up", h.SignUp)
	e.POST("/api/auth/sign-in", h.SignIn)
	return e
}

func postJSON(t *testing.T, e *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestSignIn_ReturnsTokenAndUser(t *testing.T) {
	srv := authProvider(t, true)
	defer srv.Close()
	e := newAuthRouter(idp.NewClient(srv.URL, 5*time.Second))

	w := postJSON(t, e, "/api/auth/sign-in",
		`{"email":"user@example.com","password":"correct horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		User   struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "success" || body.Token != "signed.jwt.value" || body.User.ID != "user-1" {
		t.Errorf("body = %+v", body)
	}
}

func TestSignUp_Created(t *testing.T) {
	srv := authProvider(t, true)
	defer srv.Close()
	e := newAuthRouter(idp.NewClient(srv.URL, 5*time.Second))

	w := postJSON(t, e, "/api/auth/sign-up",
		`{"name":"New User","email":"new@example.com","password":"password123"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
}

func TestSignIn_BadCredentialsPassThrough(t *testing.T) {
	srv := authProvider(t, true)
	defer srv.Close()
	e := newAuthRouter(idp.NewClient(srv.URL, 5*time.Second))

	w := postJSON(t, e, "/api/auth/sign-in",
		`{"email":"user@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", env.Code)
	}
	if env.Message != "invalid email or password" {
		t.Errorf("message = %q, provider message not passed through", env.Message)
	}
}

func TestSignUp_RequestValidation(t *testing.T) {
	srv := authProvider(t, true)
	defer srv.Close()
	e := newAuthRouter(idp.NewClient(srv.URL, 5*time.Second))

	tests := []struct {
		name string
		body string
	}{
		{name: "bad email", body: `{"name":"A","email":"not-an-email","password":"password123"}`},
		{name: "short password", body: `{"name":"A","email":"a@example.com","password":"short"}`},
		{name: "missing name", body: `{"email":"a@example.com","password":"password123"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, e, "/api/auth/sign-up", tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestAuth_ProviderUnreachable(t *testing.T) {
	srv := authProvider(t, true)
	srv.Close() // closed on purpose
	e := newAuthRouter(idp.NewClient(srv.URL, time.Second))

	w := postJSON(t, e, "/api/auth/sign-in",
		`{"email":"user@example.com","password":"pw"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != "AUTH_UNAVAILABLE" {
		t.Errorf("code = %q, want AUTH_UNAVAILABLE", env.Code)
	}
}

func TestAuth_ProviderWithoutJWTSupport(t *testing.T) {
	srv := authProvider(t, false)
	defer srv.Close()
	e := newAuthRouter(idp.NewClient(srv.URL, 5*time.Second))

	w := postJSON(t, e, "/api/auth/sign-in",
		`{"email":"user@example.com","password":"pw"}`)
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501 (body %s)", w.Code, w.Body.String())
	}
	if env := decodeEnvelope(t, w); env.Code != "NOT_IMPLEMENTED" {
		t.Errorf("code = %q, want NOT_IMPLEMENTED", env.Code)
	}
}
