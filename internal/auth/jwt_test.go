package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

func mintToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifier_ValidToken(t *testing.T) {
	v, err := NewVerifier(testSecret, "", "")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	token := mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "test@example.com",
		"name":  "Test User",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	user, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if user.ID != "user-123" {
		t.Errorf("user.ID = %v, want %v", user.ID, "user-123")
	}
	if user.Email != "test@example.com" {
		t.Errorf("user.Email = %v, want %v", user.Email, "test@example.com")
	}
	if user.Name != "Test User" {
		t.Errorf("user.Name = %v, want %v", user.Name, "Test User")
	}
}

func TestVerifier_RejectsBadTokens(t *testing.T) {
	v, err := NewVerifier(testSecret, "", "")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage",
			token: "not.a.token",
		},
		{
			name: "wrong secret",
			token: mintToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
				"sub": "user-123", "exp": exp,
			}),
		},
		{
			name: "wrong algorithm",
			token: mintToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{
				"sub": "user-123", "exp": exp,
			}),
		},
		{
			name: "expired",
			token: mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"sub": "user-123", "exp": time.Now().Add(-time.Minute).Unix(),
			}),
		},
		{
			name: "no expiration claim",
			token: mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"sub": "user-123",
			}),
		},
		{
			name: "missing subject",
			token: mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"exp": exp,
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			if err == nil {
				t.Fatal("Verify() should reject token")
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifier_IssuerAndAudience(t *testing.T) {
	v, err := NewVerifier(testSecret, "taskflow-idp", "taskflow-api")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	exp := time.Now().Add(time.Hour).Unix()

	good := mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123", "exp": exp, "iss": "taskflow-idp", "aud": "taskflow-api",
	})
	if _, err := v.Verify(good); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}

	wrongIssuer := mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123", "exp": exp, "iss": "someone-else", "aud": "taskflow-api",
	})
	if _, err := v.Verify(wrongIssuer); err == nil {
		t.Error("Verify() should reject wrong issuer")
	}

	noAudience := mintToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123", "exp": exp, "iss": "taskflow-idp",
	})
	if _, err := v.Verify(noAudience); err == nil {
		t.Error("Verify() should reject missing audience")
	}
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	if _, err := NewVerifier("", "", ""); err == nil {
		t.Error("NewVerifier() should fail with empty secret")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi", ok: true},
		{name: "lowercase scheme", header: "bearer tok", want: "tok", ok: true},
		{name: "extra whitespace", header: "  Bearer   tok  ", want: "tok", ok: true},
		{name: "empty header", header: "", ok: false},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", ok: false},
		{name: "scheme only", header: "Bearer", ok: false},
		{name: "too many parts", header: "Bearer a b", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("token = %v, want %v", got, tt.want)
			}
		})
	}
}
