package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskflow/internal/domain"
)

var (
	// ErrUnavailable means the identity provider could not be reached.
	ErrUnavailable = errors.New("identity provider unreachable")
	// ErrTokenEndpointMissing means the provider does not expose
	// /api/auth/token, i.e. its JWT plugin is not enabled.
	ErrTokenEndpointMissing = errors.New("identity provider token endpoint missing")
)

// APIError wraps a provider response worth passing through to the caller
// (bad credentials, duplicate email, invalid input).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider: status=%d message=%s", e.StatusCode, e.Message)
}

// Session is a successful authentication: the JWT plus the user it names.
type Session struct {
	Token string
	User  domain.User
}

// Client talks to the identity provider's HTTP API. The provider owns
// accounts and sessions; this client only proxies sign-up/sign-in and
// exchanges the resulting session for a JWT.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the provider at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SignUp registers a new account and returns its first session.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (Session, error) {
	return c.authenticate(ctx, "/api/auth/sign-up/email", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string, rememberMe bool) (Session, error) {
	return c.authenticate(ctx, "/api/auth/sign-in/email", map[string]any{
		"email":      email,
		"password":   password,
		"rememberMe": rememberMe,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]any) (Session, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Session{}, &APIError{
			StatusCode: passthroughStatus(resp.StatusCode),
			Message:    providerMessage(raw),
		}
	}

	var payload struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Session{}, fmt.Errorf("decode provider response: %w", err)
	}

	token, err := c.fetchToken(ctx, resp.Cookies())
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token: token,
		User:  domain.User{ID: payload.User.ID, Email: payload.User.Email, Name: payload.User.Name},
	}, nil
}

// fetchToken exchanges the provider's session cookies for a JWT.
func (c *Client) fetchToken(ctx context.Context, cookies []*http.Cookie) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/token", nil)
	if err != nil {
		return "", err
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrTokenEndpointMissing
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed: status=%d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.Token == "" {
		return "", errors.New("identity provider returned an empty token")
	}
	return payload.Token, nil
}

// providerMessage pulls the human-readable message out of an error body.
func providerMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "authentication failed"
}

// passthroughStatus keeps statuses the caller can act on; anything else
// collapses to 400.
func passthroughStatus(code int) int {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict, http.StatusUnprocessableEntity:
		return code
	}
	return http.StatusBadRequest
}
