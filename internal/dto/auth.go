package dto

// SignUpRequest is the JSON body for POST /api/auth/sign-up.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// SignInRequest is the JSON body for POST /api/auth/sign-in.
// RememberMe defaults to true when omitted.
type SignInRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe *bool  `json:"rememberMe"`
}

// UserData is the identity as serialized in auth envelopes.
type UserData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// AuthResponse is returned after sign-up/sign-in. The token goes into
// "Authorization: Bearer <token>" for all task endpoints.
type AuthResponse struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	User   UserData `json:"user"`
}

// MeResponse wraps the current authenticated identity.
type MeResponse struct {
	Status string   `json:"status"`
	Data   UserData `json:"data"`
}
