package handlers

import (
	"errors"
	"net/http"

	"taskflow/internal/auth"
	"taskflow/internal/dto"
	"taskflow/internal/idp"

	"github.com/gin-gonic/gin"
)

// AuthHandler proxies sign-up and sign-in to the identity provider and
// reports the current identity. Token issuance stays with the provider.
type AuthHandler struct {
	idp *idp.Client
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(client *idp.Client) *AuthHandler {
	return &AuthHandler{idp: client}
}

// SignUp godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignUpRequest  true  "Account details"
// @Success      201   {object}  dto.AuthResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.idp.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		idpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse(sess))
}

// SignIn godoc
// @Summary      Sign in to an existing account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignInRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !bindJSON(c, &req) {
		return
	}
	rememberMe := true
	if req.RememberMe != nil {
		rememberMe = *req.RememberMe
	}
	sess, err := h.idp.SignIn(c.Request.Context(), req.Email, req.Password, rememberMe)
	if err != nil {
		idpError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse(sess))
}

// Me godoc
// @Summary      Get the current authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewError(dto.CodeUnauthorized, "authorization required"))
		return
	}
	c.JSON(http.StatusOK, dto.MeResponse{
		Status: dto.StatusSuccess,
		Data:   dto.UserData{ID: u.ID, Email: u.Email, Name: u.Name},
	})
}

func authResponse(sess idp.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Status: dto.StatusSuccess,
		Token:  sess.Token,
		User:   dto.UserData{ID: sess.User.ID, Email: sess.User.Email, Name: sess.User.Name},
	}
}

// idpError maps identity provider failures onto the error envelope.
func idpError(c *gin.Context, err error) {
	var apiErr *idp.APIError
	switch {
	case errors.Is(err, idp.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable,
			dto.NewError(dto.CodeAuthUnavailable, "auth server unreachable"))
	case errors.Is(err, idp.ErrTokenEndpointMissing):
		c.JSON(http.StatusNotImplemented,
			dto.NewError(dto.CodeNotImplemented, "identity provider JWT support is not enabled"))
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, dto.NewError(codeForStatus(apiErr.StatusCode), apiErr.Message))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewError(dto.CodeInternal, "authentication failed"))
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return dto.CodeUnauthorized
	case http.StatusConflict:
		return dto.CodeConflict
	case http.StatusUnprocessableEntity:
		return dto.CodeValidation
	}
	return dto.CodeBadRequest
}
