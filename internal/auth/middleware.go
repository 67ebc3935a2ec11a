package auth

import (
	"net/http"

	"taskflow/internal/domain"
	"taskflow/internal/dto"

	"github.com/gin-gonic/gin"
)

const contextKeyUser = "auth_user"

// UserFromContext returns the authenticated user set by RequireAuth.
func UserFromContext(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

// RequireAuth returns a middleware that validates the bearer token and sets
// the authenticated user in context. If missing or invalid, responds with 401.
func RequireAuth(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewError(dto.CodeUnauthorized, "authorization required"))
			return
		}
		user, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewError(dto.CodeUnauthorized, "invalid or expired token"))
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// RequireUserMatch checks the :user_id path segment against the
// authenticated user once, before any handler runs. Handlers read the
// identity from context and never touch the path value again.
func RequireUserMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewError(dto.CodeUnauthorized, "authorization required"))
			return
		}
		if c.Param("user_id") != user.ID {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewError(dto.CodeForbidden, "you can only access your own tasks"))
			return
		}
		c.Next()
	}
}
