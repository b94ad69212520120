package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"shortid/internal/core/apperror"
	appctx "shortid/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.ClientContext, error)
}

// Auth middleware validates bearer tokens and populates client context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		client, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithClient(c.Request.Context(), client)
		c.Request = c.Request.WithContext(ctx)
		c.Set("client", client.Subject)

		c.Next()
	}
}

// RequireScope middleware checks that the authenticated client holds scope.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if appctx.GetClient(ctx) == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !appctx.HasScope(ctx, scope) {
			_ = c.Error(
				apperror.NewForbidden("insufficient scope").
					WithDetail("required_scope", scope),
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
