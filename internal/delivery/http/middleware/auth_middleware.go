package middleware

import (
	"net/http"
	"strings"

	"talent-pool-backend/internal/delivery/http/response"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/auth"
	"talent-pool-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// TokenHeader carries the identity token. A Bearer Authorization header is
// accepted as well.
const TokenHeader = "x-auth-token"

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(TokenHeader)
		if tokenString == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenString = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			security.DefaultLogger().LogAccessDenied(c.Request.Context(), security.EventUnauthorizedAccess,
				c.ClientIP(), c.GetString(response.RequestIDKey), c.Request.URL.Path, err.Error())
			response.Error(c, http.StatusUnauthorized, "Token is not valid", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), claims.User.ID)
		c.Set(string(domain.KeyUserRole), claims.User.Role)
		c.Next()
	}
}

// RequireRole admits callers holding role. Admins pass every role gate.
func RequireRole(role string) gin.HandlerFunc {
	label := strings.ToUpper(role[:1]) + role[1:]
	return func(c *gin.Context) {
		current := c.GetString(string(domain.KeyUserRole))
		if current == role || current == domain.RoleAdmin {
			c.Next()
			return
		}

		security.DefaultLogger().LogAccessDenied(c.Request.Context(), security.EventForbiddenAccess,
			c.ClientIP(), c.GetString(response.RequestIDKey), c.Request.URL.Path, "role "+current)
		response.Error(c, http.StatusForbidden, "Access denied. "+label+" role required.", nil)
		c.Abort()
	}
}

// CurrentIdentity returns the caller set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) domain.Identity {
	return domain.Identity{
		UserID: c.GetString(string(domain.KeyUserID)),
		Role:   c.GetString(string(domain.KeyUserRole)),
	}
}
