package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgToken "github.com/lendtrak/incentive/internal/pkg/token"
)

// ActorContextKey is a gin context key for the verified service actor.
const ActorContextKey = "serviceActor"

// ServiceAuth gates mutating endpoints behind a signed service token.
func ServiceAuth(strategy pkgToken.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		actor, err := strategy.Verify(token)
		if err != nil {
			if errors.Is(err, pkgToken.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
