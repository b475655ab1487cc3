package mw

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ClaimsKey holds the verified jwt.MapClaims on the gin context.
	ClaimsKey = "jwt_claims"

	bearerPrefix = "Bearer "
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (jwt.MapClaims, error)
}

// BearerAuth rejects requests without a valid bearer token. When roles are
// given the token's role claim must be one of them.
func BearerAuth(parser TokenParser, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims, err := parser.ParseToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if len(roles) > 0 {
			role, _ := claims["role"].(string)
			if !slices.Contains(roles, role) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
