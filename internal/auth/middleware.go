package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderSharerUserID carries the acting user's ID, set by the gateway.
const HeaderSharerUserID = "X-Sharer-User-Id"

// SharerUserID is a Gin middleware that reads the acting user from X-Sharer-User-Id.
// The header must hold a positive integer.
func SharerUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ParseUserID(c.GetHeader(HeaderSharerUserID))
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing or invalid X-Sharer-User-Id header",
			})
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}

// GatewayRequired is a Gin middleware that validates the gateway token from
// Authorization: Bearer <token>. When the request names an acting user, the token
// must have been issued for that same user.
func GatewayRequired(m *GatewayTokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := m.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		if raw := c.GetHeader(HeaderSharerUserID); raw != "" {
			if id, ok := ParseUserID(raw); ok && id != claims.UserID {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "token does not match acting user",
				})
				return
			}
		}

		c.Next()
	}
}

// ParseUserID parses an X-Sharer-User-Id value. Only positive integers are accepted.
func ParseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
