package auth

import "github.com/gin-gonic/gin"

const userIDKey = "userID"

// GetUserID returns the acting user's ID or 0 when the identity middleware did not run.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// SetUserID stores the acting user's ID in the Gin context.
func SetUserID(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
}
