package util

import (
	"github.com/gin-gonic/gin"
)

const userIDKey = "auth.user_id"

// SetUserID stores the authenticated user id in the Gin context.
func SetUserID(c *gin.Context, userID uint) {
	c.Set(userIDKey, userID)
}

// GetUserID extracts the authenticated user id from the Gin context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
