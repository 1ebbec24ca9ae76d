package middleware

import (
	"net/http"
	"strings"

	"panel/utils"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware validates the Bearer token and stores the panel identity on
// the request context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("panel_id", claims.PanelID)
		c.Set("panel_name", claims.PanelName)
		c.Next()
	}
}

// GetPanelID returns the authenticated panel ID from the request context
func GetPanelID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("panel_id")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetPanelName returns the authenticated panel name from the request context
func GetPanelName(c *gin.Context) (string, bool) {
	value, exists := c.Get("panel_name")
	if !exists {
		return "", false
	}
	name, ok := value.(string)
	return name, ok
}
