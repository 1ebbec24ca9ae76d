package middleware

import (
	"net/http"

	"panel/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireRole verifies that the authenticated panel carries a specific role
func RequireRole(db *gorm.DB, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		panelID, exists := c.Get("panel_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var panel models.Panel
		if err := db.First(&panel, panelID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Panel not found"})
			c.Abort()
			return
		}

		if !panel.Enabled || !panel.HasRole(requiredRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "Insufficient permissions",
				"required_role": requiredRole,
			})
			c.Abort()
			return
		}

		c.Set("panel_roles", panel.Roles)
		c.Next()
	}
}

// RequireAnyRole verifies that the authenticated panel carries at least one
// of the given roles
func RequireAnyRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		panelID, exists := c.Get("panel_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var panel models.Panel
		if err := db.First(&panel, panelID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Panel not found"})
			c.Abort()
			return
		}

		hasRole := false
		if panel.Enabled {
			for _, role := range roles {
				if panel.HasRole(role) {
					hasRole = true
					break
				}
			}
		}

		if !hasRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":          "Insufficient permissions",
				"required_roles": roles,
			})
			c.Abort()
			return
		}

		c.Set("panel_roles", panel.Roles)
		c.Next()
	}
}
