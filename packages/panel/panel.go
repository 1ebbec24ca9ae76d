package panel

import (
	"panel/handlers"
	"panel/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Module struct {
	Handler *handlers.PanelHandler
	DB      *gorm.DB
}

func NewModule(db *gorm.DB) *Module {
	return &Module{
		Handler: handlers.NewPanelHandler(db),
		DB:      db,
	}
}

func (m *Module) SetupRoutes(r *gin.Engine) {
	panel := r.Group("/panel")
	{
		panel.POST("/login", m.Handler.Login)
		panel.POST("/refresh", m.Handler.Refresh)
		panel.POST("/logout", m.Handler.Logout)
		panel.POST("", middleware.JWTMiddleware(), middleware.RequireRole(m.DB, "staff"), m.Handler.CreatePanel)
		panel.POST("/change-pin", middleware.JWTMiddleware(), m.Handler.ChangePIN)
	}
}

func JWTMiddleware() gin.HandlerFunc {
	return middleware.JWTMiddleware()
}

func GetPanelID(c *gin.Context) (uint, bool) {
	return middleware.GetPanelID(c)
}

func GetPanelName(c *gin.Context) (string, bool) {
	return middleware.GetPanelName(c)
}

func RequireRole(db *gorm.DB, role string) gin.HandlerFunc {
	return middleware.RequireRole(db, role)
}

func RequireAnyRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return middleware.RequireAnyRole(db, roles...)
}
