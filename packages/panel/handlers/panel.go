package handlers

import (
	"net/http"
	"time"

	"panel/models"
	"panel/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PanelHandler struct {
	DB *gorm.DB
}

func NewPanelHandler(db *gorm.DB) *PanelHandler {
	return &PanelHandler{
		DB: db,
	}
}

// @Summary Panel Login
// @Description Login with panel name and PIN to get JWT tokens
// @Tags panel
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Panel login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /panel/login [post]
func (h *PanelHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var panel models.Panel
	if err := h.DB.Where("name = ?", req.Name).First(&panel).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !panel.Enabled || !utils.CheckPIN(req.PIN, panel.PINHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	now := time.Now()
	panel.LastLogin = &now
	if err := h.DB.Save(&panel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update panel login info"})
		return
	}

	tokenPair, err := utils.GenerateTokenPair(h.DB, panel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokenPair.AccessToken,
		"session_token": tokenPair.SessionToken,
		"expires_in":    tokenPair.ExpiresIn,
		"token_type":    tokenPair.TokenType,
		"panel":         panel,
	})
}

// @Summary Refresh Access Token
// @Description Get a new access token using the session token
// @Tags panel
// @Accept json
// @Produce json
// @Param refresh body models.RefreshRequest true "Session token"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /panel/refresh [post]
func (h *PanelHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, err := utils.RefreshAccessToken(h.DB, req.SessionToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
		return
	}

	c.JSON(http.StatusOK, tokenPair)
}

// @Summary Panel Logout
// @Description Revoke the panel's session token
// @Tags panel
// @Accept json
// @Produce json
// @Param logout body models.RefreshRequest true "Session token to revoke"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /panel/logout [post]
func (h *PanelHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.RevokeSessionToken(h.DB, req.SessionToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Provision a panel
// @Description Create a new control panel identity. Requires the staff role.
// @Tags panel
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param panel body models.CreatePanelRequest true "Panel data"
// @Success 201 {object} models.Panel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /panel [post]
func (h *PanelHandler) CreatePanel(c *gin.Context) {
	var req models.CreatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Panel
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Panel name already exists"})
		return
	}

	pinHash, err := utils.HashPIN(req.PIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = models.GetDefaultRoles()
	}

	panel := models.Panel{
		Name:    req.Name,
		PINHash: pinHash,
		Enabled: true,
		Roles:   roles,
	}
	if err := h.DB.Create(&panel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create panel"})
		return
	}

	c.JSON(http.StatusCreated, panel)
}

// @Summary Change PIN
// @Description Change the authenticated panel's PIN
// @Tags panel
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param change body models.ChangePINRequest true "Current and new PIN"
// @Success 200 {object} models.ChangePINResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /panel/change-pin [post]
func (h *PanelHandler) ChangePIN(c *gin.Context) {
	panelID, exists := c.Get("panel_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var panel models.Panel
	if err := h.DB.First(&panel, panelID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Panel not found"})
		return
	}

	if !utils.CheckPIN(req.CurrentPIN, panel.PINHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current PIN is incorrect"})
		return
	}

	pinHash, err := utils.HashPIN(req.NewPIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	panel.PINHash = pinHash
	if err := h.DB.Save(&panel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update PIN"})
		return
	}

	c.JSON(http.StatusOK, models.ChangePINResponse{Success: true})
}
