package utils

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"panel/models"

	"gorm.io/gorm"
)

const (
	AccessTokenExpiry  = 15 * time.Minute   // short-lived access token
	SessionTokenExpiry = 7 * 24 * time.Hour // long-lived session token
)

// GenerateTokenPair generates an access token and a session token
func GenerateTokenPair(db *gorm.DB, panel models.Panel) (*models.TokenResponse, error) {
	accessToken, err := GenerateToken(panel)
	if err != nil {
		return nil, err
	}

	sessionTokenString, err := generateSecureToken()
	if err != nil {
		return nil, err
	}

	// Revoke any previous session tokens for this panel
	db.Where("panel_id = ?", panel.ID).Delete(&models.SessionToken{})

	sessionToken := models.SessionToken{
		PanelID:   panel.ID,
		Token:     sessionTokenString,
		ExpiresAt: time.Now().Add(SessionTokenExpiry),
	}

	if err := db.Create(&sessionToken).Error; err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		SessionToken: sessionTokenString,
		ExpiresIn:    int64(AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// RefreshAccessToken generates a new access token from a session token,
// rotating the session token as it does.
func RefreshAccessToken(db *gorm.DB, sessionTokenString string) (*models.TokenResponse, error) {
	var sessionToken models.SessionToken

	if err := db.Preload("Panel").Where("token = ?", sessionTokenString).First(&sessionToken).Error; err != nil {
		return nil, err
	}

	if sessionToken.IsExpired() {
		db.Delete(&sessionToken)
		return nil, gorm.ErrRecordNotFound
	}

	accessToken, err := GenerateToken(sessionToken.Panel)
	if err != nil {
		return nil, err
	}

	newSessionTokenString, err := generateSecureToken()
	if err != nil {
		return nil, err
	}

	sessionToken.Token = newSessionTokenString
	sessionToken.ExpiresAt = time.Now().Add(SessionTokenExpiry)
	db.Save(&sessionToken)

	return &models.TokenResponse{
		AccessToken:  accessToken,
		SessionToken: newSessionTokenString,
		ExpiresIn:    int64(AccessTokenExpiry.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// RevokeSessionToken revokes one session token
func RevokeSessionToken(db *gorm.DB, sessionTokenString string) error {
	return db.Where("token = ?", sessionTokenString).Delete(&models.SessionToken{}).Error
}

// CleanExpiredTokens deletes expired session tokens (called periodically)
func CleanExpiredTokens(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&models.SessionToken{}).Error
}

// generateSecureToken generates a cryptographically secure session token
func generateSecureToken() (string, error) {
	bytes := make([]byte, 32) // 256 bits
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
