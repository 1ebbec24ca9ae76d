package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionToken is the long-lived counterpart of the short JWT: a panel holds
// one rotating session token and trades it for fresh access tokens.
type SessionToken struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	PanelID   uint           `json:"panel_id" gorm:"not null;index"`
	Token     string         `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	Panel     Panel          `json:"-" gorm:"foreignKey:PanelID"`
}

func (SessionToken) TableName() string {
	return "session_tokens"
}

// IsExpired checks whether the token has expired
func (st *SessionToken) IsExpired() bool {
	return time.Now().After(st.ExpiresAt)
}

// RefreshRequest carries the session token to trade for a new access token
type RefreshRequest struct {
	SessionToken string `json:"session_token" binding:"required"`
}

// TokenResponse is the reply to login and refresh calls
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	TokenType    string `json:"token_type"`
}
