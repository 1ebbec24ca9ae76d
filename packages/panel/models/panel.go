package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Available panel roles
const (
	// RoleReferee can score, undo and manage matches from a control panel.
	RoleReferee = "referee"
	// RoleStaff can additionally provision courts and panels.
	RoleStaff = "staff"
)

// GetDefaultRoles returns the roles granted to a newly provisioned panel
func GetDefaultRoles() Roles {
	return Roles{RoleReferee}
}

// GetAllRoles returns all available roles
func GetAllRoles() []string {
	return []string{
		RoleReferee,
		RoleStaff,
	}
}

type Roles []string

// Value implements driver.Valuer for GORM
func (r Roles) Value() (driver.Value, error) {
	if len(r) == 0 {
		return json.Marshal([]string{RoleReferee})
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for GORM
func (r *Roles) Scan(value interface{}) error {
	if value == nil {
		*r = Roles{RoleReferee}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, &r)
}

// Panel is a provisioned control-panel identity: a named device or staff
// account that signs in with a PIN instead of a password.
type Panel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"uniqueIndex;not null"`
	PINHash   string         `json:"-" gorm:"not null"`
	Enabled   bool           `json:"enabled" gorm:"default:true"`
	Roles     Roles          `json:"roles" gorm:"type:jsonb;default:'[\"referee\"]'::jsonb"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Panel) TableName() string {
	return "panels"
}

// HasRole checks whether the panel carries a specific role
func (p *Panel) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type LoginRequest struct {
	Name string `json:"name" binding:"required"`
	PIN  string `json:"pin" binding:"required,min=4,max=12"`
}

type CreatePanelRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	PIN   string `json:"pin" binding:"required,min=4,max=12,numeric"`
	Roles Roles  `json:"roles" binding:"omitempty"`
}

type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required,min=4,max=12,numeric"`
}

type ChangePINResponse struct {
	Success bool `json:"success"`
}
