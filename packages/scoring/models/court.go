package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Court struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID  uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"public_id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Court) TableName() string {
	return "courts"
}

type CreateCourtRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}
