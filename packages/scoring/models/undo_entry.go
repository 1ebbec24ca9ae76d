package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"scoring/engine"
)

// Snapshot is the full pre-event state captured in an undo entry, including
// the version the row carried at that moment. Undo restores the snapshot
// verbatim, embedded version included.
type Snapshot struct {
	Version uint         `json:"version"`
	State   engine.State `json:"state"`
}

// Value implements driver.Valuer for GORM.
func (s Snapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for GORM.
func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		return errors.New("undo snapshot is null")
	}
	bytes, err := jsonColumnBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, s)
}

// UndoEntry is one record of the append-only per-match undo log. Entries are
// written on every accepted mutation and deleted when consumed by an undo;
// there is no redo. The idempotency key of the originating request rides
// along so duplicate submissions can be detected without a separate table.
type UndoEntry struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MatchID        uint      `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"match_id"`
	Snapshot       Snapshot  `gorm:"type:jsonb;not null" json:"snapshot"`
	IdempotencyKey *string   `gorm:"size:64;index" json:"idempotency_key,omitempty"`
	Source         string    `gorm:"size:20;not null;default:button" json:"source"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Match Match `gorm:"foreignKey:MatchID;references:ID" json:"-"`
}

func (UndoEntry) TableName() string {
	return "undo_entries"
}
