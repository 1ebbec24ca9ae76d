package services

import (
	"errors"

	"scoring/models"

	"gorm.io/gorm"
)

// UndoService rolls the last accepted point back. Undo is single-step and
// sequential: each call consumes exactly one undo entry, and a consumed
// entry is gone for good (no redo).
type UndoService struct {
	db           *gorm.DB
	matchService *MatchService
}

func NewUndoService(db *gorm.DB, matchService *MatchService) *UndoService {
	return &UndoService{
		db:           db,
		matchService: matchService,
	}
}

// UndoLast restores the newest snapshot for the court's latest match and
// deletes the consumed entry. The restore is guarded on the row's current
// version: an undo racing a concurrent point loses cleanly and the caller
// retries against whatever won.
func (s *UndoService) UndoLast(courtID uint) (*models.Match, error) {
	match, err := s.matchService.GetLatestMatch(courtID)
	if err != nil {
		return nil, err
	}

	var entry models.UndoEntry
	err = s.db.Where("match_id = ?", match.ID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNothingToUndo
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The snapshot is restored in full, including the version it
		// carried before the undone event.
		updates := models.StateUpdateMap(entry.Snapshot.State)
		updates["version"] = entry.Snapshot.Version

		result := tx.Model(&models.Match{}).
			Where("id = ? AND version = ?", match.ID, match.Version).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return tx.Delete(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	return s.matchService.GetMatch(match.ID)
}
