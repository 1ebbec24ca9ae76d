package services

import (
	"log"
	"time"

	"scoring/engine"
	"scoring/models"

	"gorm.io/gorm"
)

// maxScoreAttempts bounds the re-read/re-apply retries after a lost
// version-guarded write before the conflict is surfaced to the caller.
const maxScoreAttempts = 3

// ScoreService is the concurrency controller around the rules engine. Each
// point request reads the current row, replays idempotent resubmissions,
// applies the engine on a value copy, and persists the result with a
// compare-and-swap on the row version. The winner of a race writes; losers
// re-read and re-apply.
type ScoreService struct {
	db           *gorm.DB
	matchService *MatchService
}

func NewScoreService(db *gorm.DB, matchService *MatchService) *ScoreService {
	return &ScoreService{
		db:           db,
		matchService: matchService,
	}
}

// ScorePoint applies one point event to the active match on a court.
func (s *ScoreService) ScorePoint(courtID uint, req models.ScoreRequest) (*models.ScoreResult, error) {
	team := engine.Team(req.Team)
	if !team.Valid() {
		return nil, ErrInvalidTeam
	}
	source := req.Source
	if source == "" {
		source = "button"
	}

	for attempt := 0; attempt < maxScoreAttempts; attempt++ {
		// The latest match rather than just the active one: a point posted
		// against a finished match must come back as a soft no-op, not a 404.
		match, err := s.matchService.GetLatestMatch(courtID)
		if err != nil {
			return nil, err
		}

		// Duplicate submission: the key was already recorded for this
		// match, so return the current state without re-applying.
		if req.IdempotencyKey != nil {
			seen, err := s.keyRecorded(match.ID, *req.IdempotencyKey)
			if err != nil {
				return nil, err
			}
			if seen {
				return &models.ScoreResult{Match: match, Effects: []engine.Effect{}, Idempotent: true}, nil
			}
		}

		state := match.ToEngineState()
		if state.Status.Terminal() {
			// Soft no-op: the engine would return the state unchanged,
			// so there is nothing to write and nothing to undo.
			return &models.ScoreResult{Match: match, Effects: []engine.Effect{}, Terminal: true}, nil
		}

		newState, effects := engine.Apply(state, engine.PointFor(team), time.Now())

		written, err := s.writeGuarded(match, state, newState, req.IdempotencyKey, source)
		if err != nil {
			return nil, err
		}
		if !written {
			log.Printf("Version conflict scoring court %d (attempt %d), retrying", courtID, attempt+1)
			continue
		}

		updated, err := s.matchService.GetMatch(match.ID)
		if err != nil {
			return nil, err
		}
		return &models.ScoreResult{Match: updated, Effects: effects}, nil
	}

	return nil, ErrVersionConflict
}

// writeGuarded persists newState conditioned on the version the request read
// still being current, and appends the undo entry in the same transaction.
// Returns false when the compare-and-swap lost.
func (s *ScoreService) writeGuarded(match *models.Match, preState, newState engine.State, idempotencyKey *string, source string) (bool, error) {
	written := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Match{}).
			Where("id = ? AND version = ?", match.ID, match.Version).
			Updates(models.StateUpdateMap(newState))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race; nothing written, no undo entry.
			return nil
		}

		entry := models.UndoEntry{
			MatchID:        match.ID,
			Snapshot:       models.Snapshot{Version: match.Version, State: preState},
			IdempotencyKey: idempotencyKey,
			Source:         source,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		written = true
		return nil
	})
	return written, err
}

func (s *ScoreService) keyRecorded(matchID uint, key string) (bool, error) {
	var count int64
	err := s.db.Model(&models.UndoEntry{}).
		Where("match_id = ? AND idempotency_key = ?", matchID, key).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
