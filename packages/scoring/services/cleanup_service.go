package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"scoring/engine"
	"scoring/models"

	"gorm.io/gorm"
)

const defaultStaleAfterHours = 6

// CleanupService abandons matches that were started on a court and then
// walked away from. A match with no accepted mutation for the configured
// number of hours is considered stale and frees its court.
type CleanupService struct {
	db         *gorm.DB
	staleAfter time.Duration
}

func NewCleanupService(db *gorm.DB) *CleanupService {
	hours := defaultStaleAfterHours
	if env := os.Getenv("MATCH_STALE_HOURS"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil && parsed > 0 {
			hours = parsed
		} else {
			log.Printf("Invalid MATCH_STALE_HOURS value %q, using default %d", env, defaultStaleAfterHours)
		}
	}
	return &CleanupService{
		db:         db,
		staleAfter: time.Duration(hours) * time.Hour,
	}
}

// GetStaleMatchesCount returns how many matches are currently stale.
func (s *CleanupService) GetStaleMatchesCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.Match{}).
		Where("status IN ? AND updated_at < ?", activeStatuses, time.Now().Add(-s.staleAfter)).
		Count(&count).Error
	return count, err
}

// AbandonStaleMatches marks every stale match abandoned. Each row goes
// through the version guard individually so a point arriving mid-sweep wins
// over the sweep for its match.
func (s *CleanupService) AbandonStaleMatches() error {
	var stale []models.Match
	err := s.db.Where("status IN ? AND updated_at < ?", activeStatuses, time.Now().Add(-s.staleAfter)).
		Find(&stale).Error
	if err != nil {
		return err
	}

	for _, match := range stale {
		now := time.Now()
		result := s.db.Model(&models.Match{}).
			Where("id = ? AND version = ?", match.ID, match.Version).
			Updates(map[string]interface{}{
				"status":       string(engine.StatusAbandoned),
				"completed_at": &now,
				"version":      gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			log.Printf("Skipping stale match %d: modified while sweeping", match.ID)
			continue
		}
		log.Printf("Abandoned stale match %d on court %d (last update %s)", match.ID, match.CourtID, match.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
