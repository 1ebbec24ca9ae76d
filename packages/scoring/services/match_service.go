package services

import (
	"errors"
	"math/rand"
	"time"

	"scoring/engine"
	"scoring/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activeStatuses are the lifecycle states in which a match occupies a court.
var activeStatuses = []string{string(engine.StatusSetup), string(engine.StatusInProgress)}

// MatchService owns the match lifecycle: creation, lookup and early
// termination. Scoring goes through ScoreService instead.
type MatchService struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewMatchService builds the service. The rand source decides the starting
// server when the creator does not; it is injected so match construction
// stays deterministic under test.
func NewMatchService(db *gorm.DB, rng *rand.Rand) *MatchService {
	return &MatchService{
		db:  db,
		rng: rng,
	}
}

func (s *MatchService) CreateMatch(req models.CreateMatchRequest) (*models.Match, error) {
	var court models.Court
	if err := s.db.First(&court, req.CourtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	if !court.Active {
		return nil, ErrCourtNotFound
	}

	// Apply configuration defaults
	policy := req.DeucePolicy
	if policy == "" {
		policy = string(engine.DeuceTraditional)
	}
	setsToWin := req.SetsToWin
	if setsToWin == 0 {
		setsToWin = 2
	}
	tiebreakAt := req.TiebreakAt
	if tiebreakAt == 0 {
		tiebreakAt = 6
	}

	serving := s.pickServer(req.StartingServer)

	match := models.Match{
		PublicID:     uuid.New(),
		CourtID:      court.ID,
		Version:      1,
		DeucePolicy:  policy,
		SetsToWin:    setsToWin,
		TiebreakAt:   tiebreakAt,
		TeamAPlayers: models.PlayerList(req.TeamAPlayers),
		TeamBPlayers: models.PlayerList(req.TeamBPlayers),
		SetScores:    models.SetScoreList{},
		CurrentSet:   1,
		Serving:      &serving,
		Status:       string(engine.StatusSetup),
	}

	// The busy check and the insert run in one transaction so two creation
	// requests for the same court cannot both pass the check.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Match{}).
			Where("court_id = ? AND status IN ?", court.ID, activeStatuses).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCourtBusy
		}
		return tx.Create(&match).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Court").First(&match, match.ID).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// pickServer resolves the starting server, falling back to a random pick
// when the creator left it unspecified.
func (s *MatchService) pickServer(requested *string) string {
	if requested != nil {
		return *requested
	}
	if s.rng.Intn(2) == 0 {
		return string(engine.TeamA)
	}
	return string(engine.TeamB)
}

// GetActiveMatch returns the scoreable match on a court.
func (s *MatchService) GetActiveMatch(courtID uint) (*models.Match, error) {
	var match models.Match
	err := s.db.Where("court_id = ? AND status IN ?", courtID, activeStatuses).
		Order("created_at DESC").
		Preload("Court").
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveMatch
		}
		return nil, err
	}
	return &match, nil
}

// GetLatestMatch returns the most recent match on a court regardless of
// status. Undo uses it so the match-deciding point can still be taken back
// after the match has completed.
func (s *MatchService) GetLatestMatch(courtID uint) (*models.Match, error) {
	var match models.Match
	err := s.db.Where("court_id = ?", courtID).
		Order("created_at DESC").
		Preload("Court").
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveMatch
		}
		return nil, err
	}
	return &match, nil
}

func (s *MatchService) GetMatch(matchID uint) (*models.Match, error) {
	var match models.Match
	if err := s.db.Preload("Court").First(&match, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

// AbandonMatch ends a match early without a winner. This is an external
// cancellation, not an engine transition, but it still goes through the
// version guard so it cannot trample a racing point.
func (s *MatchService) AbandonMatch(matchID uint) (*models.Match, error) {
	var match models.Match
	if err := s.db.First(&match, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if engine.Status(match.Status).Terminal() {
		return nil, ErrMatchAlreadyTerminal
	}

	now := time.Now()
	result := s.db.Model(&models.Match{}).
		Where("id = ? AND version = ?", match.ID, match.Version).
		Updates(map[string]interface{}{
			"status":       string(engine.StatusAbandoned),
			"completed_at": &now,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrVersionConflict
	}

	if err := s.db.Preload("Court").First(&match, match.ID).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// GetRecentMatches retrieves the N most recent matches, newest first,
// optionally filtered to one court.
func (s *MatchService) GetRecentMatches(limit int, courtID *uint) ([]models.Match, error) {
	var matches []models.Match

	query := s.db.Order("created_at DESC").
		Limit(limit).
		Preload("Court")
	if courtID != nil {
		query = query.Where("court_id = ?", *courtID)
	}
	result := query.Find(&matches)

	if result.Error != nil {
		return nil, result.Error
	}
	return matches, nil
}
