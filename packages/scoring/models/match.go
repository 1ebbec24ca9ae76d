package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"scoring/engine"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetScoreList stores the completed set scores as a jsonb column.
type SetScoreList []engine.SetScore

// Value implements driver.Valuer for GORM.
func (l SetScoreList) Value() (driver.Value, error) {
	if l == nil {
		l = SetScoreList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM.
func (l *SetScoreList) Scan(value interface{}) error {
	if value == nil {
		*l = SetScoreList{}
		return nil
	}
	bytes, err := jsonColumnBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}

// PlayerList stores a team's player names as a jsonb column.
type PlayerList []string

// Value implements driver.Valuer for GORM.
func (l PlayerList) Value() (driver.Value, error) {
	if l == nil {
		l = PlayerList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM.
func (l *PlayerList) Scan(value interface{}) error {
	if value == nil {
		*l = PlayerList{}
		return nil
	}
	bytes, err := jsonColumnBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}

// jsonColumnBytes normalizes a scanned json column value; drivers hand the
// column back as either []byte or string.
func jsonColumnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported json column type")
	}
}

// Match is the canonical row for one match. Version implements the
// optimistic guard: every accepted mutation must carry the version it read,
// and the row is only written when that version is still current.
type Match struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"public_id"`
	CourtID  uint      `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"court_id"`
	Version  uint      `gorm:"not null;default:1" json:"version"`

	// Rule configuration, immutable after creation.
	DeucePolicy string `gorm:"size:20;not null;default:traditional" json:"deuce_policy"`
	SetsToWin   int    `gorm:"not null;default:2" json:"sets_to_win"`
	TiebreakAt  int    `gorm:"not null;default:6" json:"tiebreak_at"`

	TeamAPlayers PlayerList `gorm:"type:jsonb;default:'[]'::jsonb" json:"team_a_players"`
	TeamBPlayers PlayerList `gorm:"type:jsonb;default:'[]'::jsonb" json:"team_b_players"`

	// Mutable score state. Tiebreak columns are only meaningful while
	// TiebreakActive holds.
	PointsA         int          `gorm:"not null;default:0" json:"points_a"`
	PointsB         int          `gorm:"not null;default:0" json:"points_b"`
	GamesA          int          `gorm:"not null;default:0" json:"games_a"`
	GamesB          int          `gorm:"not null;default:0" json:"games_b"`
	SetScores       SetScoreList `gorm:"type:jsonb;default:'[]'::jsonb" json:"set_scores"`
	CurrentSet      int          `gorm:"not null;default:1" json:"current_set"`
	TiebreakActive  bool         `gorm:"not null;default:false" json:"tiebreak_active"`
	TiebreakPointsA *int         `json:"tiebreak_points_a,omitempty"`
	TiebreakPointsB *int         `json:"tiebreak_points_b,omitempty"`
	TiebreakServer  *string      `gorm:"size:10" json:"tiebreak_server,omitempty"`
	DeuceCount      int          `gorm:"not null;default:0" json:"deuce_count"`
	Serving         *string      `gorm:"size:10" json:"serving,omitempty"`

	Winner      *string    `gorm:"size:10" json:"winner,omitempty"`
	Status      string     `gorm:"size:20;not null;default:setup;index" json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Court Court `gorm:"foreignKey:CourtID;references:ID" json:"court,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// ToEngineState maps the row to the engine's value state.
func (m *Match) ToEngineState() engine.State {
	st := engine.State{
		Config: engine.Config{
			DeucePolicy: engine.DeucePolicy(m.DeucePolicy),
			SetsToWin:   m.SetsToWin,
			TiebreakAt:  m.TiebreakAt,
		},
		PointsA:     m.PointsA,
		PointsB:     m.PointsB,
		GamesA:      m.GamesA,
		GamesB:      m.GamesB,
		SetScores:   append([]engine.SetScore{}, m.SetScores...),
		CurrentSet:  m.CurrentSet,
		DeuceCount:  m.DeuceCount,
		Status:      engine.Status(m.Status),
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
	if m.TiebreakActive && m.TiebreakServer != nil {
		tb := engine.Tiebreak{StartingServer: engine.Team(*m.TiebreakServer)}
		if m.TiebreakPointsA != nil {
			tb.PointsA = *m.TiebreakPointsA
		}
		if m.TiebreakPointsB != nil {
			tb.PointsB = *m.TiebreakPointsB
		}
		st.Tiebreak = &tb
	}
	if m.Serving != nil {
		t := engine.Team(*m.Serving)
		st.Serving = &t
	}
	if m.Winner != nil {
		t := engine.Team(*m.Winner)
		st.Winner = &t
	}
	return st
}

// ApplyEngineState writes an engine state back onto the row in memory. The
// version is untouched; bumping it is the guarded write's job.
func (m *Match) ApplyEngineState(st engine.State) {
	m.PointsA = st.PointsA
	m.PointsB = st.PointsB
	m.GamesA = st.GamesA
	m.GamesB = st.GamesB
	m.SetScores = SetScoreList(st.SetScores)
	m.CurrentSet = st.CurrentSet
	m.DeuceCount = st.DeuceCount
	m.Status = string(st.Status)
	m.StartedAt = st.StartedAt
	m.CompletedAt = st.CompletedAt

	m.TiebreakActive = st.Tiebreak != nil
	if st.Tiebreak != nil {
		pa, pb := st.Tiebreak.PointsA, st.Tiebreak.PointsB
		server := string(st.Tiebreak.StartingServer)
		m.TiebreakPointsA, m.TiebreakPointsB, m.TiebreakServer = &pa, &pb, &server
	} else {
		m.TiebreakPointsA, m.TiebreakPointsB, m.TiebreakServer = nil, nil, nil
	}

	m.Serving = teamColumn(st.Serving)
	m.Winner = teamColumn(st.Winner)
}

// StateUpdateMap builds the column map for the version-guarded UPDATE. A map
// is used instead of a struct so zeroed columns (reset points, cleared
// tiebreak fields) are written too.
func StateUpdateMap(st engine.State) map[string]interface{} {
	updates := map[string]interface{}{
		"points_a":        st.PointsA,
		"points_b":        st.PointsB,
		"games_a":         st.GamesA,
		"games_b":         st.GamesB,
		"set_scores":      SetScoreList(st.SetScores),
		"current_set":     st.CurrentSet,
		"deuce_count":     st.DeuceCount,
		"status":          string(st.Status),
		"started_at":      st.StartedAt,
		"completed_at":    st.CompletedAt,
		"serving":         teamColumn(st.Serving),
		"winner":          teamColumn(st.Winner),
		"tiebreak_active": st.Tiebreak != nil,
		"version":         gorm.Expr("version + 1"),
	}
	if st.Tiebreak != nil {
		updates["tiebreak_points_a"] = st.Tiebreak.PointsA
		updates["tiebreak_points_b"] = st.Tiebreak.PointsB
		updates["tiebreak_server"] = string(st.Tiebreak.StartingServer)
	} else {
		updates["tiebreak_points_a"] = nil
		updates["tiebreak_points_b"] = nil
		updates["tiebreak_server"] = nil
	}
	return updates
}

func teamColumn(t *engine.Team) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

type CreateMatchRequest struct {
	CourtID        uint     `json:"court_id" binding:"required"`
	DeucePolicy    string   `json:"deuce_policy" binding:"omitempty,oneof=traditional golden_point silver_point"`
	SetsToWin      int      `json:"sets_to_win" binding:"omitempty,oneof=1 2"`
	TiebreakAt     int      `json:"tiebreak_at" binding:"omitempty,oneof=6 7"`
	TeamAPlayers   []string `json:"team_a_players" binding:"omitempty,max=2,dive,min=1,max=100"`
	TeamBPlayers   []string `json:"team_b_players" binding:"omitempty,max=2,dive,min=1,max=100"`
	StartingServer *string  `json:"starting_server" binding:"omitempty,oneof=team_a team_b"`
}

type ScoreRequest struct {
	Team           string  `json:"team" binding:"required,oneof=team_a team_b"`
	Source         string  `json:"source" binding:"omitempty,oneof=button panel override"`
	IdempotencyKey *string `json:"idempotency_key" binding:"omitempty,min=1,max=64"`
}

/// ScoreResult is what a point request returns: the state after the request,
// the effects of this application (empty on replays and terminal no-ops),
// and flags telling the caller which of those cases it hit.
type ScoreResult struct {
	Match      *Match          `json:"match"`
	Effects    []engine.Effect `json:"effects"`
	Idempotent bool            `json:"idempotent"`
	Terminal   bool            `json:"terminal"`
}

type PaginatedMatchResponse struct {
	Data       []Match `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
