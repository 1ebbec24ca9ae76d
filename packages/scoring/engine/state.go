package engine

import (
	"fmt"
	"time"
)

// Team identifies one of the two sides of a match.
type Team string

const (
	TeamA Team = "team_a"
	TeamB Team = "team_b"
)

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Valid reports whether t is one of the two configured teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// DeucePolicy selects how a game is decided once both teams reach 40.
type DeucePolicy string

const (
	// DeuceTraditional plays standard advantage rules: win by two from deuce.
	DeuceTraditional DeucePolicy = "traditional"
	// DeuceGoldenPoint decides the game on the next point after any deuce.
	DeuceGoldenPoint DeucePolicy = "golden_point"
	// DeuceSilverPoint allows one traditional advantage round, then sudden
	// death from the second deuce of the game onwards.
	DeuceSilverPoint DeucePolicy = "silver_point"
)

// Valid reports whether p is a known deuce policy.
func (p DeucePolicy) Valid() bool {
	return p == DeuceTraditional || p == DeuceGoldenPoint || p == DeuceSilverPoint
}

// Status is the lifecycle state of a match.
type Status string

const (
	StatusSetup      Status = "setup"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Terminal reports whether the match can no longer be scored.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Config is the immutable rule configuration snapshot taken at match creation.
type Config struct {
	DeucePolicy DeucePolicy `json:"deuce_policy"`
	SetsToWin   int         `json:"sets_to_win"` // 1 or 2
	TiebreakAt  int         `json:"tiebreak_at"` // games per side that trigger a tiebreak, 6 or 7
}

// TiebreakWinAt is the point total a team must reach (with a two point lead)
// to win a tiebreak. Fixed regardless of Config.TiebreakAt; the configured
// value only decides when the tiebreak starts.
const TiebreakWinAt = 7

// SetScore records the game counts of a completed set.
type SetScore struct {
	GamesA int `json:"games_a"`
	GamesB int `json:"games_b"`
}

// Winner returns the team that took the set.
func (s SetScore) Winner() Team {
	if s.GamesA > s.GamesB {
		return TeamA
	}
	return TeamB
}

// Tiebreak holds the score state that only exists while a tiebreak is being
// played. A nil *Tiebreak on State is the "no tiebreak in progress" case, so
// the extra fields cannot leak into normal game scoring.
type Tiebreak struct {
	PointsA        int  `json:"points_a"`
	PointsB        int  `json:"points_b"`
	StartingServer Team `json:"starting_server"`
}

func (t *Tiebreak) points(team Team) int {
	if team == TeamA {
		return t.PointsA
	}
	return t.PointsB
}

func (t *Tiebreak) addPoint(team Team) {
	if team == TeamA {
		t.PointsA++
	} else {
		t.PointsB++
	}
}

// State is the full score state of one match. It is a value type: Apply and
// friends operate on copies, never on shared references, so two goroutines
// holding the "same" state can never observe each other's mutations.
type State struct {
	Config Config `json:"config"`

	PointsA    int        `json:"points_a"`
	PointsB    int        `json:"points_b"`
	GamesA     int        `json:"games_a"`
	GamesB     int        `json:"games_b"`
	SetScores  []SetScore `json:"set_scores"`
	CurrentSet int        `json:"current_set"`
	Tiebreak   *Tiebreak  `json:"tiebreak,omitempty"`
	DeuceCount int        `json:"deuce_count"`
	Serving    *Team      `json:"serving,omitempty"`

	Winner      *Team      `json:"winner,omitempty"`
	Status      Status     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewState builds a fresh match state in setup with zero scores.
func NewState(cfg Config, serving *Team) State {
	st := State{
		Config:     cfg,
		SetScores:  []SetScore{},
		CurrentSet: 1,
		Status:     StatusSetup,
	}
	if serving != nil {
		s := *serving
		st.Serving = &s
	}
	return st
}

// Clone returns a deep copy of the state. Pointer and slice fields are
// duplicated so the copy shares no memory with the original.
func (s State) Clone() State {
	c := s
	if s.SetScores != nil {
		c.SetScores = make([]SetScore, len(s.SetScores))
		copy(c.SetScores, s.SetScores)
	}
	if s.Tiebreak != nil {
		tb := *s.Tiebreak
		c.Tiebreak = &tb
	}
	c.Serving = cloneTeam(s.Serving)
	c.Winner = cloneTeam(s.Winner)
	c.StartedAt = cloneTime(s.StartedAt)
	c.CompletedAt = cloneTime(s.CompletedAt)
	return c
}

func cloneTeam(t *Team) *Team {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (s *State) points(team Team) int {
	if team == TeamA {
		return s.PointsA
	}
	return s.PointsB
}

func (s *State) games(team Team) int {
	if team == TeamA {
		return s.GamesA
	}
	return s.GamesB
}

func (s *State) addGame(team Team) {
	if team == TeamA {
		s.GamesA++
	} else {
		s.GamesB++
	}
}

// SetsWon counts completed sets taken by each team.
func (s State) SetsWon() (a, b int) {
	for _, set := range s.SetScores {
		if set.Winner() == TeamA {
			a++
		} else {
			b++
		}
	}
	return a, b
}

// Validate checks the structural invariants of the state. The engine always
// produces valid states from valid inputs; this is the harness the tests use
// to assert that.
func (s State) Validate() error {
	if s.PointsA < 0 || s.PointsB < 0 || s.GamesA < 0 || s.GamesB < 0 {
		return fmt.Errorf("negative score counter")
	}
	if s.DeuceCount < 0 || s.CurrentSet < 1 {
		return fmt.Errorf("negative deuce count or set number")
	}
	if s.Tiebreak != nil {
		if s.Tiebreak.PointsA < 0 || s.Tiebreak.PointsB < 0 {
			return fmt.Errorf("negative tiebreak counter")
		}
		if s.PointsA != 0 || s.PointsB != 0 {
			return fmt.Errorf("game points present during tiebreak")
		}
		if !s.Tiebreak.StartingServer.Valid() {
			return fmt.Errorf("tiebreak has no starting server")
		}
	}
	for _, set := range s.SetScores {
		if set.GamesA < 0 || set.GamesB < 0 {
			return fmt.Errorf("negative games in set score")
		}
	}
	if (s.Winner != nil) != (s.Status == StatusCompleted) {
		return fmt.Errorf("winner set without completed status (or vice versa)")
	}
	if s.Winner != nil && !s.Winner.Valid() {
		return fmt.Errorf("invalid winner %q", *s.Winner)
	}
	if s.Serving != nil && !s.Serving.Valid() {
		return fmt.Errorf("invalid serving team %q", *s.Serving)
	}
	return nil
}
