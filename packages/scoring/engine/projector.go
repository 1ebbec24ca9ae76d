package engine

import (
	"strconv"
	"strings"
)

// Display is the renderer-friendly projection of a match state. It is what
// scoreboard clients poll; it never feeds back into the engine.
type Display struct {
	PointsA       string     `json:"points_a"`
	PointsB       string     `json:"points_b"`
	GamesA        int        `json:"games_a"`
	GamesB        int        `json:"games_b"`
	SetsWonA      int        `json:"sets_won_a"`
	SetsWonB      int        `json:"sets_won_b"`
	SetScores     []SetScore `json:"set_scores"`
	CurrentSet    int        `json:"current_set"`
	Serving       *Team      `json:"serving,omitempty"`
	IsTiebreak    bool       `json:"is_tiebreak"`
	IsDeuce       bool       `json:"is_deuce"`
	AdvantageTeam *Team      `json:"advantage_team,omitempty"`
	Status        Status     `json:"status"`
	Winner        *Team      `json:"winner,omitempty"`
	TeamAName     string     `json:"team_a_name"`
	TeamBName     string     `json:"team_b_name"`
}

var pointLabels = [4]string{"0", "15", "30", "40"}

// Project maps a state to its display form. Point labels follow the usual
// 0/15/30/40 scale outside a tiebreak; tiebreaks show raw integers. A
// one-point lead from deuce shows "Ad" against "40".
func Project(s State, teamANames, teamBNames []string) Display {
	d := Display{
		GamesA:     s.GamesA,
		GamesB:     s.GamesB,
		SetScores:  append([]SetScore{}, s.SetScores...),
		CurrentSet: s.CurrentSet,
		Serving:    cloneTeam(s.Serving),
		Status:     s.Status,
		Winner:     cloneTeam(s.Winner),
		TeamAName:  teamName(teamANames, "Team A"),
		TeamBName:  teamName(teamBNames, "Team B"),
	}
	d.SetsWonA, d.SetsWonB = s.SetsWon()

	if s.Tiebreak != nil {
		d.IsTiebreak = true
		d.PointsA = strconv.Itoa(s.Tiebreak.PointsA)
		d.PointsB = strconv.Itoa(s.Tiebreak.PointsB)
		return d
	}

	d.PointsA, d.PointsB = pointLabel(s.PointsA), pointLabel(s.PointsB)
	if s.PointsA >= 3 && s.PointsB >= 3 {
		switch {
		case s.PointsA == s.PointsB:
			d.IsDeuce = true
			d.PointsA, d.PointsB = "40", "40"
		case s.PointsA == s.PointsB+1:
			t := TeamA
			d.AdvantageTeam = &t
			d.PointsA, d.PointsB = "Ad", "40"
		case s.PointsB == s.PointsA+1:
			t := TeamB
			d.AdvantageTeam = &t
			d.PointsA, d.PointsB = "40", "Ad"
		}
	}
	return d
}

func pointLabel(points int) string {
	if points >= 3 {
		return pointLabels[3]
	}
	return pointLabels[points]
}

func teamName(players []string, fallback string) string {
	if len(players) == 0 {
		return fallback
	}
	return strings.Join(players, " / ")
}
