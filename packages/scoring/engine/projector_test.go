package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPointLabels(t *testing.T) {
	tests := []struct {
		name          string
		pointsA       int
		pointsB       int
		wantA         string
		wantB         string
		wantDeuce     bool
		wantAdvantage *Team
	}{
		{name: "love all", pointsA: 0, pointsB: 0, wantA: "0", wantB: "0"},
		{name: "fifteen thirty", pointsA: 1, pointsB: 2, wantA: "15", wantB: "30"},
		{name: "forty love", pointsA: 3, pointsB: 0, wantA: "40", wantB: "0"},
		{name: "deuce", pointsA: 3, pointsB: 3, wantA: "40", wantB: "40", wantDeuce: true},
		{name: "second deuce", pointsA: 5, pointsB: 5, wantA: "40", wantB: "40", wantDeuce: true},
		{name: "advantage a", pointsA: 4, pointsB: 3, wantA: "Ad", wantB: "40", wantAdvantage: teamPtrFor(TeamA)},
		{name: "advantage b", pointsA: 4, pointsB: 5, wantA: "40", wantB: "Ad", wantAdvantage: teamPtrFor(TeamB)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState(defaultConfig())
			st.Status = StatusInProgress
			st.PointsA, st.PointsB = tt.pointsA, tt.pointsB

			d := Project(st, nil, nil)

			assert.Equal(t, tt.wantA, d.PointsA)
			assert.Equal(t, tt.wantB, d.PointsB)
			assert.Equal(t, tt.wantDeuce, d.IsDeuce)
			assert.Equal(t, tt.wantAdvantage, d.AdvantageTeam)
		})
	}
}

func TestProjectTiebreakShowsRawPoints(t *testing.T) {
	st := newTestState(defaultConfig())
	st.Status = StatusInProgress
	st.GamesA, st.GamesB = 6, 6
	st.Tiebreak = &Tiebreak{PointsA: 5, PointsB: 11, StartingServer: TeamA}

	d := Project(st, nil, nil)

	assert.True(t, d.IsTiebreak)
	assert.Equal(t, "5", d.PointsA)
	assert.Equal(t, "11", d.PointsB)
	assert.False(t, d.IsDeuce)
	assert.Nil(t, d.AdvantageTeam)
}

func TestProjectTeamNames(t *testing.T) {
	st := newTestState(defaultConfig())

	d := Project(st, []string{"Marta", "Ines"}, nil)

	assert.Equal(t, "Marta / Ines", d.TeamAName)
	assert.Equal(t, "Team B", d.TeamBName)
}

func TestProjectSetsAndWinner(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 6)
	st = winGames(t, st, TeamB, 6)
	st = winGames(t, st, TeamB, 6)
	require.Equal(t, StatusCompleted, st.Status)

	d := Project(st, nil, nil)

	assert.Equal(t, 1, d.SetsWonA)
	assert.Equal(t, 2, d.SetsWonB)
	assert.Len(t, d.SetScores, 3)
	assert.Equal(t, StatusCompleted, d.Status)
	require.NotNil(t, d.Winner)
	assert.Equal(t, TeamB, *d.Winner)
}

func teamPtrFor(team Team) *Team {
	t := team
	return &t
}
