package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)

func defaultConfig() Config {
	return Config{DeucePolicy: DeuceTraditional, SetsToWin: 2, TiebreakAt: 6}
}

func newTestState(cfg Config) State {
	serving := TeamA
	return NewState(cfg, &serving)
}

// score applies n points for team and returns the final state and the effects
// of the last application.
func score(t *testing.T, st State, team Team, n int) (State, []Effect) {
	t.Helper()
	var fx []Effect
	for i := 0; i < n; i++ {
		st, fx = Apply(st, PointFor(team), testNow)
		require.NoError(t, st.Validate())
	}
	return st, fx
}

// winGames wins n whole games for team from a fresh game (4 points each).
func winGames(t *testing.T, st State, team Team, n int) State {
	t.Helper()
	for i := 0; i < n; i++ {
		st, _ = score(t, st, team, 4)
	}
	return st
}

func TestFirstPointStartsMatch(t *testing.T) {
	st := newTestState(defaultConfig())
	require.Equal(t, StatusSetup, st.Status)
	require.Nil(t, st.StartedAt)

	st, fx := Apply(st, PointFor(TeamA), testNow)

	assert.Equal(t, StatusInProgress, st.Status)
	require.NotNil(t, st.StartedAt)
	assert.Equal(t, testNow, *st.StartedAt)
	require.Len(t, fx, 1)
	assert.Equal(t, EffectPointScored, fx[0].Kind)
	assert.Equal(t, TeamA, *fx[0].Team)
	assert.Equal(t, 1, st.PointsA)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	st := newTestState(defaultConfig())
	st, _ = score(t, st, TeamA, 3)
	st, _ = score(t, st, TeamB, 3)

	before := st.Clone()
	_, _ = Apply(st, PointFor(TeamA), testNow)

	assert.Equal(t, before, st)
}

func TestGameWonAtFourPoints(t *testing.T) {
	st := newTestState(defaultConfig())
	st, fx := score(t, st, TeamA, 4)

	assert.Equal(t, 1, st.GamesA)
	assert.Equal(t, 0, st.GamesB)
	assert.Equal(t, 0, st.PointsA)
	assert.Equal(t, 0, st.PointsB)
	require.Len(t, fx, 2)
	assert.Equal(t, EffectGameWon, fx[1].Kind)
	assert.Equal(t, TeamA, *fx[1].Team)
	// Server rotates after a normal game.
	require.NotNil(t, st.Serving)
	assert.Equal(t, TeamB, *st.Serving)
}

func TestDeuceAndAdvantageEffects(t *testing.T) {
	st := newTestState(defaultConfig())
	st, _ = score(t, st, TeamA, 3)
	st, fx := score(t, st, TeamB, 3)

	assert.Equal(t, 1, st.DeuceCount)
	require.Len(t, fx, 2)
	assert.Equal(t, EffectDeuce, fx[1].Kind)

	st, fx = score(t, st, TeamA, 1)
	require.Len(t, fx, 2)
	assert.Equal(t, EffectAdvantage, fx[1].Kind)
	assert.Equal(t, TeamA, *fx[1].Team)
	assert.Equal(t, 0, st.GamesA)

	// Equalising returns to deuce and bumps the counter again.
	st, fx = score(t, st, TeamB, 1)
	assert.Equal(t, 2, st.DeuceCount)
	assert.Equal(t, EffectDeuce, fx[1].Kind)
}

func TestTraditionalDeuceRequiresTwoPointLead(t *testing.T) {
	st := newTestState(defaultConfig())
	st, _ = score(t, st, TeamA, 3)
	st, _ = score(t, st, TeamB, 3)

	// Advantage alone does not win the game under traditional rules.
	st, _ = score(t, st, TeamA, 1)
	assert.Equal(t, 0, st.GamesA)

	st, fx := score(t, st, TeamA, 1)
	assert.Equal(t, 1, st.GamesA)
	assert.Equal(t, EffectGameWon, fx[1].Kind)
}

func TestGoldenPointWinsFromDeuce(t *testing.T) {
	cfg := defaultConfig()
	cfg.DeucePolicy = DeuceGoldenPoint
	st := newTestState(cfg)
	st, _ = score(t, st, TeamA, 3)
	st, _ = score(t, st, TeamB, 3)

	st, fx := score(t, st, TeamB, 1)

	assert.Equal(t, 1, st.GamesB)
	assert.Equal(t, 0, st.GamesA)
	assert.Equal(t, 0, st.PointsA)
	assert.Equal(t, 0, st.PointsB)
	assert.Equal(t, EffectGameWon, fx[1].Kind)
	assert.Equal(t, TeamB, *fx[1].Team)
}

func TestSilverPointFirstDeucePlaysAdvantage(t *testing.T) {
	cfg := defaultConfig()
	cfg.DeucePolicy = DeuceSilverPoint
	st := newTestState(cfg)
	st, _ = score(t, st, TeamA, 3)
	st, _ = score(t, st, TeamB, 3)
	require.Equal(t, 1, st.DeuceCount)

	// Next point off the first deuce only grants advantage.
	st, fx := score(t, st, TeamA, 1)
	assert.Equal(t, 0, st.GamesA)
	assert.Equal(t, EffectAdvantage, fx[1].Kind)
}

func TestSilverPointSecondDeuceIsSuddenDeath(t *testing.T) {
	cfg := defaultConfig()
	cfg.DeucePolicy = DeuceSilverPoint
	st := newTestState(cfg)
	st, _ = score(t, st, TeamA, 3)
	st, _ = score(t, st, TeamB, 3)
	st, _ = score(t, st, TeamA, 1) // advantage A
	st, _ = score(t, st, TeamB, 1) // back to deuce, second of the game
	require.Equal(t, 2, st.DeuceCount)

	st, fx := score(t, st, TeamB, 1)

	assert.Equal(t, 1, st.GamesB)
	assert.Equal(t, 0, st.PointsA)
	assert.Equal(t, EffectGameWon, fx[1].Kind)
	assert.Equal(t, TeamB, *fx[1].Team)
}

func TestDeuceCounterResetsEachGame(t *testing.T) {
	st := newTestState(defaultConfig())
	st, _ = score(t, st, TeamA, 3)
	st, _ = score(t, st, TeamB, 3)
	require.Equal(t, 1, st.DeuceCount)

	st, _ = score(t, st, TeamA, 2)
	assert.Equal(t, 1, st.GamesA)
	assert.Equal(t, 0, st.DeuceCount)
}

func TestSetWonAtSixGames(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 5)
	st, _ = score(t, st, TeamA, 3)
	st, fx := score(t, st, TeamA, 1)

	require.Len(t, fx, 4)
	assert.Equal(t, EffectGameWon, fx[1].Kind)
	assert.Equal(t, EffectSetWon, fx[2].Kind)
	assert.Equal(t, EffectSetStarted, fx[3].Kind)
	assert.Equal(t, 2, *fx[3].Set)

	assert.Equal(t, []SetScore{{GamesA: 6, GamesB: 0}}, st.SetScores)
	assert.Equal(t, 2, st.CurrentSet)
	assert.Equal(t, 0, st.GamesA)
	assert.Equal(t, 0, st.GamesB)
	assert.Equal(t, StatusInProgress, st.Status)
}

func TestSetRequiresTwoGameLead(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 5)
	st = winGames(t, st, TeamB, 5)
	st = winGames(t, st, TeamA, 1) // 6-5: not enough

	assert.Empty(t, st.SetScores)
	assert.Equal(t, 6, st.GamesA)

	st = winGames(t, st, TeamA, 1) // 7-5 takes the set
	assert.Equal(t, []SetScore{{GamesA: 7, GamesB: 5}}, st.SetScores)
}

func TestTiebreakTriggersAtThreshold(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 5)
	st = winGames(t, st, TeamB, 5)
	st = winGames(t, st, TeamA, 1)
	// Server before the deciding game; it must open the tiebreak.
	starter := *st.Serving
	st, fx := score(t, st, TeamB, 4)

	require.NotNil(t, st.Tiebreak)
	assert.Equal(t, 0, st.Tiebreak.PointsA)
	assert.Equal(t, 0, st.Tiebreak.PointsB)
	assert.Equal(t, starter, st.Tiebreak.StartingServer)
	// No rotation entering the tiebreak.
	assert.Equal(t, starter, *st.Serving)
	assert.Equal(t, EffectTiebreakStarted, fx[len(fx)-1].Kind)
}

func TestTiebreakServeRotation(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 5)
	st = winGames(t, st, TeamB, 5)
	st = winGames(t, st, TeamA, 1)
	st, _ = score(t, st, TeamB, 4)
	require.NotNil(t, st.Tiebreak)

	s := st.Tiebreak.StartingServer
	// Expected server for tiebreak points 1..7: S, ¬S, ¬S, S, S, ¬S, ¬S.
	want := []Team{s, s.Other(), s.Other(), s, s, s.Other(), s.Other()}

	// Alternate scorers so neither side gets near seven points and the
	// tiebreak stays open for the full rotation window.
	scorers := []Team{TeamA, TeamB, TeamA, TeamB, TeamA, TeamB}
	for i, scorer := range scorers {
		assert.Equalf(t, want[i], *st.Serving, "server for tiebreak point %d", i+1)
		st, _ = score(t, st, scorer, 1)
	}
	assert.Equal(t, want[6], *st.Serving)
}

func TestTiebreakWinBeyondSevenNeedsTwoPointLead(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 5)
	st = winGames(t, st, TeamB, 5)
	st = winGames(t, st, TeamA, 1)
	st, _ = score(t, st, TeamB, 4)
	require.NotNil(t, st.Tiebreak)

	// Trade points to 6-6 in the tiebreak.
	for i := 0; i < 6; i++ {
		st, _ = score(t, st, TeamA, 1)
		st, _ = score(t, st, TeamB, 1)
	}
	require.NotNil(t, st.Tiebreak)

	// 7-6 is not enough.
	st, _ = score(t, st, TeamA, 1)
	require.NotNil(t, st.Tiebreak)

	// 8-6 closes the set at 7-6 in games.
	st, fx := score(t, st, TeamA, 1)
	assert.Nil(t, st.Tiebreak)
	assert.Equal(t, []SetScore{{GamesA: 7, GamesB: 6}}, st.SetScores)
	assert.Equal(t, EffectGameWon, fx[1].Kind)
	assert.Equal(t, EffectSetWon, fx[2].Kind)
}

func TestTiebreakWinsAtSevenRegardlessOfTrigger(t *testing.T) {
	cfg := defaultConfig()
	cfg.TiebreakAt = 7
	st := newTestState(cfg)
	// Alternate game wins so neither side ever has the two game lead that
	// would end the set before the raised trigger is reached.
	for i := 0; i < 6; i++ {
		st = winGames(t, st, TeamA, 1)
		st = winGames(t, st, TeamB, 1)
	}
	require.Empty(t, st.SetScores)
	st = winGames(t, st, TeamA, 1) // 7-6, one game short of the trigger
	require.Empty(t, st.SetScores)
	require.Nil(t, st.Tiebreak)
	st = winGames(t, st, TeamB, 1)
	require.NotNil(t, st.Tiebreak, "7-7 should trigger the tiebreak")

	st, _ = score(t, st, TeamB, 6)
	require.NotNil(t, st.Tiebreak)
	st, _ = score(t, st, TeamB, 1)
	assert.Nil(t, st.Tiebreak)
	require.Len(t, st.SetScores, 1)
	// The recorded score must credit the set to the tiebreak winner.
	assert.Equal(t, SetScore{GamesA: 7, GamesB: 8}, st.SetScores[0])
	assert.Equal(t, TeamB, st.SetScores[0].Winner())
	setsA, setsB := st.SetsWon()
	assert.Equal(t, 0, setsA)
	assert.Equal(t, 1, setsB)
	assert.Equal(t, 2, st.CurrentSet)
	assert.Equal(t, StatusInProgress, st.Status)
}

func TestDecidingTiebreakAtRaisedTriggerCompletesMatch(t *testing.T) {
	cfg := Config{DeucePolicy: DeuceTraditional, SetsToWin: 1, TiebreakAt: 7}
	st := newTestState(cfg)
	for i := 0; i < 7; i++ {
		st = winGames(t, st, TeamA, 1)
		st = winGames(t, st, TeamB, 1)
	}
	require.NotNil(t, st.Tiebreak)

	st, fx := score(t, st, TeamA, 7)

	assert.Equal(t, []SetScore{{GamesA: 8, GamesB: 7}}, st.SetScores)
	setsA, setsB := st.SetsWon()
	assert.Equal(t, 1, setsA)
	assert.Equal(t, 0, setsB)
	assert.Equal(t, StatusCompleted, st.Status)
	require.NotNil(t, st.Winner)
	assert.Equal(t, TeamA, *st.Winner)
	assert.Equal(t, EffectMatchWon, fx[len(fx)-1].Kind)
}

func TestSingleSetMatchCompletes(t *testing.T) {
	cfg := defaultConfig()
	cfg.SetsToWin = 1
	st := newTestState(cfg)
	st = winGames(t, st, TeamB, 5)
	st, fx := score(t, st, TeamB, 4)

	assert.Equal(t, StatusCompleted, st.Status)
	require.NotNil(t, st.Winner)
	assert.Equal(t, TeamB, *st.Winner)
	require.NotNil(t, st.CompletedAt)
	assert.Equal(t, EffectMatchWon, fx[len(fx)-1].Kind)
	// No set_started after the match ends.
	for _, e := range fx {
		assert.NotEqual(t, EffectSetStarted, e.Kind)
	}
}

func TestTwoSetMatchCompletes(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 6)
	require.Len(t, st.SetScores, 1)
	require.Equal(t, StatusInProgress, st.Status)

	st = winGames(t, st, TeamA, 6)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, TeamA, *st.Winner)
	assert.Len(t, st.SetScores, 2)
}

func TestSplitSetsGoToThird(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 6)
	st = winGames(t, st, TeamB, 6)

	assert.Equal(t, StatusInProgress, st.Status)
	assert.Equal(t, 3, st.CurrentSet)
	assert.Len(t, st.SetScores, 2)

	st = winGames(t, st, TeamB, 6)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, TeamB, *st.Winner)
}

func TestTerminalStatesAreNoOps(t *testing.T) {
	cfg := defaultConfig()
	cfg.SetsToWin = 1
	completed := newTestState(cfg)
	completed = winGames(t, completed, TeamA, 6)
	require.Equal(t, StatusCompleted, completed.Status)

	abandoned := newTestState(cfg)
	abandoned.Status = StatusAbandoned

	for _, st := range []State{completed, abandoned} {
		for _, team := range []Team{TeamA, TeamB} {
			next, fx := Apply(st, PointFor(team), testNow)
			assert.Equal(t, st, next)
			assert.Empty(t, fx)
		}
	}
}

func TestServerRotatesBetweenSets(t *testing.T) {
	st := newTestState(defaultConfig())
	st = winGames(t, st, TeamA, 5)
	serving := *st.Serving
	st = winGames(t, st, TeamA, 1)

	// One game-end rotation is replaced by the set rotation.
	assert.Equal(t, serving.Other(), *st.Serving)
}

// TestRandomSequencesKeepInvariants drives matches with random point
// sequences across every configuration and checks the state invariants at
// every step, plus winner consistency once each match ends.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	policies := []DeucePolicy{DeuceTraditional, DeuceGoldenPoint, DeuceSilverPoint}

	for _, policy := range policies {
		for _, sets := range []int{1, 2} {
			for _, trigger := range []int{6, 7} {
				cfg := Config{DeucePolicy: policy, SetsToWin: sets, TiebreakAt: trigger}
				for run := 0; run < 20; run++ {
					st := newTestState(cfg)
					for i := 0; i < 600 && !st.Status.Terminal(); i++ {
						team := TeamA
						if rng.Intn(2) == 1 {
							team = TeamB
						}
						st, _ = Apply(st, PointFor(team), testNow)
						require.NoError(t, st.Validate(), "policy=%s sets=%d trigger=%d", policy, sets, trigger)
					}
					require.Equal(t, StatusCompleted, st.Status, "match should finish within 600 points")
					setsA, setsB := st.SetsWon()
					if *st.Winner == TeamA {
						assert.GreaterOrEqual(t, setsA, cfg.SetsToWin)
					} else {
						assert.GreaterOrEqual(t, setsB, cfg.SetsToWin)
					}
					assert.Equal(t, setsA+setsB, len(st.SetScores))
				}
			}
		}
	}
}
