package models

import (
	"testing"
	"time"

	"scoring/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() engine.State {
	serving := engine.TeamB
	started := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)
	return engine.State{
		Config: engine.Config{
			DeucePolicy: engine.DeuceGoldenPoint,
			SetsToWin:   2,
			TiebreakAt:  6,
		},
		PointsA:    2,
		PointsB:    3,
		GamesA:     4,
		GamesB:     5,
		SetScores:  []engine.SetScore{{GamesA: 6, GamesB: 4}},
		CurrentSet: 2,
		DeuceCount: 1,
		Serving:    &serving,
		Status:     engine.StatusInProgress,
		StartedAt:  &started,
	}
}

func TestMatchEngineStateRoundTrip(t *testing.T) {
	st := sampleState()

	m := Match{
		DeucePolicy: string(st.Config.DeucePolicy),
		SetsToWin:   st.Config.SetsToWin,
		TiebreakAt:  st.Config.TiebreakAt,
	}
	m.ApplyEngineState(st)

	assert.Equal(t, st, m.ToEngineState())
}

func TestMatchEngineStateRoundTripWithTiebreak(t *testing.T) {
	st := sampleState()
	st.PointsA, st.PointsB, st.DeuceCount = 0, 0, 0
	st.GamesA, st.GamesB = 6, 6
	st.Tiebreak = &engine.Tiebreak{PointsA: 3, PointsB: 5, StartingServer: engine.TeamA}

	m := Match{
		DeucePolicy: string(st.Config.DeucePolicy),
		SetsToWin:   st.Config.SetsToWin,
		TiebreakAt:  st.Config.TiebreakAt,
	}
	m.ApplyEngineState(st)

	assert.True(t, m.TiebreakActive)
	require.NotNil(t, m.TiebreakPointsA)
	assert.Equal(t, 3, *m.TiebreakPointsA)
	assert.Equal(t, st, m.ToEngineState())

	// Leaving the tiebreak clears its columns.
	st.Tiebreak = nil
	m.ApplyEngineState(st)
	assert.False(t, m.TiebreakActive)
	assert.Nil(t, m.TiebreakPointsA)
	assert.Nil(t, m.TiebreakPointsB)
	assert.Nil(t, m.TiebreakServer)
}

func TestStateUpdateMapClearsResetColumns(t *testing.T) {
	st := sampleState()
	st.PointsA, st.PointsB, st.DeuceCount = 0, 0, 0
	st.Serving = nil

	updates := StateUpdateMap(st)

	// Zeroed and cleared columns must be present in the map, otherwise the
	// guarded UPDATE would silently keep stale values.
	assert.Contains(t, updates, "points_a")
	assert.Equal(t, 0, updates["points_a"])
	assert.Contains(t, updates, "serving")
	assert.Nil(t, updates["serving"])
	assert.Contains(t, updates, "tiebreak_server")
	assert.Nil(t, updates["tiebreak_server"])
	assert.Contains(t, updates, "version")
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	snap := Snapshot{Version: 17, State: sampleState()}

	value, err := snap.Value()
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, restored.Scan(value.([]byte)))

	assert.Equal(t, snap.Version, restored.Version)
	assert.Equal(t, snap.State.Config, restored.State.Config)
	assert.Equal(t, snap.State.PointsB, restored.State.PointsB)
	require.NotNil(t, restored.State.Serving)
	assert.Equal(t, *snap.State.Serving, *restored.State.Serving)
	assert.Equal(t, snap.State.SetScores, restored.State.SetScores)
}

func TestPlayerListScanNil(t *testing.T) {
	var l PlayerList
	require.NoError(t, l.Scan(nil))
	assert.Equal(t, PlayerList{}, l)
}
