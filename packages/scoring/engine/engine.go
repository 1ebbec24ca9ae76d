// Package engine implements the match scoring state machine: points, games,
// deuce policies, tiebreaks, sets and match completion. Apply is a pure
// function over value states, so it is safe to run concurrently on
// independent copies and trivial to test without a database.
package engine

import "time"

// Apply scores one event against a state and returns the resulting state plus
// the ordered list of effects. The input state is never mutated. Events
// against a completed or abandoned match return the state unchanged with no
// effects; scoring after the end is a no-op, not an error.
func Apply(s State, ev Event, now time.Time) (State, []Effect) {
	if s.Status.Terminal() {
		return s.Clone(), nil
	}

	st := s.Clone()
	var fx []Effect

	// First accepted point starts the match.
	if st.Status == StatusSetup {
		st.Status = StatusInProgress
		started := now
		st.StartedAt = &started
	}

	fx = append(fx, teamEffect(EffectPointScored, ev.Team))

	if st.Tiebreak != nil {
		fx = applyTiebreakPoint(&st, ev.Team, now, fx)
	} else {
		fx = applyGamePoint(&st, ev.Team, now, fx)
	}
	return st, fx
}

// applyGamePoint scores one point of a normal (non-tiebreak) game.
func applyGamePoint(st *State, team Team, now time.Time, fx []Effect) []Effect {
	opp := team.Other()

	// Deuce-policy short circuits are judged on the pre-increment score.
	preSelf := st.points(team)
	preOpp := st.points(opp)
	atDeuce := preSelf >= 3 && preOpp >= 3 && preSelf == preOpp

	if team == TeamA {
		st.PointsA++
	} else {
		st.PointsB++
	}

	won := false
	switch st.Config.DeucePolicy {
	case DeuceGoldenPoint:
		won = atDeuce
	case DeuceSilverPoint:
		// First deuce of the game plays a traditional advantage round;
		// from the second deuce on the next point decides it.
		won = atDeuce && st.DeuceCount >= 2
	}
	if !won && st.points(team) >= 4 && st.points(team)-st.points(opp) >= 2 {
		won = true
	}

	if !won {
		self, other := st.points(team), st.points(opp)
		if self >= 3 && other >= 3 {
			if self == other {
				st.DeuceCount++
				fx = append(fx, Effect{Kind: EffectDeuce})
			} else if self-other == 1 {
				fx = append(fx, teamEffect(EffectAdvantage, team))
			}
		}
		return fx
	}

	fx = append(fx, teamEffect(EffectGameWon, team))
	st.addGame(team)
	st.PointsA, st.PointsB, st.DeuceCount = 0, 0, 0

	if st.GamesA == st.Config.TiebreakAt && st.GamesB == st.Config.TiebreakAt {
		// Server does not rotate entering the tiebreak; whoever is on
		// serve opens it.
		starter := team
		if st.Serving != nil {
			starter = *st.Serving
		}
		st.Tiebreak = &Tiebreak{StartingServer: starter}
		return append(fx, Effect{Kind: EffectTiebreakStarted})
	}

	if st.games(team) >= 6 && st.games(team)-st.games(opp) >= 2 {
		return completeSet(st, team, now, fx)
	}

	rotateServer(st)
	return fx
}

// applyTiebreakPoint scores one point of a tiebreak.
func applyTiebreakPoint(st *State, team Team, now time.Time, fx []Effect) []Effect {
	tb := st.Tiebreak
	tb.addPoint(team)

	if tb.points(team) >= TiebreakWinAt && tb.points(team)-tb.points(team.Other()) >= 2 {
		// The set is recorded with the winner one game ahead (7-6 for the
		// standard trigger, 8-7 when the tiebreak starts at 7-7), so the
		// recorded score always identifies who took the set.
		if team == TeamA {
			st.GamesA = st.GamesB + 1
		} else {
			st.GamesB = st.GamesA + 1
		}
		st.Tiebreak = nil
		fx = append(fx, teamEffect(EffectGameWon, team))
		return completeSet(st, team, now, fx)
	}

	// Serve rotation: the starting server takes the first point alone,
	// then the serve switches every two points.
	played := tb.PointsA + tb.PointsB
	server := tb.StartingServer
	if ((played+1)/2)%2 == 1 {
		server = server.Other()
	}
	st.Serving = &server
	return fx
}

// completeSet records the finished set and either ends the match or starts
// the next set.
func completeSet(st *State, winner Team, now time.Time, fx []Effect) []Effect {
	fx = append(fx, teamEffect(EffectSetWon, winner))
	st.SetScores = append(st.SetScores, SetScore{GamesA: st.GamesA, GamesB: st.GamesB})

	setsA, setsB := st.SetsWon()
	won := setsA
	if winner == TeamB {
		won = setsB
	}
	if won >= st.Config.SetsToWin {
		fx = append(fx, teamEffect(EffectMatchWon, winner))
		w := winner
		st.Winner = &w
		st.Status = StatusCompleted
		completed := now
		st.CompletedAt = &completed
		return fx
	}

	st.CurrentSet++
	st.GamesA, st.GamesB = 0, 0
	st.PointsA, st.PointsB, st.DeuceCount = 0, 0, 0
	st.Tiebreak = nil
	rotateServer(st)
	return append(fx, setEffect(EffectSetStarted, st.CurrentSet))
}

func rotateServer(st *State) {
	if st.Serving == nil {
		return
	}
	next := st.Serving.Other()
	st.Serving = &next
}
