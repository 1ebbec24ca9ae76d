package engine

// EventKind is the kind of score event fed to the engine. Points are the
// only event kind today; corrections go through the undo log instead.
type EventKind string

const (
	EventPoint EventKind = "point"
)

// Event is one scoring input: which team did what.
type Event struct {
	Team Team      `json:"team"`
	Kind EventKind `json:"kind"`
}

// PointFor builds a point event for the given team.
func PointFor(team Team) Event {
	return Event{Team: team, Kind: EventPoint}
}

// EffectKind tags an observational side effect of applying an event.
type EffectKind string

const (
	EffectPointScored     EffectKind = "point_scored"
	EffectGameWon         EffectKind = "game_won"
	EffectSetWon          EffectKind = "set_won"
	EffectMatchWon        EffectKind = "match_won"
	EffectTiebreakStarted EffectKind = "tiebreak_started"
	EffectDeuce           EffectKind = "deuce"
	EffectAdvantage       EffectKind = "advantage"
	EffectSetStarted      EffectKind = "set_started"
)

// Effect describes something that happened while applying an event. Effects
// carry no state; callers use them to drive notifications and animations.
type Effect struct {
	Kind EffectKind `json:"kind"`
	Team *Team      `json:"team,omitempty"`
	Set  *int       `json:"set,omitempty"`
}

func teamEffect(kind EffectKind, team Team) Effect {
	t := team
	return Effect{Kind: kind, Team: &t}
}

func setEffect(kind EffectKind, set int) Effect {
	n := set
	return Effect{Kind: kind, Set: &n}
}
