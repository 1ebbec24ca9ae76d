package services

import "errors"

var (
	// ErrCourtNotFound means the referenced court row does not exist.
	ErrCourtNotFound = errors.New("court not found")
	// ErrCourtBusy means the court already has a match in setup or in progress.
	ErrCourtBusy = errors.New("court already has an active match")
	// ErrNoActiveMatch means there is no scoreable match on the court.
	ErrNoActiveMatch = errors.New("no active match on this court")
	// ErrMatchNotFound means the referenced match row does not exist.
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchAlreadyTerminal means the match was already completed or abandoned.
	ErrMatchAlreadyTerminal = errors.New("match is already finished")
	// ErrInvalidTeam means the event referenced neither configured team.
	ErrInvalidTeam = errors.New("team must be team_a or team_b")
	// ErrVersionConflict means the guarded write lost the race and the bounded
	// retries were exhausted.
	ErrVersionConflict = errors.New("match was modified concurrently")
	// ErrNothingToUndo means the undo log holds no entry for the match.
	ErrNothingToUndo = errors.New("nothing to undo")
)
