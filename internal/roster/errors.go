package roster

import "errors"

// ErrDuplicateTracking is returned when a player is added to tracking twice.
var ErrDuplicateTracking = errors.New("player already tracked")

// ErrNotTracked is returned when an operation targets an untracked player.
var ErrNotTracked = errors.New("player not tracked")

// ErrInvalidPlayerState is returned when a session's playing/startTime fields
// disagree. The tracker never constructs such a session itself.
var ErrInvalidPlayerState = errors.New("invalid player state")
