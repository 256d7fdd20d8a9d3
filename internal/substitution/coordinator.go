package substitution

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/roster"
)

// ErrSubstitutionAlreadyPending is returned when a toggle would initiate a
// second substitution while one is pending and cannot legally complete it.
var ErrSubstitutionAlreadyPending = errors.New("substitution already pending")

// InitiationType records which leg of a substitution was tapped first.
type InitiationType string

const (
	// SubIn means the incoming (off-field) player was marked first.
	SubIn InitiationType = "sub_in"
	// SubOut means the outgoing (on-field) player was marked first.
	SubOut InitiationType = "sub_out"
)

// Pending is the single in-flight substitution slot. At most one exists per
// match session; it persists until completed, cancelled, or the session resets.
type Pending struct {
	PlayerID   uuid.UUID      `json:"player_id"`
	PlayerName string         `json:"player_name"`
	ClockTime  int            `json:"clock_time"`
	Type       InitiationType `json:"type"`
}

// Outcome classifies what a toggle request did.
type Outcome string

const (
	// OutcomePendingSubIn recorded the incoming player; nobody moved yet.
	OutcomePendingSubIn Outcome = "PENDING_SUB_IN"
	// OutcomePendingSubOut recorded the outgoing player; nobody moved yet.
	OutcomePendingSubOut Outcome = "PENDING_SUB_OUT"
	// OutcomeCompleted paired the pending record with this tap: exactly one
	// player left the field and exactly one entered.
	OutcomeCompleted Outcome = "COMPLETE_SUBSTITUTION"
	// OutcomeToggled performed an ordinary toggle with no pairing bookkeeping.
	OutcomeToggled Outcome = "STANDARD_TOGGLE"
	// OutcomeCancelled cleared the pending record because the player who
	// initiated it was tapped again.
	OutcomeCancelled Outcome = "CANCELLED"
)

// Result describes the effect of one toggle request.
type Result struct {
	Outcome  Outcome
	Target   *roster.PlayerSession
	Incoming *roster.PlayerSession
	Outgoing *roster.PlayerSession
}

// Coordinator turns independent player taps into matched substitution pairs.
// It owns the single pending slot and delegates actual state flips to the
// roster tracker. Not goroutine-safe; the session engine serializes access.
type Coordinator struct {
	tracker *roster.Tracker
	pending *Pending
}

// NewCoordinator creates a coordinator over a roster tracker.
func NewCoordinator(tracker *roster.Tracker) *Coordinator {
	return &Coordinator{tracker: tracker}
}

// Pending returns the current pending substitution, or nil.
func (c *Coordinator) Pending() *Pending {
	return c.pending
}

// CancelPending clears the pending slot. Safe to call when none is pending.
func (c *Coordinator) CancelPending() {
	c.pending = nil
}

// Reset clears the pending slot on match reset.
func (c *Coordinator) Reset() {
	c.pending = nil
}

// Toggle classifies and applies a tap on the given player.
//
// With no substitution pending:
//   - on-field player with prior playtime  -> record pending sub-out
//   - off-field player with prior playtime -> record pending sub-in
//   - anyone else                          -> standard toggle
//
// With a pending record, a tap either completes the pair (one player off, one
// on), resolves or cancels the record when the initiating player is tapped
// again, falls back to a standard toggle for a fresh player, or is rejected
// with ErrSubstitutionAlreadyPending.
func (c *Coordinator) Toggle(playerID uuid.UUID, clockTime int) (*Result, error) {
	target, err := c.tracker.Get(playerID)
	if err != nil {
		return nil, err
	}

	if c.pending == nil {
		return c.toggleIdle(target, clockTime)
	}
	return c.togglePending(target, clockTime)
}

func (c *Coordinator) toggleIdle(target *roster.PlayerSession, clockTime int) (*Result, error) {
	if target.TotalTime > 0 {
		if target.IsPlaying {
			c.pending = &Pending{
				PlayerID:   target.PlayerID,
				PlayerName: target.Name,
				ClockTime:  clockTime,
				Type:       SubOut,
			}
			return &Result{Outcome: OutcomePendingSubOut, Target: target}, nil
		}
		c.pending = &Pending{
			PlayerID:   target.PlayerID,
			PlayerName: target.Name,
			ClockTime:  clockTime,
			Type:       SubIn,
		}
		return &Result{Outcome: OutcomePendingSubIn, Target: target}, nil
	}
	return c.standardToggle(target, clockTime)
}

func (c *Coordinator) togglePending(target *roster.PlayerSession, clockTime int) (*Result, error) {
	if target.PlayerID == c.pending.PlayerID {
		return c.toggleSelf(target, clockTime)
	}

	switch c.pending.Type {
	case SubIn:
		// Pending player is waiting off-field to come in.
		if target.IsPlaying {
			return c.complete(target, clockTime)
		}
		if target.TotalTime > 0 {
			return nil, fmt.Errorf("player %s: %w", target.Name, ErrSubstitutionAlreadyPending)
		}
		return c.standardToggle(target, clockTime)

	case SubOut:
		// Pending player is waiting on-field to come off.
		if !target.IsPlaying && target.TotalTime > 0 {
			return c.complete(target, clockTime)
		}
		if target.IsPlaying {
			return nil, fmt.Errorf("player %s: %w", target.Name, ErrSubstitutionAlreadyPending)
		}
		return c.standardToggle(target, clockTime)

	default:
		return nil, fmt.Errorf("pending substitution has unknown type %q", c.pending.Type)
	}
}

// toggleSelf handles tapping the player who initiated the pending record:
// a sub-in candidate withdraws, a sub-out player simply leaves unpaired.
func (c *Coordinator) toggleSelf(target *roster.PlayerSession, clockTime int) (*Result, error) {
	if c.pending.Type == SubIn {
		c.pending = nil
		return &Result{Outcome: OutcomeCancelled, Target: target}, nil
	}
	c.pending = nil
	return c.standardToggle(target, clockTime)
}

// complete pairs the tapped player with the pending one. Exactly one of the
// pair is on-field before the swap; both flip.
func (c *Coordinator) complete(target *roster.PlayerSession, clockTime int) (*Result, error) {
	pendingSession, err := c.tracker.Get(c.pending.PlayerID)
	if err != nil {
		// Pending player was untracked out from under us; drop the record.
		c.pending = nil
		return nil, err
	}

	var incoming, outgoing *roster.PlayerSession
	if target.IsPlaying {
		outgoing, incoming = target, pendingSession
	} else {
		outgoing, incoming = pendingSession, target
	}

	if _, err := c.tracker.Toggle(outgoing.PlayerID, clockTime); err != nil {
		return nil, err
	}
	if _, err := c.tracker.Toggle(incoming.PlayerID, clockTime); err != nil {
		return nil, err
	}

	c.pending = nil
	return &Result{
		Outcome:  OutcomeCompleted,
		Target:   target,
		Incoming: incoming,
		Outgoing: outgoing,
	}, nil
}

func (c *Coordinator) standardToggle(target *roster.PlayerSession, clockTime int) (*Result, error) {
	if _, err := c.tracker.Toggle(target.PlayerID, clockTime); err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeToggled, Target: target}, nil
}
