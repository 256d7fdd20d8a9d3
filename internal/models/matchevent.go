package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchEventType defines the kind of a ledger entry.
type MatchEventType string

const (
	EventGoal          MatchEventType = "goal"
	EventAssist        MatchEventType = "assist"
	EventYellowCard    MatchEventType = "yellow_card"
	EventRedCard       MatchEventType = "red_card"
	EventPlayerAdded   MatchEventType = "player_added"
	EventPlayerRemoved MatchEventType = "player_removed"
	EventTimer         MatchEventType = "timer"
	EventReset         MatchEventType = "reset"
	EventOther         MatchEventType = "other"
)

// MatchEvent is a single entry in a match session's ledger. The ID is
// generated locally when the event is appended and stays stable across sync,
// which is what makes retried batches idempotent on the remote side.
type MatchEvent struct {
	ID          uuid.UUID      `json:"id"`
	FixtureID   uuid.UUID      `json:"fixture_id"`
	Type        MatchEventType `json:"type"`
	PlayerID    *uuid.UUID     `json:"player_id,omitempty"`
	PlayerName  string         `json:"player_name"`
	TeamID      string         `json:"team_id"`
	Time        int            `json:"time"`
	Description string         `json:"description"`
	IsOwnGoal   bool           `json:"is_own_goal"`
	Synced      bool           `json:"synced"`
	CreatedAt   time.Time      `json:"created_at"`
}
