package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type names carried on the envelope.
const (
	TypeClockStarted          = "ClockStarted"
	TypeClockPaused           = "ClockPaused"
	TypeHalfStarted           = "HalfStarted"
	TypeGoalScored            = "GoalScored"
	TypeGoalRemoved           = "GoalRemoved"
	TypeCardIssued            = "CardIssued"
	TypePlayerTracked         = "PlayerTracked"
	TypePlayerUntracked       = "PlayerUntracked"
	TypePlayerToggled         = "PlayerToggled"
	TypeSubstitutionCompleted = "SubstitutionCompleted"
	TypeMatchReset            = "MatchReset"
	TypeMatchFinalized        = "MatchFinalized"
)

// Envelope is the wire format for domain events published on
// match.events.<fixtureID>.
type Envelope struct {
	EventID   uuid.UUID       `json:"eventId"`
	EventType string          `json:"eventType"`
	FixtureID uuid.UUID       `json:"fixtureId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ClockPayload reports a clock transition.
type ClockPayload struct {
	MatchTime int  `json:"match_time"`
	Running   bool `json:"running"`
}

// HalfStartedPayload reports a half change.
type HalfStartedPayload struct {
	Half      int `json:"half"`
	MatchTime int `json:"match_time"`
}

// GoalScoredPayload reports a recorded goal and the updated score.
type GoalScoredPayload struct {
	PlayerID   *uuid.UUID `json:"player_id,omitempty"`
	PlayerName string     `json:"player_name"`
	TeamID     string     `json:"team_id"`
	MatchTime  int        `json:"match_time"`
	IsOwnGoal  bool       `json:"is_own_goal"`
	AssistName string     `json:"assist_name,omitempty"`
	HomeScore  int        `json:"home_score"`
	AwayScore  int        `json:"away_score"`
}

// GoalRemovedPayload reports a score correction.
type GoalRemovedPayload struct {
	Side      string `json:"side"`
	MatchTime int    `json:"match_time"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// CardIssuedPayload reports a disciplinary card.
type CardIssuedPayload struct {
	PlayerID   *uuid.UUID `json:"player_id,omitempty"`
	PlayerName string     `json:"player_name"`
	TeamID     string     `json:"team_id"`
	CardType   string     `json:"card_type"`
	MatchTime  int        `json:"match_time"`
}

// PlayerTrackedPayload reports a player entering session tracking.
type PlayerTrackedPayload struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	TeamID     string    `json:"team_id"`
	MatchTime  int       `json:"match_time"`
}

// PlayerUntrackedPayload reports a player leaving session tracking.
type PlayerUntrackedPayload struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	MatchTime  int       `json:"match_time"`
}

// PlayerToggledPayload reports the outcome of a toggle tap, including the
// pending-substitution bookkeeping outcomes where nobody moved yet.
type PlayerToggledPayload struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Outcome    string    `json:"outcome"`
	IsPlaying  bool      `json:"is_playing"`
	MatchTime  int       `json:"match_time"`
}

// SubstitutionCompletedPayload reports a matched substitution pair.
type SubstitutionCompletedPayload struct {
	OutgoingID   uuid.UUID `json:"outgoing_id"`
	OutgoingName string    `json:"outgoing_name"`
	IncomingID   uuid.UUID `json:"incoming_id"`
	IncomingName string    `json:"incoming_name"`
	MatchTime    int       `json:"match_time"`
}

// MatchResetPayload reports a full session reset.
type MatchResetPayload struct {
	ResetAt time.Time `json:"reset_at"`
}

// MatchFinalizedPayload reports the final score at session close.
type MatchFinalizedPayload struct {
	HomeScore   int       `json:"home_score"`
	AwayScore   int       `json:"away_score"`
	FinalizedAt time.Time `json:"finalized_at"`
}
