package gateway

import (
	"encoding/json"
	"time"

	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/events"
)

// MatchFeedEvent is the message shape pushed to WebSocket clients.
type MatchFeedEvent struct {
	ID        string          `json:"id"`
	FixtureID string          `json:"fixture_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of match feed event.
type EventType string

const (
	EventTypeClockStarted          EventType = events.TypeClockStarted
	EventTypeClockPaused           EventType = events.TypeClockPaused
	EventTypeHalfStarted           EventType = events.TypeHalfStarted
	EventTypeGoalScored            EventType = events.TypeGoalScored
	EventTypeGoalRemoved           EventType = events.TypeGoalRemoved
	EventTypeCardIssued            EventType = events.TypeCardIssued
	EventTypePlayerTracked         EventType = events.TypePlayerTracked
	EventTypePlayerUntracked       EventType = events.TypePlayerUntracked
	EventTypePlayerToggled         EventType = events.TypePlayerToggled
	EventTypeSubstitutionCompleted EventType = events.TypeSubstitutionCompleted
	EventTypeMatchReset            EventType = events.TypeMatchReset
	EventTypeMatchFinalized        EventType = events.TypeMatchFinalized
)

// ParseEventPayload parses event data into the appropriate payload struct.
func ParseEventPayload(event *MatchFeedEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeClockStarted, EventTypeClockPaused:
		var payload events.ClockPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeHalfStarted:
		var payload events.HalfStartedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGoalScored:
		var payload events.GoalScoredPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeGoalRemoved:
		var payload events.GoalRemovedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeCardIssued:
		var payload events.CardIssuedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypePlayerTracked:
		var payload events.PlayerTrackedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypePlayerUntracked:
		var payload events.PlayerUntrackedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypePlayerToggled:
		var payload events.PlayerToggledPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeSubstitutionCompleted:
		var payload events.SubstitutionCompletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeMatchReset:
		var payload events.MatchResetPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeMatchFinalized:
		var payload events.MatchFinalizedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil // Unknown event type
	}
}
