package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/events"
)

// MatchState is the live scoreboard view a late-joining spectator gets before
// any new events arrive.
type MatchState struct {
	FixtureID    string     `json:"fixture_id"`
	Status       string     `json:"status"`
	HomeScore    int        `json:"home_score"`
	AwayScore    int        `json:"away_score"`
	MatchTime    int        `json:"match_time"`
	ClockRunning bool       `json:"clock_running"`
	Half         int        `json:"half"`
	LastEventAt  *time.Time `json:"last_event_at,omitempty"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`
}

// MatchStateManager folds the event feed into per-fixture scoreboard state.
// Safe for concurrent use; the consumer goroutine writes while HTTP handlers
// read.
type MatchStateManager struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*MatchState
}

// NewMatchStateManager creates a new state manager.
func NewMatchStateManager() *MatchStateManager {
	return &MatchStateManager{
		states: make(map[uuid.UUID]*MatchState),
	}
}

// GetState returns a copy of the current state for a fixture, or nil.
func (sm *MatchStateManager) GetState(fixtureID uuid.UUID) *MatchState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	state, ok := sm.states[fixtureID]
	if !ok {
		return nil
	}
	copied := *state
	return &copied
}

// RemoveState drops the state for a fixture, e.g. once archived.
func (sm *MatchStateManager) RemoveState(fixtureID uuid.UUID) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.states, fixtureID)
}

// ProcessEvent updates the fixture's scoreboard state from an incoming event.
func (sm *MatchStateManager) ProcessEvent(event *MatchFeedEvent) error {
	fixtureID, err := uuid.Parse(event.FixtureID)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	state, ok := sm.states[fixtureID]
	if !ok {
		state = &MatchState{FixtureID: event.FixtureID, Status: "LIVE", Half: 1}
		sm.states[fixtureID] = state
	}
	ts := event.Timestamp
	state.LastEventAt = &ts

	payload, err := ParseEventPayload(event)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventTypeClockStarted:
		p := payload.(events.ClockPayload)
		state.MatchTime = p.MatchTime
		state.ClockRunning = true

	case EventTypeClockPaused:
		p := payload.(events.ClockPayload)
		state.MatchTime = p.MatchTime
		state.ClockRunning = false

	case EventTypeHalfStarted:
		p := payload.(events.HalfStartedPayload)
		state.Half = p.Half
		state.MatchTime = p.MatchTime

	case EventTypeGoalScored:
		p := payload.(events.GoalScoredPayload)
		state.HomeScore = p.HomeScore
		state.AwayScore = p.AwayScore
		state.MatchTime = p.MatchTime

	case EventTypeGoalRemoved:
		p := payload.(events.GoalRemovedPayload)
		state.HomeScore = p.HomeScore
		state.AwayScore = p.AwayScore

	case EventTypeMatchReset:
		state.HomeScore = 0
		state.AwayScore = 0
		state.MatchTime = 0
		state.ClockRunning = false
		state.Half = 1
		state.Status = "LIVE"
		state.FinalizedAt = nil

	case EventTypeMatchFinalized:
		p := payload.(events.MatchFinalizedPayload)
		state.Status = "COMPLETED"
		state.HomeScore = p.HomeScore
		state.AwayScore = p.AwayScore
		state.ClockRunning = false
		at := p.FinalizedAt
		state.FinalizedAt = &at
	}

	return nil
}
