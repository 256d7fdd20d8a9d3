package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/events"
)

func feedEvent(t *testing.T, fixtureID uuid.UUID, eventType EventType, payload interface{}) *MatchFeedEvent {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &MatchFeedEvent{
		ID:        uuid.New().String(),
		FixtureID: fixtureID.String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func TestStateManagerFoldsFeed(t *testing.T) {
	sm := NewMatchStateManager()
	fixtureID := uuid.New()

	if got := sm.GetState(fixtureID); got != nil {
		t.Fatal("expected nil state before any event")
	}

	if err := sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeClockStarted, events.ClockPayload{MatchTime: 0, Running: true})); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if err := sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeGoalScored, events.GoalScoredPayload{
		PlayerName: "Somchai",
		MatchTime:  312,
		HomeScore:  1,
		AwayScore:  0,
	})); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}

	state := sm.GetState(fixtureID)
	if state == nil {
		t.Fatal("expected state after events")
	}
	if !state.ClockRunning {
		t.Error("clock should be running")
	}
	if state.HomeScore != 1 || state.AwayScore != 0 {
		t.Errorf("score = %d-%d, want 1-0", state.HomeScore, state.AwayScore)
	}
	if state.MatchTime != 312 {
		t.Errorf("match time = %d, want 312", state.MatchTime)
	}

	if err := sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeClockPaused, events.ClockPayload{MatchTime: 400, Running: false})); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}
	if err := sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeHalfStarted, events.HalfStartedPayload{Half: 2, MatchTime: 1500})); err != nil {
		t.Fatalf("ProcessEvent: %v", err)
	}

	state = sm.GetState(fixtureID)
	if state.ClockRunning {
		t.Error("clock should be paused")
	}
	if state.Half != 2 {
		t.Errorf("half = %d, want 2", state.Half)
	}
}

func TestStateManagerResetAndFinalize(t *testing.T) {
	sm := NewMatchStateManager()
	fixtureID := uuid.New()

	sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeGoalScored, events.GoalScoredPayload{HomeScore: 2, AwayScore: 1, MatchTime: 900}))
	sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeMatchReset, events.MatchResetPayload{ResetAt: time.Now()}))

	state := sm.GetState(fixtureID)
	if state.HomeScore != 0 || state.AwayScore != 0 || state.MatchTime != 0 {
		t.Errorf("reset state = %+v, want zeroed scoreboard", state)
	}

	sm.ProcessEvent(feedEvent(t, fixtureID, EventTypeMatchFinalized, events.MatchFinalizedPayload{
		HomeScore:   3,
		AwayScore:   2,
		FinalizedAt: time.Now(),
	}))
	state = sm.GetState(fixtureID)
	if state.Status != "COMPLETED" {
		t.Errorf("status = %s, want COMPLETED", state.Status)
	}
	if state.HomeScore != 3 || state.AwayScore != 2 {
		t.Errorf("final score = %d-%d, want 3-2", state.HomeScore, state.AwayScore)
	}
	if state.FinalizedAt == nil {
		t.Error("finalized timestamp should be set")
	}

	sm.RemoveState(fixtureID)
	if sm.GetState(fixtureID) != nil {
		t.Error("state should be removed")
	}
}

func TestStateManagerRejectsBadFixtureID(t *testing.T) {
	sm := NewMatchStateManager()
	ev := &MatchFeedEvent{FixtureID: "not-a-uuid", Type: EventTypeClockStarted, Data: []byte(`{}`)}
	if err := sm.ProcessEvent(ev); err == nil {
		t.Error("expected error for malformed fixture id")
	}
}
