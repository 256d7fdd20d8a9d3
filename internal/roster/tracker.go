package roster

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

// PlayerSession tracks one roster player's on/off-field state for the
// duration of a single fixture.
type PlayerSession struct {
	PlayerID uuid.UUID         `json:"player_id"`
	Name     string            `json:"name"`
	TeamID   string            `json:"team_id"`
	Role     models.PlayerRole `json:"role"`

	IsPlaying bool `json:"is_playing"`
	// StartTime is the clock second the current on-field stint began.
	// Non-nil iff IsPlaying.
	StartTime *int `json:"start_time,omitempty"`
	// TotalTime accumulates seconds across completed stints only; the open
	// stint is added when the player toggles off.
	TotalTime int `json:"total_time"`
	// CurrentHalfTime accumulates on-field seconds within the current half
	// and is cleared at halftime. Drives the s-class per-half cap.
	CurrentHalfTime int `json:"current_half_time"`
}

// ActiveTime returns total played seconds including the open stint.
func (s *PlayerSession) ActiveTime(clockTime int) int {
	if !s.IsPlaying || s.StartTime == nil {
		return s.TotalTime
	}
	return s.TotalTime + (clockTime - *s.StartTime)
}

// Tracker owns the per-player sessions for one fixture. It is not
// goroutine-safe; the session engine serializes access.
type Tracker struct {
	sessions map[uuid.UUID]*PlayerSession
	order    []uuid.UUID
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[uuid.UUID]*PlayerSession),
	}
}

// AddPlayer starts tracking a player. The player enters the field
// immediately with the current clock time as stint start.
func (t *Tracker) AddPlayer(p models.Player, teamID string, clockTime int) (*PlayerSession, error) {
	if _, ok := t.sessions[p.ID]; ok {
		return nil, fmt.Errorf("add player %s: %w", p.Name, ErrDuplicateTracking)
	}
	start := clockTime
	session := &PlayerSession{
		PlayerID:  p.ID,
		Name:      p.Name,
		TeamID:    teamID,
		Role:      p.Role,
		IsPlaying: true,
		StartTime: &start,
	}
	t.sessions[p.ID] = session
	t.order = append(t.order, p.ID)
	return session, nil
}

// RemovePlayer stops tracking a player and returns the removed session.
func (t *Tracker) RemovePlayer(playerID uuid.UUID) (*PlayerSession, error) {
	session, ok := t.sessions[playerID]
	if !ok {
		return nil, fmt.Errorf("remove player %s: %w", playerID, ErrNotTracked)
	}
	delete(t.sessions, playerID)
	for i, id := range t.order {
		if id == playerID {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return session, nil
}

// Get returns the session for a player, or ErrNotTracked.
func (t *Tracker) Get(playerID uuid.UUID) (*PlayerSession, error) {
	session, ok := t.sessions[playerID]
	if !ok {
		return nil, fmt.Errorf("get player %s: %w", playerID, ErrNotTracked)
	}
	return session, nil
}

// Toggle flips a player's on-field state. Entering the field opens a stint at
// the current clock time; leaving closes it into TotalTime.
func (t *Tracker) Toggle(playerID uuid.UUID, clockTime int) (*PlayerSession, error) {
	session, ok := t.sessions[playerID]
	if !ok {
		return nil, fmt.Errorf("toggle player %s: %w", playerID, ErrNotTracked)
	}
	if session.IsPlaying {
		if session.StartTime == nil {
			return nil, fmt.Errorf("toggle player %s: playing without stint start: %w", session.Name, ErrInvalidPlayerState)
		}
		session.TotalTime += clockTime - *session.StartTime
		session.StartTime = nil
		session.IsPlaying = false
	} else {
		start := clockTime
		session.StartTime = &start
		session.IsPlaying = true
	}
	return session, nil
}

// Tick advances CurrentHalfTime for every on-field player. Called once per
// clock second while the match clock is running.
func (t *Tracker) Tick() {
	for _, session := range t.sessions {
		if session.IsPlaying {
			session.CurrentHalfTime++
		}
	}
}

// ResetHalfTime clears per-half accumulators at halftime.
func (t *Tracker) ResetHalfTime() {
	for _, session := range t.sessions {
		session.CurrentHalfTime = 0
	}
}

// Sessions returns all tracked sessions in tracking order.
func (t *Tracker) Sessions() []*PlayerSession {
	out := make([]*PlayerSession, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.sessions[id])
	}
	return out
}

// Len returns the number of tracked players.
func (t *Tracker) Len() int {
	return len(t.sessions)
}

// Reset drops all sessions.
func (t *Tracker) Reset() {
	t.sessions = make(map[uuid.UUID]*PlayerSession)
	t.order = nil
}

// CountValidation reports whether a team currently fields the target seven
// players. Deviations are warnings, not hard errors: a referee is routinely
// mid-substitution when the count is off.
type CountValidation struct {
	IsValid     bool   `json:"is_valid"`
	Severity    string `json:"severity"`
	ActiveCount int    `json:"active_count"`
	Message     string `json:"message"`
}

// TargetOnField is the number of players each side fields in 7-a-side play.
const TargetOnField = 7

// PlayerCountValidation validates the on-field count for one team.
func (t *Tracker) PlayerCountValidation(teamID string) CountValidation {
	active := 0
	for _, session := range t.sessions {
		if session.TeamID == teamID && session.IsPlaying {
			active++
		}
	}
	v := CountValidation{ActiveCount: active}
	switch {
	case active == TargetOnField:
		v.IsValid = true
		v.Severity = "ok"
		v.Message = fmt.Sprintf("%d players on field", active)
	case active < TargetOnField:
		v.Severity = "warning"
		v.Message = fmt.Sprintf("only %d of %d players on field", active, TargetOnField)
	default:
		v.Severity = "warning"
		v.Message = fmt.Sprintf("%d players on field, maximum is %d", active, TargetOnField)
	}
	return v
}
