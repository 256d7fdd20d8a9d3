package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/ledger"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/events"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchclock"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchsync"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/roster"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/substitution"
)

// PlayerStatus is one tracked player's state plus the advisory flag from
// their role's playtime rule.
type PlayerStatus struct {
	roster.PlayerSession
	ActiveTime int             `json:"active_time"`
	RoleFlag   roster.RoleFlag `json:"role_flag"`
}

// Snapshot is the derived view the UI layer renders.
type Snapshot struct {
	FixtureID     uuid.UUID              `json:"fixture_id"`
	MatchTime     int                    `json:"match_time"`
	FormattedTime string                 `json:"formatted_time"`
	ClockRunning  bool                   `json:"clock_running"`
	Half          int                    `json:"half"`
	HomeScore     int                    `json:"home_score"`
	AwayScore     int                    `json:"away_score"`
	Players       []PlayerStatus         `json:"players"`
	PendingSub    *substitution.Pending  `json:"pending_substitution,omitempty"`
	HomeCount     roster.CountValidation `json:"home_count"`
	AwayCount     roster.CountValidation `json:"away_count"`
	Sync          matchsync.State        `json:"sync"`
	LedgerLength  int                    `json:"ledger_length"`
	Warnings      []string               `json:"warnings,omitempty"`
}

// Snapshot assembles the current derived state, including the audit
// cross-check between the authoritative counters and the ledger-derived
// score.
func (e *Engine) Snapshot() Snapshot {
	// Sync state reads the ledger through the engine lock; take it first.
	syncState := e.syncEngine.State()

	e.mu.Lock()
	defer e.mu.Unlock()

	at := e.clock.Elapsed()
	snap := Snapshot{
		FixtureID:     e.fixture.ID,
		MatchTime:     at,
		FormattedTime: matchclock.FormatTime(at),
		ClockRunning:  e.clock.Running(),
		Half:          e.half,
		HomeScore:     e.homeScore,
		AwayScore:     e.awayScore,
		PendingSub:    e.coordinator.Pending(),
		HomeCount:     e.tracker.PlayerCountValidation(homeSideID(e.fixture)),
		AwayCount:     e.tracker.PlayerCountValidation(awaySideID(e.fixture)),
		Sync:          syncState,
		LedgerLength:  e.ledger.Len(),
	}

	for _, session := range e.tracker.Sessions() {
		snap.Players = append(snap.Players, PlayerStatus{
			PlayerSession: *session,
			ActiveTime:    session.ActiveTime(at),
			RoleFlag:      roster.EvaluateRole(session.Role, session.TotalTime, session.CurrentHalfTime, session.IsPlaying, at),
		})
	}

	derived, unmatched := ledger.ComputeScore(e.ledger.Events(), e.fixture)
	for _, u := range unmatched {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("goal at %s not attributable to either side (team %q)", matchclock.FormatTime(u.Time), u.TeamID))
	}
	if derived.Home != e.homeScore || derived.Away != e.awayScore {
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("ledger score %d-%d disagrees with counters %d-%d", derived.Home, derived.Away, e.homeScore, e.awayScore))
	}
	return snap
}

// PlayerMatchStats is one player's contribution to a finalized match.
type PlayerMatchStats struct {
	PlayerID    uuid.UUID `json:"player_id"`
	Name        string    `json:"name"`
	Minutes     int       `json:"minutes"`
	Goals       int       `json:"goals"`
	Assists     int       `json:"assists"`
	YellowCards int       `json:"yellow_cards"`
	RedCards    int       `json:"red_cards"`
}

// FinalSummary is what the caller persists when a session ends.
type FinalSummary struct {
	FixtureID uuid.UUID          `json:"fixture_id"`
	HomeScore int                `json:"home_score"`
	AwayScore int                `json:"away_score"`
	Players   []PlayerMatchStats `json:"players"`
}

// Finalize pauses the clock, flushes the ledger, and returns the summary for
// the fixture and cumulative member stats. The session stays open until the
// manager closes it, so a referee can still correct and re-finalize.
func (e *Engine) Finalize(ctx context.Context) (*FinalSummary, error) {
	e.mu.Lock()
	e.clock.Pause()
	at := e.clock.Elapsed()

	summary := &FinalSummary{
		FixtureID: e.fixture.ID,
		HomeScore: e.homeScore,
		AwayScore: e.awayScore,
	}

	stats := make(map[uuid.UUID]*PlayerMatchStats)
	for _, session := range e.tracker.Sessions() {
		stats[session.PlayerID] = &PlayerMatchStats{
			PlayerID: session.PlayerID,
			Name:     session.Name,
			Minutes:  session.ActiveTime(at) / 60,
		}
	}
	for _, entry := range e.ledger.Events() {
		if entry.PlayerID == nil {
			continue
		}
		s, ok := stats[*entry.PlayerID]
		if !ok {
			continue
		}
		switch entry.Type {
		case models.EventGoal:
			if !entry.IsOwnGoal {
				s.Goals++
			}
		case models.EventAssist:
			s.Assists++
		case models.EventYellowCard:
			s.YellowCards++
		case models.EventRedCard:
			s.RedCards++
		}
	}
	for _, session := range e.tracker.Sessions() {
		summary.Players = append(summary.Players, *stats[session.PlayerID])
	}
	e.mu.Unlock()

	if err := e.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush before finalize: %w", err)
	}

	e.publish(ctx, events.TypeMatchFinalized, events.MatchFinalizedPayload{
		HomeScore:   summary.HomeScore,
		AwayScore:   summary.AwayScore,
		FinalizedAt: e.wallClock.Now(),
	})
	return summary, nil
}

func homeSideID(f models.Fixture) string {
	return f.HomeTeamID.String()
}

func awaySideID(f models.Fixture) string {
	return f.AwayTeamID.String()
}
