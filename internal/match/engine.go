package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/ledger"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/events"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchclock"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchsync"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/roster"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/substitution"
	"github.com/rs/zerolog/log"
)

// ErrDuplicateEvent is returned when a goal or assist matches an existing
// ledger entry's identity tuple, which almost always means a retried tap.
var ErrDuplicateEvent = errors.New("duplicate event")

// ErrUnknownTeam is returned when a team identifier matches neither fixture side.
var ErrUnknownTeam = errors.New("team matches neither fixture side")

// Notifier is the fire-and-forget toast sink for referee feedback. The
// engine never waits on it.
type Notifier interface {
	Notify(title, description, variant string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(title, description, variant string) {
	log.Info().
		Str("variant", variant).
		Str("description", description).
		Msg(title)
}

// EventStore is the remote match-event store as the engine sees it: the
// idempotent batch save used by the sync engine plus the per-fixture wipe
// used on full reset.
type EventStore interface {
	matchsync.Store
	DeleteForFixture(ctx context.Context, fixtureID uuid.UUID) error
}

// GoalRequest records one goal tap.
type GoalRequest struct {
	PlayerID   *uuid.UUID `json:"player_id,omitempty"`
	PlayerName string     `json:"player_name"`
	TeamID     string     `json:"team_id"`
	IsOwnGoal  bool       `json:"is_own_goal"`
	AssistID   *uuid.UUID `json:"assist_id,omitempty"`
	AssistName string     `json:"assist_name,omitempty"`
}

// CardRequest records one disciplinary card.
type CardRequest struct {
	PlayerID   *uuid.UUID `json:"player_id,omitempty"`
	PlayerName string     `json:"player_name"`
	TeamID     string     `json:"team_id"`
	CardType   string     `json:"card_type"`
}

// Engine is the live match session engine for one fixture: match clock,
// roster tracker, substitution coordinator, event ledger, score counters, and
// the sync engine, behind a single lock. One engine exists per fixture; the
// session manager enforces that.
//
// The directly-mutated score counters are authoritative; the ledger is the
// audit trail and sync source.
type Engine struct {
	fixture models.Fixture

	mu          sync.Mutex
	clock       *matchclock.Clock
	tracker     *roster.Tracker
	coordinator *substitution.Coordinator
	ledger      *ledger.Ledger
	homeScore   int
	awayScore   int
	half        int

	store      EventStore
	syncEngine *matchsync.Engine
	publisher  EventPublisher
	notifier   Notifier
	wallClock  clockwork.Clock

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewEngine assembles a session engine for a fixture. Run must be called to
// drive the clock and auto-sync.
func NewEngine(fixture models.Fixture, store EventStore, publisher EventPublisher, notifier Notifier, wallClock clockwork.Clock, syncCfg matchsync.Config) *Engine {
	e := &Engine{
		fixture:   fixture,
		clock:     matchclock.New(),
		tracker:   roster.NewTracker(),
		ledger:    ledger.New(fixture.ID),
		half:      1,
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		wallClock: wallClock,
		stopCh:    make(chan struct{}),
	}
	e.coordinator = substitution.NewCoordinator(e.tracker)
	e.syncEngine = matchsync.NewEngine(store, lockedLedger{e}, wallClock, syncCfg)
	return e
}

// lockedLedger exposes the ledger to the sync engine's goroutine through the
// engine lock, keeping the single-writer discipline.
type lockedLedger struct{ e *Engine }

func (l lockedLedger) Unsynced() []models.MatchEvent {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	return l.e.ledger.Unsynced()
}

func (l lockedLedger) MarkSynced(ids []uuid.UUID) {
	l.e.mu.Lock()
	defer l.e.mu.Unlock()
	l.e.ledger.MarkSynced(ids)
}

// Fixture returns the fixture this session referees.
func (e *Engine) Fixture() models.Fixture {
	return e.fixture
}

// Run starts the tick loop and the sync engine, blocking until ctx is
// cancelled or Close is called.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.syncEngine.Start(ctx); err != nil {
		return err
	}

	ticker := e.wallClock.NewTicker(time.Second)
	defer ticker.Stop()

	log.Info().
		Str("fixture_id", e.fixture.ID.String()).
		Msg("match session started")

	for {
		select {
		case <-ctx.Done():
			e.syncEngine.Stop()
			return nil
		case <-e.stopCh:
			e.syncEngine.Stop()
			return nil
		case <-ticker.Chan():
			e.tick()
		}
	}
}

// Close shuts the session down.
func (e *Engine) Close() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.clock.Running() {
		e.clock.Tick()
		e.tracker.Tick()
	}
}

// StartClock starts or resumes the match clock. Idempotent.
func (e *Engine) StartClock(ctx context.Context) {
	e.mu.Lock()
	e.clock.Start()
	at := e.clock.Elapsed()
	e.appendLocked(models.MatchEvent{
		Type:        models.EventTimer,
		Time:        at,
		Description: "clock started",
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypeClockStarted, events.ClockPayload{MatchTime: at, Running: true})
}

// PauseClock pauses the match clock. Idempotent.
func (e *Engine) PauseClock(ctx context.Context) {
	e.mu.Lock()
	e.clock.Pause()
	at := e.clock.Elapsed()
	e.appendLocked(models.MatchEvent{
		Type:        models.EventTimer,
		Time:        at,
		Description: "clock paused",
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypeClockPaused, events.ClockPayload{MatchTime: at, Running: false})
}

// StartSecondHalf switches to the second half and clears per-half playtime
// accumulators so the s-class cap starts fresh.
func (e *Engine) StartSecondHalf(ctx context.Context) {
	e.mu.Lock()
	e.half = 2
	e.tracker.ResetHalfTime()
	at := e.clock.Elapsed()
	e.appendLocked(models.MatchEvent{
		Type:        models.EventTimer,
		Time:        at,
		Description: "second half started",
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypeHalfStarted, events.HalfStartedPayload{Half: 2, MatchTime: at})
}

// ResetMatch wipes the whole session: clock, roster, pending substitution,
// scores, ledger, and the fixture's remote event rows. The only operation
// that ever shrinks the ledger.
func (e *Engine) ResetMatch(ctx context.Context) error {
	// Remote rows go first. Appending the reset marker before the delete
	// would let a concurrent sync land it remotely and mark it synced just
	// before the wipe, losing the row with no resend path.
	if err := e.store.DeleteForFixture(ctx, e.fixture.ID); err != nil {
		e.notifier.Notify("Reset incomplete", "remote events not cleared: "+err.Error(), "warning")
		log.Error().Err(err).Str("fixture_id", e.fixture.ID.String()).Msg("failed to clear remote events on reset")
	}

	e.mu.Lock()
	e.clock.Reset()
	e.tracker.Reset()
	e.coordinator.Reset()
	e.ledger.Reset()
	e.homeScore = 0
	e.awayScore = 0
	e.half = 1
	e.appendLocked(models.MatchEvent{
		Type:        models.EventReset,
		Description: "match reset",
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypeMatchReset, events.MatchResetPayload{ResetAt: e.wallClock.Now()})
	return nil
}

// TrackPlayer starts tracking a player; they enter the field immediately. The
// team identifier is resolved the same way goals are (fixture team id, team
// name, or "home"/"away") and stored canonically so the on-field count
// validation sees every tracked player.
func (e *Engine) TrackPlayer(ctx context.Context, player models.Player, teamID string) (*roster.PlayerSession, error) {
	side, ok := ledger.SideForTeam(teamID, e.fixture)
	if !ok {
		return nil, fmt.Errorf("team %q: %w", teamID, ErrUnknownTeam)
	}
	canonicalTeam := homeSideID(e.fixture)
	if side == "away" {
		canonicalTeam = awaySideID(e.fixture)
	}

	e.mu.Lock()
	at := e.clock.Elapsed()
	session, err := e.tracker.AddPlayer(player, canonicalTeam, at)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	playerID := player.ID
	e.appendLocked(models.MatchEvent{
		Type:       models.EventPlayerAdded,
		PlayerID:   &playerID,
		PlayerName: player.Name,
		TeamID:     canonicalTeam,
		Time:       at,
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypePlayerTracked, events.PlayerTrackedPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		TeamID:     canonicalTeam,
		MatchTime:  at,
	})
	return session, nil
}

// UntrackPlayer removes a player from session tracking.
func (e *Engine) UntrackPlayer(ctx context.Context, playerID uuid.UUID) error {
	e.mu.Lock()
	at := e.clock.Elapsed()
	session, err := e.tracker.RemovePlayer(playerID)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if pending := e.coordinator.Pending(); pending != nil && pending.PlayerID == playerID {
		e.coordinator.CancelPending()
	}
	id := playerID
	e.appendLocked(models.MatchEvent{
		Type:       models.EventPlayerRemoved,
		PlayerID:   &id,
		PlayerName: session.Name,
		TeamID:     session.TeamID,
		Time:       at,
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypePlayerUntracked, events.PlayerUntrackedPayload{
		PlayerID:   playerID,
		PlayerName: session.Name,
		MatchTime:  at,
	})
	return nil
}

// TogglePlayer routes a tap through the substitution coordinator.
func (e *Engine) TogglePlayer(ctx context.Context, playerID uuid.UUID) (*substitution.Result, error) {
	e.mu.Lock()
	at := e.clock.Elapsed()
	result, err := e.coordinator.Toggle(playerID, at)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if result.Outcome == substitution.OutcomeCompleted {
		outID := result.Outgoing.PlayerID
		e.appendLocked(models.MatchEvent{
			Type:        models.EventOther,
			PlayerID:    &outID,
			PlayerName:  result.Outgoing.Name,
			TeamID:      result.Outgoing.TeamID,
			Time:        at,
			Description: fmt.Sprintf("substitution: %s off, %s on", result.Outgoing.Name, result.Incoming.Name),
		})
	}
	e.mu.Unlock()

	switch result.Outcome {
	case substitution.OutcomeCompleted:
		e.publish(ctx, events.TypeSubstitutionCompleted, events.SubstitutionCompletedPayload{
			OutgoingID:   result.Outgoing.PlayerID,
			OutgoingName: result.Outgoing.Name,
			IncomingID:   result.Incoming.PlayerID,
			IncomingName: result.Incoming.Name,
			MatchTime:    at,
		})
	default:
		e.publish(ctx, events.TypePlayerToggled, events.PlayerToggledPayload{
			PlayerID:   result.Target.PlayerID,
			PlayerName: result.Target.Name,
			Outcome:    string(result.Outcome),
			IsPlaying:  result.Target.IsPlaying,
			MatchTime:  at,
		})
	}
	return result, nil
}

// CancelPendingSubstitution clears the pending slot. Always safe.
func (e *Engine) CancelPendingSubstitution() {
	e.mu.Lock()
	e.coordinator.CancelPending()
	e.mu.Unlock()
}

// AddGoal records a goal, updates the authoritative score counters, and
// appends goal (and optional assist) ledger entries. A tap whose identity
// tuple matches an existing entry is rejected with ErrDuplicateEvent.
func (e *Engine) AddGoal(ctx context.Context, req GoalRequest) (*models.MatchEvent, error) {
	side, ok := ledger.SideForTeam(req.TeamID, e.fixture)
	if !ok {
		return nil, fmt.Errorf("team %q: %w", req.TeamID, ErrUnknownTeam)
	}

	e.mu.Lock()
	at := e.clock.Elapsed()
	candidate := models.MatchEvent{
		Type:      models.EventGoal,
		PlayerID:  req.PlayerID,
		TeamID:    req.TeamID,
		Time:      at,
		IsOwnGoal: req.IsOwnGoal,
	}
	if existing := e.ledger.FindDuplicate(candidate); existing != nil {
		e.mu.Unlock()
		e.notifier.Notify("Duplicate goal", fmt.Sprintf("goal for %s at %s already recorded", req.PlayerName, matchclock.FormatTime(at)), "warning")
		return existing, ErrDuplicateEvent
	}

	scoringSide := side
	if req.IsOwnGoal {
		scoringSide = oppositeSide(side)
	}
	if scoringSide == "home" {
		e.homeScore++
	} else {
		e.awayScore++
	}
	home, away := e.homeScore, e.awayScore

	candidate.PlayerName = req.PlayerName
	candidate.Description = goalDescription(req)
	entry := e.appendLocked(candidate)

	if req.AssistName != "" && !req.IsOwnGoal {
		e.appendLocked(models.MatchEvent{
			Type:        models.EventAssist,
			PlayerID:    req.AssistID,
			PlayerName:  req.AssistName,
			TeamID:      req.TeamID,
			Time:        at,
			Description: fmt.Sprintf("assist for %s", req.PlayerName),
		})
	}
	e.mu.Unlock()

	e.publish(ctx, events.TypeGoalScored, events.GoalScoredPayload{
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		TeamID:     req.TeamID,
		MatchTime:  at,
		IsOwnGoal:  req.IsOwnGoal,
		AssistName: req.AssistName,
		HomeScore:  home,
		AwayScore:  away,
	})
	return entry, nil
}

// RemoveGoal decrements one side's score counter and leaves an audit entry.
// The ledger's goal entries are not deleted; the counters are authoritative.
func (e *Engine) RemoveGoal(ctx context.Context, side string) error {
	if side != "home" && side != "away" {
		return fmt.Errorf("side %q: %w", side, ErrUnknownTeam)
	}

	e.mu.Lock()
	at := e.clock.Elapsed()
	if side == "home" {
		if e.homeScore == 0 {
			e.mu.Unlock()
			return fmt.Errorf("home score already zero")
		}
		e.homeScore--
	} else {
		if e.awayScore == 0 {
			e.mu.Unlock()
			return fmt.Errorf("away score already zero")
		}
		e.awayScore--
	}
	home, away := e.homeScore, e.awayScore
	e.appendLocked(models.MatchEvent{
		Type:        models.EventOther,
		TeamID:      side,
		Time:        at,
		Description: "goal removed",
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypeGoalRemoved, events.GoalRemovedPayload{
		Side:      side,
		MatchTime: at,
		HomeScore: home,
		AwayScore: away,
	})
	return nil
}

// AddCard records a yellow or red card.
func (e *Engine) AddCard(ctx context.Context, req CardRequest) (*models.MatchEvent, error) {
	var eventType models.MatchEventType
	switch req.CardType {
	case "yellow":
		eventType = models.EventYellowCard
	case "red":
		eventType = models.EventRedCard
	default:
		return nil, fmt.Errorf("unknown card type %q", req.CardType)
	}

	e.mu.Lock()
	at := e.clock.Elapsed()
	entry := e.appendLocked(models.MatchEvent{
		Type:        eventType,
		PlayerID:    req.PlayerID,
		PlayerName:  req.PlayerName,
		TeamID:      req.TeamID,
		Time:        at,
		Description: req.CardType + " card",
	})
	e.mu.Unlock()

	e.publish(ctx, events.TypeCardIssued, events.CardIssuedPayload{
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		TeamID:     req.TeamID,
		CardType:   req.CardType,
		MatchTime:  at,
	})
	return entry, nil
}

// Flush forces an immediate sync of unsynced ledger entries.
func (e *Engine) Flush(ctx context.Context) error {
	return e.syncEngine.Flush(ctx)
}

// SetAutoSync toggles scheduled syncing.
func (e *Engine) SetAutoSync(enabled bool) {
	e.syncEngine.SetAutoSync(enabled)
}

// appendLocked appends a ledger entry and schedules a sync. Callers hold e.mu.
func (e *Engine) appendLocked(event models.MatchEvent) *models.MatchEvent {
	entry := e.ledger.Append(event)
	e.syncEngine.NotifyChange()
	return entry
}

func (e *Engine) publish(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}
	envelope := events.Envelope{
		EventID:   uuid.New(),
		EventType: eventType,
		FixtureID: e.fixture.ID,
		Timestamp: e.wallClock.Now(),
		Payload:   data,
	}
	if err := e.publisher.Publish(ctx, envelope); err != nil {
		// Live feed only; the ledger sync is the durable path.
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish match event")
	}
}

func goalDescription(req GoalRequest) string {
	if req.IsOwnGoal {
		return fmt.Sprintf("own goal by %s", req.PlayerName)
	}
	if req.AssistName != "" {
		return fmt.Sprintf("goal by %s, assist %s", req.PlayerName, req.AssistName)
	}
	return fmt.Sprintf("goal by %s", req.PlayerName)
}

func oppositeSide(side string) string {
	if side == "home" {
		return "away"
	}
	return "home"
}
