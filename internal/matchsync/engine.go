package matchsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// Store is the remote side of the sync. SaveEvents must be idempotent for
// re-sent batches: the Postgres implementation upserts on the event id, so a
// batch that partially landed before a failure does not duplicate rows.
type Store interface {
	SaveEvents(ctx context.Context, events []models.MatchEvent) error
}

// Source is the local ledger view the engine drains. Implementations must be
// safe to call from the engine's goroutine; the session engine wraps its
// ledger behind its own lock.
type Source interface {
	Unsynced() []models.MatchEvent
	MarkSynced(ids []uuid.UUID)
}

// Config holds sync engine tuning.
type Config struct {
	// DebounceWindow is the leading-edge delay between the first unsynced
	// change and the sync attempt. Later changes do not reset the timer, so a
	// busy match still syncs within one window of the first change.
	DebounceWindow time.Duration
	// ReconcileInterval is the slower fallback sweep that catches anything a
	// failed or missed debounce left behind.
	ReconcileInterval time.Duration
	// MaxErrors bounds the retained error history (most recent kept).
	MaxErrors  int
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DebounceWindow:    5 * time.Second,
		ReconcileInterval: 30 * time.Second,
		MaxErrors:         20,
		MaxRetries:        3,
		RetryDelay:        time.Second,
	}
}

// State is a snapshot of sync progress for the UI layer.
type State struct {
	IsSyncing       bool       `json:"is_syncing"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	Errors          []string   `json:"errors,omitempty"`
	PendingChanges  int        `json:"pending_changes"`
	AutoSyncEnabled bool       `json:"auto_sync_enabled"`
}

// Engine drains unsynced ledger entries to the remote store. Failures are
// recorded and retried; no entry is ever dropped because a sync failed, only
// the Synced flag's progress is at risk.
type Engine struct {
	store  Store
	source Source
	clock  clockwork.Clock
	cfg    Config

	changeCh chan struct{}

	mu        sync.Mutex
	running   bool
	stopped   bool
	isSyncing bool
	syncDone  chan struct{}
	lastSync  *time.Time
	errors    []string
	autoSync  bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewEngine creates a sync engine. Pass clockwork.NewRealClock() in
// production and a fake clock in tests.
func NewEngine(store Store, source Source, clock clockwork.Clock, cfg Config) *Engine {
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = DefaultConfig().MaxErrors
	}
	return &Engine{
		store:    store,
		source:   source,
		clock:    clock,
		cfg:      cfg,
		changeCh: make(chan struct{}, 1),
		autoSync: true,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the auto-sync loop.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("sync engine already running")
	}
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run(ctx)

	log.Info().
		Dur("debounce_window", e.cfg.DebounceWindow).
		Dur("reconcile_interval", e.cfg.ReconcileInterval).
		Msg("sync engine started")
	return nil
}

// Stop tears the engine down. A sync already in flight completes naturally
// but its result is discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	close(e.stopCh)
	e.wg.Wait()
	log.Info().Msg("sync engine stopped")
}

// NotifyChange signals that the ledger gained an unsynced entry. Non-blocking;
// coalesces with an already-pending signal.
func (e *Engine) NotifyChange() {
	select {
	case e.changeCh <- struct{}{}:
	default:
	}
}

// SetAutoSync enables or disables the scheduled sync paths. Manual Flush
// still works while disabled.
func (e *Engine) SetAutoSync(enabled bool) {
	e.mu.Lock()
	e.autoSync = enabled
	e.mu.Unlock()
}

// State returns a snapshot of sync progress.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := State{
		IsSyncing:       e.isSyncing,
		PendingChanges:  len(e.source.Unsynced()),
		AutoSyncEnabled: e.autoSync,
	}
	if e.lastSync != nil {
		t := *e.lastSync
		s.LastSyncAt = &t
	}
	s.Errors = append(s.Errors, e.errors...)
	return s
}

// Flush forces an immediate sync, bypassing the debounce, and reports the
// batch outcome. If a sync is already in flight, Flush waits for it to finish
// and then runs its own pass, so entries appended after the in-flight batch
// was snapshotted are still drained before Flush returns.
func (e *Engine) Flush(ctx context.Context) error {
	for {
		inFlight := e.beginSync()
		if inFlight == nil {
			return e.runSync(ctx)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-inFlight:
		}
	}
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	reconcile := e.clock.NewTicker(e.cfg.ReconcileInterval)
	defer reconcile.Stop()

	var debounce clockwork.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return

		case <-e.changeCh:
			if !e.autoSyncEnabled() {
				continue
			}
			// Leading edge: arm once, let later changes ride the same window.
			if debounceCh == nil {
				if debounce == nil {
					debounce = e.clock.NewTimer(e.cfg.DebounceWindow)
				} else {
					debounce.Reset(e.cfg.DebounceWindow)
				}
				debounceCh = debounce.Chan()
			}

		case <-debounceCh:
			debounceCh = nil
			if err := e.syncOnce(ctx); err != nil {
				log.Warn().Err(err).Msg("debounced sync failed; will retry on reconcile sweep")
			}

		case <-reconcile.Chan():
			if !e.autoSyncEnabled() {
				continue
			}
			if err := e.syncOnce(ctx); err != nil {
				log.Warn().Err(err).Msg("reconcile sweep failed")
			}
		}
	}
}

func (e *Engine) autoSyncEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoSync
}

// syncOnce sends the current unsynced batch from the scheduled paths. If a
// sync is already in flight the cycle is skipped; its entries ride the next
// debounce or reconcile sweep.
func (e *Engine) syncOnce(ctx context.Context) error {
	if e.beginSync() != nil {
		return nil
	}
	return e.runSync(ctx)
}

// beginSync claims the single sync slot. It returns nil on success, or the
// in-flight cycle's completion channel.
func (e *Engine) beginSync() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isSyncing {
		return e.syncDone
	}
	e.isSyncing = true
	e.syncDone = make(chan struct{})
	return nil
}

// runSync sends the current unsynced batch. The caller must have claimed the
// sync slot via beginSync. Entries appended while the batch is in flight stay
// unsynced for the next cycle.
func (e *Engine) runSync(ctx context.Context) error {
	defer func() {
		e.mu.Lock()
		e.isSyncing = false
		close(e.syncDone)
		e.mu.Unlock()
	}()

	batch := e.source.Unsynced()
	if len(batch) == 0 {
		return nil
	}

	if err := e.saveWithRetry(ctx, batch); err != nil {
		e.recordError(err)
		log.Error().Err(err).Int("batch", len(batch)).Msg("sync batch failed")
		return err
	}

	e.mu.Lock()
	if e.stopped {
		// Engine torn down mid-flight; do not apply the result.
		e.mu.Unlock()
		return nil
	}
	now := e.clock.Now()
	e.lastSync = &now
	e.mu.Unlock()

	ids := make([]uuid.UUID, len(batch))
	for i, ev := range batch {
		ids[i] = ev.ID
	}
	e.source.MarkSynced(ids)

	log.Info().Int("batch", len(batch)).Msg("synced ledger batch")
	return nil
}

func (e *Engine) saveWithRetry(ctx context.Context, batch []models.MatchEvent) error {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.clock.After(e.cfg.RetryDelay * time.Duration(attempt)):
			}
		}
		if err := e.store.SaveEvents(ctx, batch); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Msg("failed to save batch, retrying")
			continue
		}
		return nil
	}
	return fmt.Errorf("save failed after %d attempts: %w", e.cfg.MaxRetries+1, lastErr)
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errors = append(e.errors, err.Error())
	if len(e.errors) > e.cfg.MaxErrors {
		e.errors = e.errors[len(e.errors)-e.cfg.MaxErrors:]
	}
}
