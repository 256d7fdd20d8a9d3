package match

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrSessionExists is returned when a fixture already has a live session.
var ErrSessionExists = errors.New("session already open for fixture")

// ErrNoSession is returned when no live session exists for a fixture.
var ErrNoSession = errors.New("no open session for fixture")

// EngineFactory builds a session engine for a fixture. The manager owns the
// engine's lifecycle after that.
type EngineFactory func(fixture models.Fixture) *Engine

type session struct {
	engine *Engine
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager keeps at most one live session engine per fixture. Concurrent
// referee edits on the same fixture are unsupported; the second open fails.
type Manager struct {
	newEngine EngineFactory

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// NewManager creates a session manager.
func NewManager(newEngine EngineFactory) *Manager {
	return &Manager{
		newEngine: newEngine,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// Open creates and starts a session for the fixture. Fails with
// ErrSessionExists if one is already running.
func (m *Manager) Open(ctx context.Context, fixture models.Fixture) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[fixture.ID]; ok {
		return nil, fmt.Errorf("fixture %s: %w", fixture.ID, ErrSessionExists)
	}

	engine := m.newEngine(fixture)
	runCtx, cancel := context.WithCancel(context.Background())
	s := &session{engine: engine, cancel: cancel, done: make(chan struct{})}
	m.sessions[fixture.ID] = s

	go func() {
		defer close(s.done)
		if err := engine.Run(runCtx); err != nil {
			log.Error().Err(err).Str("fixture_id", fixture.ID.String()).Msg("session engine exited with error")
		}
	}()

	log.Info().Str("fixture_id", fixture.ID.String()).Msg("opened match session")
	return engine, nil
}

// Get returns the live engine for a fixture.
func (m *Manager) Get(fixtureID uuid.UUID) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[fixtureID]
	if !ok {
		return nil, fmt.Errorf("fixture %s: %w", fixtureID, ErrNoSession)
	}
	return s.engine, nil
}

// Close stops a fixture's session and waits for its engine to exit.
func (m *Manager) Close(fixtureID uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[fixtureID]
	if ok {
		delete(m.sessions, fixtureID)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("fixture %s: %w", fixtureID, ErrNoSession)
	}

	s.engine.Close()
	s.cancel()
	<-s.done
	log.Info().Str("fixture_id", fixtureID.String()).Msg("closed match session")
	return nil
}

// CloseAll stops every session. Called on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*session, 0, len(m.sessions))
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		ids = append(ids, id)
	}
	m.sessions = make(map[uuid.UUID]*session)
	m.mu.Unlock()

	for i, s := range sessions {
		s.engine.Close()
		s.cancel()
		<-s.done
		log.Info().Str("fixture_id", ids[i].String()).Msg("closed match session")
	}
}

// Open sessions count, for the health endpoint.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
