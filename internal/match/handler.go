package match

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/roster"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/substitution"
	"github.com/rs/zerolog/log"
)

// FixtureProvider loads fixtures and records lifecycle transitions.
type FixtureProvider interface {
	GetFixture(ctx context.Context, id uuid.UUID) (*models.Fixture, error)
	MarkLive(ctx context.Context, id uuid.UUID) error
	RecordResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error
}

// StatsApplier folds a finalized match into cumulative member stats.
type StatsApplier interface {
	ApplyMatchStats(ctx context.Context, stats []PlayerMatchStats) error
}

// Handler exposes the referee's session API over HTTP JSON.
type Handler struct {
	manager  *Manager
	fixtures FixtureProvider
	stats    StatsApplier
}

// NewHandler creates the referee API handler.
func NewHandler(manager *Manager, fixtures FixtureProvider, stats StatsApplier) *Handler {
	return &Handler{manager: manager, fixtures: fixtures, stats: stats}
}

// RegisterRoutes wires the session routes onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/fixtures/{id}/session", h.handleOpenSession)
	mux.HandleFunc("DELETE /api/fixtures/{id}/session", h.handleCloseSession)
	mux.HandleFunc("GET /api/fixtures/{id}/session/state", h.handleState)

	mux.HandleFunc("POST /api/fixtures/{id}/session/clock/start", h.handleClockStart)
	mux.HandleFunc("POST /api/fixtures/{id}/session/clock/pause", h.handleClockPause)
	mux.HandleFunc("POST /api/fixtures/{id}/session/clock/second-half", h.handleSecondHalf)
	mux.HandleFunc("POST /api/fixtures/{id}/session/reset", h.handleReset)

	mux.HandleFunc("POST /api/fixtures/{id}/session/players", h.handleTrackPlayer)
	mux.HandleFunc("DELETE /api/fixtures/{id}/session/players/{playerID}", h.handleUntrackPlayer)
	mux.HandleFunc("POST /api/fixtures/{id}/session/players/{playerID}/toggle", h.handleTogglePlayer)
	mux.HandleFunc("DELETE /api/fixtures/{id}/session/substitution", h.handleCancelSubstitution)

	mux.HandleFunc("POST /api/fixtures/{id}/session/goals", h.handleAddGoal)
	mux.HandleFunc("DELETE /api/fixtures/{id}/session/goals", h.handleRemoveGoal)
	mux.HandleFunc("POST /api/fixtures/{id}/session/cards", h.handleAddCard)

	mux.HandleFunc("POST /api/fixtures/{id}/session/sync", h.handleSync)
	mux.HandleFunc("PUT /api/fixtures/{id}/session/sync/auto", h.handleAutoSync)
	mux.HandleFunc("POST /api/fixtures/{id}/session/finalize", h.handleFinalize)
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	fixture, err := h.fixtures.GetFixture(r.Context(), fixtureID)
	if err != nil {
		respondError(w, http.StatusNotFound, "fixture not found")
		return
	}

	engine, err := h.manager.Open(r.Context(), *fixture)
	if err != nil {
		if errors.Is(err, ErrSessionExists) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.fixtures.MarkLive(r.Context(), fixtureID); err != nil {
		log.Warn().Err(err).Str("fixture_id", fixtureID.String()).Msg("failed to mark fixture live")
	}
	respondJSON(w, http.StatusCreated, engine.Snapshot())
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.manager.Close(fixtureID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handler) handleClockStart(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	engine.StartClock(r.Context())
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handler) handleClockPause(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	engine.PauseClock(r.Context())
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handler) handleSecondHalf(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	engine.StartSecondHalf(r.Context())
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := engine.ResetMatch(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

type trackPlayerRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	Name     string    `json:"name"`
	Number   *int      `json:"number,omitempty"`
	Role     string    `json:"role"`
	TeamID   string    `json:"team_id"`
}

func (h *Handler) handleTrackPlayer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}

	var req trackPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.TeamID == "" {
		respondError(w, http.StatusBadRequest, "name and team_id are required")
		return
	}

	player := models.Player{
		ID:     req.PlayerID,
		Name:   req.Name,
		Number: req.Number,
		Role:   models.ParsePlayerRole(req.Role),
	}
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}

	session, err := engine.TrackPlayer(r.Context(), player, req.TeamID)
	if err != nil {
		if errors.Is(err, roster.ErrDuplicateTracking) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleUntrackPlayer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	playerID, ok := pathUUID(w, r, "playerID")
	if !ok {
		return
	}
	if err := engine.UntrackPlayer(r.Context(), playerID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTogglePlayer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	playerID, ok := pathUUID(w, r, "playerID")
	if !ok {
		return
	}

	result, err := engine.TogglePlayer(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, substitution.ErrSubstitutionAlreadyPending) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, roster.ErrNotTracked) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCancelSubstitution(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	engine.CancelPendingSubstitution()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}

	var req GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := engine.AddGoal(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			// The existing entry is returned so the client can reconcile.
			respondJSON(w, http.StatusConflict, entry)
			return
		}
		if errors.Is(err, ErrUnknownTeam) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleRemoveGoal(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Side string `json:"side"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := engine.RemoveGoal(r.Context(), req.Side); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handler) handleAddCard(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, err := engine.AddCard(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := engine.Flush(r.Context()); err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, engine.Snapshot().Sync)
}

func (h *Handler) handleAutoSync(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	engine.SetAutoSync(req.Enabled)
	respondJSON(w, http.StatusOK, engine.Snapshot().Sync)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.session(w, r)
	if !ok {
		return
	}

	summary, err := engine.Finalize(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := h.fixtures.RecordResult(r.Context(), summary.FixtureID, summary.HomeScore, summary.AwayScore); err != nil {
		log.Error().Err(err).Str("fixture_id", summary.FixtureID.String()).Msg("failed to record fixture result")
		respondError(w, http.StatusBadGateway, "failed to record result: "+err.Error())
		return
	}
	if err := h.stats.ApplyMatchStats(r.Context(), summary.Players); err != nil {
		log.Error().Err(err).Str("fixture_id", summary.FixtureID.String()).Msg("failed to apply member stats")
		respondError(w, http.StatusBadGateway, "failed to apply member stats: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// session resolves the live engine for the fixture in the request path.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Engine, bool) {
	fixtureID, ok := pathUUID(w, r, "id")
	if !ok {
		return nil, false
	}
	engine, err := h.manager.Get(fixtureID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return engine, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
