package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for match feeds and the
// scoreboard state endpoint backing late joins.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	stateManager      *MatchStateManager
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(cm *ConnectionManager, sm *MatchStateManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		stateManager:      sm,
	}
}

// HandleMatchConnection handles WebSocket connections for a specific fixture.
func (h *WebSocketHandler) HandleMatchConnection(w http.ResponseWriter, r *http.Request) {
	fixtureIDStr := r.URL.Query().Get("fixture_id")
	if fixtureIDStr == "" {
		http.Error(w, "fixture_id is required", http.StatusBadRequest)
		return
	}

	fixtureID, err := uuid.Parse(fixtureIDStr)
	if err != nil {
		http.Error(w, "invalid fixture_id format", http.StatusBadRequest)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, fixtureID); err != nil {
		log.Error().
			Err(err).
			Str("fixture_id", fixtureID.String()).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleMatchState returns the current scoreboard state for a fixture so a
// late joiner can render before the next event arrives.
func (h *WebSocketHandler) HandleMatchState(w http.ResponseWriter, r *http.Request) {
	fixtureIDStr := r.URL.Query().Get("fixture_id")
	fixtureID, err := uuid.Parse(fixtureIDStr)
	if err != nil {
		http.Error(w, "invalid fixture_id format", http.StatusBadRequest)
		return
	}

	state := h.stateManager.GetState(fixtureID)
	if state == nil {
		http.Error(w, "no live state for fixture", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		log.Error().Err(err).Msg("failed to encode match state")
	}
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	total, fixtures := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"total_connections": total,
		"active_fixtures":   fixtures,
	})
}

// RegisterRoutes registers WebSocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/match", h.HandleMatchConnection)
	mux.HandleFunc("/ws/match/state", h.HandleMatchState)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
