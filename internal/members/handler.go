package members

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler exposes member read endpoints.
type Handler struct {
	app *App
}

func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes wires member routes onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/players/{id}", h.handleGet)
	mux.HandleFunc("GET /api/teams/{id}/players", h.handleListByTeam)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}

	player, err := h.app.GetPlayer(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("player_id", id.String()).Msg("failed to get player")
		http.Error(w, "failed to get player", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(player); err != nil {
		log.Error().Err(err).Msg("failed to encode player response")
	}
}

func (h *Handler) handleListByTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid team id", http.StatusBadRequest)
		return
	}

	players, err := h.app.ListPlayersByTeam(r.Context(), teamID)
	if err != nil {
		log.Error().Err(err).Str("team_id", teamID.String()).Msg("failed to list players")
		http.Error(w, "failed to list players", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(players); err != nil {
		log.Error().Err(err).Msg("failed to encode players response")
	}
}
