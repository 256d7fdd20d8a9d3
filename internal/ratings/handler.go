package ratings

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// Handler exposes performance rating endpoints.
type Handler struct {
	app *App
}

func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes wires rating routes onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/fixtures/{id}/ratings", h.handleSubmit)
	mux.HandleFunc("GET /api/fixtures/{id}/ratings", h.handleListByFixture)
	mux.HandleFunc("GET /api/players/{id}/rating", h.handlePlayerAverage)
}

type submitRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	RaterID  uuid.UUID `json:"rater_id"`
	Rating   float64   `json:"rating"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid fixture id", http.StatusBadRequest)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.app.SubmitRating(r.Context(), models.PlayerRating{
		FixtureID: fixtureID,
		PlayerID:  req.PlayerID,
		RaterID:   req.RaterID,
		Rating:    req.Rating,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(saved); err != nil {
		log.Error().Err(err).Msg("failed to encode rating response")
	}
}

func (h *Handler) handleListByFixture(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid fixture id", http.StatusBadRequest)
		return
	}

	ratings, err := h.app.ListByFixture(r.Context(), fixtureID)
	if err != nil {
		log.Error().Err(err).Str("fixture_id", fixtureID.String()).Msg("failed to list ratings")
		http.Error(w, "failed to list ratings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ratings); err != nil {
		log.Error().Err(err).Msg("failed to encode ratings response")
	}
}

func (h *Handler) handlePlayerAverage(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}

	avg, count, err := h.app.AverageForPlayer(r.Context(), playerID)
	if err != nil {
		log.Error().Err(err).Str("player_id", playerID.String()).Msg("failed to average ratings")
		http.Error(w, "failed to average ratings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"player_id": playerID,
		"average":   avg,
		"count":     count,
	}); err != nil {
		log.Error().Err(err).Msg("failed to encode rating average response")
	}
}
