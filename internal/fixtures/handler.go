package fixtures

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// Handler exposes fixture read endpoints.
type Handler struct {
	app *App
}

func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes wires fixture routes onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/fixtures", h.handleList)
	mux.HandleFunc("GET /api/fixtures/{id}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		fixtures []models.Fixture
		err      error
	)
	if r.URL.Query().Get("status") == string(models.FixtureStatusLive) {
		fixtures, err = h.app.ListLiveFixtures(r.Context())
	} else {
		fixtures, err = h.app.ListFixtures(r.Context())
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to list fixtures")
		http.Error(w, "failed to list fixtures", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(fixtures); err != nil {
		log.Error().Err(err).Msg("failed to encode fixtures response")
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid fixture id", http.StatusBadRequest)
		return
	}

	fixture, err := h.app.GetFixture(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "fixture not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("fixture_id", id.String()).Msg("failed to get fixture")
		http.Error(w, "failed to get fixture", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(fixture); err != nil {
		log.Error().Err(err).Msg("failed to encode fixture response")
	}
}
