package ratings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// RatingsRepository defines what the app layer needs from the repository
type RatingsRepository interface {
	UpsertRating(ctx context.Context, rating models.PlayerRating) (*models.PlayerRating, error)
	ListByFixture(ctx context.Context, fixtureID uuid.UUID) ([]models.PlayerRating, error)
	AverageForPlayer(ctx context.Context, playerID uuid.UUID) (float64, int, error)
}

// App handles performance rating business logic
type App struct {
	repo RatingsRepository
}

// NewApp creates a new ratings App
func NewApp(repo RatingsRepository) *App {
	return &App{repo: repo}
}

// SubmitRating validates and stores a rating.
func (a *App) SubmitRating(ctx context.Context, rating models.PlayerRating) (*models.PlayerRating, error) {
	if rating.Rating < 0 || rating.Rating > 10 {
		return nil, fmt.Errorf("rating must be between 0 and 10, got %.1f", rating.Rating)
	}
	if rating.FixtureID == uuid.Nil || rating.PlayerID == uuid.Nil || rating.RaterID == uuid.Nil {
		return nil, fmt.Errorf("fixture, player, and rater ids are required")
	}
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}

	saved, err := a.repo.UpsertRating(ctx, rating)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("fixture_id", saved.FixtureID.String()).
		Str("player_id", saved.PlayerID.String()).
		Float64("rating", saved.Rating).
		Msg("rating submitted")
	return saved, nil
}

// ListByFixture returns a fixture's ratings.
func (a *App) ListByFixture(ctx context.Context, fixtureID uuid.UUID) ([]models.PlayerRating, error) {
	return a.repo.ListByFixture(ctx, fixtureID)
}

// AverageForPlayer returns a player's mean rating across fixtures.
func (a *App) AverageForPlayer(ctx context.Context, playerID uuid.UUID) (float64, int, error) {
	return a.repo.AverageForPlayer(ctx, playerID)
}
