package fixtures

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// FixturesRepository defines what the app layer needs from the repository
type FixturesRepository interface {
	GetFixture(ctx context.Context, id uuid.UUID) (*models.Fixture, error)
	ListFixtures(ctx context.Context) ([]models.Fixture, error)
	ListFixturesByStatus(ctx context.Context, status models.FixtureStatus) ([]models.Fixture, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.FixtureStatus) error
	UpdateResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error
}

// App handles fixtures business logic
type App struct {
	repo FixturesRepository
}

// NewApp creates a new fixtures App
func NewApp(repo FixturesRepository) *App {
	return &App{repo: repo}
}

// GetFixture retrieves a fixture by ID
func (a *App) GetFixture(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	return a.repo.GetFixture(ctx, id)
}

// ListFixtures retrieves all fixtures
func (a *App) ListFixtures(ctx context.Context) ([]models.Fixture, error) {
	return a.repo.ListFixtures(ctx)
}

// ListLiveFixtures retrieves fixtures currently in play
func (a *App) ListLiveFixtures(ctx context.Context) ([]models.Fixture, error) {
	return a.repo.ListFixturesByStatus(ctx, models.FixtureStatusLive)
}

// MarkLive flips a scheduled fixture to LIVE when a session opens.
func (a *App) MarkLive(ctx context.Context, id uuid.UUID) error {
	fixture, err := a.repo.GetFixture(ctx, id)
	if err != nil {
		return err
	}
	if fixture.Status == models.FixtureStatusCompleted {
		return fmt.Errorf("fixture %s is already completed", id)
	}
	if fixture.Status == models.FixtureStatusLive {
		return nil
	}
	if err := a.repo.UpdateStatus(ctx, id, models.FixtureStatusLive); err != nil {
		return err
	}
	log.Info().Str("fixture_id", id.String()).Msg("fixture marked live")
	return nil
}

// RecordResult stores the final score and completes the fixture.
func (a *App) RecordResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("scores must be non-negative, got %d-%d", homeScore, awayScore)
	}
	if err := a.repo.UpdateResult(ctx, id, homeScore, awayScore); err != nil {
		return err
	}
	log.Info().
		Str("fixture_id", id.String()).
		Int("home_score", homeScore).
		Int("away_score", awayScore).
		Msg("fixture result recorded")
	return nil
}
