package ratings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertRating writes a rater's score for a player's fixture performance.
// A rater re-rating the same performance overwrites their earlier score.
func (r *Repository) UpsertRating(ctx context.Context, rating models.PlayerRating) (*models.PlayerRating, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO player_ratings (id, fixture_id, player_id, rater_id, rating, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (fixture_id, player_id, rater_id)
		 DO UPDATE SET rating = EXCLUDED.rating
		 RETURNING id, fixture_id, player_id, rater_id, rating, created_at`,
		rating.ID, rating.FixtureID, rating.PlayerID, rating.RaterID, rating.Rating)

	var saved models.PlayerRating
	if err := row.Scan(&saved.ID, &saved.FixtureID, &saved.PlayerID, &saved.RaterID, &saved.Rating, &saved.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}
	return &saved, nil
}

// ListByFixture returns all ratings submitted for a fixture.
func (r *Repository) ListByFixture(ctx context.Context, fixtureID uuid.UUID) ([]models.PlayerRating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, fixture_id, player_id, rater_id, rating, created_at
		 FROM player_ratings WHERE fixture_id = $1 ORDER BY created_at`,
		fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.PlayerRating
	for rows.Next() {
		var rating models.PlayerRating
		if err := rows.Scan(&rating.ID, &rating.FixtureID, &rating.PlayerID, &rating.RaterID, &rating.Rating, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// AverageForPlayer returns a player's mean rating and the sample size.
func (r *Repository) AverageForPlayer(ctx context.Context, playerID uuid.UUID) (float64, int, error) {
	var avg *float64
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT AVG(rating), COUNT(*) FROM player_ratings WHERE player_id = $1`,
		playerID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	if avg == nil {
		return 0, 0, nil
	}
	return *avg, count, nil
}
