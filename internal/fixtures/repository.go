package fixtures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/sqlutil"
)

// ErrNotFound is returned when a fixture does not exist.
var ErrNotFound = errors.New("fixture not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const fixtureColumns = `
	f.id, f.home_team_id, f.away_team_id, ht.name, at.name,
	f.home_score, f.away_score, f.status, f.match_date, f.venue,
	f.created_at, f.updated_at`

const fixtureJoins = `
	FROM fixtures f
	JOIN teams ht ON ht.id = f.home_team_id
	JOIN teams at ON at.id = f.away_team_id`

func (r *Repository) GetFixture(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+fixtureColumns+fixtureJoins+` WHERE f.id = $1`, id)
	fixture, err := scanFixture(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fixture %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	return fixture, nil
}

func (r *Repository) ListFixtures(ctx context.Context) ([]models.Fixture, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+fixtureColumns+fixtureJoins+` ORDER BY f.match_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, *fixture)
	}
	return fixtures, rows.Err()
}

func (r *Repository) ListFixturesByStatus(ctx context.Context, status models.FixtureStatus) ([]models.Fixture, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+fixtureColumns+fixtureJoins+` WHERE f.status = $1 ORDER BY f.match_date`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures by status: %w", err)
	}
	defer rows.Close()

	var fixtures []models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, *fixture)
	}
	return fixtures, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FixtureStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE fixtures SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update fixture status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fixture %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateResult stores the final score and marks the fixture completed.
func (r *Repository) UpdateResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE fixtures
		 SET home_score = $2, away_score = $3, status = $4, updated_at = now()
		 WHERE id = $1`,
		id, homeScore, awayScore, string(models.FixtureStatusCompleted))
	if err != nil {
		return fmt.Errorf("failed to update fixture result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fixture %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanFixture(row pgx.Row) (*models.Fixture, error) {
	var f models.Fixture
	var venue sql.NullString
	err := row.Scan(
		&f.ID, &f.HomeTeamID, &f.AwayTeamID, &f.HomeTeamName, &f.AwayTeamName,
		&f.HomeScore, &f.AwayScore, &f.Status, &f.MatchDate, &venue,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Venue = sqlutil.FromSqlStringPtr(venue)
	return &f, nil
}
