package members

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

// ErrNotFound is returned when a player does not exist.
var ErrNotFound = errors.New("player not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const playerColumns = `
	id, team_id, name, number, role, goals, assists,
	yellow_cards, red_cards, minutes_played, matches_played,
	created_at, updated_at`

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+playerColumns+` FROM players WHERE id = $1`, id)
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *Repository) ListPlayersByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+playerColumns+` FROM players WHERE team_id = $1 ORDER BY name`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

// StatDelta is one player's contribution from a single finalized match.
type StatDelta struct {
	PlayerID    uuid.UUID
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
	Minutes     int
}

// ApplyStatDeltas increments cumulative stats inside one transaction so a
// finalize either lands for every participant or not at all.
func (r *Repository) ApplyStatDeltas(ctx context.Context, deltas []StatDelta) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range deltas {
		tag, err := tx.Exec(ctx,
			`UPDATE players
			 SET goals = goals + $2,
			     assists = assists + $3,
			     yellow_cards = yellow_cards + $4,
			     red_cards = red_cards + $5,
			     minutes_played = minutes_played + $6,
			     matches_played = matches_played + 1,
			     updated_at = now()
			 WHERE id = $1`,
			d.PlayerID, d.Goals, d.Assists, d.YellowCards, d.RedCards, d.Minutes)
		if err != nil {
			return fmt.Errorf("failed to apply stats for player %s: %w", d.PlayerID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("player %s: %w", d.PlayerID, ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stat deltas: %w", err)
	}
	return nil
}

// ListGhostParticipants finds players credited with matches but no minutes,
// which usually means a finalize ran against a mistracked roster.
func (r *Repository) ListGhostParticipants(ctx context.Context) ([]models.Player, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+playerColumns+` FROM players WHERE matches_played > 0 AND minutes_played = 0`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ghost participants: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var p models.Player
	var number sql.NullInt32
	var role string
	err := row.Scan(
		&p.ID, &p.TeamID, &p.Name, &number, &role, &p.Goals, &p.Assists,
		&p.YellowCards, &p.RedCards, &p.MinutesPlayed, &p.MatchesPlayed,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Number = sqlutil.FromSqlInt32(number)
	p.Role = models.ParsePlayerRole(role)
	return &p, nil
}
