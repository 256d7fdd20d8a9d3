package matchevents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/sqlutil"
)

// NotifyChannel is the Postgres channel signalled after each saved batch.
const NotifyChannel = "match_events_changed"

// Repository persists match event ledger entries. It implements the session
// engine's EventStore.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveEvents upserts a batch of ledger entries keyed on the client-assigned
// event id. Re-sending a batch that partially landed is safe; existing rows
// are left untouched. The batch is followed by a NOTIFY so sweepers can react.
func (r *Repository) SaveEvents(ctx context.Context, events []models.MatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO match_events
			   (id, fixture_id, event_type, player_id, player_name, team_id,
			    event_time, description, is_own_goal, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.FixtureID, string(e.Type), sqlutil.ToNullUUID(e.PlayerID),
			e.PlayerName, e.TeamID, e.Time, e.Description, e.IsOwnGoal, e.CreatedAt,
		)
	}
	batch.Queue(`SELECT pg_notify($1, $2)`, NotifyChannel, events[0].FixtureID.String())

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save event batch: %w", err)
		}
	}
	return nil
}

// DeleteForFixture wipes a fixture's event rows. Only a full match reset
// calls this.
func (r *Repository) DeleteForFixture(ctx context.Context, fixtureID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM match_events WHERE fixture_id = $1`, fixtureID); err != nil {
		return fmt.Errorf("failed to delete events for fixture %s: %w", fixtureID, err)
	}
	return nil
}

// ListByFixture returns a fixture's persisted events in match-time order,
// ties broken by creation time.
func (r *Repository) ListByFixture(ctx context.Context, fixtureID uuid.UUID) ([]models.MatchEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, fixture_id, event_type, player_id, player_name, team_id,
		        event_time, description, is_own_goal, created_at
		 FROM match_events
		 WHERE fixture_id = $1
		 ORDER BY event_time, created_at`,
		fixtureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.MatchEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// ListUnassignedGoals finds goal rows with no player attribution, a data
// integrity smell the sweep reports.
func (r *Repository) ListUnassignedGoals(ctx context.Context) ([]models.MatchEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, fixture_id, event_type, player_id, player_name, team_id,
		        event_time, description, is_own_goal, created_at
		 FROM match_events
		 WHERE event_type = $1 AND player_id IS NULL
		 ORDER BY created_at`,
		string(models.EventGoal))
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned goals: %w", err)
	}
	defer rows.Close()

	var events []models.MatchEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*models.MatchEvent, error) {
	var e models.MatchEvent
	var eventType string
	var playerID uuid.NullUUID
	err := row.Scan(
		&e.ID, &e.FixtureID, &eventType, &playerID, &e.PlayerName, &e.TeamID,
		&e.Time, &e.Description, &e.IsOwnGoal, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Type = models.MatchEventType(eventType)
	e.PlayerID = sqlutil.FromNullUUID(playerID)
	e.Synced = true
	return &e, nil
}
