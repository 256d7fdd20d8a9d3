package members

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
)

type fakeRepo struct {
	applied []StatDelta
	ghosts  []models.Player
}

func (f *fakeRepo) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return nil, ErrNotFound
}

func (f *fakeRepo) ListPlayersByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	return nil, nil
}

func (f *fakeRepo) ApplyStatDeltas(ctx context.Context, deltas []StatDelta) error {
	f.applied = append(f.applied, deltas...)
	return nil
}

func (f *fakeRepo) ListGhostParticipants(ctx context.Context) ([]models.Player, error) {
	return f.ghosts, nil
}

func TestApplyMatchStatsSkipsEmptyContributions(t *testing.T) {
	repo := &fakeRepo{}
	app := NewApp(repo)

	scorer := uuid.New()
	bench := uuid.New()
	err := app.ApplyMatchStats(context.Background(), []match.PlayerMatchStats{
		{PlayerID: scorer, Name: "Somchai", Minutes: 40, Goals: 2, Assists: 1},
		{PlayerID: bench, Name: "Anon"},
	})
	if err != nil {
		t.Fatalf("ApplyMatchStats: %v", err)
	}

	if len(repo.applied) != 1 {
		t.Fatalf("applied deltas = %d, want 1", len(repo.applied))
	}
	d := repo.applied[0]
	if d.PlayerID != scorer || d.Goals != 2 || d.Assists != 1 || d.Minutes != 40 {
		t.Errorf("unexpected delta %+v", d)
	}
}

func TestApplyMatchStatsNoopWhenAllEmpty(t *testing.T) {
	repo := &fakeRepo{}
	app := NewApp(repo)

	if err := app.ApplyMatchStats(context.Background(), []match.PlayerMatchStats{{PlayerID: uuid.New()}}); err != nil {
		t.Fatalf("ApplyMatchStats: %v", err)
	}
	if len(repo.applied) != 0 {
		t.Errorf("applied deltas = %d, want 0", len(repo.applied))
	}
}

func TestRunIntegritySweep(t *testing.T) {
	repo := &fakeRepo{ghosts: []models.Player{{ID: uuid.New(), Name: "Ghost", MatchesPlayed: 3}}}
	app := NewApp(repo)

	if err := app.RunIntegritySweep(context.Background()); err != nil {
		t.Fatalf("RunIntegritySweep: %v", err)
	}
}
