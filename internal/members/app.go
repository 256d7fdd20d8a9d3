package members

import (
	"context"

	"github.com/google/uuid"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/rs/zerolog/log"
)

// MembersRepository defines what the app layer needs from the repository
type MembersRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
	ApplyStatDeltas(ctx context.Context, deltas []StatDelta) error
	ListGhostParticipants(ctx context.Context) ([]models.Player, error)
}

// App handles league member business logic
type App struct {
	repo MembersRepository
}

// NewApp creates a new members App
func NewApp(repo MembersRepository) *App {
	return &App{repo: repo}
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return a.repo.GetPlayer(ctx, id)
}

// ListPlayersByTeam retrieves a team's roster
func (a *App) ListPlayersByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	return a.repo.ListPlayersByTeam(ctx, teamID)
}

// ApplyMatchStats folds a finalized match summary into cumulative member
// stats. Players with no recorded playtime are skipped; they were tracked but
// never entered the field.
func (a *App) ApplyMatchStats(ctx context.Context, stats []match.PlayerMatchStats) error {
	deltas := make([]StatDelta, 0, len(stats))
	for _, s := range stats {
		if s.Minutes == 0 && s.Goals == 0 && s.Assists == 0 && s.YellowCards == 0 && s.RedCards == 0 {
			log.Debug().Str("player_id", s.PlayerID.String()).Msg("skipping participant with no recorded contribution")
			continue
		}
		deltas = append(deltas, StatDelta{
			PlayerID:    s.PlayerID,
			Goals:       s.Goals,
			Assists:     s.Assists,
			YellowCards: s.YellowCards,
			RedCards:    s.RedCards,
			Minutes:     s.Minutes,
		})
	}
	if len(deltas) == 0 {
		return nil
	}

	if err := a.repo.ApplyStatDeltas(ctx, deltas); err != nil {
		return err
	}
	log.Info().Int("players", len(deltas)).Msg("applied match stats to members")
	return nil
}

// RunIntegritySweep logs members whose cumulative stats look inconsistent.
// Findings are surfaced, never auto-corrected.
func (a *App) RunIntegritySweep(ctx context.Context) error {
	ghosts, err := a.repo.ListGhostParticipants(ctx)
	if err != nil {
		return err
	}
	for _, p := range ghosts {
		log.Warn().
			Str("player_id", p.ID.String()).
			Str("name", p.Name).
			Int("matches_played", p.MatchesPlayed).
			Msg("member has matches but zero minutes")
	}
	if len(ghosts) == 0 {
		log.Debug().Msg("member integrity sweep clean")
	}
	return nil
}
