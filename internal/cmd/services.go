package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/fixtures"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/gateway"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchevents"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/matchsync"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/members"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/models"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/ratings"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Fixtures *fixtures.App
	Members  *members.App
	Ratings  *ratings.App
	Events   *matchevents.Repository
	Sessions *match.Manager
	Gateway  *gateway.Service

	FixturesHandler *fixtures.Handler
	MembersHandler  *members.Handler
	RatingsHandler  *ratings.Handler
	SessionHandler  *match.Handler

	publisher interface{ Close() }
}

func setupServices(pool *pgxpool.Pool, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → HTTP layer

	fixturesRepo := fixtures.NewRepository(pool)
	fixturesApp := fixtures.NewApp(fixturesRepo)

	membersRepo := members.NewRepository(pool)
	membersApp := members.NewApp(membersRepo)

	ratingsRepo := ratings.NewRepository(pool)
	ratingsApp := ratings.NewApp(ratingsRepo)

	eventsRepo := matchevents.NewRepository(pool)

	var (
		publisher match.EventPublisher = match.NopPublisher{}
		natsPub   *match.NATSPublisher
	)
	if config.NATS.Enabled {
		var err error
		natsPub, err = match.NewNATSPublisher(config.NATS.URL, config.NATS.SubjectPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		publisher = natsPub
	} else {
		log.Warn().Msg("NATS disabled, match events will not be published")
	}

	syncCfg := matchsync.DefaultConfig()
	if config.Sync.DebounceWindowSeconds > 0 {
		syncCfg.DebounceWindow = time.Duration(config.Sync.DebounceWindowSeconds) * time.Second
	}
	if config.Sync.ReconcileIntervalSeconds > 0 {
		syncCfg.ReconcileInterval = time.Duration(config.Sync.ReconcileIntervalSeconds) * time.Second
	}

	sessions := match.NewManager(func(fixture models.Fixture) *match.Engine {
		return match.NewEngine(fixture, eventsRepo, publisher, match.LogNotifier{}, clockwork.NewRealClock(), syncCfg)
	})

	var gatewayService *gateway.Service
	if config.Gateway.Enabled {
		gatewayConfig := gateway.DefaultConfig()
		gatewayConfig.ConsumerConfig.URL = config.NATS.URL
		gatewayConfig.ConsumerConfig.SubjectFilter = config.NATS.SubjectPrefix + ".>"

		var err error
		gatewayService, err = gateway.NewService(gatewayConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create match gateway: %w", err)
		}
	}

	services := &Services{
		Fixtures: fixturesApp,
		Members:  membersApp,
		Ratings:  ratingsApp,
		Events:   eventsRepo,
		Sessions: sessions,
		Gateway:  gatewayService,

		FixturesHandler: fixtures.NewHandler(fixturesApp),
		MembersHandler:  members.NewHandler(membersApp),
		RatingsHandler:  ratings.NewHandler(ratingsApp),
		SessionHandler:  match.NewHandler(sessions, fixturesApp, membersApp),
	}
	if natsPub != nil {
		services.publisher = natsPub
	}
	return services, nil
}

// integritySweep reacts to match event changes by checking stored data for
// inconsistencies. Findings are logged, never auto-corrected.
func (s *Services) integritySweep(ctx context.Context, payload string) error {
	unassigned, err := s.Events.ListUnassignedGoals(ctx)
	if err != nil {
		return err
	}
	for _, e := range unassigned {
		log.Warn().
			Str("event_id", e.ID.String()).
			Str("fixture_id", e.FixtureID.String()).
			Int("event_time", e.Time).
			Msg("goal has no player attribution")
	}
	return s.Members.RunIntegritySweep(ctx)
}

// Close releases external connections held by the services.
func (s *Services) Close() {
	s.Sessions.CloseAll()
	if s.publisher != nil {
		s.publisher.Close()
	}
}
