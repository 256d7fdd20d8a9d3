package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// ConsumerConfig holds configuration for the NATS event consumer.
type ConsumerConfig struct {
	URL           string
	SubjectFilter string // e.g., "match.events.>"
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConsumerConfig returns default NATS consumer configuration.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		URL:           nats.DefaultURL,
		SubjectFilter: "match.events.>",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// EventConsumer consumes match events from NATS, folds them into the
// scoreboard state, and broadcasts them to WebSocket clients. Delivery is
// best-effort; the durable record lives in the event store.
type EventConsumer struct {
	connectionManager *ConnectionManager
	stateManager      *MatchStateManager
	nc                *nats.Conn
	sub               *nats.Subscription
	config            ConsumerConfig
}

// NewEventConsumer connects to NATS and prepares a consumer.
func NewEventConsumer(cm *ConnectionManager, sm *MatchStateManager, config ConsumerConfig) (*EventConsumer, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &EventConsumer{
		connectionManager: cm,
		stateManager:      sm,
		nc:                nc,
		config:            config,
	}, nil
}

// Start subscribes and processes events until ctx is cancelled.
func (ec *EventConsumer) Start(ctx context.Context) error {
	log.Info().
		Str("subject", ec.config.SubjectFilter).
		Msg("starting match event consumer")

	messageCh := make(chan *nats.Msg, 100)
	sub, err := ec.nc.ChanSubscribe(ec.config.SubjectFilter, messageCh)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", ec.config.SubjectFilter, err)
	}
	ec.sub = sub

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("event consumer shutting down")
			return nil
		case msg := <-messageCh:
			if err := ec.processMessage(msg); err != nil {
				log.Error().
					Err(err).
					Str("subject", msg.Subject).
					Msg("failed to process message")
			}
		}
	}
}

// processMessage unwraps one published envelope.
func (ec *EventConsumer) processMessage(msg *nats.Msg) error {
	var envelope struct {
		EventID   string          `json:"eventId"`
		EventType string          `json:"eventType"`
		FixtureID string          `json:"fixtureId"`
		Timestamp time.Time       `json:"timestamp"`
		Payload   json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		return fmt.Errorf("unmarshal event envelope: %w", err)
	}

	fixtureID, err := uuid.Parse(envelope.FixtureID)
	if err != nil {
		return fmt.Errorf("parse fixture ID: %w", err)
	}

	feedEvent := &MatchFeedEvent{
		ID:        envelope.EventID,
		FixtureID: envelope.FixtureID,
		Type:      EventType(envelope.EventType),
		Timestamp: envelope.Timestamp,
		Data:      envelope.Payload,
	}

	if err := ec.stateManager.ProcessEvent(feedEvent); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", envelope.EventType).
			Msg("failed to fold event into scoreboard state")
	}

	ec.connectionManager.BroadcastToFixture(fixtureID, feedEvent)

	log.Debug().
		Str("event_id", envelope.EventID).
		Str("fixture_id", envelope.FixtureID).
		Str("event_type", envelope.EventType).
		Msg("event broadcasted to WebSocket clients")
	return nil
}

// Stop shuts down the consumer.
func (ec *EventConsumer) Stop() error {
	log.Info().Msg("stopping event consumer")

	if ec.sub != nil {
		if err := ec.sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe")
		}
	}
	if ec.nc != nil {
		ec.nc.Close()
	}
	return nil
}
