package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/noompupp/paknam-match-tracker-sub006/internal/match/events"
	"github.com/rs/zerolog/log"
)

// EventPublisher delivers engine domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, envelope events.Envelope) error
}

// NATSPublisher publishes envelopes on match.events.<fixtureID>.
type NATSPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher connects to NATS and returns a publisher.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc, subjectPrefix: subjectPrefix}, nil
}

// Publish sends one envelope. Delivery is at-most-once; the ledger sync path
// is the durable record, this feed only drives live spectator views.
func (p *NATSPublisher) Publish(ctx context.Context, envelope events.Envelope) error {
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, envelope.FixtureID)

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_type", envelope.EventType).
		Int("size", len(data)).
		Msg("published match event")
	return nil
}

// Close drains the NATS connection.
func (p *NATSPublisher) Close() {
	p.nc.Close()
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, envelope events.Envelope) error {
	return nil
}
