package service

import (
	"encoding/json"
	"time"

	"github.com/echanneling/echanneling/config"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Outcome classifies a best-effort dispatch. skipped means the feature is
// disabled by configuration, failed means it was attempted and did not land.
// Neither is ever surfaced to the caller as an error.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// EventSink publishes domain events to the message bus.
type EventSink interface {
	Publish(subject string, payload interface{}) Outcome
}

// EventPublisher is a best-effort NATS publisher. When the bus is disabled by
// configuration or unreachable at startup it runs in a degraded mode where
// every publish reports skipped instead of erroring.
type EventPublisher struct {
	conn *nats.Conn
	log  *logrus.Logger
}

func NewEventPublisher(cfg config.NATSConfig, log *logrus.Logger) *EventPublisher {
	if !cfg.Enabled {
		log.Info("Event publishing disabled by configuration")
		return &EventPublisher{log: log}
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Timeout(cfg.Timeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		// Bad URL or option; run degraded rather than refusing to start.
		log.Warnf("Event bus unavailable, continuing without it: %+v", err)
		return &EventPublisher{log: log}
	}

	log.Infof("Event publisher connected to %s", cfg.URL)
	return &EventPublisher{conn: conn, log: log}
}

func (p *EventPublisher) Publish(subject string, payload interface{}) Outcome {
	if p.conn == nil {
		return OutcomeSkipped
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Warnf("Failed to encode event %s: %+v", subject, err)
		return OutcomeFailed
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warnf("Failed to publish event %s: %+v", subject, err)
		return OutcomeFailed
	}

	return OutcomeDelivered
}

// Close drains the connection so buffered events flush before shutdown.
func (p *EventPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.log.Warnf("Failed to drain event bus connection: %+v", err)
		}
	}
}
