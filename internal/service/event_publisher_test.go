package service

import (
	"testing"

	"github.com/echanneling/echanneling/config"
)

func TestEventPublisherDisabled(t *testing.T) {
	p := NewEventPublisher(config.NATSConfig{Enabled: false}, testLogger())

	if got := p.Publish("session.created", map[string]interface{}{"id": "x"}); got != OutcomeSkipped {
		t.Errorf("Publish() on disabled publisher = %q, want %q", got, OutcomeSkipped)
	}

	// Close on a disconnected publisher must be a no-op
	p.Close()
}
