package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher publishes events to JetStream. Every message carries a unique
// Nats-Msg-Id so the server can drop redelivered duplicates.
type Publisher struct {
	js jetstream.JetStream
}

var _ messaging.Publisher = (*Publisher)(nil)

func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

func (p *Publisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, jetstream.WithMsgID(uuid.NewString())); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}
