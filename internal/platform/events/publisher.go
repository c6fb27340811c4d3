package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/oklog/ulid/v2"

	"github.com/schikamarun/christmas-cards/internal/services"
)

// CardViewedType is the event type attribute of card view messages.
const CardViewedType = "card.viewed"

// Message is the JSON payload published for each viewed recipient card.
type Message struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	CollectionSlug string    `json:"collectionSlug"`
	RecipientSlug  string    `json:"recipientSlug"`
	Fragment       string    `json:"fragment"`
	Theme          string    `json:"theme"`
	ViewedAt       time.Time `json:"viewedAt"`
}

// PubSubPublisher publishes card view events to a Pub/Sub topic.
type PubSubPublisher struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
	newID   func() string
}

var _ services.CardEventPublisher = (*PubSubPublisher)(nil)

// NewPubSubPublisher constructs a Pub/Sub backed card event publisher.
func NewPubSubPublisher(topic *pubsub.Topic) (*PubSubPublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub card publisher: topic is required")
	}
	return &PubSubPublisher{
		topic:   topic,
		marshal: json.Marshal,
		newID:   func() string { return ulid.Make().String() },
	}, nil
}

// PublishCardViewed publishes the event and waits for the server acknowledgement.
// The card service calls it off the request path.
func (p *PubSubPublisher) PublishCardViewed(ctx context.Context, event services.CardViewedEvent) error {
	if p == nil || p.topic == nil {
		return errors.New("pubsub card publisher: not initialised")
	}

	msg := Message{
		ID:             p.newID(),
		Type:           CardViewedType,
		CollectionSlug: event.CollectionSlug,
		RecipientSlug:  event.RecipientSlug,
		Fragment:       event.Fragment,
		Theme:          string(event.Theme),
		ViewedAt:       event.ViewedAt.UTC(),
	}
	data, err := p.marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal card viewed event: %w", err)
	}

	attrs := map[string]string{
		"eventId": msg.ID,
		"type":    CardViewedType,
	}
	setAttr(attrs, "collection", event.CollectionSlug)
	setAttr(attrs, "recipient", event.RecipientSlug)

	result := p.topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish card viewed event: %w", err)
	}
	return nil
}

// NoopPublisher discards events. It is used when no topic is configured.
type NoopPublisher struct{}

// PublishCardViewed implements services.CardEventPublisher.
func (NoopPublisher) PublishCardViewed(context.Context, services.CardViewedEvent) error {
	return nil
}

func setAttr(attrs map[string]string, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
