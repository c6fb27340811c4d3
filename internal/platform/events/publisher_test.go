package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/services"
)

func TestPubSubPublisherPublishesCardViewed(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	client, err := pubsub.NewClient(ctx, "test-project",
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		t.Fatalf("pubsub.NewClient: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	topic, err := client.CreateTopic(ctx, "card-views")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	defer topic.Stop()

	publisher, err := NewPubSubPublisher(topic)
	if err != nil {
		t.Fatalf("NewPubSubPublisher: %v", err)
	}

	viewedAt := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)
	event := services.CardViewedEvent{
		CollectionSlug: "christmas-2025",
		RecipientSlug:  "anna",
		Fragment:       "#/anna",
		Theme:          domain.ThemeClassic,
		ViewedAt:       viewedAt,
	}
	if err := publisher.PublishCardViewed(ctx, event); err != nil {
		t.Fatalf("PublishCardViewed: %v", err)
	}

	messages := srv.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	var payload Message
	if err := json.Unmarshal(messages[0].Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Type != CardViewedType || payload.RecipientSlug != "anna" || payload.Theme != "classic" {
		t.Fatalf("unexpected payload %#v", payload)
	}
	if !payload.ViewedAt.Equal(viewedAt) {
		t.Fatalf("unexpected timestamp %v", payload.ViewedAt)
	}
	if len(payload.ID) != 26 || messages[0].Attributes["eventId"] != payload.ID {
		t.Fatalf("expected ulid event id attribute, got %q / %q", payload.ID, messages[0].Attributes["eventId"])
	}
	if messages[0].Attributes["collection"] != "christmas-2025" {
		t.Fatalf("unexpected attributes %v", messages[0].Attributes)
	}
}

func TestNewPubSubPublisherRequiresTopic(t *testing.T) {
	if _, err := NewPubSubPublisher(nil); err == nil {
		t.Fatalf("expected error for nil topic")
	}
}

func TestNoopPublisher(t *testing.T) {
	var publisher services.CardEventPublisher = NoopPublisher{}
	if err := publisher.PublishCardViewed(context.Background(), services.CardViewedEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
