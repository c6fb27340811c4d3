package services

import (
	"context"
	"time"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
)

// CardService renders cards for fragments against the session's data store.
type CardService interface {
	Render(ctx context.Context, session *Session, fragment string, host HostContext) Rendered
	Share(fragment string, host HostContext) Share
	Store() domain.DataStore
	Origin() DataOrigin
	// Flush waits until viewed events handed off by Render are published.
	Flush(ctx context.Context) error
}

// CardEventPublisher receives notifications about rendered recipient cards.
// Implementations may be called concurrently from background goroutines.
type CardEventPublisher interface {
	PublishCardViewed(ctx context.Context, event CardViewedEvent) error
}

// CardEventPublisherFunc adapts a function to CardEventPublisher.
type CardEventPublisherFunc func(ctx context.Context, event CardViewedEvent) error

// PublishCardViewed implements CardEventPublisher.
func (fn CardEventPublisherFunc) PublishCardViewed(ctx context.Context, event CardViewedEvent) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// CardViewedEvent describes one rendered recipient card.
type CardViewedEvent struct {
	CollectionSlug string       `json:"collectionSlug"`
	RecipientSlug  string       `json:"recipientSlug"`
	Fragment       string       `json:"fragment"`
	Theme          domain.Theme `json:"theme"`
	ViewedAt       time.Time    `json:"viewedAt"`
}

// DataOrigin records where the session's data store came from.
type DataOrigin string

const (
	// DataOriginRemote marks a store loaded from the configured source.
	DataOriginRemote DataOrigin = "remote"
	// DataOriginSample marks the embedded sample substituted after a load failure.
	DataOriginSample DataOrigin = "sample"
)

// Rendered is the outcome of one Parse, Canonicalize, Resolve pass.
type Rendered struct {
	Route   routing.CanonicalRoute
	Binding domain.Binding
	View    CardView
	// ReplaceFragment is set when the observed fragment differs from the
	// canonical one; the caller replaces it without a history entry.
	ReplaceFragment bool
}

// Share is the shareable URL of a route and the invitation text carrying it.
type Share struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}
