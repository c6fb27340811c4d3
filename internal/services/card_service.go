package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/routing"
)

// Session is the explicit per-visit state owned by the top-level orchestrator.
type Session struct {
	// AutoOpened is set once the envelope was opened automatically.
	AutoOpened bool
	// ReducedMotion disables automatic opening.
	ReducedMotion bool
}

// CardServiceDeps groups constructor parameters for the card service.
type CardServiceDeps struct {
	Store     domain.DataStore
	Origin    DataOrigin
	Publisher CardEventPublisher
	Clock     func() time.Time
	Logger    *zap.Logger
}

// publishTimeout bounds one viewed-event publish; it runs detached from the request.
const publishTimeout = 10 * time.Second

type cardService struct {
	store     domain.DataStore
	origin    DataOrigin
	publisher CardEventPublisher
	clock     func() time.Time
	logger    *zap.Logger

	inflight sync.WaitGroup
}

// NewCardService constructs the card service. The store is treated as read-only.
func NewCardService(deps CardServiceDeps) (CardService, error) {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := deps.Origin
	switch origin {
	case "":
		origin = DataOriginRemote
	case DataOriginRemote, DataOriginSample:
	default:
		return nil, fmt.Errorf("card service: unknown data origin %q", origin)
	}
	return &cardService{
		store:     deps.Store,
		origin:    origin,
		publisher: deps.Publisher,
		clock:     func() time.Time { return clock().UTC() },
		logger:    logger,
	}, nil
}

// Render runs Parse, Canonicalize and Resolve for fragment and derives the view.
// Rendering the same fragment again yields the same binding; only the session's
// auto-open flag changes, and only on the first recipient card.
func (s *cardService) Render(ctx context.Context, session *Session, fragment string, host HostContext) Rendered {
	if session == nil {
		session = &Session{}
	}
	route := routing.FromFragment(fragment)
	binding := Resolve(route, s.store)
	shareURL := BuildShareURL(route, host)

	view := BuildCardView(binding, route, shareURL)
	view.LocalPreview = host.IsLocalFile() && s.origin == DataOriginSample
	if binding.Recipient != nil && !session.AutoOpened && !session.ReducedMotion {
		session.AutoOpened = true
		view.AutoOpen = true
	}

	if binding.Recipient != nil {
		s.publishViewed(ctx, route, binding)
	}

	return Rendered{
		Route:           route,
		Binding:         binding,
		View:            view,
		ReplaceFragment: route.NeedsReplace(fragment),
	}
}

// Share builds the share URL and invitation text for fragment.
func (s *cardService) Share(fragment string, host HostContext) Share {
	route := routing.FromFragment(fragment)
	binding := Resolve(route, s.store)
	url := BuildShareURL(route, host)
	var name string
	if binding.Recipient != nil {
		name = binding.Recipient.Name
	}
	return Share{URL: url, Message: ShareMessage(name, url)}
}

func (s *cardService) Store() domain.DataStore {
	return s.store
}

func (s *cardService) Origin() DataOrigin {
	return s.origin
}

// Flush waits for viewed events still being published, or for ctx to end.
func (s *cardService) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publishViewed hands the event to the publisher in the background so rendering
// never waits on the broker.
func (s *cardService) publishViewed(ctx context.Context, route routing.CanonicalRoute, binding domain.Binding) {
	if s.publisher == nil {
		return
	}
	event := CardViewedEvent{
		CollectionSlug: binding.CollectionSlug,
		RecipientSlug:  binding.RecipientSlug,
		Fragment:       route.Fragment,
		Theme:          binding.EffectiveTheme,
		ViewedAt:       s.clock(),
	}
	if ctx == nil {
		ctx = context.Background()
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		if err := s.publisher.PublishCardViewed(publishCtx, event); err != nil {
			s.logger.Warn("card viewed event not published",
				zap.String("collection", event.CollectionSlug),
				zap.String("recipient", event.RecipientSlug),
				zap.Error(err),
			)
		}
	}()
}
