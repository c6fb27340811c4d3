package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schikamarun/christmas-cards/internal/domain"
	"github.com/schikamarun/christmas-cards/internal/platform/httpx"
	"github.com/schikamarun/christmas-cards/internal/platform/requestctx"
	"github.com/schikamarun/christmas-cards/internal/routing"
	"github.com/schikamarun/christmas-cards/internal/services"
)

// CardHandlers exposes card resolution and share links over JSON.
type CardHandlers struct {
	cards services.CardService
}

// NewCardHandlers constructs the card API handlers.
func NewCardHandlers(cards services.CardService) *CardHandlers {
	return &CardHandlers{cards: cards}
}

// Routes registers the card endpoints.
func (h *CardHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/resolve", h.resolve)
	r.Get("/share", h.share)
}

type routePayload struct {
	Kind           string `json:"kind"`
	CollectionSlug string `json:"collectionSlug,omitempty"`
	RecipientSlug  string `json:"recipientSlug,omitempty"`
	Fragment       string `json:"fragment"`
	Display        string `json:"display"`
}

type sessionPayload struct {
	AutoOpened    bool `json:"autoOpened"`
	ReducedMotion bool `json:"reducedMotion"`
}

type resolveResponse struct {
	Route           routePayload      `json:"route"`
	Binding         domain.Binding    `json:"binding"`
	View            services.CardView `json:"view"`
	Session         sessionPayload    `json:"session"`
	ReplaceFragment bool              `json:"replaceFragment"`
	DataOrigin      string            `json:"dataOrigin"`
}

func (h *CardHandlers) resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.cards == nil {
		httpx.WriteError(ctx, w, httpx.NewError("card_service_unavailable", "card service is not configured", http.StatusServiceUnavailable))
		return
	}

	query := r.URL.Query()
	host, err := hostContext(r, query.Get("href"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_href", err.Error(), http.StatusBadRequest))
		return
	}

	session := &services.Session{}
	if session.AutoOpened, err = boolParam(query.Get("autoOpened")); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_query", "autoOpened must be a boolean", http.StatusBadRequest))
		return
	}
	if session.ReducedMotion, err = boolParam(query.Get("reducedMotion")); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_query", "reducedMotion must be a boolean", http.StatusBadRequest))
		return
	}

	rendered := h.cards.Render(ctx, session, query.Get("fragment"), host)
	recordCard(ctx, rendered.Route)
	httpx.WriteJSON(ctx, w, http.StatusOK, resolveResponse{
		Route:   toRoutePayload(rendered.Route),
		Binding: rendered.Binding,
		View:    rendered.View,
		Session: sessionPayload{
			AutoOpened:    session.AutoOpened,
			ReducedMotion: session.ReducedMotion,
		},
		ReplaceFragment: rendered.ReplaceFragment,
		DataOrigin:      string(h.cards.Origin()),
	})
}

func (h *CardHandlers) share(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.cards == nil {
		httpx.WriteError(ctx, w, httpx.NewError("card_service_unavailable", "card service is not configured", http.StatusServiceUnavailable))
		return
	}

	query := r.URL.Query()
	host, err := hostContext(r, query.Get("href"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_href", err.Error(), http.StatusBadRequest))
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, h.cards.Share(query.Get("fragment"), host))
}

func toRoutePayload(route routing.CanonicalRoute) routePayload {
	return routePayload{
		Kind:           route.Kind.String(),
		CollectionSlug: route.CollectionSlug,
		RecipientSlug:  route.RecipientSlug,
		Fragment:       route.Fragment,
		Display:        route.Display,
	}
}

// hostContext uses the caller supplied location when present and otherwise
// describes the server's own root page.
func hostContext(r *http.Request, href string) (services.HostContext, error) {
	if href = strings.TrimSpace(href); href != "" {
		return services.HostContextFromHref(href)
	}
	return services.HostContextFromHref(requestScheme(r) + "://" + r.Host + "/")
}

func requestScheme(r *http.Request) string {
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		proto, _, _ = strings.Cut(proto, ",")
		return strings.ToLower(strings.TrimSpace(proto))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func boolParam(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

// recordCard notes the canonical route on the request for the request logger.
func recordCard(ctx context.Context, route routing.CanonicalRoute) {
	requestctx.SetCard(ctx, requestctx.Card{
		Kind:           route.Kind.String(),
		CollectionSlug: route.CollectionSlug,
		RecipientSlug:  route.RecipientSlug,
		Fragment:       route.Fragment,
	})
}
