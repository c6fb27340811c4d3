package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/schikamarun/christmas-cards/internal/platform/httpx"
	"github.com/schikamarun/christmas-cards/internal/platform/requestctx"
	"github.com/schikamarun/christmas-cards/internal/services"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageHandlers renders the card shell for a route on the server.
type PageHandlers struct {
	cards     services.CardService
	templates *template.Template
}

type cardPageData struct {
	Fragment string
	View     services.CardView
}

// NewPageHandlers parses the embedded templates and constructs the page handlers.
func NewPageHandlers(cards services.CardService) (*PageHandlers, error) {
	if cards == nil {
		return nil, fmt.Errorf("page handlers: card service is required")
	}
	tmpl, err := template.New("_root").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("page handlers: parse templates: %w", err)
	}
	return &PageHandlers{cards: cards, templates: tmpl}, nil
}

// Routes registers the page endpoints.
func (h *PageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.card)
}

// card renders the route named by the "route" query value; without one it renders home.
func (h *PageHandlers) card(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	host, err := hostContext(r, "")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_host", err.Error(), http.StatusBadRequest))
		return
	}
	reducedMotion, _ := boolParam(r.URL.Query().Get("reducedMotion"))

	rendered := h.cards.Render(ctx, &services.Session{ReducedMotion: reducedMotion}, r.URL.Query().Get("route"), host)
	recordCard(ctx, rendered.Route)
	data := cardPageData{
		Fragment: rendered.Route.Fragment,
		View:     rendered.View,
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "card", data); err != nil {
		requestctx.Logger(ctx).Error("page: render card", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("render_failed", "card could not be rendered", http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
