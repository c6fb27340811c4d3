package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/schikamarun/christmas-cards/internal/platform/httpx"
	"github.com/schikamarun/christmas-cards/internal/services"
)

const (
	healthStatusOK       = "ok"
	healthStatusDegraded = "degraded"
	healthStatusError    = "error"
)

// BuildInfo describes the running binary for health responses.
type BuildInfo struct {
	Version     string
	CommitSHA   string
	Environment string
	StartedAt   time.Time
}

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	build BuildInfo
	cards services.CardService
	clock func() time.Time
}

// HealthOption customises the health handlers.
type HealthOption func(*HealthHandlers)

// NewHealthHandlers constructs health handlers with sensible defaults.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if strings.TrimSpace(h.build.Version) == "" {
		h.build.Version = "dev"
	}
	if h.build.StartedAt.IsZero() {
		h.build.StartedAt = h.clock()
	}
	return h
}

// WithHealthBuildInfo sets the build metadata reported by both probes.
func WithHealthBuildInfo(info BuildInfo) HealthOption {
	return func(h *HealthHandlers) {
		h.build = info
	}
}

// WithHealthCardService attaches the card service whose data origin readyz reports.
func WithHealthCardService(svc services.CardService) HealthOption {
	return func(h *HealthHandlers) {
		h.cards = svc
	}
}

// WithHealthClock overrides the clock, for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	CommitSHA   string `json:"commitSha,omitempty"`
	Environment string `json:"environment,omitempty"`
	Uptime      string `json:"uptime"`
	Timestamp   string `json:"timestamp"`
	DataOrigin  string `json:"dataOrigin,omitempty"`
	Collections *int   `json:"collections,omitempty"`
}

// Healthz reports liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(r.Context(), w, http.StatusOK, h.baseResponse(healthStatusOK))
}

// Readyz reports readiness. Serving the embedded sample is degraded but still ready.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.cards == nil {
		httpx.WriteJSON(r.Context(), w, http.StatusServiceUnavailable, h.baseResponse(healthStatusError))
		return
	}

	status := healthStatusOK
	origin := h.cards.Origin()
	if origin == services.DataOriginSample {
		status = healthStatusDegraded
	}
	resp := h.baseResponse(status)
	resp.DataOrigin = string(origin)
	count := h.cards.Store().Collections.Len()
	resp.Collections = &count
	httpx.WriteJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *HealthHandlers) baseResponse(status string) healthResponse {
	now := h.clock().UTC()
	return healthResponse{
		Status:      status,
		Version:     h.build.Version,
		CommitSHA:   h.build.CommitSHA,
		Environment: h.build.Environment,
		Uptime:      now.Sub(h.build.StartedAt).Truncate(time.Second).String(),
		Timestamp:   now.Format(time.RFC3339),
	}
}
