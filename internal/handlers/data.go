package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schikamarun/christmas-cards/internal/platform/httpx"
	"github.com/schikamarun/christmas-cards/internal/services"
)

// DataHandlers serves the loaded data documents in their published shape, so a
// deployment can act as the HTTP data source of another one.
type DataHandlers struct {
	cards services.CardService
}

// NewDataHandlers constructs the data document handlers.
func NewDataHandlers(cards services.CardService) *DataHandlers {
	return &DataHandlers{cards: cards}
}

// Routes registers the document endpoints.
func (h *DataHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/collections.json", h.collections)
	r.Get("/recipients.json", h.recipients)
}

func (h *DataHandlers) collections(w http.ResponseWriter, r *http.Request) {
	if h.cards == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("card_service_unavailable", "card service is not configured", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(r.Context(), w, http.StatusOK, h.cards.Store().Collections)
}

func (h *DataHandlers) recipients(w http.ResponseWriter, r *http.Request) {
	if h.cards == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("card_service_unavailable", "card service is not configured", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(r.Context(), w, http.StatusOK, h.cards.Store().Recipients)
}
