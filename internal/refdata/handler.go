package refdata

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/transport"
)

type Handler struct {
	provider *Provider
	loader   *CityLoader
	log      *slog.Logger
}

func NewHandler(provider *Provider, loader *CityLoader, log *slog.Logger) *Handler {
	return &Handler{
		provider: provider,
		loader:   loader,
		log:      log,
	}
}

func (h *Handler) States(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	states, err := h.provider.States(ctx)
	if err != nil {
		log.Error("refdata states: fetch failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "could not load states", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": states,
	})
}

// Cities loads the city list for the selected state through the loader, so a
// slow response for a superseded selection never wins.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	stateID := strings.TrimSpace(r.URL.Query().Get("state_id"))
	if stateID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing state_id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cities, err := h.loader.Load(ctx, stateID)
	if err != nil {
		log.Error("refdata cities: fetch failed", slog.String("state_id", stateID), slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "could not load cities", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state_id": stateID,
		"items":    cities,
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
