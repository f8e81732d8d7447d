package listings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"estatedesk-backend/internal/httpx"
	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/transport"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("listing search: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	values := r.URL.Query()
	filter := SearchFilter{
		CityID:      values.Get("city_id"),
		ProjectType: values.Get("project_type"),
		Beds:        values.Get("beds"),
		Status:      values.Get("status"),
		PriceMin:    values.Get("price_min"),
		PriceMax:    values.Get("price_max"),
		NearLat:     values.Get("near_lat"),
		NearLng:     values.Get("near_lng"),
		RadiusKM:    values.Get("radius_km"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.Search(ctx, filter, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidFilter) {
			transport.WriteError(w, http.StatusBadRequest, "invalid filter", nil)
			return
		}
		log.Error("listing search: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("listing search: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.service.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("listing get: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "listing not found", nil)
			return
		}
		log.Error("listing get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("listing get: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, detail)
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
