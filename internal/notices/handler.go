package notices

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID := httpx.OwnerID(r)
	if ownerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing owner id", nil)
		return
	}

	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, unread, err := h.service.List(ctx, ownerID, limit, offset)
	if err != nil {
		log.Error("notice list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"unread": unread,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID := httpx.OwnerID(r)
	if ownerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing owner id", nil)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	notice, err := h.service.MarkRead(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "notice not found", nil)
			return
		}
		log.Error("notice mark read: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, notice)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID := httpx.OwnerID(r)
	if ownerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing owner id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.MarkAllRead(ctx, ownerID)
	if err != nil {
		log.Error("notice mark all read: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"updated": updated,
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
