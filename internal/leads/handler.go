package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"estatedesk-backend/internal/httpx"
	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/transport"
	"estatedesk-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	listingID := strings.TrimSpace(chi.URLParam(r, "listingId"))
	if listingID == "" {
		log.Warn("lead create: missing listing id")
		transport.WriteError(w, http.StatusBadRequest, "missing listing id", nil)
		return
	}

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("lead create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("lead create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.Create(ctx, listingID, req)
	if err != nil {
		if errors.Is(err, ErrUnknownListing) {
			log.Warn("lead create: unknown listing", slog.String("listing_id", listingID))
			transport.WriteError(w, http.StatusNotFound, "listing not found", nil)
			return
		}
		log.Error("lead create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	go func(created Lead) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyNewLead(notifyCtx, created); err != nil {
			h.log.Warn("lead create: notification failed",
				slog.String("lead_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}(lead)

	log.Info("lead create: ok", slog.String("lead_id", lead.ID), slog.String("listing_id", listingID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "interest recorded",
		"id":      lead.ID,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin lead list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		ListingID: strings.TrimSpace(r.URL.Query().Get("listing_id")),
		Status:    strings.TrimSpace(r.URL.Query().Get("status")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		log.Error("admin lead list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin lead list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) AdminGetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin lead get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.GetAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin lead get: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		log.Error("admin lead get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin lead get: ok", slog.String("lead_id", id))
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin lead status: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AdminStatusUpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin lead status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin lead status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"status": "oneof"})
			return
		}
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin lead status: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		log.Error("admin lead status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin lead status: ok", slog.String("lead_id", id), slog.String("status", lead.Status))
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) AdminExport(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	filter := ListFilter{
		ListingID: strings.TrimSpace(r.URL.Query().Get("listing_id")),
		Status:    strings.TrimSpace(r.URL.Query().Get("status")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	items, _, err := h.service.ListAdmin(ctx, filter, 10000, 0)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		log.Error("admin lead export: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	data, err := ExportXLSX(items)
	if err != nil {
		log.Error("admin lead export: xlsx error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "export error", nil)
		return
	}

	filename := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)

	log.Info("admin lead export: ok", slog.Int("count", len(items)))
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
