package drafts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"estatedesk-backend/internal/builderapi"
	"estatedesk-backend/internal/composer"
	"estatedesk-backend/internal/httpx"
	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/transport"
	"estatedesk-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes bounds one image-upload request before compression.
const maxUploadBytes = 64 << 20

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

// Routes mounts the whole form-composer surface under one draft-scoped tree.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Discard)
		r.Put("/scalars", h.UpdateScalars)
		r.Post("/images/{group}", h.AddImages)
		r.Delete("/images/{group}/{index}", h.RemoveImage)
		r.Put("/images/{group}/main", h.SetMainImage)
		r.Post("/plans", h.AddPlanRow)
		r.Put("/plans/{index}", h.UpdatePlanField)
		r.Delete("/plans/{index}", h.RemovePlanRow)
		r.Post("/features", h.AddFeature)
		r.Delete("/features/{index}", h.RemoveFeature)
		r.Post("/amenities/toggle", h.ToggleAmenity)
		r.Put("/amenities/furnishing", h.SelectFurnishing)
		r.Delete("/amenities/furnishing", h.ClearFurnishing)
		r.Post("/hydrate", h.Hydrate)
		r.Post("/submit", h.Submit)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.Create(ctx, ownerID)
	if err != nil {
		log.Error("draft create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("draft create: ok", slog.String("draft_id", draft.ID))
	transport.WriteJSON(w, http.StatusCreated, draft)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, ownerID, limit, offset)
	if err != nil {
		log.Error("draft list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.Get(ctx, ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, log, "draft get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Discard(ctx, ownerID, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, log, "draft discard", err)
		return
	}

	log.Info("draft discard: ok", slog.String("draft_id", chi.URLParam(r, "id")))
	transport.WriteMessage(w, http.StatusOK, "draft discarded")
}

func (h *Handler) UpdateScalars(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req ScalarsRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.UpdateScalars(ctx, ownerID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, log, "draft scalars", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) AddImages(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	kind, ok := h.groupKind(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		transport.WriteError(w, http.StatusBadRequest, "no photos in request", nil)
		return
	}

	files := make([]NamedUpload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "unreadable photo", nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "unreadable photo", nil)
			return
		}
		files = append(files, NamedUpload{Name: header.Filename, Data: data})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.service.AddImages(ctx, ownerID, chi.URLParam(r, "id"), kind, files)
	if err != nil {
		if errors.Is(err, composer.ErrGroupFull) {
			transport.WriteError(w, http.StatusConflict, "a group holds at most 10 images", nil)
			return
		}
		h.writeServiceError(w, log, "draft images", err)
		return
	}

	log.Info("draft images: ok",
		slog.String("draft_id", chi.URLParam(r, "id")),
		slog.String("group", string(kind)),
		slog.Int("added", len(files)-len(result.Skipped)),
		slog.Int("skipped", len(result.Skipped)),
	)
	transport.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	kind, ok := h.groupKind(w, r)
	if !ok {
		return
	}
	index, ok := h.indexParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.RemoveImage(ctx, ownerID, chi.URLParam(r, "id"), kind, index)
	if err != nil {
		h.writeServiceError(w, log, "draft image remove", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) SetMainImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	kind, ok := h.groupKind(w, r)
	if !ok {
		return
	}

	var req SetMainRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.SetMainImage(ctx, ownerID, chi.URLParam(r, "id"), kind, req.Index)
	if err != nil {
		h.writeServiceError(w, log, "draft image main", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) AddPlanRow(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.AddPlanRow(ctx, ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, log, "draft plan add", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) UpdatePlanField(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	index, ok := h.indexParam(w, r)
	if !ok {
		return
	}

	var req PlanFieldRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.UpdatePlanField(ctx, ownerID, chi.URLParam(r, "id"), index, req.Field, req.Value)
	if err != nil {
		h.writeServiceError(w, log, "draft plan update", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) RemovePlanRow(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	index, ok := h.indexParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.RemovePlanRow(ctx, ownerID, chi.URLParam(r, "id"), index)
	if err != nil {
		h.writeServiceError(w, log, "draft plan remove", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) AddFeature(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req FeatureRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.AddFeature(ctx, ownerID, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.writeServiceError(w, log, "draft feature add", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) RemoveFeature(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	index, ok := h.indexParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.RemoveFeature(ctx, ownerID, chi.URLParam(r, "id"), index)
	if err != nil {
		h.writeServiceError(w, log, "draft feature remove", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) ToggleAmenity(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	req, ok := h.amenityRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.ToggleAmenity(ctx, ownerID, chi.URLParam(r, "id"), req.AmenityID)
	if err != nil {
		h.writeServiceError(w, log, "draft amenity toggle", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) SelectFurnishing(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	req, ok := h.amenityRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.SelectFurnishing(ctx, ownerID, chi.URLParam(r, "id"), req.AmenityID)
	if err != nil {
		h.writeServiceError(w, log, "draft furnishing", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) ClearFurnishing(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	draft, err := h.service.ClearFurnishing(ctx, ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, log, "draft furnishing clear", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) Hydrate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req HydrateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	draft, err := h.service.Hydrate(ctx, ownerID, chi.URLParam(r, "id"), req.ProjectID)
	if err != nil {
		if apiErr, isAPI := builderapi.AsAPIError(err); isAPI {
			log.Warn("draft hydrate: remote error", slog.Int("status", apiErr.Status))
			transport.WriteError(w, http.StatusBadGateway, "could not load the project from the listing service", nil)
			return
		}
		h.writeServiceError(w, log, "draft hydrate", err)
		return
	}

	log.Info("draft hydrate: ok",
		slog.String("draft_id", chi.URLParam(r, "id")),
		slog.String("project_id", req.ProjectID),
	)
	transport.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	outcome, draft, err := h.service.Submit(ctx, ownerID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, log, "draft submit", err)
		return
	}

	log.Info("draft submit: done",
		slog.String("draft_id", draft.ID),
		slog.String("status", string(outcome.Status)),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"outcome": outcome,
		"draft":   draft,
	})
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ResendOTPRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	outcome := h.service.ResendOTP(ctx, req.BuilderID)
	log.Info("otp resend: done", slog.String("status", string(outcome.Status)))
	transport.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := httpx.OwnerID(r)
	if ownerID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing owner id", nil)
		return "", false
	}
	return ownerID, true
}

func (h *Handler) amenityRequest(w http.ResponseWriter, r *http.Request) (AmenityRequest, bool) {
	var req AmenityRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return AmenityRequest{}, false
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return AmenityRequest{}, false
	}
	return req, true
}

func (h *Handler) groupKind(w http.ResponseWriter, r *http.Request) (composer.GroupKind, bool) {
	kind, ok := composer.ParseGroupKind(chi.URLParam(r, "group"))
	if !ok {
		transport.WriteError(w, http.StatusBadRequest, "unknown image group", nil)
		return "", false
	}
	return kind, true
}

func (h *Handler) indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "index")))
	if err != nil || index < 0 {
		transport.WriteError(w, http.StatusBadRequest, "invalid index", nil)
		return 0, false
	}
	return index, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		transport.WriteError(w, http.StatusNotFound, "draft not found", nil)
	case errors.Is(err, composer.ErrIndexOutOfRange):
		transport.WriteError(w, http.StatusBadRequest, "index out of range", nil)
	case errors.Is(err, composer.ErrUnknownPlanField):
		transport.WriteError(w, http.StatusBadRequest, "unknown plan field", nil)
	case errors.Is(err, composer.ErrGroupFull):
		transport.WriteError(w, http.StatusConflict, "a group holds at most 10 images", nil)
	default:
		log.Error(op+": error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
	}
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
