package admins

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"estatedesk-backend/internal/auth"
	"estatedesk-backend/internal/httpx"
	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/transport"
	"estatedesk-backend/internal/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const accessCookieName = "estatedesk_access"

type Handler struct {
	repo    Repository
	manager *auth.Manager
	val     *validation.Validator
	log     *slog.Logger
	secure  bool
}

func NewHandler(repo Repository, manager *auth.Manager, val *validation.Validator, log *slog.Logger, secureCookies bool) *Handler {
	return &Handler{
		repo:    repo,
		manager: manager,
		val:     val,
		log:     log,
		secure:  secureCookies,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	if h.manager == nil {
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	var req LoginRequest
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

	user, err := h.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		log.Warn("admin login: bad password", slog.String("username", user.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	access, err := h.manager.AccessToken(user.ID, user.Role)
	if err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refresh, err := h.manager.RefreshToken(user.ID, user.Role)
	if err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	h.setAccessCookie(w, access)
	log.Info("admin login: ok", slog.String("username", user.Username))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	if h.manager == nil {
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	var req RefreshRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	claims, err := h.manager.Parse(req.RefreshToken)
	if err != nil || claims.Role != RoleAdmin {
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	access, err := h.manager.AccessToken(claims.Subject, claims.Role)
	if err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	h.setAccessCookie(w, access)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": access,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	transport.WriteMessage(w, http.StatusOK, "logged out")
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
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
