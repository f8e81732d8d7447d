package middleware

import (
	"net/http"
	"strings"

	"estatedesk-backend/internal/auth"
	"estatedesk-backend/internal/transport"
)

// AdminAuth guards the admin add-project path and the lead back office. It
// accepts either the shared API key or an admin bearer token.
func AdminAuth(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if adminKey != "" && r.Header.Get("X-Admin-Key") == adminKey {
				next.ServeHTTP(w, r)
				return
			}

			if manager != nil {
				token := bearerToken(r)
				if token != "" {
					claims, err := manager.Parse(token)
					if err == nil && claims.Role == "admin" {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie("estatedesk_access"); err == nil {
		return cookie.Value
	}
	return ""
}
