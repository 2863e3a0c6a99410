package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/xpensecontrol/xpense/pkg/logger"
)

// Middleware authenticates the request from the session cookie (or a
// Bearer header for non-browser clients) and attaches the user to the
// request context. Requests without a valid session get 401.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := sessionTokenFromRequest(r)
		if tokenString == "" {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := h.Service.ValidateSession(tokenString)
		if err != nil {
			h.Logger.Warn("invalid session token", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		u, err := h.Service.CurrentUser(claims)
		if errors.Is(err, ErrInvalidSession) {
			h.Logger.Warn("session user not found", "user_id", claims.UserID)
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithUser(r.Context(), u)
		ctx = logger.With(ctx, "user_id", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
