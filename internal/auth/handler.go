package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xpensecontrol/xpense/internal/transport"
	"github.com/xpensecontrol/xpense/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service      *Service
	cookieSecure bool
	redirectTo   string
}

// NewHandler wires the OAuth endpoints. redirectTo is where the browser
// lands after a successful sign-in.
func NewHandler(service *Service, cookieSecure bool, redirectTo string) *Handler {
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(logger.L()),
		Service:      service,
		cookieSecure: cookieSecure,
		redirectTo:   redirectTo,
	}
}

// GoogleLogin issues a state nonce cookie and redirects to Google's
// consent page.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.Service.LoginURL(state), http.StatusFound)
}

// GoogleCallback validates the state nonce, finishes the code flow and
// establishes the session cookie.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil || state == "" || stateCookie.Value != state {
		h.Logger.Warn("GoogleCallback: oauth state mismatch")
		h.WriteError(w, http.StatusUnauthorized, "invalid oauth state")
		return
	}

	// State nonce is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.WriteError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	sessionToken, u, err := h.Service.HandleCallback(r.Context(), code)
	if err != nil {
		h.Logger.Error("GoogleCallback: sign-in failed", "error", err)
		h.WriteError(w, http.StatusUnauthorized, "sign-in failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(h.Service.Sessions().TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.Logger.Info("GoogleCallback: session established", "user_id", u.ID)
	http.Redirect(w, r, h.redirectTo, http.StatusFound)
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}
