package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// POST /api/auth/register {email, password, username, name?}
// Locally registered users get a freshly minted identity; externally managed
// users arrive through /api/identity/sync instead.
func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password, Username, Name string }
	if err := readJSON(w, r, &req); err != nil ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, 400, "password too short")
		return
	}
	u, err := a.store.RegisterUser(r.Context(), uuid.NewString(),
		strings.TrimSpace(req.Email), req.Password, strings.TrimSpace(req.Username), strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, ErrConflict) {
			writeError(w, 409, "email already registered")
			return
		}
		a.log.Error("register", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	token, exp, err := a.store.CreateSession(r.Context(), u.ID, a.sessionTTL())
	if err != nil {
		a.log.Error("create session", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	a.setSessionCookie(w, token, exp)
	writeJSON(w, 201, map[string]any{"ok": true, "user": u})
}

// POST /api/auth/login {email, password}
func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	if err := readJSON(w, r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	u, err := a.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, 401, "invalid credentials")
		return
	}
	token, exp, err := a.store.CreateSession(r.Context(), u.ID, a.sessionTTL())
	if err != nil {
		a.log.Error("create session", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	a.setSessionCookie(w, token, exp)
	writeJSON(w, 200, map[string]any{"ok": true, "user": u})
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(a.sessionCookieName()); err == nil && c.Value != "" {
		_ = a.store.DeleteSession(r.Context(), c.Value)
	}
	a.clearSessionCookie(w)
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		// For anonymous users return 200 with user: null to avoid noisy 401s on public pages
		writeJSON(w, 200, map[string]any{"user": nil})
		return
	}
	writeJSON(w, 200, map[string]any{"user": u})
}

// POST /api/identity/sync {identity, username, email, name?, image_url?}
// Sync-on-login entry point for the external identity provider: create the user
// on first sight, patch mutable fields on every subsequent sight.
func (a *api) handleIdentitySync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity string `json:"identity"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
	if err := readJSON(w, r, &req); err != nil ||
		strings.TrimSpace(req.Identity) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	u, err := a.store.SyncUser(r.Context(), strings.TrimSpace(req.Identity),
		strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), strings.TrimSpace(req.Name), strings.TrimSpace(req.ImageURL))
	if err != nil {
		a.log.Error("identity sync", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "user": u})
}
