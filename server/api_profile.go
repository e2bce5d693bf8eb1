package main

import (
	"net/http"
	"strings"
)

// PATCH /api/me { name?, username?, image_url? }
func (a *api) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Username *string `json:"username"`
		ImageURL *string `json:"image_url"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		writeError(w, 400, "username required")
		return
	}
	if req.Name == nil && req.Username == nil && req.ImageURL == nil {
		writeError(w, 400, "nothing to update")
		return
	}
	u, err := a.store.UpdateUserProfile(r.Context(), me.Identity, req.Name, req.Username, req.ImageURL)
	if err != nil {
		a.writeStoreError(w, "update me", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "user": u})
}

// GET /api/me/stats
func (a *api) handleMyStats(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	st, err := a.store.UserStats(r.Context(), me.Identity)
	if err != nil {
		a.log.Error("user stats", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, st)
}
