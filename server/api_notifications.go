package main

import "net/http"

// GET /api/notifications — 50 most recent, newest first
func (a *api) handleUserNotifications(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.UserNotifications(r.Context(), me.Identity)
	if err != nil {
		a.log.Error("user notifications", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// GET /api/notifications/unread_count
func (a *api) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	n, err := a.store.UnreadNotificationCount(r.Context(), me.Identity)
	if err != nil {
		a.log.Error("unread count", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"count": n})
}

// POST /api/notifications/{id}/read
func (a *api) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.MarkNotificationRead(r.Context(), id, me.Identity); err != nil {
		a.writeStoreError(w, "mark read", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// POST /api/notifications/read_all — returns how many were flipped
func (a *api) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	n, err := a.store.MarkAllNotificationsRead(r.Context(), me.Identity)
	if err != nil {
		a.log.Error("mark all read", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "count": n})
}

// DELETE /api/notifications/{id}
func (a *api) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteNotification(r.Context(), id, me.Identity); err != nil {
		a.writeStoreError(w, "delete notification", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// GET /api/notifications/stream — SSE feed of this user's fresh notifications
func (a *api) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	a.bus.ServeSSE(w, r, me.Identity)
}
