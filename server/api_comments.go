package main

import (
	"net/http"
	"strings"
)

// POST /api/projects/{id}/comments {content, task_id?}
// A comment without task_id is project-level discussion; with task_id it is part
// of that task's thread.
func (a *api) handleCreateComment(w http.ResponseWriter, r *http.Request) {
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
	var req struct {
		Content string `json:"content"`
		TaskID  *int64 `json:"task_id"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	c, notifs, err := a.store.CreateComment(r.Context(), id, req.TaskID, me.Identity, req.Content)
	if err != nil {
		a.log.Error("create comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, c)
	a.publish(notifs)
}

// GET /api/projects/{id}/comments
func (a *api) handleProjectComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.ProjectComments(r.Context(), id)
	if err != nil {
		a.log.Error("project comments", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// GET /api/tasks/{id}/comments
func (a *api) handleTaskComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.TaskComments(r.Context(), id)
	if err != nil {
		a.log.Error("task comments", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// PATCH /api/comments/{id} {content} — author only
func (a *api) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
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
	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	c, err := a.store.UpdateComment(r.Context(), id, me.Identity, req.Content)
	if err != nil {
		a.writeStoreError(w, "update comment", err)
		return
	}
	writeJSON(w, 200, c)
}

// DELETE /api/comments/{id} — author only
func (a *api) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
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
	if err := a.store.DeleteComment(r.Context(), id, me.Identity); err != nil {
		a.writeStoreError(w, "delete comment", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
