package main

import (
	"net/http"
	"strings"
	"time"
)

// GET /api/projects/{id}/tasks
func (a *api) handleProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.ProjectTasks(r.Context(), id)
	if err != nil {
		a.log.Error("project tasks", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/projects/{id}/tasks {title, description?, assignee_id?, due_at?}
func (a *api) handleCreateTask(w http.ResponseWriter, r *http.Request) {
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
		Title       string `json:"title"`
		Description string `json:"description"`
		AssigneeID  string `json:"assignee_id"`
		DueAt       string `json:"due_at"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	var due *time.Time
	if req.DueAt != "" {
		t, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			writeError(w, 400, "bad due_at")
			return
		}
		due = &t
	}
	t, notifs, err := a.store.CreateTask(r.Context(), id, strings.TrimSpace(req.Title), req.Description, req.AssigneeID, due, me.Identity)
	if err != nil {
		a.log.Error("create task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, t)
	a.publish(notifs)
}

// GET /api/tasks/{id}
func (a *api) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	t, err := a.store.TaskByID(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "get task", err)
		return
	}
	writeJSON(w, 200, t)
}

// POST /api/tasks/{id}/status {status}
func (a *api) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
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
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil || !validStatus(req.Status) {
		writeError(w, 400, "invalid status")
		return
	}
	t, notifs, err := a.store.UpdateTaskStatus(r.Context(), id, req.Status, me.Identity)
	if err != nil {
		a.writeStoreError(w, "update task status", err)
		return
	}
	writeJSON(w, 200, t)
	a.publish(notifs)
}

// PATCH /api/tasks/{id} — generic edit; never notifies, unlike the status route.
func (a *api) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		AssigneeID  *string `json:"assignee_id"`
		Status      *string `json:"status"`
		DueAt       *string `json:"due_at"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, 400, "title cannot be empty")
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		writeError(w, 400, "invalid status")
		return
	}
	var due *time.Time
	if req.DueAt != nil && *req.DueAt != "" {
		t, err := time.Parse(time.RFC3339, *req.DueAt)
		if err != nil {
			writeError(w, 400, "bad due_at")
			return
		}
		due = &t
	}
	if err := a.store.UpdateTask(r.Context(), id, req.Title, req.Description, req.AssigneeID, req.Status, due); err != nil {
		a.log.Error("update task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

// DELETE /api/tasks/{id}
func (a *api) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteTask(r.Context(), id); err != nil {
		a.log.Error("delete task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
