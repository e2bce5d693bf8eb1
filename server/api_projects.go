package main

import (
	"net/http"
	"strings"
)

// GET /api/projects
func (a *api) handleUserProjects(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.UserProjects(r.Context(), me.Identity)
	if err != nil {
		a.log.Error("user projects", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/projects {name, description?}
func (a *api) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	me, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	p, notifs, err := a.store.CreateProject(r.Context(), me.Identity, strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		a.log.Error("create project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, p)
	a.publish(notifs)
}

// GET /api/projects/{id}
func (a *api) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	p, err := a.store.ProjectByID(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, "get project", err)
		return
	}
	writeJSON(w, 200, p)
}

// GET /api/projects/{id}/members
func (a *api) handleProjectMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	items, err := a.store.ProjectMembers(r.Context(), id)
	if err != nil {
		a.log.Error("project members", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/projects/{id}/members {email}
func (a *api) handleAddProjectMember(w http.ResponseWriter, r *http.Request) {
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
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	u, notifs, err := a.store.AddProjectMember(r.Context(), id, strings.TrimSpace(req.Email), me.Identity)
	if err != nil {
		a.writeStoreError(w, "add project member", err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "user": u})
	a.publish(notifs)
}
