package main

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type api struct {
	store *Store
	log   *slog.Logger
	bus   *NotifyBus
	// rate limiting buckets per IP:key
	rlMu sync.Mutex
	rl   map[string]*rateBucket
}

func newAPI(store *Store, log *slog.Logger) *api {
	return &api{store: store, log: log, bus: NewNotifyBus(), rl: map[string]*rateBucket{}}
}

func (a *api) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", a.handleHealth)

	// Auth and identity
	mux.HandleFunc("POST /api/auth/register", a.withRateLimit("auth", 20, time.Minute, a.handleRegister))
	mux.HandleFunc("POST /api/auth/login", a.withRateLimit("auth", 30, time.Minute, a.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	mux.HandleFunc("GET /api/auth/me", a.handleMe)
	mux.HandleFunc("POST /api/identity/sync", a.withRateLimit("identity", 60, time.Minute, a.handleIdentitySync))

	// Profile and stats
	mux.HandleFunc("PATCH /api/me", a.requireAuth(a.handleUpdateMe))
	mux.HandleFunc("GET /api/me/stats", a.requireAuth(a.handleMyStats))

	// Projects and membership
	mux.HandleFunc("GET /api/projects", a.requireAuth(a.handleUserProjects))
	mux.HandleFunc("POST /api/projects", a.requireAuth(a.handleCreateProject))
	mux.HandleFunc("GET /api/projects/{id}", a.requireAuth(a.handleGetProject))
	mux.HandleFunc("GET /api/projects/{id}/members", a.requireAuth(a.handleProjectMembers))
	mux.HandleFunc("POST /api/projects/{id}/members", a.requireAuth(a.handleAddProjectMember))

	// Tasks
	mux.HandleFunc("GET /api/projects/{id}/tasks", a.requireAuth(a.handleProjectTasks))
	mux.HandleFunc("POST /api/projects/{id}/tasks", a.requireAuth(a.handleCreateTask))
	mux.HandleFunc("GET /api/tasks/{id}", a.requireAuth(a.handleGetTask))
	mux.HandleFunc("POST /api/tasks/{id}/status", a.requireAuth(a.handleUpdateTaskStatus))
	mux.HandleFunc("PATCH /api/tasks/{id}", a.requireAuth(a.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", a.requireAuth(a.handleDeleteTask))

	// Comments
	mux.HandleFunc("GET /api/projects/{id}/comments", a.requireAuth(a.handleProjectComments))
	mux.HandleFunc("POST /api/projects/{id}/comments", a.requireAuth(a.handleCreateComment))
	mux.HandleFunc("GET /api/tasks/{id}/comments", a.requireAuth(a.handleTaskComments))
	mux.HandleFunc("PATCH /api/comments/{id}", a.requireAuth(a.handleUpdateComment))
	mux.HandleFunc("DELETE /api/comments/{id}", a.requireAuth(a.handleDeleteComment))

	// Notifications
	mux.HandleFunc("GET /api/notifications", a.requireAuth(a.handleUserNotifications))
	mux.HandleFunc("GET /api/notifications/unread_count", a.requireAuth(a.handleUnreadCount))
	mux.HandleFunc("POST /api/notifications/read_all", a.requireAuth(a.handleMarkAllRead))
	mux.HandleFunc("POST /api/notifications/{id}/read", a.requireAuth(a.handleMarkRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", a.requireAuth(a.handleDeleteNotification))
	mux.HandleFunc("GET /api/notifications/stream", a.requireAuth(a.handleNotificationStream))
}

// publish pushes freshly committed notifications to live SSE subscribers.
func (a *api) publish(notifs []Notification) {
	for _, n := range notifs {
		a.bus.Publish(n)
	}
}
