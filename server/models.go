package main

import "time"

// User identities are opaque strings supplied by the identity provider (or minted
// locally at registration). All cross-entity references (project owner, members,
// task assignee, comment author, notification recipient) carry identities, never
// user row ids, so entities stay valid even when a user record is synced later.

type User struct {
	ID        int64     `json:"id"`
	Identity  string    `json:"identity"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Task status is a closed three-value enum; any status may move to any other.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

func validStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	TaskID    *int64    `json:"task_id,omitempty"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID      int64  `json:"id"`
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
	// Subject links back to the entity that produced the notification.
	SubjectKind string    `json:"subject_kind,omitempty"`
	SubjectID   *int64    `json:"subject_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserStats is a read-only rollup across the stores for one user.
type UserStats struct {
	ProjectsCount  int `json:"projects_count"`
	TasksAssigned  int `json:"tasks_assigned"`
	TasksCompleted int `json:"tasks_completed"`
	CommentsCount  int `json:"comments_count"`
}
