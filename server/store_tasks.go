package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const taskCols = `id, project_id, title, description, coalesce(assignee_id,''), due_at, status, created_at, updated_at`

func scanTask(row *sql.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.DueAt, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// CreateTask inserts a todo task. When the task is assigned to someone other
// than its creator, the assignee gets a task_assigned notification in the same
// transaction; self-assignment is silent.
func (s *Store) CreateTask(ctx context.Context, projectID int64, title, description, assigneeID string, dueAt *time.Time, createdBy string) (Task, []Notification, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var t Task
	err = tx.QueryRowContext(ctx,
		`insert into tasks(project_id, title, description, assignee_id, due_at) values($1,$2,$3,nullif($4,''),$5)
		 returning `+taskCols, projectID, title, description, assigneeID, dueAt).
		Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.DueAt, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, nil, err
	}
	var notifs []Notification
	if t.AssigneeID != "" && t.AssigneeID != createdBy {
		n, err := insertNotification(ctx, tx, t.AssigneeID, NotifTaskAssigned, taskAssignedMessage(t.Title), SubjectTask, t.ID)
		if err != nil {
			return Task{}, nil, err
		}
		notifs = append(notifs, n)
	}
	if err = tx.Commit(); err != nil {
		return Task{}, nil, err
	}
	return t, notifs, nil
}

func (s *Store) TaskByID(ctx context.Context, id int64) (Task, error) {
	return scanTask(s.db.QueryRowContext(ctx, `select `+taskCols+` from tasks where id=$1`, id))
}

func (s *Store) ProjectTasks(ctx context.Context, projectID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+taskCols+` from tasks where project_id=$1 order by created_at desc, id desc`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.DueAt, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTaskStatus moves the task through the status workflow. Completing a task
// assigned to someone other than the updater emits task_completed; every other
// transition, including self-completion, is silent.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID int64, status, updatedBy string) (Task, []Notification, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	t, err := scanTask(tx.QueryRowContext(ctx,
		`update tasks set status=$1, updated_at=now() where id=$2 returning `+taskCols, status, taskID))
	if err != nil {
		return Task{}, nil, err
	}
	var notifs []Notification
	if status == StatusDone && t.AssigneeID != "" && t.AssigneeID != updatedBy {
		n, err := insertNotification(ctx, tx, t.AssigneeID, NotifTaskCompleted, taskCompletedMessage(t.Title), SubjectTask, t.ID)
		if err != nil {
			return Task{}, nil, err
		}
		notifs = append(notifs, n)
	}
	if err = tx.Commit(); err != nil {
		return Task{}, nil, err
	}
	return t, notifs, nil
}

// UpdateTask is the generic edit path: it patches any subset of fields and
// always refreshes updated_at, but never emits notifications, even when it sets
// an assignee or a done status. Patching a missing id is a no-op, not an error.
func (s *Store) UpdateTask(ctx context.Context, taskID int64, title, description, assigneeID, status *string, dueAt *time.Time) error {
	set := []string{"updated_at=now()"}
	args := []any{}
	idx := 1
	if title != nil {
		set = append(set, fmt.Sprintf("title=$%d", idx))
		args = append(args, *title)
		idx++
	}
	if description != nil {
		set = append(set, fmt.Sprintf("description=$%d", idx))
		args = append(args, *description)
		idx++
	}
	if assigneeID != nil {
		set = append(set, fmt.Sprintf("assignee_id=nullif($%d,'')", idx))
		args = append(args, *assigneeID)
		idx++
	}
	if status != nil {
		set = append(set, fmt.Sprintf("status=$%d", idx))
		args = append(args, *status)
		idx++
	}
	if dueAt != nil {
		set = append(set, fmt.Sprintf("due_at=$%d", idx))
		args = append(args, *dueAt)
		idx++
	}
	q := fmt.Sprintf("update tasks set %s where id=$%d", strings.Join(set, ", "), idx)
	args = append(args, taskID)
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

// DeleteTask removes the task unconditionally. Comments under the task are left
// in place.
func (s *Store) DeleteTask(ctx context.Context, taskID int64) error {
	_, err := s.db.ExecContext(ctx, `delete from tasks where id=$1`, taskID)
	return err
}
