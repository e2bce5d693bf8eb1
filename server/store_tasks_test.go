package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateTaskAssignmentNotifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	creator := newTestUser(t, s)
	assignee := newTestUser(t, s)
	p := mustCreateProject(t, s, creator.Identity, "Tasks")

	t.Run("assigned to someone else", func(t *testing.T) {
		task, notifs, err := s.CreateTask(ctx, p.ID, "Write docs", "", assignee.Identity, nil, creator.Identity)
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}
		if task.Status != StatusTodo {
			t.Errorf("status = %q, want todo", task.Status)
		}
		if len(notifs) != 1 || notifs[0].Type != NotifTaskAssigned || notifs[0].UserID != assignee.Identity {
			t.Fatalf("expected one task_assigned to assignee, got %+v", notifs)
		}
	})

	t.Run("self-assignment is silent", func(t *testing.T) {
		_, notifs, err := s.CreateTask(ctx, p.ID, "Self task", "", creator.Identity, nil, creator.Identity)
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}
		if len(notifs) != 0 {
			t.Errorf("self-assignment must not notify, got %+v", notifs)
		}
	})

	t.Run("unassigned is silent", func(t *testing.T) {
		_, notifs, err := s.CreateTask(ctx, p.ID, "Nobody's task", "", "", nil, creator.Identity)
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}
		if len(notifs) != 0 {
			t.Errorf("unassigned task must not notify, got %+v", notifs)
		}
	})
}

func TestUpdateTaskStatusCompletionNotifications(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	creator := newTestUser(t, s)
	assignee := newTestUser(t, s)
	p := mustCreateProject(t, s, creator.Identity, "Workflow")
	task, _, err := s.CreateTask(ctx, p.ID, "Ship it", "", assignee.Identity, nil, creator.Identity)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	t.Run("non-done transition is silent", func(t *testing.T) {
		_, notifs, err := s.UpdateTaskStatus(ctx, task.ID, StatusInProgress, creator.Identity)
		if err != nil {
			t.Fatalf("updating status: %v", err)
		}
		if len(notifs) != 0 {
			t.Errorf("in-progress must not notify, got %+v", notifs)
		}
	})

	t.Run("self-completion is silent", func(t *testing.T) {
		_, notifs, err := s.UpdateTaskStatus(ctx, task.ID, StatusDone, assignee.Identity)
		if err != nil {
			t.Fatalf("updating status: %v", err)
		}
		if len(notifs) != 0 {
			t.Errorf("self-completion must not notify, got %+v", notifs)
		}
	})

	t.Run("completion by someone else notifies assignee", func(t *testing.T) {
		got, notifs, err := s.UpdateTaskStatus(ctx, task.ID, StatusDone, creator.Identity)
		if err != nil {
			t.Fatalf("updating status: %v", err)
		}
		if got.Status != StatusDone {
			t.Errorf("status = %q, want done", got.Status)
		}
		if len(notifs) != 1 || notifs[0].Type != NotifTaskCompleted || notifs[0].UserID != assignee.Identity {
			t.Fatalf("expected one task_completed to assignee, got %+v", notifs)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		if _, _, err := s.UpdateTaskStatus(ctx, task.ID+1_000_000, StatusDone, creator.Identity); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

// The generic edit path intentionally never notifies, even when it assigns the
// task or marks it done. Only the status route participates in the workflow.
func TestUpdateTaskNeverNotifies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	creator := newTestUser(t, s)
	assignee := newTestUser(t, s)
	p := mustCreateProject(t, s, creator.Identity, "Quiet edits")

	task, notifs, err := s.CreateTask(ctx, p.ID, "Unowned", "", "", nil, creator.Identity)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if len(notifs) != 0 {
		t.Fatalf("task without assignee must not notify")
	}
	before, err := s.UnreadNotificationCount(ctx, assignee.Identity)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}

	aid := assignee.Identity
	done := StatusDone
	if err := s.UpdateTask(ctx, task.ID, nil, nil, &aid, &done, nil); err != nil {
		t.Fatalf("updating task: %v", err)
	}

	after, err := s.UnreadNotificationCount(ctx, assignee.Identity)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if after != before {
		t.Errorf("generic update must not notify: unread went %d -> %d", before, after)
	}

	got, err := s.TaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("fetching task: %v", err)
	}
	if got.AssigneeID != assignee.Identity || got.Status != StatusDone {
		t.Errorf("patch did not apply: %+v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("updated_at must not precede created_at")
	}
}

func TestUpdateTaskMissingIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	title := "ghost"
	if err := s.UpdateTask(context.Background(), -1, &title, nil, nil, nil, nil); err != nil {
		t.Errorf("patching a missing task should be a silent no-op, got %v", err)
	}
}

func TestDeleteTaskLeavesComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, s)
	p := mustCreateProject(t, s, owner.Identity, "Orphans")
	task, _, err := s.CreateTask(ctx, p.ID, "Doomed", "", "", nil, owner.Identity)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if _, _, err := s.CreateComment(ctx, p.ID, &task.ID, owner.Identity, "last words"); err != nil {
		t.Fatalf("creating comment: %v", err)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("deleting task: %v", err)
	}
	if _, err := s.TaskByID(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("task should be gone, got %v", err)
	}
	// deleting again is still not an error
	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Errorf("re-deleting should be a no-op, got %v", err)
	}

	comments, err := s.TaskComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("listing comments: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("comments = %d, want 1 (no cascade)", len(comments))
	}
}

func TestProjectTasksNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, s)
	p := mustCreateProject(t, s, owner.Identity, "Ordered")
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	first, _, err := s.CreateTask(ctx, p.ID, "first", "", "", &due, owner.Identity)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	second, _, err := s.CreateTask(ctx, p.ID, "second", "", "", nil, owner.Identity)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	tasks, err := s.ProjectTasks(ctx, p.ID)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Errorf("tasks must be newest first, got [%d %d]", tasks[0].ID, tasks[1].ID)
	}
	if tasks[1].DueAt == nil || !tasks[1].DueAt.Equal(due) {
		t.Errorf("due date lost: %+v", tasks[1].DueAt)
	}
}
