package main

import (
	"context"
	"errors"
	"testing"
)

func TestCreateCommentFanOut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, s)
	bob := newTestUser(t, s)
	carol := newTestUser(t, s)
	p := mustCreateProject(t, s, alice.Identity, "Discussion")
	mustAddMember(t, s, p.ID, bob.Email, alice.Identity)
	mustAddMember(t, s, p.ID, carol.Email, alice.Identity)

	t.Run("project-level comment", func(t *testing.T) {
		c, notifs, err := s.CreateComment(ctx, p.ID, nil, alice.Identity, "hello team")
		if err != nil {
			t.Fatalf("creating comment: %v", err)
		}
		if c.TaskID != nil {
			t.Error("project-level comment must have no task")
		}
		if len(notifs) != 2 {
			t.Fatalf("notifications = %d, want 2 (members minus author)", len(notifs))
		}
		recipients := map[string]bool{}
		for _, n := range notifs {
			recipients[n.UserID] = true
			if n.Type != NotifProjectComment {
				t.Errorf("type = %q, want project_comment", n.Type)
			}
			if n.SubjectKind != SubjectComment || n.SubjectID == nil || *n.SubjectID != c.ID {
				t.Errorf("subject should point at the comment: %+v", n)
			}
		}
		if recipients[alice.Identity] {
			t.Error("author must not be notified")
		}
		if !recipients[bob.Identity] || !recipients[carol.Identity] {
			t.Errorf("both other members must be notified, got %v", recipients)
		}
	})

	t.Run("task-level comment", func(t *testing.T) {
		task, _, err := s.CreateTask(ctx, p.ID, "Threaded", "", "", nil, alice.Identity)
		if err != nil {
			t.Fatalf("creating task: %v", err)
		}
		_, notifs, err := s.CreateComment(ctx, p.ID, &task.ID, bob.Identity, "on it")
		if err != nil {
			t.Fatalf("creating comment: %v", err)
		}
		if len(notifs) != 2 {
			t.Fatalf("notifications = %d, want 2", len(notifs))
		}
		for _, n := range notifs {
			if n.Type != NotifTaskComment {
				t.Errorf("type = %q, want task_comment", n.Type)
			}
			if n.UserID == bob.Identity {
				t.Error("author must not be notified")
			}
		}
	})
}

func TestCommentOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, s)
	p := mustCreateProject(t, s, owner.Identity, "Orders")
	task, _, err := s.CreateTask(ctx, p.ID, "Thread", "", "", nil, owner.Identity)
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}

	var projectIDs, taskIDs []int64
	for _, text := range []string{"one", "two", "three"} {
		c, _, err := s.CreateComment(ctx, p.ID, nil, owner.Identity, text)
		if err != nil {
			t.Fatalf("creating comment: %v", err)
		}
		projectIDs = append(projectIDs, c.ID)
		tc, _, err := s.CreateComment(ctx, p.ID, &task.ID, owner.Identity, text)
		if err != nil {
			t.Fatalf("creating task comment: %v", err)
		}
		taskIDs = append(taskIDs, tc.ID)
	}

	// project view: newest first, task comments excluded
	feed, err := s.ProjectComments(ctx, p.ID)
	if err != nil {
		t.Fatalf("project comments: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("project comments = %d, want 3 (task comments excluded)", len(feed))
	}
	for i, c := range feed {
		if want := projectIDs[len(projectIDs)-1-i]; c.ID != want {
			t.Errorf("feed[%d] = %d, want %d (newest first)", i, c.ID, want)
		}
	}

	// task view: oldest first
	thread, err := s.TaskComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("task comments: %v", err)
	}
	if len(thread) != 3 {
		t.Fatalf("task comments = %d, want 3", len(thread))
	}
	for i, c := range thread {
		if c.ID != taskIDs[i] {
			t.Errorf("thread[%d] = %d, want %d (oldest first)", i, c.ID, taskIDs[i])
		}
	}
}

func TestCommentAuthorOnlyMutations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := newTestUser(t, s)
	stranger := newTestUser(t, s)
	p := mustCreateProject(t, s, author.Identity, "Guarded")
	c, _, err := s.CreateComment(ctx, p.ID, nil, author.Identity, "mine")
	if err != nil {
		t.Fatalf("creating comment: %v", err)
	}

	if _, err := s.UpdateComment(ctx, c.ID, stranger.Identity, "hijacked"); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger update error = %v, want ErrForbidden", err)
	}
	if err := s.DeleteComment(ctx, c.ID, stranger.Identity); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger delete error = %v, want ErrForbidden", err)
	}

	got, err := s.UpdateComment(ctx, c.ID, author.Identity, "edited")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if got.Content != "edited" {
		t.Errorf("content = %q, want %q", got.Content, "edited")
	}

	if err := s.DeleteComment(ctx, c.ID, author.Identity); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if _, err := s.UpdateComment(ctx, c.ID, author.Identity, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("update after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteComment(ctx, c.ID, author.Identity); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete after delete error = %v, want ErrNotFound", err)
	}
}
