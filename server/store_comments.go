package main

import (
	"context"
	"database/sql"
	"errors"
)

const commentCols = `id, project_id, task_id, author_id, content, created_at`

func scanComment(row *sql.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.ProjectID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

// CreateComment inserts the comment and fans out one notification to every
// project member except the author, synchronously in the same transaction. An
// N-member project pays N-1 notification writes here, in the caller's request.
func (s *Store) CreateComment(ctx context.Context, projectID int64, taskID *int64, authorID, content string) (Comment, []Notification, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Comment{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := scanComment(tx.QueryRowContext(ctx,
		`insert into comments(project_id, task_id, author_id, content) values($1,$2,$3,$4) returning `+commentCols,
		projectID, taskID, authorID, content))
	if err != nil {
		return Comment{}, nil, err
	}

	var p Project
	err = tx.QueryRowContext(ctx, `select `+projectCols+` from projects where id=$1`, projectID).
		Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	var notifs []Notification
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// dangling project reference: comment still lands, nobody to notify
	case err != nil:
		return Comment{}, nil, err
	default:
		typ, msg := NotifProjectComment, projectCommentMessage(p.Name)
		if taskID != nil {
			typ, msg = NotifTaskComment, taskCommentMessage(p.Name)
		}
		members, err := memberIDs(ctx, tx, projectID)
		if err != nil {
			return Comment{}, nil, err
		}
		for _, memberID := range commentRecipients(members, authorID) {
			n, err := insertNotification(ctx, tx, memberID, typ, msg, SubjectComment, c.ID)
			if err != nil {
				return Comment{}, nil, err
			}
			notifs = append(notifs, n)
		}
	}
	if err = tx.Commit(); err != nil {
		return Comment{}, nil, err
	}
	return c, notifs, nil
}

// ProjectComments returns project-level discussion only (comments without a
// task), newest first: feed order for the project discussion view.
func (s *Store) ProjectComments(ctx context.Context, projectID int64) ([]Comment, error) {
	return s.listComments(ctx,
		`select `+commentCols+` from comments where project_id=$1 and task_id is null order by created_at desc, id desc`, projectID)
}

// TaskComments returns the whole thread under a task, oldest first:
// conversational order.
func (s *Store) TaskComments(ctx context.Context, taskID int64) ([]Comment, error) {
	return s.listComments(ctx,
		`select `+commentCols+` from comments where task_id=$1 order by created_at, id`, taskID)
}

func (s *Store) listComments(ctx context.Context, query string, arg any) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateComment edits the content. Only the author may edit.
func (s *Store) UpdateComment(ctx context.Context, id int64, userID, content string) (Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx, `select `+commentCols+` from comments where id=$1`, id))
	if err != nil {
		return Comment{}, err
	}
	if c.AuthorID != userID {
		return Comment{}, ErrForbidden
	}
	return scanComment(s.db.QueryRowContext(ctx,
		`update comments set content=$1 where id=$2 returning `+commentCols, content, id))
}

// DeleteComment removes the comment. Only the author may delete.
func (s *Store) DeleteComment(ctx context.Context, id int64, userID string) error {
	c, err := scanComment(s.db.QueryRowContext(ctx, `select `+commentCols+` from comments where id=$1`, id))
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return ErrForbidden
	}
	_, err = s.db.ExecContext(ctx, `delete from comments where id=$1`, id)
	return err
}
