package main

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)

// insertNotification is the sole construction primitive for notifications. It is
// always called inside the transaction of the mutation that derives the event, so
// the primary write and its fan-out commit or roll back together.
func insertNotification(ctx context.Context, tx *sql.Tx, userID, typ, message, subjectKind string, subjectID int64) (Notification, error) {
	var n Notification
	err := tx.QueryRowContext(ctx,
		`insert into notifications(user_id, type, message, subject_kind, subject_id) values($1,$2,$3,$4,$5)
		 returning id, user_id, type, message, read, subject_kind, subject_id, created_at`,
		userID, typ, message, subjectKind, subjectID).
		Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.SubjectKind, &n.SubjectID, &n.CreatedAt)
	return n, err
}

const schema = `
create table if not exists users(
    id bigserial primary key,
    identity text unique not null,
    email text unique not null,
    username text not null default '',
    name text not null default '',
    image_url text,
    password_hash text not null default '',
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create table if not exists sessions(
    id bigserial primary key,
    user_id bigint not null references users(id) on delete cascade,
    token text unique not null,
    created_at timestamptz not null default now(),
    expires_at timestamptz not null
);

create table if not exists projects(
    id bigserial primary key,
    name text not null check (length(name) > 0),
    description text not null default '',
    owner_id text not null,
    created_at timestamptz not null default now()
);
create index if not exists projects_owner_idx on projects(owner_id);

-- Membership lives in a join table so "is X a member of P" and per-member fan-out
-- are indexed lookups rather than array scans.
create table if not exists project_members(
    project_id bigint not null references projects(id) on delete cascade,
    member_id text not null,
    added_at timestamptz not null default now(),
    primary key(project_id, member_id)
);
create index if not exists project_members_member_idx on project_members(member_id);

create table if not exists tasks(
    id bigserial primary key,
    project_id bigint not null references projects(id) on delete cascade,
    title text not null check (length(title) > 0),
    description text not null default '',
    assignee_id text,
    due_at timestamptz,
    status text not null default 'todo' check (status in ('todo','in-progress','done')),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create index if not exists tasks_project_idx on tasks(project_id);
create index if not exists tasks_assignee_idx on tasks(assignee_id);

create table if not exists comments(
    id bigserial primary key,
    project_id bigint not null references projects(id) on delete cascade,
    -- no foreign key on task_id: deleting a task does not cascade to its thread
    task_id bigint,
    author_id text not null,
    content text not null check (length(content) > 0),
    created_at timestamptz not null default now()
);
create index if not exists comments_project_idx on comments(project_id);
create index if not exists comments_task_idx on comments(task_id);
create index if not exists comments_author_idx on comments(author_id);

create table if not exists notifications(
    id bigserial primary key,
    user_id text not null,
    type text not null,
    message text not null,
    read boolean not null default false,
    subject_kind text not null default '',
    subject_id bigint,
    created_at timestamptz not null default now()
);
create index if not exists notifications_user_idx on notifications(user_id, created_at desc);
create index if not exists notifications_unread_idx on notifications(user_id) where not read;
`
