package main

import (
	"context"
	"database/sql"
	"errors"
)

const projectCols = `id, name, description, owner_id, created_at`

func scanProject(row *sql.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

// CreateProject inserts the project with the owner as its first member and emits
// a project_created notification to the owner, all in one transaction.
func (s *Store) CreateProject(ctx context.Context, ownerID, name, description string) (Project, []Notification, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Project{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var p Project
	err = tx.QueryRowContext(ctx,
		`insert into projects(name, description, owner_id) values($1,$2,$3) returning `+projectCols,
		name, description, ownerID).
		Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		return Project{}, nil, err
	}
	// owner is always a member
	if _, err = tx.ExecContext(ctx, `insert into project_members(project_id, member_id) values($1,$2)`, p.ID, ownerID); err != nil {
		return Project{}, nil, err
	}
	n, err := insertNotification(ctx, tx, ownerID, NotifProjectCreated, projectCreatedMessage(p.Name), SubjectProject, p.ID)
	if err != nil {
		return Project{}, nil, err
	}
	if err = tx.Commit(); err != nil {
		return Project{}, nil, err
	}
	return p, []Notification{n}, nil
}

func (s *Store) ProjectByID(ctx context.Context, id int64) (Project, error) {
	return scanProject(s.db.QueryRowContext(ctx, `select `+projectCols+` from projects where id=$1`, id))
}

// UserProjects returns the union of projects the user owns and projects the user
// is a member of, deduplicated, newest first. One indexed query over the join
// table instead of an ownership lookup merged with a membership scan.
func (s *Store) UserProjects(ctx context.Context, identity string) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`select distinct p.id, p.name, p.description, p.owner_id, p.created_at
		 from projects p
		 left join project_members m on m.project_id = p.id
		 where p.owner_id=$1 or m.member_id=$1
		 order by p.created_at desc, p.id desc`, identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) IsProjectMember(ctx context.Context, projectID int64, identity string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from project_members where project_id=$1 and member_id=$2)`, projectID, identity).Scan(&ok)
	return ok, err
}

// AddProjectMember resolves the email to a user, appends them to the member set
// and notifies them. ErrNotFound when the project or user is missing, ErrConflict
// when the user already belongs to the project.
func (s *Store) AddProjectMember(ctx context.Context, projectID int64, userEmail, addedBy string) (User, []Notification, error) {
	p, err := s.ProjectByID(ctx, projectID)
	if err != nil {
		return User{}, nil, err
	}
	u, err := s.UserByEmail(ctx, userEmail)
	if err != nil {
		return User{}, nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`insert into project_members(project_id, member_id) values($1,$2) on conflict do nothing`, projectID, u.Identity)
	if err != nil {
		return User{}, nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, nil, ErrConflict
	}
	n, err := insertNotification(ctx, tx, u.Identity, NotifProjectInvitation, projectInvitationMessage(p.Name), SubjectProject, p.ID)
	if err != nil {
		return User{}, nil, err
	}
	if err = tx.Commit(); err != nil {
		return User{}, nil, err
	}
	return u, []Notification{n}, nil
}

// ProjectMembers resolves each member identity to its user record. Identities
// without a user row (not yet synced) are filtered out, not errors.
func (s *Store) ProjectMembers(ctx context.Context, projectID int64) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select u.id, u.identity, u.email, u.username, u.name, coalesce(u.image_url,''), u.created_at, u.updated_at
		 from project_members m join users u on u.identity = m.member_id
		 where m.project_id=$1 order by m.added_at, u.id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Identity, &u.Email, &u.Username, &u.Name, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// memberIDs returns the raw member identity set inside a transaction; used by
// the comment fan-out.
func memberIDs(ctx context.Context, tx *sql.Tx, projectID int64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `select member_id from project_members where project_id=$1 order by added_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
