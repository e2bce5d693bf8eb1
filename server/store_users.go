package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const userCols = `id, identity, email, username, name, coalesce(image_url,''), created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Identity, &u.Email, &u.Username, &u.Name, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// SyncUser upserts a user record by its external identity: created on first
// sight, mutable fields patched on every subsequent sight. Never deletes.
func (s *Store) SyncUser(ctx context.Context, identity, username, email, name, imageURL string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`insert into users(identity, username, email, name, image_url) values($1,$2,$3,$4,nullif($5,''))
		 on conflict (identity) do update set
		     username=excluded.username, email=excluded.email, name=excluded.name,
		     image_url=coalesce(excluded.image_url, users.image_url), updated_at=now()
		 returning `+userCols, identity, username, email, name, imageURL))
}

func (s *Store) UserByIdentity(ctx context.Context, identity string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `select `+userCols+` from users where identity=$1`, identity))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `select `+userCols+` from users where lower(email)=lower($1)`, email))
}

// UpdateUserProfile patches any subset of {name, username, imageURL}.
func (s *Store) UpdateUserProfile(ctx context.Context, identity string, name, username, imageURL *string) (User, error) {
	set := []string{"updated_at=now()"}
	args := []any{}
	idx := 1
	if name != nil {
		set = append(set, fmt.Sprintf("name=$%d", idx))
		args = append(args, *name)
		idx++
	}
	if username != nil {
		set = append(set, fmt.Sprintf("username=$%d", idx))
		args = append(args, *username)
		idx++
	}
	if imageURL != nil {
		set = append(set, fmt.Sprintf("image_url=$%d", idx))
		args = append(args, *imageURL)
		idx++
	}
	args = append(args, identity)
	q := fmt.Sprintf("update users set %s where identity=$%d returning %s", strings.Join(set, ", "), idx, userCols)
	return scanUser(s.db.QueryRowContext(ctx, q, args...))
}

// RegisterUser creates a locally authenticated user. The identity value is the
// caller-minted stable identifier used everywhere else; the email must be unique.
func (s *Store) RegisterUser(ctx context.Context, identity, email, password, username, name string) (User, error) {
	if _, err := s.UserByEmail(ctx, email); err == nil {
		return User{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return scanUser(s.db.QueryRowContext(ctx,
		`insert into users(identity, email, password_hash, username, name) values($1,$2,$3,$4,$5)
		 returning `+userCols, identity, email, string(hash), username, name))
}

// Authenticate verifies email+password and returns the user if they match.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`select `+userCols+`, password_hash from users where lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Identity, &u.Email, &u.Username, &u.Name, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, time.Time, error) {
	// 32 random bytes, base64 URL encoded
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	expires := time.Now().Add(ttl)
	_, err := s.db.ExecContext(ctx, `insert into sessions(user_id, token, expires_at) values($1,$2,$3)`, userID, token, expires)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *Store) UserBySession(ctx context.Context, token string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`select u.id, u.identity, u.email, u.username, u.name, coalesce(u.image_url,''), u.created_at, u.updated_at
		 from sessions s join users u on u.id=s.user_id
		 where s.token=$1 and s.expires_at > now()`, token))
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token=$1`, token)
	return err
}

// UserStats is a pure read across the stores; no snapshot is promised between
// the individual counts.
func (s *Store) UserStats(ctx context.Context, identity string) (UserStats, error) {
	var st UserStats
	err := s.db.QueryRowContext(ctx,
		`select count(distinct p.id) from projects p
		 left join project_members m on m.project_id = p.id
		 where p.owner_id=$1 or m.member_id=$1`, identity).Scan(&st.ProjectsCount)
	if err != nil {
		return UserStats{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`select count(*), count(*) filter (where status='done') from tasks where assignee_id=$1`, identity).
		Scan(&st.TasksAssigned, &st.TasksCompleted)
	if err != nil {
		return UserStats{}, err
	}
	err = s.db.QueryRowContext(ctx, `select count(*) from comments where author_id=$1`, identity).Scan(&st.CommentsCount)
	if err != nil {
		return UserStats{}, err
	}
	return st, nil
}
