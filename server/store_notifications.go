package main

import "context"

// UserNotifications returns the 50 most recent notifications for the user,
// newest first. The feed is deliberately bounded; readers wanting the true
// unread volume use UnreadNotificationCount, which is not capped and may
// disagree with the feed when more than 50 are unread.
func (s *Store) UserNotifications(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, type, message, read, subject_kind, subject_id, created_at
		 from notifications where user_id=$1 order by created_at desc, id desc limit 50`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.SubjectKind, &n.SubjectID, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`select count(*) from notifications where user_id=$1 and not read`, userID).Scan(&n)
	return n, err
}

// MarkNotificationRead flips one notification to read. The update is scoped to
// the calling recipient, so a foreign id behaves as not found. read -> unread is
// not exposed.
func (s *Store) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`update notifications set read=true where id=$1 and user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead flips every unread notification for the user and
// returns how many were flipped.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`update notifications set read=true where user_id=$1 and not read`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteNotification removes one notification, scoped to the calling recipient.
func (s *Store) DeleteNotification(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from notifications where id=$1 and user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
