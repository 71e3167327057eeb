package db

import (
	"context"
	"time"

	"github.com/retreat-portal/backend/internal/model"
)

func (db *Postgres) InsertSession(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (session_id, user_type, user_ref, created_at, expires_at, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Pool.Exec(ctx, query,
		s.SessionID, s.UserType, s.UserRef, s.CreatedAt, s.ExpiresAt, s.LastActivity)
	return wrapErr(err)
}

func (db *Postgres) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE sessions SET last_activity = $1 WHERE session_id = $2`, at, sessionID)
	return err
}

// ActiveSessions lists the user's non-expired sessions, most recently active
// first, deleting that user's expired rows on the way.
func (db *Postgres) ActiveSessions(ctx context.Context, userType, userRef string, now time.Time) ([]model.Session, error) {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE user_type = $1 AND user_ref = $2 AND expires_at <= $3`,
		userType, userRef, now)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT session_id, user_type, user_ref, created_at, expires_at, last_activity
		FROM sessions
		WHERE user_type = $1 AND user_ref = $2 AND expires_at > $3
		ORDER BY last_activity DESC
	`
	rows, err := db.Pool.Query(ctx, query, userType, userRef, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.SessionID, &s.UserType, &s.UserRef, &s.CreatedAt, &s.ExpiresAt, &s.LastActivity); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (db *Postgres) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID)
	return err
}
