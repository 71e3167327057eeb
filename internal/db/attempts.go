package db

import (
	"context"
	"time"
)

func (db *Postgres) InsertLoginAttempt(ctx context.Context, identifier, userType string, success bool, at time.Time) error {
	query := `
		INSERT INTO login_attempts (identifier, user_type, success, attempted_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := db.Pool.Exec(ctx, query, identifier, userType, success, at)
	return err
}

// FailedAttemptTimes returns the timestamps of failed attempts for the
// identifier since the given cutoff, oldest first.
func (db *Postgres) FailedAttemptTimes(ctx context.Context, identifier, userType string, since time.Time) ([]time.Time, error) {
	query := `
		SELECT attempted_at FROM login_attempts
		WHERE identifier = $1 AND user_type = $2 AND NOT success AND attempted_at >= $3
		ORDER BY attempted_at
	`
	rows, err := db.Pool.Query(ctx, query, identifier, userType, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (db *Postgres) DeleteFailedAttempts(ctx context.Context, identifier, userType string) error {
	query := `
		DELETE FROM login_attempts
		WHERE identifier = $1 AND user_type = $2 AND NOT success
	`
	_, err := db.Pool.Exec(ctx, query, identifier, userType)
	return err
}

func (db *Postgres) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM login_attempts WHERE attempted_at < $1`, cutoff)
	return err
}
