package db

import (
	"context"
	"fmt"

	"github.com/retreat-portal/backend/internal/model"
)

const attendeeColumns = `id, name, ref_number, password_hash, email, dietary,
	room_id, group_id, checked_in, created_at, updated_at`

func scanAttendee(row interface{ Scan(...any) error }) (*model.Attendee, error) {
	var a model.Attendee
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.RefNumber,
		&a.PasswordHash,
		&a.Email,
		&a.Dietary,
		&a.RoomID,
		&a.GroupID,
		&a.CheckedIn,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *Postgres) CreateAttendee(ctx context.Context, a *model.Attendee) (*model.Attendee, error) {
	query := `
		INSERT INTO attendees (name, ref_number, password_hash, email, dietary, room_id, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + attendeeColumns
	created, err := scanAttendee(db.Pool.QueryRow(ctx, query,
		a.Name, a.RefNumber, a.PasswordHash, a.Email, a.Dietary, a.RoomID, a.GroupID))
	if err != nil {
		return nil, wrapErr(err)
	}
	return created, nil
}

func (db *Postgres) GetAttendee(ctx context.Context, id int64) (*model.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id = $1`
	return scanAttendee(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) GetAttendeeByRef(ctx context.Context, refNumber string) (*model.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE ref_number = $1`
	return scanAttendee(db.Pool.QueryRow(ctx, query, refNumber))
}

func (db *Postgres) ListAttendees(ctx context.Context, filter model.AttendeeFilter, limit, offset int) ([]model.Attendee, int64, error) {
	where := "WHERE 1=1"
	args := []any{}

	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		where += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		where += fmt.Sprintf(" AND group_id = $%d", len(args))
	}
	if filter.NamePrefix != "" {
		args = append(args, filter.NamePrefix+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM attendees "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM attendees %s ORDER BY name, id LIMIT $%d OFFSET $%d",
		attendeeColumns, where, len(args)-1, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Attendee{}
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	return list, total, rows.Err()
}

func (db *Postgres) UpdateAttendee(ctx context.Context, a *model.Attendee) (*model.Attendee, error) {
	query := `
		UPDATE attendees
		SET name = $1, ref_number = $2, password_hash = $3, email = $4, dietary = $5,
			room_id = $6, group_id = $7, checked_in = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + attendeeColumns
	updated, err := scanAttendee(db.Pool.QueryRow(ctx, query,
		a.Name, a.RefNumber, a.PasswordHash, a.Email, a.Dietary, a.RoomID, a.GroupID, a.CheckedIn, a.ID))
	if err != nil {
		return nil, wrapErr(err)
	}
	return updated, nil
}

func (db *Postgres) SetAttendeeCheckedIn(ctx context.Context, id int64, checkedIn bool) (*model.Attendee, error) {
	query := `
		UPDATE attendees SET checked_in = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + attendeeColumns
	return scanAttendee(db.Pool.QueryRow(ctx, query, checkedIn, id))
}

func (db *Postgres) DeleteAttendee(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}
