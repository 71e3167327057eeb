package db

import (
	"context"

	"github.com/retreat-portal/backend/internal/model"
)

const roomColumns = "id, name, capacity, notes, created_at, updated_at"

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	err := row.Scan(&r.ID, &r.Name, &r.Capacity, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *Postgres) CreateRoom(ctx context.Context, req model.RoomRequest) (*model.Room, error) {
	query := `
		INSERT INTO rooms (name, capacity, notes, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + roomColumns
	room, err := scanRoom(db.Pool.QueryRow(ctx, query, req.Name, req.Capacity, req.Notes))
	if err != nil {
		return nil, wrapErr(err)
	}
	return room, nil
}

func (db *Postgres) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	return scanRoom(db.Pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
}

func (db *Postgres) ListRooms(ctx context.Context, limit, offset int) ([]model.Room, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *r)
	}
	return list, total, rows.Err()
}

func (db *Postgres) UpdateRoom(ctx context.Context, id int64, req model.RoomRequest) (*model.Room, error) {
	query := `
		UPDATE rooms SET name = $1, capacity = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + roomColumns
	room, err := scanRoom(db.Pool.QueryRow(ctx, query, req.Name, req.Capacity, req.Notes, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return room, nil
}

func (db *Postgres) DeleteRoom(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}
