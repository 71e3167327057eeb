package db

import (
	"context"

	"github.com/retreat-portal/backend/internal/model"
)

const groupColumns = "id, name, description, created_at, updated_at"

func scanGroup(row interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (db *Postgres) CreateGroup(ctx context.Context, req model.GroupRequest) (*model.Group, error) {
	query := `
		INSERT INTO groups (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + groupColumns
	group, err := scanGroup(db.Pool.QueryRow(ctx, query, req.Name, req.Description))
	if err != nil {
		return nil, wrapErr(err)
	}
	return group, nil
}

func (db *Postgres) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	return scanGroup(db.Pool.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
}

func (db *Postgres) ListGroups(ctx context.Context, limit, offset int) ([]model.Group, int64, error) {
	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+groupColumns+` FROM groups ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *g)
	}
	return list, total, rows.Err()
}

func (db *Postgres) UpdateGroup(ctx context.Context, id int64, req model.GroupRequest) (*model.Group, error) {
	query := `
		UPDATE groups SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + groupColumns
	group, err := scanGroup(db.Pool.QueryRow(ctx, query, req.Name, req.Description, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return group, nil
}

func (db *Postgres) DeleteGroup(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}
