package db

import (
	"context"

	"github.com/retreat-portal/backend/internal/model"
)

const adminColumns = "id, username, password_hash, role, created_at, updated_at"

func (db *Postgres) CreateAdmin(ctx context.Context, username, passwordHash, role string) (*model.Admin, error) {
	query := `
		INSERT INTO admins (username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + adminColumns
	var a model.Admin
	err := db.Pool.QueryRow(ctx, query, username, passwordHash, role).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &a, nil
}

func (db *Postgres) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = $1`
	var a model.Admin
	err := db.Pool.QueryRow(ctx, query, username).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
