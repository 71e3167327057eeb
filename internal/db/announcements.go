package db

import (
	"context"

	"github.com/retreat-portal/backend/internal/model"
)

const announcementColumns = "id, title, body, priority, published, created_at, updated_at"

func scanAnnouncement(row interface{ Scan(...any) error }) (*model.Announcement, error) {
	var a model.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Priority, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *Postgres) CreateAnnouncement(ctx context.Context, title, body, priority string, published bool) (*model.Announcement, error) {
	query := `
		INSERT INTO announcements (title, body, priority, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + announcementColumns
	a, err := scanAnnouncement(db.Pool.QueryRow(ctx, query, title, body, priority, published))
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (db *Postgres) GetAnnouncement(ctx context.Context, id int64) (*model.Announcement, error) {
	return scanAnnouncement(db.Pool.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
}

// ListAnnouncements returns newest first; publishedOnly narrows to the
// attendee-visible set.
func (db *Postgres) ListAnnouncements(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Announcement, int64, error) {
	where := ""
	if publishedOnly {
		where = "WHERE published"
	}

	var total int64
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM announcements "+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx,
		"SELECT "+announcementColumns+" FROM announcements "+where+" ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	return list, total, rows.Err()
}

func (db *Postgres) UpdateAnnouncement(ctx context.Context, id int64, title, body, priority string, published bool) (*model.Announcement, error) {
	query := `
		UPDATE announcements
		SET title = $1, body = $2, priority = $3, published = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + announcementColumns
	a, err := scanAnnouncement(db.Pool.QueryRow(ctx, query, title, body, priority, published, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (db *Postgres) DeleteAnnouncement(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}
