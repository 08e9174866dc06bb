package repository

import (
	"context"
	"errors"
	"time"

	"SportClubAPI/internal/model"

	"github.com/jackc/pgx/v5"
)

type NewsRepository struct {
	DB DBTX
}

func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{DB: db}
}

func (r *NewsRepository) List(ctx context.Context) ([]model.News, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, title, description, image_name, created_at FROM news ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.News{}
	for rows.Next() {
		var n model.News
		var created time.Time
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &n.ImageName, &created); err != nil {
			return nil, err
		}
		n.CreatedAt = &created
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NewsRepository) Create(ctx context.Context, n *model.News) (int64, error) {
	var id int64
	query := `INSERT INTO news (title, description, image_name, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, n.Title, n.Description, n.ImageName, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	n.ID = id
	return id, nil
}

// DeleteByTitle removes one news item with the given title and returns it so
// the caller can clean up its image.
func (r *NewsRepository) DeleteByTitle(ctx context.Context, title string) (*model.News, error) {
	query := `DELETE FROM news
			WHERE id = (SELECT id FROM news WHERE title=$1 ORDER BY id LIMIT 1)
			RETURNING id, title, description, image_name, created_at`
	var n model.News
	var created time.Time
	err := r.DB.QueryRow(ctx, query, title).Scan(&n.ID, &n.Title, &n.Description, &n.ImageName, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n.CreatedAt = &created
	return &n, nil
}
