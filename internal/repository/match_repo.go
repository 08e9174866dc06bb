package repository

import (
	"context"
	"time"

	"SportClubAPI/internal/model"
)

type MatchRepository struct {
	DB DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{DB: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]model.Match, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, time, teams, created_at FROM matches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Match{}
	for rows.Next() {
		var m model.Match
		var created time.Time
		if err := rows.Scan(&m.ID, &m.Time, &m.Teams, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = &created
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MatchRepository) Create(ctx context.Context, m *model.Match) (int64, error) {
	var id int64
	query := `INSERT INTO matches (time, teams, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, m.Time, m.Teams, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	m.ID = id
	return id, nil
}

// DeleteByTeams removes one match whose teams field equals teams.
func (r *MatchRepository) DeleteByTeams(ctx context.Context, teams string) error {
	query := `DELETE FROM matches WHERE id = (SELECT id FROM matches WHERE teams=$1 ORDER BY id LIMIT 1)`
	tag, err := r.DB.Exec(ctx, query, teams)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
