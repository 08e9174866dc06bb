package repository

import (
	"context"
	"errors"
	"time"

	"SportClubAPI/internal/model"

	"github.com/jackc/pgx/v5"
)

type TeamRepository struct {
	DB DBTX
}

func NewTeamRepository(db DBTX) *TeamRepository {
	return &TeamRepository{DB: db}
}

const teamColumns = `id, name, gender, roles, effectif, nombre_equipes, annee_naissance, seances, matches, mot_des_coaches, created_at`

func scanTeam(row pgx.Row) (*model.Team, error) {
	var t model.Team
	var roles []byte
	var created time.Time
	err := row.Scan(&t.ID, &t.Name, &t.Gender, &roles, &t.Effectif, &t.NombreEquipes,
		&t.AnneeNaissance, &t.Seances, &t.Matches, &t.MotDesCoaches, &created)
	if err != nil {
		return nil, err
	}
	t.Roles = roles
	t.CreatedAt = &created
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]model.Team, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TeamRepository) Create(ctx context.Context, t *model.Team) (int64, error) {
	roles := []byte(t.Roles)
	if len(roles) == 0 {
		roles = []byte("[]")
	}
	var id int64
	query := `INSERT INTO teams (name, gender, roles, effectif, nombre_equipes, annee_naissance, seances, matches, mot_des_coaches, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.DB.QueryRow(ctx, query, t.Name, t.Gender, roles, t.Effectif, t.NombreEquipes,
		t.AnneeNaissance, t.Seances, t.Matches, t.MotDesCoaches, time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

// DeleteByName removes one team called name and returns it.
func (r *TeamRepository) DeleteByName(ctx context.Context, name string) (*model.Team, error) {
	query := `DELETE FROM teams
			WHERE id = (SELECT id FROM teams WHERE name=$1 ORDER BY id LIMIT 1)
			RETURNING ` + teamColumns
	t, err := scanTeam(r.DB.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
