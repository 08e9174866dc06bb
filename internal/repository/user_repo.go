package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SportClubAPI/internal/model"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts u. ErrDuplicate is returned when the email is taken.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users (id, fname, lname, hash, salt, admin, email, member, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now()
	_, err := r.DB.Exec(ctx, query, u.ID, u.FName, u.LName, u.Hash, u.Salt, u.Admin, u.Email, u.Member, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return err
	}
	u.CreatedAt = &now
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, fname, lname, hash, salt, admin, email, member, created_at
			FROM users
			WHERE email=$1`
	return r.scanOne(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, fname, lname, hash, salt, admin, email, member, created_at
			FROM users
			WHERE id=$1`
	return r.scanOne(r.DB.QueryRow(ctx, query, id))
}

func (r *UserRepository) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	var created time.Time
	err := row.Scan(&u.ID, &u.FName, &u.LName, &u.Hash, &u.Salt, &u.Admin, &u.Email, &u.Member, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = &created
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListMemberEmails returns the addresses of every user flagged as a club member.
func (r *UserRepository) ListMemberEmails(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT email FROM users WHERE member = TRUE ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}
