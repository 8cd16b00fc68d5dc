package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
)

type staffStorage struct {
	db *pgxpool.Pool
}

func NewStaffStorage(pool *pgxpool.Pool) StaffStorage {
	return &staffStorage{db: pool}
}

func (s *staffStorage) FindActiveByEmail(ctx context.Context, email string) (model.StaffUser, error) {
	const query = `
		SELECT id, created_at, email, password_hash, first_name, last_name,
		       role, is_active, last_login
		FROM staff_users
		WHERE email = $1 AND is_active = TRUE
	`

	var u model.StaffUser
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.CreatedAt, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Role, &u.IsActive, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StaffUser{}, appErr.NewNotFound("staff user %s", email)
		}
		return model.StaffUser{}, fmt.Errorf("find by email failed: %w", err)
	}
	return u, nil
}

func (s *staffStorage) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE staff_users SET last_login = $1 WHERE id = $2`

	if _, err := s.db.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
