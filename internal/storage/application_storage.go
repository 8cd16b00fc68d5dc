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

type applicationStorage struct {
	db *pgxpool.Pool
}

func NewApplicationStorage(pool *pgxpool.Pool) ApplicationStorage {
	return &applicationStorage{db: pool}
}

// Save inserts a new application. The unique index on phone makes the
// duplicate check atomic; a violation comes back as ErrConflict.
func (s *applicationStorage) Save(ctx context.Context, app *model.Application) error {
	const query = `
		INSERT INTO applications
			(id, created_at, first_name, last_name, phone, email, sobriety_date,
			 employment_status, housing_needed, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.Exec(ctx, query,
		app.ID, app.CreatedAt, app.FirstName, app.LastName, app.Phone, app.Email,
		app.SobrietyDate, app.EmploymentStatus, app.HousingNeeded, app.Message, app.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return appErr.NewConflict("application with phone %s already exists", app.Phone)
		}
		return fmt.Errorf("failed to save application: %w", err)
	}
	return nil
}

func (s *applicationStorage) FindAll(ctx context.Context) ([]model.Application, error) {
	const query = `
		SELECT id, created_at, first_name, last_name, phone, email, sobriety_date,
		       employment_status, housing_needed, message, status, reviewed_at,
		       reviewed_by, notes
		FROM applications
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(
			&a.ID, &a.CreatedAt, &a.FirstName, &a.LastName, &a.Phone, &a.Email,
			&a.SobrietyDate, &a.EmploymentStatus, &a.HousingNeeded, &a.Message,
			&a.Status, &a.ReviewedAt, &a.ReviewedBy, &a.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		apps = append(apps, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return apps, nil
}

func (s *applicationStorage) FindByID(ctx context.Context, id string) (model.Application, error) {
	const query = `
		SELECT id, created_at, first_name, last_name, phone, email, sobriety_date,
		       employment_status, housing_needed, message, status, reviewed_at,
		       reviewed_by, notes
		FROM applications
		WHERE id = $1
	`

	var a model.Application
	err := s.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.CreatedAt, &a.FirstName, &a.LastName, &a.Phone, &a.Email,
		&a.SobrietyDate, &a.EmploymentStatus, &a.HousingNeeded, &a.Message,
		&a.Status, &a.ReviewedAt, &a.ReviewedBy, &a.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Application{}, appErr.NewNotFound("application %s", id)
		}
		return model.Application{}, fmt.Errorf("find by id failed: %w", err)
	}
	return a, nil
}

func (s *applicationStorage) Review(ctx context.Context, id, status, reviewer, notes string, reviewedAt time.Time) error {
	const query = `
		UPDATE applications
		SET status = $1, reviewed_at = $2, reviewed_by = $3,
		    notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END
		WHERE id = $5
	`

	tag, err := s.db.Exec(ctx, query, status, reviewedAt, reviewer, notes, id)
	if err != nil {
		return fmt.Errorf("failed to review application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appErr.NewNotFound("application %s", id)
	}
	return nil
}

func (s *applicationStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
