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

const residentColumns = `
	id, created_at, first_name, last_name, phone, email, sobriety_date,
	move_in_date, move_out_date, employment_status, emergency_contact_name,
	emergency_contact_phone, status, room_number, monthly_rent_cents,
	deposit_cents, notes, application_id
`

type residentStorage struct {
	db *pgxpool.Pool
}

func NewResidentStorage(pool *pgxpool.Pool) ResidentStorage {
	return &residentStorage{db: pool}
}

func (s *residentStorage) Save(ctx context.Context, res *model.Resident) error {
	const query = `
		INSERT INTO residents
			(id, created_at, first_name, last_name, phone, email, sobriety_date,
			 move_in_date, employment_status, status, room_number,
			 monthly_rent_cents, deposit_cents, application_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.db.Exec(ctx, query,
		res.ID, res.CreatedAt, res.FirstName, res.LastName, res.Phone, res.Email,
		res.SobrietyDate, res.MoveInDate, res.EmploymentStatus, res.Status,
		res.RoomNumber, res.MonthlyRentCents, res.DepositCents, res.ApplicationID,
	)
	if err != nil {
		return fmt.Errorf("failed to save resident: %w", err)
	}
	return nil
}

func (s *residentStorage) FindAll(ctx context.Context) ([]model.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var residents []model.Resident
	for rows.Next() {
		r, err := scanResident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		residents = append(residents, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return residents, nil
}

func (s *residentStorage) FindByID(ctx context.Context, id string) (model.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents WHERE id = $1`

	r, err := scanResident(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Resident{}, appErr.NewNotFound("resident %s", id)
		}
		return model.Resident{}, fmt.Errorf("find by id failed: %w", err)
	}
	return r, nil
}

func (s *residentStorage) FindActiveByPhone(ctx context.Context, phone string) (model.Resident, error) {
	// Phone is compared digits-only so stored formatting does not matter.
	query := `SELECT ` + residentColumns + ` FROM residents
		WHERE regexp_replace(phone, '[^0-9+]', '', 'g') = $1 AND status = $2`

	r, err := scanResident(s.db.QueryRow(ctx, query, phone, model.ResidentActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Resident{}, appErr.NewNotFound("no active resident with phone %s", phone)
		}
		return model.Resident{}, fmt.Errorf("find by phone failed: %w", err)
	}
	return r, nil
}

func (s *residentStorage) Update(ctx context.Context, res *model.Resident) error {
	const query = `
		UPDATE residents
		SET first_name = $1, last_name = $2, phone = $3, email = $4,
		    sobriety_date = $5, employment_status = $6,
		    emergency_contact_name = $7, emergency_contact_phone = $8,
		    status = $9, room_number = $10, monthly_rent_cents = $11,
		    deposit_cents = $12, notes = $13
		WHERE id = $14
	`

	tag, err := s.db.Exec(ctx, query,
		res.FirstName, res.LastName, res.Phone, res.Email, res.SobrietyDate,
		res.EmploymentStatus, res.EmergencyContactName, res.EmergencyContactPhone,
		res.Status, res.RoomNumber, res.MonthlyRentCents, res.DepositCents,
		res.Notes, res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appErr.NewNotFound("resident %s", res.ID)
	}
	return nil
}

func (s *residentStorage) MoveOut(ctx context.Context, id string, moveOutDate time.Time) error {
	const query = `
		UPDATE residents
		SET status = $1, move_out_date = $2
		WHERE id = $3
	`

	tag, err := s.db.Exec(ctx, query, model.ResidentMovedOut, moveOutDate, id)
	if err != nil {
		return fmt.Errorf("failed to move out resident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appErr.NewNotFound("resident %s", id)
	}
	return nil
}

func scanResident(row pgx.Row) (model.Resident, error) {
	var r model.Resident
	err := row.Scan(
		&r.ID, &r.CreatedAt, &r.FirstName, &r.LastName, &r.Phone, &r.Email,
		&r.SobrietyDate, &r.MoveInDate, &r.MoveOutDate, &r.EmploymentStatus,
		&r.EmergencyContactName, &r.EmergencyContactPhone, &r.Status,
		&r.RoomNumber, &r.MonthlyRentCents, &r.DepositCents, &r.Notes,
		&r.ApplicationID,
	)
	return r, err
}
