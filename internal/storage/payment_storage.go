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

const paymentColumns = `
	id, created_at, resident_id, amount_cents, type, due_date, paid_date,
	status, payment_method, notes
`

type paymentStorage struct {
	db *pgxpool.Pool
}

func NewPaymentStorage(pool *pgxpool.Pool) PaymentStorage {
	return &paymentStorage{db: pool}
}

func (s *paymentStorage) Save(ctx context.Context, p *model.Payment) error {
	const query = `
		INSERT INTO payments
			(id, created_at, resident_id, amount_cents, type, due_date, paid_date,
			 status, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.Exec(ctx, query,
		p.ID, p.CreatedAt, p.ResidentID, p.AmountCents, p.Type, p.DueDate,
		p.PaidDate, p.Status, p.Method, p.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (s *paymentStorage) FindAll(ctx context.Context) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY due_date DESC`
	return s.queryPayments(ctx, query)
}

func (s *paymentStorage) FindByResident(ctx context.Context, residentID string) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE resident_id = $1 ORDER BY due_date DESC`
	return s.queryPayments(ctx, query, residentID)
}

func (s *paymentStorage) queryPayments(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID, &p.CreatedAt, &p.ResidentID, &p.AmountCents, &p.Type,
			&p.DueDate, &p.PaidDate, &p.Status, &p.Method, &p.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return payments, nil
}

func (s *paymentStorage) FindByID(ctx context.Context, id string) (model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p model.Payment
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CreatedAt, &p.ResidentID, &p.AmountCents, &p.Type,
		&p.DueDate, &p.PaidDate, &p.Status, &p.Method, &p.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, appErr.NewNotFound("payment %s", id)
		}
		return model.Payment{}, fmt.Errorf("find by id failed: %w", err)
	}
	return p, nil
}

func (s *paymentStorage) UpdateStatus(ctx context.Context, id, status string, paidDate *time.Time, method string) error {
	const query = `
		UPDATE payments
		SET status = $1,
		    paid_date = COALESCE($2, paid_date),
		    payment_method = CASE WHEN $3 <> '' THEN $3 ELSE payment_method END
		WHERE id = $4
	`

	tag, err := s.db.Exec(ctx, query, status, paidDate, method, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appErr.NewNotFound("payment %s", id)
	}
	return nil
}
