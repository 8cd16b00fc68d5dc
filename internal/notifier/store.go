// Package notifier is the worker that turns published notification events
// into persisted notification rows and delivers them out-of-band.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/havenhouse/hms/internal/config"
	"github.com/havenhouse/hms/internal/model"
)

// Delivery statuses tracked by the worker. The API never reads these.
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// Record is a notification row plus its delivery bookkeeping.
type Record struct {
	model.Notification
	DeliveryStatus string `db:"delivery_status"`
}

// NotificationStore defines DB operations for the worker.
// Rows are persisted first, delivered asynchronously after.
type NotificationStore interface {
	Save(ctx context.Context, rec *Record) error
	GetPending(ctx context.Context) ([]Record, error)
	UpdateDelivery(ctx context.Context, id string, status string) error
	Ping(ctx context.Context) error
}

type postgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) (NotificationStore, error) {
	return &postgresStore{db: db}, nil
}

// Save inserts a new notification row with delivery status pending
func (s *postgresStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	query := `INSERT INTO notifications
		(id, created_at, title, message, type, is_read, related_id, related_type, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.CreatedAt, rec.Title, rec.Message, rec.Type,
		rec.IsRead, rec.RelatedID, rec.RelatedType, rec.DeliveryStatus)
	return err
}

// GetPending returns rows whose delivery has not completed yet
func (s *postgresStore) GetPending(ctx context.Context) ([]Record, error) {
	var recs []Record
	query := `SELECT id, created_at, title, message, type, is_read, related_id, related_type, delivery_status
		FROM notifications WHERE delivery_status = $1`
	err := s.db.SelectContext(ctx, &recs, query, DeliveryPending)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// UpdateDelivery updates a row's delivery status
func (s *postgresStore) UpdateDelivery(ctx context.Context, id string, status string) error {
	query := "UPDATE notifications SET delivery_status=$1 WHERE id=$2"
	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.New("no rows were updated, check if the ID is correct")
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ConnectPostgres opens and verifies the worker's connection pool
func ConnectPostgres(dbCfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(dbCfg.MaxOpenConn)
	db.SetConnMaxIdleTime(dbCfg.ConnMaxIdle)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}
