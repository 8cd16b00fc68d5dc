package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
)

type notificationStorage struct {
	db *pgxpool.Pool
}

func NewNotificationStorage(pool *pgxpool.Pool) NotificationStorage {
	return &notificationStorage{db: pool}
}

func (s *notificationStorage) FindRecent(ctx context.Context, limit int) ([]model.Notification, error) {
	const query = `
		SELECT id, created_at, title, message, type, is_read, related_id, related_type
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var notifs []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID, &n.CreatedAt, &n.Title, &n.Message, &n.Type, &n.IsRead,
			&n.RelatedID, &n.RelatedType,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		notifs = append(notifs, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return notifs, nil
}

func (s *notificationStorage) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appErr.NewNotFound("notification %s", id)
	}
	return nil
}

// MarkManyRead flips a batch in one statement; a no-op for an empty batch.
func (s *notificationStorage) MarkManyRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = ANY($1)`

	if _, err := s.db.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *notificationStorage) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notifications WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return appErr.NewNotFound("notification %s", id)
	}
	return nil
}
