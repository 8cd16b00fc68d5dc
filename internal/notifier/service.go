package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/havenhouse/hms/internal/model"
)

// ChangePublisher announces persisted rows to the changes topic so live
// dashboard feeds pick them up.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change model.NotificationChange) error
}

// Service ingests notification events and delivers the persisted rows.
type Service interface {
	// Start the background delivery workers
	Start(ctx context.Context) error
	// Ingest persists an event as a notification row and announces it
	Ingest(ctx context.Context, event model.NotificationEvent) error
}

type service struct {
	store       NotificationStore
	delivery    DeliveryService
	changes     ChangePublisher
	workerLimit int
	interval    time.Duration
	l           *slog.Logger
}

func NewService(
	store NotificationStore,
	delivery DeliveryService,
	changes ChangePublisher,
	workerLimit int,
	interval time.Duration,
	logger *slog.Logger,
) Service {
	return &service{
		store:       store,
		delivery:    delivery,
		changes:     changes,
		workerLimit: workerLimit,
		interval:    interval,
		l:           logger,
	}
}

// Ingest persists the event and publishes an insert change. Change
// publication is best-effort; the row is already durable.
func (s *service) Ingest(ctx context.Context, event model.NotificationEvent) error {
	if event.Title == "" && event.Message == "" {
		return fmt.Errorf("event has no content")
	}

	createdAt := event.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if event.Type == "" {
		event.Type = model.NotifGeneral
	}

	rec := &Record{
		Notification: model.Notification{
			ID:          uuid.New().String(),
			CreatedAt:   createdAt,
			Title:       event.Title,
			Message:     event.Message,
			Type:        event.Type,
			IsRead:      false,
			RelatedID:   event.RelatedID,
			RelatedType: event.RelatedType,
		},
		DeliveryStatus: DeliveryPending,
	}

	s.l.Info("Queuing new notification for processing", slog.String("type", rec.Type))

	if err := s.store.Save(ctx, rec); err != nil {
		s.l.Error("Failed to save notification to store", slog.String("type", rec.Type), slog.Any("error", err))
		return err
	}

	change := model.NotificationChange{Kind: model.ChangeInsert, Notification: rec.Notification}
	if err := s.changes.PublishChange(ctx, change); err != nil {
		s.l.Warn("Failed to publish insert change", slog.String("id", rec.ID), slog.Any("error", err))
	}
	return nil
}

// Start begins periodic processing of queued notifications
func (s *service) Start(ctx context.Context) error {
	s.l.InfoContext(ctx, "Starting delivery worker", slog.Int("max_workers", s.workerLimit))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.l.InfoContext(ctx, "Notifier service shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.processBatch(ctx); err != nil {
				s.l.Error("Error processing delivery batch", slog.Any("error", err))
			}
		}
	}
}

// processBatch fetches pending rows and delivers them concurrently
func (s *service) processBatch(ctx context.Context) error {
	recs, err := s.store.GetPending(ctx)
	if err != nil {
		s.l.ErrorContext(ctx, "Error fetching pending notifications from store", slog.Any("error", err))
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	s.l.InfoContext(ctx, "Processing batch of pending notifications", slog.Int("count", len(recs)))

	eg, ctx := errgroup.WithContext(ctx)
	// Buffered channel acts as a semaphore limiting concurrency.
	sem := make(chan struct{}, s.workerLimit)

	for _, rec := range recs {
		rec := rec
		sem <- struct{}{}
		eg.Go(func() error {
			defer func() { <-sem }()
			return s.processRecord(ctx, &rec)
		})
	}
	return eg.Wait()
}

// processRecord handles delivery and updates the delivery status
func (s *service) processRecord(ctx context.Context, rec *Record) error {
	start := time.Now()
	s.l.InfoContext(ctx, "Attempting to deliver notification", slog.String("id", rec.ID), slog.String("type", rec.Type))

	if err := s.delivery.Deliver(ctx, rec); err != nil {
		s.l.ErrorContext(ctx, "Notification delivery failed", slog.String("id", rec.ID), slog.Any("error", err))
		if updateErr := s.store.UpdateDelivery(ctx, rec.ID, DeliveryFailed); updateErr != nil {
			s.l.ErrorContext(ctx, "Failed to update status to failed after delivery error",
				slog.String("id", rec.ID), slog.Any("delivery_error", err), slog.Any("update_error", updateErr))
			return fmt.Errorf("delivery failed: %w; status update to 'failed' also failed: %w", err, updateErr)
		}
		return err
	}

	s.l.InfoContext(ctx, "Notification delivery succeeded",
		slog.String("id", rec.ID), slog.Duration("duration", time.Since(start)))

	if err := s.store.UpdateDelivery(ctx, rec.ID, DeliverySent); err != nil {
		s.l.Error("Failed to update status to sent after successful delivery", slog.String("id", rec.ID), slog.Any("error", err))
		return err
	}
	return nil
}
