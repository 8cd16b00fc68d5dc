// Package sweeper periodically scans payments for ones that have slipped
// past their due date and raises a payment_overdue notification event for
// each. Stored status is never touched, overdue is a derived state.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/havenhouse/hms/internal/metrics"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/service"
	"github.com/havenhouse/hms/internal/storage"
)

type Sweeper struct {
	payments  storage.PaymentStorage
	residents storage.ResidentStorage
	publisher service.EventPublisher
	logger    *slog.Logger
	interval  time.Duration

	// seen tracks payment ids already reported this process lifetime so a
	// payment is announced once, not on every tick.
	seen map[string]struct{}

	now func() time.Time
}

func New(
	payments storage.PaymentStorage,
	residents storage.ResidentStorage,
	publisher service.EventPublisher,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		payments:  payments,
		residents: residents,
		publisher: publisher,
		logger:    logger.With("layer", "sweeper", "component", "overdueSweeper"),
		interval:  interval,
		seen:      make(map[string]struct{}),
		now:       time.Now,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Overdue sweeper started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First pass immediately so a restart does not wait a full interval.
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Overdue sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one scan over all payments and publishes an event per payment
// that is newly overdue.
func (s *Sweeper) Sweep(ctx context.Context) {
	payments, err := s.payments.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch payments", slog.Any("error", err))
		return
	}

	now := s.now()
	for _, p := range payments {
		if p.EffectiveStatus(now) != model.PaymentOverdue {
			continue
		}
		if _, ok := s.seen[p.ID]; ok {
			continue
		}

		who := p.ResidentID
		if resident, err := s.residents.FindByID(ctx, p.ResidentID); err == nil {
			who = resident.FirstName + " " + resident.LastName
		}

		ev := model.NotificationEvent{
			Title: "Payment Overdue",
			Message: fmt.Sprintf("%s has an overdue %s payment of $%.2f due %s",
				who, p.Type, float64(p.AmountCents)/100, p.DueDate.Format("Jan 2, 2006")),
			Type:        model.NotifPaymentOverdue,
			RelatedID:   p.ID,
			RelatedType: "payment",
			Timestamp:   now,
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Error("Failed to publish overdue event",
				slog.String("payment_id", p.ID),
				slog.Any("error", err))
			continue
		}

		s.seen[p.ID] = struct{}{}
		metrics.OverduePayments.Inc()
		s.logger.Info("Overdue payment reported",
			slog.String("payment_id", p.ID),
			slog.String("resident_id", p.ResidentID))
	}
}
