package notifier

import (
	"context"
	"log/slog"
	"time"
)

// DeliveryService handles the actual out-of-band delivery of a notification
// (email, SMS, webhook). The default implementation only logs; real
// channels plug in behind this interface.
type DeliveryService interface {
	Deliver(ctx context.Context, rec *Record) error
}

type deliveryService struct {
	log *slog.Logger
}

func NewDeliveryService(log *slog.Logger) DeliveryService {
	return &deliveryService{log: log}
}

func (s *deliveryService) Deliver(ctx context.Context, rec *Record) error {
	s.log.Info("Simulating delivery",
		slog.String("type", rec.Type),
		slog.String("title", rec.Title))
	time.Sleep(500 * time.Millisecond) // simulating network latency for now
	return nil
}
