package sweeper

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

type capturePublisher struct {
	events []model.NotificationEvent
}

func (p *capturePublisher) Publish(ctx context.Context, ev model.NotificationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func TestSweeper_ReportsEachOverduePaymentOnce(t *testing.T) {
	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	payments := []model.Payment{
		{ID: "p1", ResidentID: "res-1", AmountCents: 50000, Type: model.PaymentTypeRent,
			Status: model.PaymentPending, DueDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", ResidentID: "res-1", AmountCents: 50000, Type: model.PaymentTypeRent,
			Status: model.PaymentPending, DueDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p3", ResidentID: "res-2", AmountCents: 25000, Type: model.PaymentTypeFee,
			Status: model.PaymentPaid, DueDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	payStore := storage.NewMockPaymentStorage(t)
	payStore.On("FindAll", mock.Anything).Return(payments, nil).Twice()

	resStore := storage.NewMockResidentStorage(t)
	resStore.On("FindByID", mock.Anything, "res-1").
		Return(model.Resident{ID: "res-1", FirstName: "Jamie", LastName: "Rivera"}, nil)

	pub := &capturePublisher{}
	s := New(payStore, resStore, pub, time.Hour, slog.Default())
	s.now = func() time.Time { return now }

	s.Sweep(context.Background())

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Type != model.NotifPaymentOverdue || ev.RelatedID != "p1" {
		t.Errorf("event = %+v, want payment_overdue for p1", ev)
	}

	// A second sweep must not re-announce the same payment.
	s.Sweep(context.Background())
	if len(pub.events) != 1 {
		t.Errorf("published %d events after second sweep, want 1", len(pub.events))
	}
}
