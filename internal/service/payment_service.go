package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

// PaymentView is a payment plus the status the dashboard should show,
// derived at read time so stored and displayed state cannot drift apart.
type PaymentView struct {
	model.Payment
	DisplayStatus string `json:"display_status"`
}

type PaymentService interface {
	GetAll(ctx context.Context) ([]PaymentView, error)
	Record(ctx context.Context, p *model.Payment) error
	MarkPaid(ctx context.Context, id string, paidDate *time.Time, method string) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type paymentService struct {
	store  storage.PaymentStorage
	logger *slog.Logger
	now    func() time.Time
}

func NewPaymentService(store storage.PaymentStorage, logger *slog.Logger) PaymentService {
	l := logger.With("layer", "service", "component", "paymentService")
	return &paymentService{store: store, logger: l, now: time.Now}
}

func (s *paymentService) GetAll(ctx context.Context) ([]PaymentView, error) {
	payments, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch payments", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch payments: %v", err)
	}

	now := s.now()
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{Payment: p, DisplayStatus: p.EffectiveStatus(now)})
	}
	return views, nil
}

func (s *paymentService) Record(ctx context.Context, p *model.Payment) error {
	s.logger.Info("Record called", slog.String("resident_id", p.ResidentID))

	if p.ResidentID == "" {
		return appErr.NewInvalidInput("resident id is required")
	}
	if p.AmountCents <= 0 && p.Type != model.PaymentTypeRefund {
		return appErr.NewInvalidInput("amount must be positive")
	}
	switch p.Type {
	case model.PaymentTypeRent, model.PaymentTypeDeposit, model.PaymentTypeFee, model.PaymentTypeRefund:
	default:
		return appErr.NewInvalidInput("unknown payment type %q", p.Type)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.Status == "" {
		p.Status = model.PaymentPending
	}

	if err := s.store.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save payment", slog.Any("error", err))
		return appErr.NewInternal("failed to save payment: %v", err)
	}

	s.logger.Info("Record succeeded", slog.String("id", p.ID))
	return nil
}

// MarkPaid stamps the paid date (defaulting to now) and optional method.
func (s *paymentService) MarkPaid(ctx context.Context, id string, paidDate *time.Time, method string) error {
	s.logger.Info("MarkPaid called", slog.String("id", id))

	if paidDate == nil {
		now := s.now()
		paidDate = &now
	}

	if err := s.store.UpdateStatus(ctx, id, model.PaymentPaid, paidDate, method); err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		s.logger.Error("Failed to mark payment paid", slog.String("id", id), slog.Any("error", err))
		return appErr.NewInternal("failed to mark payment paid: %v", err)
	}
	return nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, id, status string) error {
	s.logger.Info("UpdateStatus called", slog.String("id", id), slog.String("status", status))

	switch status {
	case model.PaymentPending, model.PaymentOverdue, model.PaymentPartial:
	case model.PaymentPaid:
		return s.MarkPaid(ctx, id, nil, "")
	default:
		return appErr.NewInvalidInput("unknown payment status %q", status)
	}

	if err := s.store.UpdateStatus(ctx, id, status, nil, ""); err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		s.logger.Error("Failed to update payment status", slog.String("id", id), slog.Any("error", err))
		return appErr.NewInternal("failed to update payment status: %v", err)
	}
	return nil
}
