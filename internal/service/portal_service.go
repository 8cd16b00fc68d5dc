package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

// PortalProfile is everything the resident portal shows on a single page.
type PortalProfile struct {
	Resident  model.Resident   `json:"resident"`
	Payments  []PaymentView    `json:"payments"`
	Documents []model.Document `json:"documents"`
}

type PortalService interface {
	Login(ctx context.Context, phone string) (string, *model.Resident, error)
	Profile(ctx context.Context, residentID string) (*PortalProfile, error)
}

type portalService struct {
	residents storage.ResidentStorage
	payments  storage.PaymentStorage
	documents storage.DocumentStorage
	tokens    TokenService
	logger    *slog.Logger

	now func() time.Time
}

func NewPortalService(
	residents storage.ResidentStorage,
	payments storage.PaymentStorage,
	documents storage.DocumentStorage,
	tokens TokenService,
	logger *slog.Logger,
) PortalService {
	l := logger.With("layer", "service", "component", "portalService")
	return &portalService{
		residents: residents,
		payments:  payments,
		documents: documents,
		tokens:    tokens,
		logger:    l,
		now:       time.Now,
	}
}

// normalizePhone strips formatting so "(555) 123-4567" and "5551234567"
// resolve to the same resident.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *portalService) Login(ctx context.Context, phone string) (string, *model.Resident, error) {
	normalized := normalizePhone(strings.TrimSpace(phone))
	if normalized == "" {
		return "", nil, appErr.NewInvalidInput("phone is required")
	}

	resident, err := s.residents.FindActiveByPhone(ctx, normalized)
	if err != nil {
		if appErr.IsNotFound(err) {
			s.logger.Warn("Portal login failed: no active resident for phone")
			return "", nil, appErr.NewUnauthorized("invalid phone number")
		}
		s.logger.Error("Failed to look up resident", slog.Any("error", err))
		return "", nil, appErr.NewInternal("failed to look up resident: %v", err)
	}

	token, err := s.tokens.GenerateResidentToken(&resident)
	if err != nil {
		s.logger.Error("Failed to generate resident token", slog.Any("error", err))
		return "", nil, appErr.NewInternal("failed to generate token: %v", err)
	}

	s.logger.Info("Portal login succeeded", slog.String("resident_id", resident.ID))
	return token, &resident, nil
}

func (s *portalService) Profile(ctx context.Context, residentID string) (*PortalProfile, error) {
	resident, err := s.residents.FindByID(ctx, residentID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("Failed to fetch resident", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch resident: %v", err)
	}

	payments, err := s.payments.FindByResident(ctx, residentID)
	if err != nil {
		s.logger.Error("Failed to fetch payments", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch payments: %v", err)
	}
	documents, err := s.documents.FindByResident(ctx, residentID)
	if err != nil {
		s.logger.Error("Failed to fetch documents", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch documents: %v", err)
	}

	now := s.now()
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{Payment: p, DisplayStatus: p.EffectiveStatus(now)})
	}
	if documents == nil {
		documents = []model.Document{}
	}

	return &PortalProfile{Resident: resident, Payments: views, Documents: documents}, nil
}
