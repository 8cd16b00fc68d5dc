package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/havenhouse/hms/internal/analytics"
	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/storage"
)

type AnalyticsService interface {
	Report(ctx context.Context, timeframe string) (*analytics.Report, error)
	Dashboard(ctx context.Context) (*analytics.DashboardStats, error)
}

type analyticsService struct {
	applications storage.ApplicationStorage
	residents    storage.ResidentStorage
	payments     storage.PaymentStorage
	capacity     int
	logger       *slog.Logger

	now func() time.Time
}

func NewAnalyticsService(
	applications storage.ApplicationStorage,
	residents storage.ResidentStorage,
	payments storage.PaymentStorage,
	capacity int,
	logger *slog.Logger,
) AnalyticsService {
	l := logger.With("layer", "service", "component", "analyticsService")
	return &analyticsService{
		applications: applications,
		residents:    residents,
		payments:     payments,
		capacity:     capacity,
		logger:       l,
		now:          time.Now,
	}
}

func (s *analyticsService) Report(ctx context.Context, timeframe string) (*analytics.Report, error) {
	tf := analytics.ParseTimeframe(timeframe)

	apps, err := s.applications.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch applications", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch applications: %v", err)
	}
	residents, err := s.residents.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch residents", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch residents: %v", err)
	}
	payments, err := s.payments.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch payments", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch payments: %v", err)
	}

	report := analytics.BuildReport(apps, residents, payments, tf, s.now(), s.capacity)
	return &report, nil
}

func (s *analyticsService) Dashboard(ctx context.Context) (*analytics.DashboardStats, error) {
	apps, err := s.applications.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch applications", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch applications: %v", err)
	}
	residents, err := s.residents.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch residents", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch residents: %v", err)
	}
	payments, err := s.payments.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch payments", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch payments: %v", err)
	}

	stats := analytics.BuildDashboardStats(apps, residents, payments, s.now(), s.capacity)
	return &stats, nil
}
