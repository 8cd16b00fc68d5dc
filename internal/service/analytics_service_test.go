package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/havenhouse/hms/internal/analytics"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

func analyticsFixture(t *testing.T) (*storage.MockApplicationStorage, *storage.MockResidentStorage, *storage.MockPaymentStorage) {
	t.Helper()
	return storage.NewMockApplicationStorage(t),
		storage.NewMockResidentStorage(t),
		storage.NewMockPaymentStorage(t)
}

func TestAnalyticsService_Report(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	apps, residents, payments := analyticsFixture(t)
	apps.On("FindAll", mock.Anything).Return([]model.Application{
		{ID: "app-1", Status: model.ApplicationPending, CreatedAt: now.AddDate(0, -1, 0)},
	}, nil)
	residents.On("FindAll", mock.Anything).Return([]model.Resident{
		{ID: "res-1", Status: model.ResidentActive},
	}, nil)
	payments.On("FindAll", mock.Anything).Return([]model.Payment{
		{ID: "p1", ResidentID: "res-1", AmountCents: 50000, Type: model.PaymentTypeRent,
			Status: model.PaymentPending, DueDate: now.AddDate(0, 0, -10)},
	}, nil)

	svc := NewAnalyticsService(apps, residents, payments, 10, slog.Default())
	svc.(*analyticsService).now = func() time.Time { return now }

	report, err := svc.Report(context.Background(), "6m")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report == nil {
		t.Fatal("Report() = nil, want report")
	}
	if report.Timeframe != analytics.Timeframe6Months {
		t.Errorf("Timeframe = %q, want 6m", report.Timeframe)
	}
	if report.Payments.OverdueCents != 50000 {
		t.Errorf("OverdueCents = %d, want 50000", report.Payments.OverdueCents)
	}
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	apps, residents, payments := analyticsFixture(t)
	apps.On("FindAll", mock.Anything).Return(nil, nil)
	residents.On("FindAll", mock.Anything).Return([]model.Resident{
		{ID: "res-1", Status: model.ResidentActive},
		{ID: "res-2", Status: model.ResidentMovedOut},
	}, nil)
	payments.On("FindAll", mock.Anything).Return(nil, nil)

	svc := NewAnalyticsService(apps, residents, payments, 10, slog.Default())
	svc.(*analyticsService).now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if stats == nil {
		t.Fatal("Dashboard() = nil, want stats")
	}
	if stats.Residents.Total != 2 || stats.Residents.Active != 1 {
		t.Errorf("Residents = %+v, want 2 total with 1 active", stats.Residents)
	}
}

func TestAnalyticsService_ReportStorageError(t *testing.T) {
	apps, residents, payments := analyticsFixture(t)
	apps.On("FindAll", mock.Anything).Return(nil, errors.New("db down"))

	svc := NewAnalyticsService(apps, residents, payments, 10, slog.Default())

	if _, err := svc.Report(context.Background(), "all"); err == nil {
		t.Fatal("Report() error = nil, want error")
	}
}
