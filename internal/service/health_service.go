package service

import (
	"context"
	"log/slog"

	"github.com/havenhouse/hms/internal/storage"
)

type HealthService interface {
	Check(ctx context.Context) error
}

type healthService struct {
	store  storage.ApplicationStorage
	logger *slog.Logger
}

func NewHealthService(store storage.ApplicationStorage, logger *slog.Logger) HealthService {
	l := logger.With("layer", "service", "component", "healthService")
	return &healthService{store: store, logger: l}
}

func (s *healthService) Check(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("Health check failed", slog.Any("error", err))
		return err
	}
	return nil
}
