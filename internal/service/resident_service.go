package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

type ResidentService interface {
	GetAll(ctx context.Context) ([]model.Resident, error)
	GetByID(ctx context.Context, id string) (*model.Resident, error)
	Update(ctx context.Context, res *model.Resident) error
	MoveOut(ctx context.Context, id string) error
}

type residentService struct {
	store     storage.ResidentStorage
	publisher EventPublisher
	logger    *slog.Logger
}

func NewResidentService(store storage.ResidentStorage, publisher EventPublisher, logger *slog.Logger) ResidentService {
	l := logger.With("layer", "service", "component", "residentService")
	return &residentService{store: store, publisher: publisher, logger: l}
}

func (s *residentService) GetAll(ctx context.Context) ([]model.Resident, error) {
	residents, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch residents", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch residents: %v", err)
	}
	return residents, nil
}

func (s *residentService) GetByID(ctx context.Context, id string) (*model.Resident, error) {
	res, err := s.store.FindByID(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("Failed to fetch resident", slog.String("id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch resident: %v", err)
	}
	return &res, nil
}

func (s *residentService) Update(ctx context.Context, res *model.Resident) error {
	s.logger.Info("Update called", slog.String("id", res.ID))

	if err := s.store.Update(ctx, res); err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		s.logger.Error("Failed to update resident", slog.String("id", res.ID), slog.Any("error", err))
		return appErr.NewInternal("failed to update resident: %v", err)
	}
	return nil
}

// MoveOut stamps the move-out date and flips status. The row stays;
// residents are never hard-deleted.
func (s *residentService) MoveOut(ctx context.Context, id string) error {
	s.logger.Info("MoveOut called", slog.String("id", id))

	res, err := s.store.FindByID(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		s.logger.Error("Failed to fetch resident", slog.String("id", id), slog.Any("error", err))
		return appErr.NewInternal("failed to fetch resident: %v", err)
	}

	now := time.Now()
	if err := s.store.MoveOut(ctx, id, now); err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		s.logger.Error("Failed to move out resident", slog.String("id", id), slog.Any("error", err))
		return appErr.NewInternal("failed to move out resident: %v", err)
	}

	if s.publisher != nil {
		ev := model.NotificationEvent{
			Title:       "Resident Moved Out",
			Message:     fmt.Sprintf("%s %s moved out", res.FirstName, res.LastName),
			Type:        model.NotifMoveOut,
			RelatedID:   res.ID,
			RelatedType: "resident",
			Timestamp:   now,
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("Failed to publish move-out event", slog.String("id", id), slog.Any("error", err))
		}
	}

	s.logger.Info("MoveOut succeeded", slog.String("id", id))
	return nil
}
