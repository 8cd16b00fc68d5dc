package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

type IncidentService interface {
	GetAll(ctx context.Context) ([]model.Incident, error)
	Record(ctx context.Context, inc *model.Incident) error
}

type incidentService struct {
	store     storage.IncidentStorage
	publisher EventPublisher
	logger    *slog.Logger
}

func NewIncidentService(store storage.IncidentStorage, publisher EventPublisher, logger *slog.Logger) IncidentService {
	l := logger.With("layer", "service", "component", "incidentService")
	return &incidentService{store: store, publisher: publisher, logger: l}
}

func (s *incidentService) GetAll(ctx context.Context) ([]model.Incident, error) {
	incidents, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch incidents", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch incidents: %v", err)
	}
	return incidents, nil
}

func (s *incidentService) Record(ctx context.Context, inc *model.Incident) error {
	s.logger.Info("Record called", slog.String("resident_id", inc.ResidentID))

	if inc.ResidentID == "" || inc.Description == "" {
		return appErr.NewInvalidInput("resident id and description are required")
	}
	switch inc.Severity {
	case model.SeverityMinor, model.SeverityMajor, model.SeveritySevere:
	default:
		return appErr.NewInvalidInput("unknown severity %q", inc.Severity)
	}

	if inc.ID == "" {
		inc.ID = uuid.New().String()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now()
	}

	if err := s.store.Save(ctx, inc); err != nil {
		s.logger.Error("Failed to save incident", slog.Any("error", err))
		return appErr.NewInternal("failed to save incident: %v", err)
	}

	if s.publisher != nil {
		ev := model.NotificationEvent{
			Title:       "Incident Reported",
			Message:     fmt.Sprintf("%s incident: %s", inc.Severity, inc.Description),
			Type:        model.NotifIncident,
			RelatedID:   inc.ID,
			RelatedType: "incident",
			Timestamp:   inc.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("Failed to publish incident event", slog.Any("error", err))
		}
	}

	s.logger.Info("Record succeeded", slog.String("id", inc.ID))
	return nil
}
