package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/metrics"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

var (
	phoneRegex = regexp.MustCompile(`^[\+]?[1-9]?[\d\s\-\(\)]{10,15}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// EventPublisher queues notification events for the notifier worker.
// Publication is best effort throughout: callers log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.NotificationEvent) error
}

// SubmitApplicationInput is the contact-form payload.
type SubmitApplicationInput struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	SobrietyDate     string `json:"sobrietyDate"`
	EmploymentStatus string `json:"employmentStatus"`
	HousingNeeded    string `json:"housingNeeded"`
	Message          string `json:"message"`
}

type ApplicationService interface {
	Submit(ctx context.Context, in SubmitApplicationInput) (*model.Application, error)
	GetAll(ctx context.Context) ([]model.Application, error)
	Review(ctx context.Context, id, status, reviewer, notes string) error
	ConvertToResident(ctx context.Context, id, reviewer string) (*model.Resident, error)
}

type applicationService struct {
	store     storage.ApplicationStorage
	residents storage.ResidentStorage
	publisher EventPublisher
	logger    *slog.Logger
}

// defaultRentCents is the rent assigned to a freshly converted resident
// until staff edit it.
const defaultRentCents int64 = 50000

func NewApplicationService(store storage.ApplicationStorage, residents storage.ResidentStorage, publisher EventPublisher, logger *slog.Logger) ApplicationService {
	l := logger.With("layer", "service", "component", "applicationService")
	return &applicationService{store: store, residents: residents, publisher: publisher, logger: l}
}

// Submit validates and persists a new application. Duplicate phones are
// rejected by the storage unique constraint, so two concurrent
// submissions can never both land.
func (s *applicationService) Submit(ctx context.Context, in SubmitApplicationInput) (*model.Application, error) {
	s.logger.Info("Submit called", slog.String("phone", in.Phone))

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)

	if in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		return nil, appErr.NewInvalidInput("first name, last name, and phone are required")
	}
	if !phoneRegex.MatchString(in.Phone) {
		return nil, appErr.NewInvalidInput("please provide a valid phone number")
	}
	if in.Email != "" && !emailRegex.MatchString(in.Email) {
		return nil, appErr.NewInvalidInput("please provide a valid email address")
	}

	app := &model.Application{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now(),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Email:            in.Email,
		EmploymentStatus: strings.TrimSpace(in.EmploymentStatus),
		HousingNeeded:    strings.TrimSpace(in.HousingNeeded),
		Message:          strings.TrimSpace(in.Message),
		Status:           model.ApplicationPending,
	}

	if in.SobrietyDate != "" {
		d, err := time.Parse("2006-01-02", in.SobrietyDate)
		if err != nil {
			return nil, appErr.NewInvalidInput("invalid sobriety date")
		}
		app.SobrietyDate = &d
	}

	if err := s.store.Save(ctx, app); err != nil {
		if appErr.IsConflict(err) {
			s.logger.Warn("Duplicate application phone", slog.String("phone", in.Phone))
			return nil, err
		}
		s.logger.Error("Failed to save application", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to save application: %v", err)
	}

	metrics.ApplicationsSubmitted.Inc()

	s.publish(ctx, model.NotificationEvent{
		Title:       "New Application",
		Message:     fmt.Sprintf("New application from %s %s (%s)", app.FirstName, app.LastName, app.Phone),
		Type:        model.NotifNewApplication,
		RelatedID:   app.ID,
		RelatedType: "application",
		Timestamp:   app.CreatedAt,
	})

	s.logger.Info("Submit succeeded", slog.String("id", app.ID))
	return app, nil
}

func (s *applicationService) GetAll(ctx context.Context) ([]model.Application, error) {
	apps, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch applications", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch applications: %v", err)
	}
	return apps, nil
}

func (s *applicationService) Review(ctx context.Context, id, status, reviewer, notes string) error {
	s.logger.Info("Review called", slog.String("id", id), slog.String("status", status))

	switch status {
	case model.ApplicationApproved, model.ApplicationRejected, model.ApplicationContacted, model.ApplicationPending:
	default:
		return appErr.NewInvalidInput("unknown application status %q", status)
	}

	if err := s.store.Review(ctx, id, status, reviewer, notes, time.Now()); err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		s.logger.Error("Failed to review application", slog.String("id", id), slog.Any("error", err))
		return appErr.NewInternal("failed to review application: %v", err)
	}
	return nil
}

// ConvertToResident turns an approved application into an active
// resident, copying the personal fields and stamping move-in as today.
func (s *applicationService) ConvertToResident(ctx context.Context, id, reviewer string) (*model.Resident, error) {
	s.logger.Info("ConvertToResident called", slog.String("id", id))

	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("Failed to fetch application", slog.String("id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch application: %v", err)
	}

	now := time.Now()
	res := &model.Resident{
		ID:               uuid.New().String(),
		CreatedAt:        now,
		FirstName:        app.FirstName,
		LastName:         app.LastName,
		Phone:            app.Phone,
		Email:            app.Email,
		SobrietyDate:     app.SobrietyDate,
		MoveInDate:       now,
		EmploymentStatus: app.EmploymentStatus,
		Status:           model.ResidentActive,
		MonthlyRentCents: defaultRentCents,
		ApplicationID:    app.ID,
	}

	if err := s.residents.Save(ctx, res); err != nil {
		s.logger.Error("Failed to create resident", slog.String("application_id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to create resident: %v", err)
	}

	if err := s.store.Review(ctx, id, model.ApplicationApproved, reviewer, "Converted to resident", now); err != nil {
		s.logger.Error("Failed to mark application approved", slog.String("id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to mark application approved: %v", err)
	}

	s.logger.Info("ConvertToResident succeeded", slog.String("application_id", id), slog.String("resident_id", res.ID))
	return res, nil
}

func (s *applicationService) publish(ctx context.Context, ev model.NotificationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish notification event", slog.String("type", ev.Type), slog.Any("error", err))
	}
}
