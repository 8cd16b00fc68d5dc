package storage

import (
	"context"
	"time"

	"github.com/havenhouse/hms/internal/model"
)

type ApplicationStorage interface {
	Save(ctx context.Context, app *model.Application) error
	FindAll(ctx context.Context) ([]model.Application, error)
	FindByID(ctx context.Context, id string) (model.Application, error)
	Review(ctx context.Context, id, status, reviewer, notes string, reviewedAt time.Time) error
	Ping(ctx context.Context) error
}

type ResidentStorage interface {
	Save(ctx context.Context, res *model.Resident) error
	FindAll(ctx context.Context) ([]model.Resident, error)
	FindByID(ctx context.Context, id string) (model.Resident, error)
	FindActiveByPhone(ctx context.Context, phone string) (model.Resident, error)
	Update(ctx context.Context, res *model.Resident) error
	MoveOut(ctx context.Context, id string, moveOutDate time.Time) error
}

type PaymentStorage interface {
	Save(ctx context.Context, p *model.Payment) error
	FindAll(ctx context.Context) ([]model.Payment, error)
	FindByID(ctx context.Context, id string) (model.Payment, error)
	FindByResident(ctx context.Context, residentID string) ([]model.Payment, error)
	UpdateStatus(ctx context.Context, id, status string, paidDate *time.Time, method string) error
}

type NotificationStorage interface {
	FindRecent(ctx context.Context, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkManyRead(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
}

type StaffStorage interface {
	FindActiveByEmail(ctx context.Context, email string) (model.StaffUser, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type IncidentStorage interface {
	Save(ctx context.Context, inc *model.Incident) error
	FindAll(ctx context.Context) ([]model.Incident, error)
}

type DocumentStorage interface {
	FindByResident(ctx context.Context, residentID string) ([]model.Document, error)
}
