package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

type stubPublisher struct {
	events []model.NotificationEvent
	err    error
}

func (p *stubPublisher) Publish(ctx context.Context, ev model.NotificationEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

// Test_applicationService_Submit tests the Submit method of the
// applicationService. Table Driven Test Pattern used
func Test_applicationService_Submit(t *testing.T) {
	mockLogger := slog.Default()

	validInput := SubmitApplicationInput{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Phone:     "555-123-4567",
		Email:     "jamie@example.com",
	}

	type fields struct {
		store     storage.ApplicationStorage
		publisher EventPublisher
	}
	type args struct {
		in SubmitApplicationInput
	}
	tests := []struct {
		name        string
		fields      fields
		args        args
		wantErr     bool
		wantErrIs   func(error) bool
		wantPending bool
	}{
		{
			name: "successful submission",
			fields: fields{
				store: func() storage.ApplicationStorage {
					sut := storage.NewMockApplicationStorage(t)
					sut.On("Save", mock.Anything, mock.AnythingOfType("*model.Application")).Return(nil)
					return sut
				}(),
				publisher: &stubPublisher{},
			},
			args:        args{in: validInput},
			wantErr:     false,
			wantPending: true,
		},
		{
			name: "missing first name",
			fields: fields{
				store:     storage.NewMockApplicationStorage(t),
				publisher: &stubPublisher{},
			},
			args: args{in: SubmitApplicationInput{
				LastName: "Rivera",
				Phone:    "555-123-4567",
			}},
			wantErr:   true,
			wantErrIs: appErr.IsInvalidInput,
		},
		{
			name: "invalid phone",
			fields: fields{
				store:     storage.NewMockApplicationStorage(t),
				publisher: &stubPublisher{},
			},
			args: args{in: SubmitApplicationInput{
				FirstName: "Jamie",
				LastName:  "Rivera",
				Phone:     "123",
			}},
			wantErr:   true,
			wantErrIs: appErr.IsInvalidInput,
		},
		{
			name: "invalid email",
			fields: fields{
				store:     storage.NewMockApplicationStorage(t),
				publisher: &stubPublisher{},
			},
			args: args{in: SubmitApplicationInput{
				FirstName: "Jamie",
				LastName:  "Rivera",
				Phone:     "555-123-4567",
				Email:     "not-an-email",
			}},
			wantErr:   true,
			wantErrIs: appErr.IsInvalidInput,
		},
		{
			name: "invalid sobriety date",
			fields: fields{
				store:     storage.NewMockApplicationStorage(t),
				publisher: &stubPublisher{},
			},
			args: args{in: SubmitApplicationInput{
				FirstName:    "Jamie",
				LastName:     "Rivera",
				Phone:        "555-123-4567",
				SobrietyDate: "garbage",
			}},
			wantErr:   true,
			wantErrIs: appErr.IsInvalidInput,
		},
		{
			name: "duplicate phone surfaces conflict",
			fields: fields{
				store: func() storage.ApplicationStorage {
					sut := storage.NewMockApplicationStorage(t)
					sut.On("Save", mock.Anything, mock.AnythingOfType("*model.Application")).
						Return(appErr.NewConflict("application with phone 555-123-4567 already exists"))
					return sut
				}(),
				publisher: &stubPublisher{},
			},
			args:      args{in: validInput},
			wantErr:   true,
			wantErrIs: appErr.IsConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &applicationService{
				store:     tt.fields.store,
				publisher: tt.fields.publisher,
				logger:    mockLogger,
			}
			got, err := s.Submit(context.Background(), tt.args.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("applicationService.Submit() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErrIs != nil && !tt.wantErrIs(err) {
				t.Errorf("applicationService.Submit() error = %v, wrong kind", err)
			}
			if tt.wantPending {
				if got == nil || got.Status != model.ApplicationPending {
					t.Errorf("applicationService.Submit() = %+v, want pending application", got)
				}
			}
		})
	}
}

func Test_applicationService_Submit_PublishesEvent(t *testing.T) {
	store := storage.NewMockApplicationStorage(t)
	store.On("Save", mock.Anything, mock.AnythingOfType("*model.Application")).Return(nil)

	pub := &stubPublisher{}
	s := &applicationService{store: store, publisher: pub, logger: slog.Default()}

	app, err := s.Submit(context.Background(), SubmitApplicationInput{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Phone:     "555-123-4567",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Type != model.NotifNewApplication || ev.RelatedID != app.ID {
		t.Errorf("event = %+v, want new_application for %s", ev, app.ID)
	}
}

func Test_applicationService_Review(t *testing.T) {
	mockLogger := slog.Default()

	tests := []struct {
		name    string
		store   func(t *testing.T) storage.ApplicationStorage
		status  string
		wantErr bool
	}{
		{
			name: "approve",
			store: func(t *testing.T) storage.ApplicationStorage {
				sut := storage.NewMockApplicationStorage(t)
				sut.On("Review", mock.Anything, "app-1", model.ApplicationApproved, "staff@haven.house", "ok", mock.AnythingOfType("time.Time")).
					Return(nil)
				return sut
			},
			status:  model.ApplicationApproved,
			wantErr: false,
		},
		{
			name: "unknown status rejected before storage",
			store: func(t *testing.T) storage.ApplicationStorage {
				return storage.NewMockApplicationStorage(t)
			},
			status:  "archived",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &applicationService{store: tt.store(t), logger: mockLogger}
			err := s.Review(context.Background(), "app-1", tt.status, "staff@haven.house", "ok")
			if (err != nil) != tt.wantErr {
				t.Errorf("applicationService.Review() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_applicationService_ConvertToResident(t *testing.T) {
	appStore := storage.NewMockApplicationStorage(t)
	appStore.On("FindByID", mock.Anything, "app-1").Return(model.Application{
		ID:        "app-1",
		FirstName: "Jamie",
		LastName:  "Rivera",
		Phone:     "555-123-4567",
		Status:    model.ApplicationPending,
	}, nil)
	appStore.On("Review", mock.Anything, "app-1", model.ApplicationApproved, "staff@haven.house", "Converted to resident", mock.AnythingOfType("time.Time")).
		Return(nil)

	resStore := storage.NewMockResidentStorage(t)
	resStore.On("Save", mock.Anything, mock.AnythingOfType("*model.Resident")).Return(nil)

	s := &applicationService{store: appStore, residents: resStore, logger: slog.Default()}

	res, err := s.ConvertToResident(context.Background(), "app-1", "staff@haven.house")
	if err != nil {
		t.Fatalf("ConvertToResident() error = %v", err)
	}
	if res.Status != model.ResidentActive {
		t.Errorf("resident status = %q, want active", res.Status)
	}
	if res.MonthlyRentCents != defaultRentCents {
		t.Errorf("rent = %d, want %d", res.MonthlyRentCents, defaultRentCents)
	}
	if res.ApplicationID != "app-1" {
		t.Errorf("application back-reference = %q, want app-1", res.ApplicationID)
	}
}
