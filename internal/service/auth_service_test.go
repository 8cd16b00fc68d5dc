package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

// Test_authService_Login tests the Login method of the authService.
// Table Driven Test Pattern used
func Test_authService_Login(t *testing.T) {
	mockLogger := slog.Default()
	tokenSvc := NewJWTService("test-secret", time.Hour)

	staff := model.StaffUser{
		ID:           "staff-1",
		Email:        "manager@haven.house",
		PasswordHash: hashOf(t, "correct-horse"),
		Role:         "manager",
		IsActive:     true,
	}

	type fields struct {
		store storage.StaffStorage
	}
	type args struct {
		email    string
		password string
	}
	tests := []struct {
		name      string
		fields    fields
		args      args
		wantUser  bool
		wantErr   bool
		wantErrIs func(error) bool
	}{
		{
			name: "successful login lowercases email",
			fields: fields{
				store: func() storage.StaffStorage {
					sut := storage.NewMockStaffStorage(t)
					sut.On("FindActiveByEmail", mock.Anything, "manager@haven.house").Return(staff, nil)
					sut.On("UpdateLastLogin", mock.Anything, "staff-1", mock.AnythingOfType("time.Time")).Return(nil)
					return sut
				}(),
			},
			args:     args{email: "Manager@Haven.House", password: "correct-horse"},
			wantUser: true,
			wantErr:  false,
		},
		{
			name: "unknown email reads as unauthorized",
			fields: fields{
				store: func() storage.StaffStorage {
					sut := storage.NewMockStaffStorage(t)
					sut.On("FindActiveByEmail", mock.Anything, "ghost@haven.house").
						Return(model.StaffUser{}, appErr.NewNotFound("no staff user"))
					return sut
				}(),
			},
			args:      args{email: "ghost@haven.house", password: "whatever"},
			wantErr:   true,
			wantErrIs: appErr.IsUnauthorized,
		},
		{
			name: "wrong password reads as unauthorized",
			fields: fields{
				store: func() storage.StaffStorage {
					sut := storage.NewMockStaffStorage(t)
					sut.On("FindActiveByEmail", mock.Anything, "manager@haven.house").Return(staff, nil)
					return sut
				}(),
			},
			args:      args{email: "manager@haven.house", password: "wrong"},
			wantErr:   true,
			wantErrIs: appErr.IsUnauthorized,
		},
		{
			name: "empty credentials",
			fields: fields{
				store: storage.NewMockStaffStorage(t),
			},
			args:      args{email: "", password: ""},
			wantErr:   true,
			wantErrIs: appErr.IsInvalidInput,
		},
		{
			name: "failed last-login stamp does not block login",
			fields: fields{
				store: func() storage.StaffStorage {
					sut := storage.NewMockStaffStorage(t)
					sut.On("FindActiveByEmail", mock.Anything, "manager@haven.house").Return(staff, nil)
					sut.On("UpdateLastLogin", mock.Anything, "staff-1", mock.AnythingOfType("time.Time")).
						Return(appErr.NewInternal("db down"))
					return sut
				}(),
			},
			args:     args{email: "manager@haven.house", password: "correct-horse"},
			wantUser: true,
			wantErr:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &authService{
				store:    tt.fields.store,
				logger:   mockLogger,
				tokenSvc: tokenSvc,
			}
			user, token, err := s.Login(context.Background(), tt.args.email, tt.args.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("authService.Login() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErrIs != nil && !tt.wantErrIs(err) {
				t.Errorf("authService.Login() error = %v, wrong kind", err)
			}
			if tt.wantUser {
				if user == nil || user.ID != "staff-1" {
					t.Errorf("authService.Login() user = %+v, want staff-1", user)
				}
				if token == "" {
					t.Error("authService.Login() returned empty token")
				}
				claims, err := tokenSvc.ValidateStaffToken(token)
				if err != nil {
					t.Fatalf("ValidateStaffToken() error = %v", err)
				}
				if claims.StaffID != "staff-1" || claims.Role != "manager" {
					t.Errorf("claims = %+v, want staff-1/manager", claims)
				}
			}
		})
	}
}

func Test_jwtService_TokenKinds(t *testing.T) {
	tokenSvc := NewJWTService("test-secret", time.Hour)

	staffToken, err := tokenSvc.GenerateStaffToken(&model.StaffUser{ID: "staff-1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("GenerateStaffToken() error = %v", err)
	}
	residentToken, err := tokenSvc.GenerateResidentToken(&model.Resident{ID: "res-1"})
	if err != nil {
		t.Fatalf("GenerateResidentToken() error = %v", err)
	}

	// A resident token must not pass staff validation, and vice versa.
	if _, err := tokenSvc.ValidateStaffToken(residentToken); err == nil {
		t.Error("staff validation accepted a resident token")
	}
	if _, err := tokenSvc.ValidateResidentToken(staffToken); err == nil {
		t.Error("resident validation accepted a staff token")
	}

	id, err := tokenSvc.ValidateResidentToken(residentToken)
	if err != nil {
		t.Fatalf("ValidateResidentToken() error = %v", err)
	}
	if id != "res-1" {
		t.Errorf("resident id = %q, want res-1", id)
	}

	// Wrong secret fails outright.
	other := NewJWTService("other-secret", time.Hour)
	if _, err := other.ValidateStaffToken(staffToken); err == nil {
		t.Error("validation accepted a token signed with a different secret")
	}
}
