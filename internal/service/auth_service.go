package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	appErr "github.com/havenhouse/hms/internal/errors"
	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.StaffUser, string, error)
}

type authService struct {
	store    storage.StaffStorage
	logger   *slog.Logger
	tokenSvc TokenService
}

func NewAuthService(store storage.StaffStorage, logger *slog.Logger, tokenSvc TokenService) AuthService {
	l := logger.With("layer", "service", "component", "authService")
	return &authService{store: store, logger: l, tokenSvc: tokenSvc}
}

// Login verifies staff credentials and issues a session token. An
// unknown email and a wrong password both come back as ErrUnauthorized;
// callers must not be able to tell the two apart.
func (s *authService) Login(ctx context.Context, email, password string) (*model.StaffUser, string, error) {
	s.logger.Info("Login called", slog.String("email", email))

	if email == "" || password == "" {
		return nil, "", appErr.ErrInvalidInput
	}

	user, err := s.store.FindActiveByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if appErr.IsNotFound(err) {
			s.logger.Warn("Staff user not found", slog.String("email", email))
			return nil, "", appErr.ErrUnauthorized
		}
		s.logger.Error("Failed to fetch staff user", slog.String("email", email), slog.Any("error", err))
		return nil, "", appErr.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Invalid password", slog.String("email", email))
		return nil, "", appErr.ErrUnauthorized
	}

	// Best effort; a failed stamp must not block the login.
	if err := s.store.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn("Failed to update last login", slog.String("email", email), slog.Any("error", err))
	}

	token, err := s.tokenSvc.GenerateStaffToken(&user)
	if err != nil {
		s.logger.Error("Token generation failed", slog.String("email", email))
		return nil, "", appErr.ErrInternal
	}

	s.logger.Info("Login succeeded", slog.String("email", email))
	return &user, token, nil
}
