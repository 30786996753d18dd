package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cheesemarket/internal/apperrors"
	"cheesemarket/internal/metrics"
	"cheesemarket/internal/model"
	"cheesemarket/internal/repository"
	"cheesemarket/internal/security"
)

// AuthService handles session login and logout.
type AuthService interface {
	// Login verifies credentials and opens a session, returning the user
	// and the opaque session id.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   security.SessionStore
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions security.SessionStore, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", apperrors.ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, security.NewPrincipal(user), s.sessionTTL)
	if err != nil {
		return nil, "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, sessionID, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
