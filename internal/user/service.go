package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/auth"
)

var (
	ErrInvalidCredentials = apperr.InvalidArgument("invalid credentials")
	ErrInactive           = apperr.Forbidden("account is not active")
)

type Service struct {
	repo       Repository
	issuer     *auth.Issuer
	bcryptCost int
	logger     *zap.Logger
}

func NewService(repo Repository, issuer *auth.Issuer, bcryptCost int, logger *zap.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) Register(ctx context.Context, in RegisterRequest) (AuthResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return AuthResponse{}, apperr.InvalidArgument("all fields are required")
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, ErrAlreadyExist
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return AuthResponse{}, apperr.Internal(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return AuthResponse{}, apperr.Internal(err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       StatusActive,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return AuthResponse{}, ErrAlreadyExist
		}
		return AuthResponse{}, apperr.Internal(err)
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return s.respond(u)
}

func (s *Service) Login(ctx context.Context, in LoginRequest) (AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return AuthResponse{}, ErrInvalidCredentials
		}
		return AuthResponse{}, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return AuthResponse{}, ErrInvalidCredentials
	}
	if u.Status != StatusActive {
		return AuthResponse{}, ErrInactive
	}
	return s.respond(u)
}

func (s *Service) respond(u *User) (AuthResponse, error) {
	token, err := s.issuer.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Name: u.Name})
	if err != nil {
		return AuthResponse{}, apperr.Internal(err)
	}
	return AuthResponse{Token: token, User: u.Public()}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	st := Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return apperr.InvalidArgument("status must be one of active, inactive, blocked")
	}
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotFound
		}
		return apperr.Internal(err)
	}
	s.logger.Info("user status updated", zap.String("user_id", id), zap.String("status", string(st)))
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
