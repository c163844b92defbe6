package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/auth"
)

var ErrInvalidCredentials = apperr.InvalidArgument("invalid credentials")

type Service struct {
	repo       Repository
	issuer     *auth.Issuer
	bcryptCost int
	logger     *zap.Logger
}

func NewService(repo Repository, issuer *auth.Issuer, bcryptCost int, logger *zap.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) Login(ctx context.Context, in LoginRequest) (LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return LoginResponse{}, apperr.InvalidArgument("username and password are required")
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return LoginResponse{}, ErrInvalidCredentials
		}
		return LoginResponse{}, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		s.logger.Warn("admin login rejected", zap.String("username", username))
		return LoginResponse{}, ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(auth.Identity{AdminID: u.ID, Username: u.Username})
	if err != nil {
		return LoginResponse{}, apperr.Internal(err)
	}
	return LoginResponse{Token: token, Admin: Public{ID: u.ID, Username: u.Username}}, nil
}

// SeedDefault creates the default admin account when no admin exists.
func (s *Service) SeedDefault(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := auth.HashPassword(DefaultPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, &User{ID: uuid.NewString(), Username: DefaultUsername, PasswordHash: hash}); err != nil {
		return err
	}
	s.logger.Info("default admin created", zap.String("username", DefaultUsername))
	return nil
}
