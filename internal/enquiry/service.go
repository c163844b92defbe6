package enquiry

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/storefront/internal/apperr"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Submit(ctx context.Context, in SubmitRequest) (*Enquiry, error) {
	e := &Enquiry{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
		Status:  StatusNew,
	}
	if e.Name == "" || e.Email == "" || e.Message == "" {
		return nil, apperr.InvalidArgument("all fields are required")
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.Info("enquiry submitted", zap.String("enquiry_id", e.ID))
	return e, nil
}

func (s *Service) List(ctx context.Context, status string) ([]Enquiry, error) {
	st := Status(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, apperr.InvalidArgument("unknown enquiry status")
	}
	out, err := s.repo.List(ctx, st, 0)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Recent returns the n newest enquiries.
func (s *Service) Recent(ctx context.Context, n int) ([]Enquiry, error) {
	out, err := s.repo.List(ctx, "", n)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Enquiry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperr.Internal(err)
	}
	return e, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	st := Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return apperr.InvalidArgument("status must be one of new, read, replied, closed")
	}
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotFound
		}
		return apperr.Internal(err)
	}
	return nil
}
