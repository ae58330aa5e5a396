package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"committeehub/internal/domain"
)

type committeeService struct {
	repo      domain.CommitteeRepository
	auth      domain.AuthService
	validator *validator.Validate
}

// NewCommitteeService creates a CommitteeService. Every mutation is gated on auth.RequireAdmin.
func NewCommitteeService(repo domain.CommitteeRepository, auth domain.AuthService) domain.CommitteeService {
	return &committeeService{
		repo:      repo,
		auth:      auth,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *committeeService) List(ctx context.Context) ([]*domain.Committee, error) {
	committees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list committees: %w", err)
	}
	return committees, nil
}

func (s *committeeService) Get(ctx context.Context, id string) (*domain.Committee, error) {
	if id == "" {
		return nil, domain.ErrCommitteeNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *committeeService) Create(ctx context.Context, token string, in domain.CreateCommitteeInput) (*domain.Committee, error) {
	if _, err := s.auth.RequireAdmin(ctx, token); err != nil {
		return nil, err
	}
	if err := s.validator.StructCtx(ctx, in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCommittee, err)
	}
	committee := domain.NewCommittee(in.Title, in.Description, in.Location, in.MeetingTime, in.Head)
	if strings.TrimSpace(committee.ID) == "" {
		return nil, fmt.Errorf("%w: title produces an empty id", domain.ErrInvalidCommittee)
	}

	_, err := s.repo.GetByID(ctx, committee.ID)
	switch {
	case err == nil:
		return nil, domain.ErrCommitteeExists
	case !errors.Is(err, domain.ErrCommitteeNotFound):
		return nil, fmt.Errorf("failed to check committee %q: %w", committee.ID, err)
	}

	// The primary key still guards against a concurrent create slipping past the check above.
	if err := s.repo.Create(ctx, committee); err != nil {
		if errors.Is(err, domain.ErrCommitteeExists) {
			return nil, domain.ErrCommitteeExists
		}
		return nil, fmt.Errorf("failed to create committee: %w", err)
	}
	return committee, nil
}

func (s *committeeService) Edit(ctx context.Context, token, id string, changes domain.CommitteeChanges) (*domain.Committee, error) {
	if _, err := s.auth.RequireAdmin(ctx, token); err != nil {
		return nil, err
	}
	committee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCommitteeNotEdited, err)
	}
	changes.Apply(committee)
	return committee, nil
}
