package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
)

// gymService implements the GymSvcFacade interface
type gymService struct {
	BaseService
	gymRepo portsrepo.GymRepositoryFacade
}

// NewGymService creates a new gym service with the provided dependencies
func NewGymService(gymRepo portsrepo.GymRepositoryFacade) portssvc.GymSvcFacade {
	return &gymService{
		gymRepo: gymRepo,
	}
}

// Ensure gymService implements the GymSvcFacade interface
var _ portssvc.GymSvcFacade = (*gymService)(nil)

// ValidateGymCode checks a submitted code against registered gyms without mutating
// anything. An empty or malformed code short-circuits to invalid before any lookup.
func (s *gymService) ValidateGymCode(ctx context.Context, code string) (bool, *domain.Gym, error) {
	normalized := domain.NormalizeGymCode(code)
	if normalized == "" || strings.ContainsAny(normalized, " \t\n") {
		s.LogDebug(ctx, "Gym code rejected before lookup", slog.String("gym_code", code))
		return false, nil, nil
	}

	gym, err := s.gymRepo.FindGymByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Gym code not registered", slog.String("gym_code", normalized))
			return false, nil, nil
		}
		s.LogError(ctx, err, "Failed to look up gym code", slog.String("gym_code", normalized))
		return false, nil, err
	}

	return true, gym, nil
}

// GetGymByCode retrieves a gym by its code
func (s *gymService) GetGymByCode(ctx context.Context, code string) (*domain.Gym, error) {
	normalized := domain.NormalizeGymCode(code)
	if normalized == "" {
		return nil, apperrors.NewValidationFailedError("gym code is required")
	}

	gym, err := s.gymRepo.FindGymByCode(ctx, normalized)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find gym by code", slog.String("gym_code", normalized))
		}
		return nil, err
	}
	return gym, nil
}

// ListGyms retrieves registered gyms ordered by code
func (s *gymService) ListGyms(ctx context.Context, limit, offset int) ([]domain.Gym, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	gyms, err := s.gymRepo.ListGyms(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list gyms")
		return nil, err
	}
	if gyms == nil {
		return []domain.Gym{}, nil
	}
	return gyms, nil
}

// CreateGym registers a new gym. Only a super-admin may create gyms; the code is
// normalized to uppercase and immutable afterwards.
func (s *gymService) CreateGym(ctx context.Context, creator domain.Identity, code, name, ownerEmail, profileImage string) (*domain.Gym, error) {
	if creator.Role != domain.RoleSuperAdmin {
		s.LogWarn(ctx, "Non super-admin attempted to create gym",
			slog.String("creator_email", creator.Email),
			slog.String("creator_role", string(creator.Role)))
		return nil, apperrors.ErrForbidden
	}

	normalized := domain.NormalizeGymCode(code)
	if normalized == "" {
		return nil, apperrors.NewValidationFailedError("gym code is required")
	}
	if name == "" {
		return nil, apperrors.NewValidationFailedError("gym name is required")
	}

	now := time.Now()
	gym := domain.Gym{
		GymCode:      normalized,
		Name:         name,
		OwnerEmail:   strings.ToLower(strings.TrimSpace(ownerEmail)),
		ProfileImage: profileImage,
		Status:       domain.GymActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator.Email,
			LastUpdatedAt: now,
			LastUpdatedBy: creator.Email,
		},
	}

	if err := s.gymRepo.SaveGym(ctx, gym); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Gym code already registered", slog.String("gym_code", normalized))
			return nil, fmt.Errorf("gym code %s: %w", normalized, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save gym", slog.String("gym_code", normalized))
		return nil, err
	}

	s.LogInfo(ctx, "Gym created successfully",
		slog.String("gym_code", normalized),
		slog.String("creator_email", creator.Email))
	return &gym, nil
}
