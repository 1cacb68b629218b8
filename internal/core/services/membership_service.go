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

// membershipService implements the MembershipSvcFacade interface
type membershipService struct {
	BaseService
	membershipRepo portsrepo.MembershipRepositoryFacade
	requestStatus  portssvc.JoinRequestStatusSvc
	gymCodes       portssvc.GymCodeValidatorSvc
}

// NewMembershipService creates a new membership service with the provided dependencies
func NewMembershipService(
	membershipRepo portsrepo.MembershipRepositoryFacade,
	requestStatus portssvc.JoinRequestStatusSvc,
	gymCodes portssvc.GymCodeValidatorSvc,
) portssvc.MembershipSvcFacade {
	return &membershipService{
		membershipRepo: membershipRepo,
		requestStatus:  requestStatus,
		gymCodes:       gymCodes,
	}
}

// Ensure membershipService implements the MembershipSvcFacade interface
var _ portssvc.MembershipSvcFacade = (*membershipService)(nil)

// JoinGym attaches the authenticated identity to a gym after their join request
// was approved. Clients may remember the gym code locally, so the approval is
// re-checked against the registry here rather than trusted from the request.
func (s *membershipService) JoinGym(ctx context.Context, actor domain.Identity, gymCode, profileImage string) (*domain.GymMembership, error) {
	normalized := domain.NormalizeGymCode(gymCode)
	if normalized == "" {
		return nil, apperrors.NewValidationFailedError("gym code is required")
	}

	valid, _, err := s.gymCodes.ValidateGymCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, fmt.Errorf("gym %s: %w", normalized, apperrors.ErrNotFound)
	}

	status, request, err := s.requestStatus.RequestStatus(ctx, normalized, actor.Email, actor.Role)
	if err != nil {
		return nil, err
	}
	if status != domain.StatusApproved {
		s.LogWarn(ctx, "Join attempt without an approved request",
			slog.String("gym_code", normalized),
			slog.String("email", actor.Email),
			slog.String("status", string(status)))
		return nil, apperrors.ErrForbidden
	}

	membership := domain.GymMembership{
		GymCode:      normalized,
		MemberEmail:  strings.ToLower(strings.TrimSpace(actor.Email)),
		Role:         request.Role,
		ProfileImage: profileImage,
		JoinedAt:     time.Now(),
	}
	if err := s.membershipRepo.UpsertMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to record gym membership",
			slog.String("gym_code", normalized),
			slog.String("email", actor.Email))
		return nil, err
	}

	s.LogInfo(ctx, "Member attached to gym",
		slog.String("gym_code", normalized),
		slog.String("email", actor.Email),
		slog.String("role", string(request.Role)))
	return &membership, nil
}

// GetMembership retrieves an actor's membership in a gym
func (s *membershipService) GetMembership(ctx context.Context, gymCode, memberEmail string) (*domain.GymMembership, error) {
	normalized := domain.NormalizeGymCode(gymCode)
	email := strings.ToLower(strings.TrimSpace(memberEmail))
	if normalized == "" || email == "" {
		return nil, apperrors.NewValidationFailedError("gym code and member email are required")
	}

	membership, err := s.membershipRepo.FindMembership(ctx, normalized, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find gym membership",
				slog.String("gym_code", normalized),
				slog.String("email", email))
		}
		return nil, err
	}
	return membership, nil
}
