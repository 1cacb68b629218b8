package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
)

// authorityService implements the AuthorityResolverSvc interface. The role
// mapping itself is pure; resolving which gym an admin administers consults the
// membership store.
type authorityService struct {
	BaseService
	membershipRepo portsrepo.MembershipReader
}

// NewAuthorityService creates a new authority resolver with the provided dependencies
func NewAuthorityService(membershipRepo portsrepo.MembershipReader) portssvc.AuthorityResolverSvc {
	return &authorityService{
		membershipRepo: membershipRepo,
	}
}

// Ensure authorityService implements the AuthorityResolverSvc interface
var _ portssvc.AuthorityResolverSvc = (*authorityService)(nil)

// ApproverRoleFor maps a requester's role to the role that must approve it:
// member/staff/trainer requests go to the gym admin, admin requests go to the
// super-admin.
func (s *authorityService) ApproverRoleFor(requesterRole domain.GymRole) (domain.GymRole, error) {
	switch requesterRole {
	case domain.RoleMember, domain.RoleStaff, domain.RoleTrainer:
		return domain.RoleAdmin, nil
	case domain.RoleAdmin:
		return domain.RoleSuperAdmin, nil
	default:
		return "", fmt.Errorf("role %s cannot be requested: %w", requesterRole, apperrors.ErrValidation)
	}
}

// ScopeFor resolves the subset of join requests the authority may see and act on.
// An admin is scoped to the single gym they administer and to member/staff/trainer
// requests for it. A super-admin sees admin requests across all gyms, or for one
// gym when gymCode is non-empty.
func (s *authorityService) ScopeFor(ctx context.Context, authority domain.Identity, gymCode string) (domain.AuthorityScope, error) {
	switch authority.Role {
	case domain.RoleSuperAdmin:
		return domain.AuthorityScope{
			GymCode:        domain.NormalizeGymCode(gymCode),
			RequesterRoles: []domain.GymRole{domain.RoleAdmin},
		}, nil

	case domain.RoleAdmin:
		ownGym, err := s.adminGymCode(ctx, authority.Email)
		if err != nil {
			return domain.AuthorityScope{}, err
		}
		// A gymCode hint pointing at someone else's gym is an authorization error,
		// not a narrower scope.
		if normalized := domain.NormalizeGymCode(gymCode); normalized != "" && normalized != ownGym {
			s.LogWarn(ctx, "Admin requested scope outside own gym",
				slog.String("authority_email", authority.Email),
				slog.String("own_gym", ownGym),
				slog.String("requested_gym", normalized))
			return domain.AuthorityScope{}, apperrors.ErrForbidden
		}
		return domain.AuthorityScope{
			GymCode:        ownGym,
			RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
		}, nil

	default:
		s.LogDebug(ctx, "Identity holds no approval authority",
			slog.String("email", authority.Email),
			slog.String("role", string(authority.Role)))
		return domain.AuthorityScope{}, apperrors.ErrForbidden
	}
}

// adminGymCode finds the gym an admin email administers via their membership.
func (s *authorityService) adminGymCode(ctx context.Context, email string) (string, error) {
	memberships, err := s.membershipRepo.FindMembershipsByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to resolve admin memberships", slog.String("email", email))
		return "", err
	}
	for _, m := range memberships {
		if m.Role == domain.RoleAdmin {
			return m.GymCode, nil
		}
	}
	return "", apperrors.ErrForbidden
}
