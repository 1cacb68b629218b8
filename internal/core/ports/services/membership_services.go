package services

import (
	"context"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// MembershipSvcFacade covers post-approval attachment of members to gyms.
type MembershipSvcFacade interface {
	// JoinGym attaches the authenticated identity to the gym after their request
	// was approved, carrying the optional profile image. Idempotent via upsert.
	JoinGym(ctx context.Context, actor domain.Identity, gymCode, profileImage string) (*domain.GymMembership, error)

	// GetMembership retrieves an actor's membership in a gym.
	GetMembership(ctx context.Context, gymCode, memberEmail string) (*domain.GymMembership, error)
}
