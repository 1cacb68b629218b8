package repositories

import (
	"context"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// MembershipReader defines read operations for gym memberships.
type MembershipReader interface {
	// FindMembership retrieves the membership of an email in a gym.
	FindMembership(ctx context.Context, gymCode, memberEmail string) (*domain.GymMembership, error)

	// FindMembershipsByEmail retrieves all gyms an email is attached to.
	FindMembershipsByEmail(ctx context.Context, memberEmail string) ([]domain.GymMembership, error)
}

// MembershipWriter defines write operations for gym memberships.
type MembershipWriter interface {
	// UpsertMembership inserts the membership or refreshes role/profile image if the
	// (gymCode, memberEmail) pair already exists.
	UpsertMembership(ctx context.Context, membership domain.GymMembership) error
}

// MembershipRepositoryFacade combines all membership repository interfaces.
type MembershipRepositoryFacade interface {
	MembershipReader
	MembershipWriter
}
