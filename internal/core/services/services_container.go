package services

import (
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Gym service first: the registry consults it for code validation.
	container.Gym = NewGymService(repos.GymRepo)

	// Authority resolver needs membership reads to locate an admin's own gym.
	container.Authority = NewAuthorityService(repos.MembershipRepo)

	container.JoinRequest = NewJoinRequestService(
		repos.JoinRequestRepo,
		container.Gym,
		container.Authority,
	)

	container.Membership = NewMembershipService(
		repos.MembershipRepo,
		container.JoinRequest,
		container.Gym,
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.GymSvcFacade         = (*gymService)(nil)
	_ portssvc.JoinRequestSvcFacade = (*joinRequestService)(nil)
	_ portssvc.MembershipSvcFacade  = (*membershipService)(nil)
	_ portssvc.AuthorityResolverSvc = (*authorityService)(nil)
)
