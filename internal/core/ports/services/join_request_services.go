package services

import (
	"context"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// JoinRequestAdmitterSvc admits join requests into the registry.
type JoinRequestAdmitterSvc interface {
	// AdmitRequest validates the gym code and stores a pending request. Admission
	// is idempotent: while a pending request exists for the same
	// (gymCode, requesterEmail, role) tuple, the stored request is returned
	// unchanged instead of creating a duplicate.
	AdmitRequest(ctx context.Context, gymCode, requesterEmail, fullName string, role domain.GymRole) (*domain.JoinRequest, error)
}

// JoinRequestAuthoritySvc is the approver-facing surface of the registry.
type JoinRequestAuthoritySvc interface {
	// ListPendingRequests returns pending requests inside the authority's resolved
	// scope, newest first. gymCode narrows a super-admin listing to one gym and is
	// ignored for admins, whose scope is always their own gym. pageToken paginates.
	ListPendingRequests(ctx context.Context, authority domain.Identity, gymCode, pageToken string, limit int) ([]domain.JoinRequest, string, error)

	// TransitionRequest applies approve/reject exactly once. The acting identity
	// must cover the request's gym and role (apperrors.ErrForbidden otherwise);
	// a second transition fails with apperrors.ErrAlreadyTerminal.
	TransitionRequest(ctx context.Context, requestID string, action domain.RequestAction, authority domain.Identity) (*domain.JoinRequest, error)
}

// JoinRequestStatusSvc is the requester-facing poll surface.
type JoinRequestStatusSvc interface {
	// RequestStatus returns the status of the requester's latest request for the
	// tuple. StatusUnknown (not an error) when no matching request exists yet.
	RequestStatus(ctx context.Context, gymCode, requesterEmail string, role domain.GymRole) (domain.RequestStatus, *domain.JoinRequest, error)
}

// JoinRequestSvcFacade combines the registry's service interfaces.
type JoinRequestSvcFacade interface {
	JoinRequestAdmitterSvc
	JoinRequestAuthoritySvc
	JoinRequestStatusSvc
}

// AuthorityResolverSvc maps requester roles to approver roles and authorities to
// their visibility scope.
type AuthorityResolverSvc interface {
	// ApproverRoleFor returns the role that must approve a request for the given
	// requester role: member/staff/trainer -> admin, admin -> superadmin.
	ApproverRoleFor(requesterRole domain.GymRole) (domain.GymRole, error)

	// ScopeFor resolves the authority's visibility scope. For an admin this is the
	// single gym they administer; for a super-admin it is admin requests across
	// all gyms, or one gym when gymCode is non-empty.
	ScopeFor(ctx context.Context, authority domain.Identity, gymCode string) (domain.AuthorityScope, error)
}
