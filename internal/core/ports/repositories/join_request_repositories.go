package repositories

import (
	"context"
	"time"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// PendingRequestFilter narrows a pending-request listing to an authority's scope.
// An empty GymCode means all gyms. Roles must be non-empty.
type PendingRequestFilter struct {
	GymCode string
	Roles   []domain.GymRole
	// Pagination: requests strictly older than Before (zero value means "from the top").
	Before time.Time
	Limit  int
}

// JoinRequestReader defines read operations for join requests.
type JoinRequestReader interface {
	// FindRequestByID retrieves a request by its id.
	FindRequestByID(ctx context.Context, requestID string) (*domain.JoinRequest, error)

	// FindPendingRequests retrieves pending requests inside the filter's scope,
	// newest first, collapsed to one row per (gymCode, requesterEmail).
	FindPendingRequests(ctx context.Context, filter PendingRequestFilter) ([]domain.JoinRequest, error)

	// FindLatestRequest retrieves the most recent request for the tuple, any status.
	// Returns apperrors.ErrNotFound when the requester never submitted one.
	FindLatestRequest(ctx context.Context, gymCode, requesterEmail string, role domain.GymRole) (*domain.JoinRequest, error)
}

// JoinRequestWriter defines the two mutations the registry performs.
type JoinRequestWriter interface {
	// InsertPendingRequest atomically admits the request unless a pending row for
	// the same (gymCode, requesterEmail, role) tuple already exists, in which case
	// the existing row is returned unchanged. Concurrent duplicate submissions
	// converge on a single stored row.
	InsertPendingRequest(ctx context.Context, request domain.JoinRequest) (*domain.JoinRequest, error)

	// FinalizeRequest applies the terminal transition with a conditional write
	// guarded on status=PENDING. Returns apperrors.ErrAlreadyTerminal when the
	// guard fails and apperrors.ErrNotFound when the id does not exist.
	FinalizeRequest(ctx context.Context, requestID string, action domain.RequestAction, actingEmail string, at time.Time) (*domain.JoinRequest, error)
}

// JoinRequestRepositoryFacade combines all join-request repository interfaces.
type JoinRequestRepositoryFacade interface {
	JoinRequestReader
	JoinRequestWriter
}

// JoinRequestRepositoryWithTx extends the facade with transaction capabilities.
type JoinRequestRepositoryWithTx interface {
	JoinRequestRepositoryFacade
	TransactionManager
}
