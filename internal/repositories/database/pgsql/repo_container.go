package pgsql

import (
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	gymRepo := newPgxGymRepository(dbPool)
	membershipRepo := newPgxMembershipRepository(dbPool)
	joinRequestRepo := newPgxJoinRequestRepository(dbPool)

	return portsrepo.RepositoryProvider{
		GymRepo:         gymRepo,
		JoinRequestRepo: joinRequestRepo,
		MembershipRepo:  membershipRepo,
	}
}
