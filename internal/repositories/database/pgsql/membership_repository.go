package pgsql

import (
	"context"
	"errors"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMembershipRepository struct {
	BaseRepository
}

// newPgxMembershipRepository creates a new repository for gym membership data.
func newPgxMembershipRepository(pool *pgxpool.Pool) portsrepo.MembershipRepositoryFacade {
	return &PgxMembershipRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxMembershipRepository implements portsrepo.MembershipRepositoryFacade
var _ portsrepo.MembershipRepositoryFacade = (*PgxMembershipRepository)(nil)

var FULL_MEMBERSHIP_SELECT_QUERY = `
SELECT
	m.gym_code, m.member_email, m.role, m.profile_image, m.joined_at
FROM gym_memberships m
`

// getMemberships private func to get memberships from the select query filters
func (r *PgxMembershipRepository) getMemberships(ctx context.Context, filterQuery string, args ...any) ([]domain.GymMembership, error) {
	query := FULL_MEMBERSHIP_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query gym memberships", err)
	}
	defer rows.Close()
	memberships, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.GymMembership])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.GymMembership{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect gym membership rows", err)
	}

	return memberships, nil
}

func (r *PgxMembershipRepository) UpsertMembership(ctx context.Context, membership domain.GymMembership) error {
	query := `
		INSERT INTO gym_memberships (gym_code, member_email, role, profile_image, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (gym_code, member_email) DO UPDATE SET
			role = EXCLUDED.role,
			profile_image = CASE
				WHEN EXCLUDED.profile_image = '' THEN gym_memberships.profile_image
				ELSE EXCLUDED.profile_image
			END;
	` // Upsert: re-joining refreshes the role and keeps the old image unless a new one arrives
	_, err := r.Pool.Exec(ctx, query,
		membership.GymCode,
		membership.MemberEmail,
		membership.Role,
		membership.ProfileImage,
		membership.JoinedAt,
	)

	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert membership of "+membership.MemberEmail+" in gym "+membership.GymCode, err)
	}
	return nil
}

func (r *PgxMembershipRepository) FindMembership(ctx context.Context, gymCode, memberEmail string) (*domain.GymMembership, error) {
	query := `WHERE m.gym_code = $1 AND m.member_email = $2`
	memberships, err := r.getMemberships(ctx, query, gymCode, memberEmail)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &memberships[0], nil
}

func (r *PgxMembershipRepository) FindMembershipsByEmail(ctx context.Context, memberEmail string) ([]domain.GymMembership, error) {
	query := `WHERE m.member_email = $1 ORDER BY m.joined_at DESC`
	return r.getMemberships(ctx, query, memberEmail)
}
