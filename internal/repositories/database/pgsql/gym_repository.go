package pgsql

import (
	"context"
	"errors"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGymRepository struct {
	BaseRepository
}

// newPgxGymRepository creates a new repository for gym data.
func newPgxGymRepository(pool *pgxpool.Pool) portsrepo.GymRepositoryFacade {
	return &PgxGymRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxGymRepository implements portsrepo.GymRepositoryFacade
var _ portsrepo.GymRepositoryFacade = (*PgxGymRepository)(nil)

var FULL_GYM_SELECT_QUERY = `
SELECT
	g.gym_code, g.name, g.owner_email, g.profile_image, g.status,
	g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
FROM gyms g
`

// getGyms private func to get gyms from the select query filters
func (r *PgxGymRepository) getGyms(ctx context.Context, filterQuery string, args ...any) ([]domain.Gym, error) {
	query := FULL_GYM_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query gyms", err)
	}
	defer rows.Close()
	gyms, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Gym])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) { // It's possible to get no rows, which is not an error for a list.
			return []domain.Gym{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect gym rows", err)
	}

	return gyms, nil
}

func (r *PgxGymRepository) SaveGym(ctx context.Context, gym domain.Gym) error {
	query := `
		INSERT INTO gyms (
			gym_code, name, owner_email, profile_image, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		gym.GymCode,
		gym.Name,
		gym.OwnerEmail,
		gym.ProfileImage,
		gym.Status,
		gym.CreatedAt,
		gym.CreatedBy,
		gym.LastUpdatedAt,
		gym.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("gym code " + gym.GymCode + " already exists")
			}
		}
		return apperrors.NewAppError(500, "failed to save gym "+gym.GymCode, err)
	}
	return nil
}

func (r *PgxGymRepository) FindGymByCode(ctx context.Context, gymCode string) (*domain.Gym, error) {
	query := `WHERE g.gym_code = $1`
	gyms, err := r.getGyms(ctx, query, gymCode)
	if err != nil {
		return nil, err
	}
	if len(gyms) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &gyms[0], nil
}

func (r *PgxGymRepository) ListGyms(ctx context.Context, limit, offset int) ([]domain.Gym, error) {
	query := `ORDER BY g.gym_code LIMIT $1 OFFSET $2`
	return r.getGyms(ctx, query, limit, offset)
}
