package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJoinRequestRepository struct {
	BaseRepository
}

// newPgxJoinRequestRepository creates a new repository for join request data.
func newPgxJoinRequestRepository(pool *pgxpool.Pool) portsrepo.JoinRequestRepositoryWithTx {
	return &PgxJoinRequestRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJoinRequestRepository implements portsrepo.JoinRequestRepositoryWithTx
var _ portsrepo.JoinRequestRepositoryWithTx = (*PgxJoinRequestRepository)(nil)

const joinRequestColumns = `
	jr.request_id, jr.gym_code, jr.requester_email, jr.full_name, jr.role,
	jr.status, jr.requested_at, jr.approved_by, jr.rejected_by
`

var FULL_JOIN_REQUEST_SELECT_QUERY = `
SELECT` + joinRequestColumns + `FROM join_requests jr
`

// getJoinRequests private func to get join requests from the select query filters
func (r *PgxJoinRequestRepository) getJoinRequests(ctx context.Context, filterQuery string, args ...any) ([]domain.JoinRequest, error) {
	query := FULL_JOIN_REQUEST_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query join requests", err)
	}
	defer rows.Close()
	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.JoinRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.JoinRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect join request rows", err)
	}

	return requests, nil
}

// InsertPendingRequest admits a pending request unless one already exists for the
// (gym_code, requester_email, role) tuple. The partial unique index on pending
// rows makes the insert race-free: concurrent duplicates collapse onto one row,
// and both callers get that row back.
func (r *PgxJoinRequestRepository) InsertPendingRequest(ctx context.Context, request domain.JoinRequest) (*domain.JoinRequest, error) {
	insertQuery := `
		INSERT INTO join_requests (
			request_id, gym_code, requester_email, full_name, role,
			status, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (gym_code, requester_email, role) WHERE status = 'PENDING' DO NOTHING
		RETURNING request_id;
	`
	selectPending := `
		WHERE jr.gym_code = $1 AND jr.requester_email = $2 AND jr.role = $3 AND jr.status = 'PENDING'
	`

	// Two attempts: if the conflicting pending row turns terminal between our
	// failed insert and the re-read, the second insert succeeds.
	for attempt := 0; attempt < 2; attempt++ {
		var insertedID string
		err := r.Pool.QueryRow(ctx, insertQuery,
			request.RequestID,
			request.GymCode,
			request.RequesterEmail,
			request.FullName,
			request.Role,
			request.Status,
			request.RequestedAt,
		).Scan(&insertedID)

		if err == nil {
			stored := request
			return &stored, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
				return nil, apperrors.NewNotFoundError("gym " + request.GymCode + " does not exist")
			}
			return nil, apperrors.NewAppError(500, "failed to admit join request", err)
		}

		// Insert was a no-op, a pending row for the tuple already exists.
		existing, err := r.getJoinRequests(ctx, selectPending, request.GymCode, request.RequesterEmail, request.Role)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return &existing[0], nil
		}
	}

	return nil, apperrors.NewAppError(500, "failed to admit join request after conflict", nil)
}

func (r *PgxJoinRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.JoinRequest, error) {
	query := `WHERE jr.request_id = $1`
	requests, err := r.getJoinRequests(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

func (r *PgxJoinRequestRepository) FindLatestRequest(ctx context.Context, gymCode, requesterEmail string, role domain.GymRole) (*domain.JoinRequest, error) {
	query := `
		WHERE jr.gym_code = $1 AND jr.requester_email = $2 AND jr.role = $3
		ORDER BY jr.requested_at DESC
		LIMIT 1
	`
	requests, err := r.getJoinRequests(ctx, query, gymCode, requesterEmail, role)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &requests[0], nil
}

// FindPendingRequests lists pending requests in scope, newest first, collapsed to
// the most recent row per (gym_code, requester_email).
func (r *PgxJoinRequestRepository) FindPendingRequests(ctx context.Context, filter portsrepo.PendingRequestFilter) ([]domain.JoinRequest, error) {
	roles := make([]string, len(filter.Roles))
	for i, role := range filter.Roles {
		roles[i] = string(role)
	}

	inner := `WHERE jr.status = 'PENDING' AND jr.role = ANY($1)`
	args := []any{roles}
	if filter.GymCode != "" {
		args = append(args, filter.GymCode)
		inner += ` AND jr.gym_code = $2`
	}
	if !filter.Before.IsZero() {
		args = append(args, filter.Before)
		inner += ` AND jr.requested_at < $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	query := `
SELECT * FROM (
	SELECT DISTINCT ON (jr.gym_code, jr.requester_email)` + joinRequestColumns + `
	FROM join_requests jr
	` + inner + `
	ORDER BY jr.gym_code, jr.requester_email, jr.requested_at DESC
) q
ORDER BY q.requested_at DESC
LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending join requests", err)
	}
	defer rows.Close()
	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.JoinRequest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.JoinRequest{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect pending join request rows", err)
	}
	return requests, nil
}

// FinalizeRequest applies the terminal transition with a conditional write
// guarded on status = PENDING, so exactly one of two racing transitions wins.
// Approvals also record the gym membership inside the same transaction.
func (r *PgxJoinRequestRepository) FinalizeRequest(ctx context.Context, requestID string, action domain.RequestAction, actingEmail string, at time.Time) (*domain.JoinRequest, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	actorColumn := "approved_by"
	if action == domain.ActionReject {
		actorColumn = "rejected_by"
	}
	updateQuery := `
		UPDATE join_requests jr
		SET status = $1, ` + actorColumn + ` = $2
		WHERE jr.request_id = $3 AND jr.status = 'PENDING'
		RETURNING` + joinRequestColumns + `;`

	rows, err := tx.Query(ctx, updateQuery, action.TargetStatus(), actingEmail, requestID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to finalize join request "+requestID, err)
	}
	updated, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.JoinRequest])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect finalized join request", err)
	}

	if len(updated) == 0 {
		// Guard failed: either the id is unknown or the request is already terminal.
		var status domain.RequestStatus
		err := tx.QueryRow(ctx, `SELECT status FROM join_requests WHERE request_id = $1`, requestID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to read join request status "+requestID, err)
		}
		return nil, apperrors.ErrAlreadyTerminal
	}

	request := updated[0]
	if action == domain.ActionApprove {
		membershipQuery := `
			INSERT INTO gym_memberships (gym_code, member_email, role, profile_image, joined_at)
			VALUES ($1, $2, $3, '', $4)
			ON CONFLICT (gym_code, member_email) DO UPDATE SET role = EXCLUDED.role;
		`
		if _, err := tx.Exec(ctx, membershipQuery, request.GymCode, request.RequesterEmail, request.Role, at); err != nil {
			return nil, apperrors.NewAppError(500, "failed to record membership for request "+requestID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &request, nil
}
