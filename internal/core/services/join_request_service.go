package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
	"github.com/gymadminhq/gym_management_app/internal/utils/pagination"
	"github.com/google/uuid"
)

const defaultListLimit = 50

// joinRequestService implements the JoinRequestSvcFacade interface. It is the
// sole writer of join requests: admission and the two terminal transitions all
// go through here.
type joinRequestService struct {
	BaseService
	requestRepo portsrepo.JoinRequestRepositoryFacade
	gymCodes    portssvc.GymCodeValidatorSvc
	authority   portssvc.AuthorityResolverSvc
}

// NewJoinRequestService creates a new join request service with the provided dependencies
func NewJoinRequestService(
	requestRepo portsrepo.JoinRequestRepositoryFacade,
	gymCodes portssvc.GymCodeValidatorSvc,
	authority portssvc.AuthorityResolverSvc,
) portssvc.JoinRequestSvcFacade {
	return &joinRequestService{
		requestRepo: requestRepo,
		gymCodes:    gymCodes,
		authority:   authority,
	}
}

// Ensure joinRequestService implements the JoinRequestSvcFacade interface
var _ portssvc.JoinRequestSvcFacade = (*joinRequestService)(nil)

// AdmitRequest validates the gym code and stores a pending request. While a
// pending request exists for the same (gymCode, requesterEmail, role) tuple the
// stored one is returned unchanged, so a double-click or a retried network call
// never creates a second row.
func (s *joinRequestService) AdmitRequest(ctx context.Context, gymCode, requesterEmail, fullName string, role domain.GymRole) (*domain.JoinRequest, error) {
	normalized := domain.NormalizeGymCode(gymCode)
	email := strings.ToLower(strings.TrimSpace(requesterEmail))

	if normalized == "" {
		return nil, apperrors.NewValidationFailedError("gym code is required")
	}
	if email == "" {
		return nil, apperrors.NewValidationFailedError("requester email is required")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, apperrors.NewValidationFailedError("full name is required")
	}
	if !role.IsRequestable() {
		return nil, apperrors.NewValidationFailedError("role " + string(role) + " cannot be requested")
	}

	valid, _, err := s.gymCodes.ValidateGymCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !valid {
		s.LogWarn(ctx, "Join request for unknown gym code", slog.String("gym_code", normalized))
		return nil, fmt.Errorf("gym %s: %w", normalized, apperrors.ErrNotFound)
	}

	request := domain.JoinRequest{
		RequestID:      uuid.NewString(),
		GymCode:        normalized,
		RequesterEmail: email,
		FullName:       strings.TrimSpace(fullName),
		Role:           role,
		Status:         domain.StatusPending,
		RequestedAt:    time.Now(),
	}

	stored, err := s.requestRepo.InsertPendingRequest(ctx, request)
	if err != nil {
		s.LogError(ctx, err, "Failed to admit join request",
			slog.String("gym_code", normalized),
			slog.String("requester_email", email))
		return nil, err
	}

	if stored.RequestID != request.RequestID {
		s.LogInfo(ctx, "Join request re-affirmed, pending request already exists",
			slog.String("request_id", stored.RequestID),
			slog.String("gym_code", normalized),
			slog.String("requester_email", email))
		return stored, nil
	}

	s.LogInfo(ctx, "Join request admitted",
		slog.String("request_id", stored.RequestID),
		slog.String("gym_code", normalized),
		slog.String("requester_email", email),
		slog.String("role", string(role)))
	return stored, nil
}

// ListPendingRequests returns pending requests inside the authority's resolved
// scope, newest first, one row per (gymCode, requesterEmail).
func (s *joinRequestService) ListPendingRequests(ctx context.Context, authority domain.Identity, gymCode, pageToken string, limit int) ([]domain.JoinRequest, string, error) {
	scope, err := s.authority.ScopeFor(ctx, authority, gymCode)
	if err != nil {
		return nil, "", err
	}

	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	filter := portsrepo.PendingRequestFilter{
		GymCode: scope.GymCode,
		Roles:   scope.RequesterRoles,
		Limit:   limit + 1, // one extra row to detect another page
	}
	if pageToken != "" {
		before, err := pagination.DecodeDateBasedToken(pageToken)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError("invalid page token")
		}
		filter.Before = before
	}

	requests, err := s.requestRepo.FindPendingRequests(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending join requests",
			slog.String("authority_email", authority.Email))
		return nil, "", err
	}

	var nextToken string
	if len(requests) > limit {
		requests = requests[:limit]
		nextToken = pagination.EncodeDateBasedToken(requests[limit-1].RequestedAt)
	}

	s.LogDebug(ctx, "Pending join requests listed",
		slog.Int("count", len(requests)),
		slog.String("authority_email", authority.Email))
	return requests, nextToken, nil
}

// TransitionRequest applies approve/reject exactly once. The row-level write is
// guarded on status=PENDING, so a concurrent approve+reject race leaves exactly
// one terminal write and the loser fails with ErrAlreadyTerminal.
func (s *joinRequestService) TransitionRequest(ctx context.Context, requestID string, action domain.RequestAction, authority domain.Identity) (*domain.JoinRequest, error) {
	if requestID == "" {
		return nil, apperrors.NewValidationFailedError("request id is required")
	}
	if action != domain.ActionApprove && action != domain.ActionReject {
		return nil, apperrors.NewValidationFailedError("unknown action " + string(action))
	}

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load join request", slog.String("request_id", requestID))
		}
		return nil, err
	}

	// Scope check before any write. The request stays untouched on a violation.
	scope, err := s.authority.ScopeFor(ctx, authority, "")
	if err != nil {
		return nil, err
	}
	if !scope.Covers(request.GymCode, request.Role) {
		s.LogWarn(ctx, "Authority attempted transition outside scope",
			slog.String("request_id", requestID),
			slog.String("authority_email", authority.Email),
			slog.String("request_gym", request.GymCode),
			slog.String("request_role", string(request.Role)))
		return nil, apperrors.ErrForbidden
	}

	if request.Status.IsTerminal() {
		return nil, fmt.Errorf("request %s is %s: %w", requestID, request.Status, apperrors.ErrAlreadyTerminal)
	}

	updated, err := s.requestRepo.FinalizeRequest(ctx, requestID, action, authority.Email, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyTerminal) {
			// Lost a transition race after the read above.
			s.LogWarn(ctx, "Join request finalized concurrently",
				slog.String("request_id", requestID))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to finalize join request",
			slog.String("request_id", requestID),
			slog.String("action", string(action)))
		return nil, err
	}

	s.LogInfo(ctx, "Join request finalized",
		slog.String("request_id", requestID),
		slog.String("action", string(action)),
		slog.String("acting_email", authority.Email))
	return updated, nil
}

// RequestStatus returns the status of the requester's latest request for the
// tuple. StatusUnknown is an answer, not an error: the registry write may simply
// not be visible yet, and pollers treat it as pending.
func (s *joinRequestService) RequestStatus(ctx context.Context, gymCode, requesterEmail string, role domain.GymRole) (domain.RequestStatus, *domain.JoinRequest, error) {
	normalized := domain.NormalizeGymCode(gymCode)
	email := strings.ToLower(strings.TrimSpace(requesterEmail))
	if normalized == "" || email == "" {
		return domain.StatusUnknown, nil, apperrors.NewValidationFailedError("gym code and requester email are required")
	}
	if !role.IsRequestable() {
		return domain.StatusUnknown, nil, apperrors.NewValidationFailedError("role " + string(role) + " cannot be requested")
	}

	request, err := s.requestRepo.FindLatestRequest(ctx, normalized, email, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.StatusUnknown, nil, nil
		}
		s.LogError(ctx, err, "Failed to read join request status",
			slog.String("gym_code", normalized),
			slog.String("requester_email", email))
		return domain.StatusUnknown, nil, err
	}

	return request.Status, request, nil
}
