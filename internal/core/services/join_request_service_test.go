package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portsrepo "github.com/gymadminhq/gym_management_app/internal/core/ports/repositories"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
	"github.com/gymadminhq/gym_management_app/internal/core/services"
	"github.com/gymadminhq/gym_management_app/internal/utils/pagination"
)

// MockJoinRequestRepository is a mock type for the JoinRequestRepositoryFacade interface
type MockJoinRequestRepository struct {
	mock.Mock
}

func (m *MockJoinRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.JoinRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepository) FindPendingRequests(ctx context.Context, filter portsrepo.PendingRequestFilter) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepository) FindLatestRequest(ctx context.Context, gymCode, requesterEmail string, role domain.GymRole) (*domain.JoinRequest, error) {
	args := m.Called(ctx, gymCode, requesterEmail, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepository) InsertPendingRequest(ctx context.Context, request domain.JoinRequest) (*domain.JoinRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

func (m *MockJoinRequestRepository) FinalizeRequest(ctx context.Context, requestID string, action domain.RequestAction, actingEmail string, at time.Time) (*domain.JoinRequest, error) {
	args := m.Called(ctx, requestID, action, actingEmail, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}

// MockGymCodeValidator is a mock type for the GymCodeValidatorSvc interface
type MockGymCodeValidator struct {
	mock.Mock
}

func (m *MockGymCodeValidator) ValidateGymCode(ctx context.Context, code string) (bool, *domain.Gym, error) {
	args := m.Called(ctx, code)
	var gym *domain.Gym
	if args.Get(1) != nil {
		gym = args.Get(1).(*domain.Gym)
	}
	return args.Bool(0), gym, args.Error(2)
}

// MockAuthorityResolver is a mock type for the AuthorityResolverSvc interface
type MockAuthorityResolver struct {
	mock.Mock
}

func (m *MockAuthorityResolver) ApproverRoleFor(requesterRole domain.GymRole) (domain.GymRole, error) {
	args := m.Called(requesterRole)
	return args.Get(0).(domain.GymRole), args.Error(1)
}

func (m *MockAuthorityResolver) ScopeFor(ctx context.Context, authority domain.Identity, gymCode string) (domain.AuthorityScope, error) {
	args := m.Called(ctx, authority, gymCode)
	return args.Get(0).(domain.AuthorityScope), args.Error(1)
}

// --- Test Suite Setup ---

type JoinRequestServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockJoinRequestRepository
	mockGymCodes  *MockGymCodeValidator
	mockAuthority *MockAuthorityResolver
	service       portssvc.JoinRequestSvcFacade
}

func (suite *JoinRequestServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJoinRequestRepository)
	suite.mockGymCodes = new(MockGymCodeValidator)
	suite.mockAuthority = new(MockAuthorityResolver)
	suite.service = services.NewJoinRequestService(suite.mockRepo, suite.mockGymCodes, suite.mockAuthority)
}

func pendingRequest(gymCode, email string, role domain.GymRole) *domain.JoinRequest {
	return &domain.JoinRequest{
		RequestID:      uuid.NewString(),
		GymCode:        gymCode,
		RequesterEmail: email,
		FullName:       "Test Requester",
		Role:           role,
		Status:         domain.StatusPending,
		RequestedAt:    time.Now(),
	}
}

// --- AdmitRequest ---

func (suite *JoinRequestServiceTestSuite) TestAdmitRequest_Success() {
	ctx := context.Background()

	suite.mockGymCodes.On("ValidateGymCode", ctx, "IRONWORKS").
		Return(true, &domain.Gym{GymCode: "IRONWORKS"}, nil).Once()

	// The repo echoes the inserted request when no pending row existed.
	var inserted domain.JoinRequest
	suite.mockRepo.On("InsertPendingRequest", ctx, mock.AnythingOfType("domain.JoinRequest")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(domain.JoinRequest)
		}).
		Return(&inserted, nil).Once()

	request, err := suite.service.AdmitRequest(ctx, " ironworks ", "Jane.Doe@Example.com", "Jane Doe", domain.RoleMember)

	suite.Require().NoError(err)
	suite.Require().NotNil(request)
	suite.NotEmpty(request.RequestID)
	suite.Equal("IRONWORKS", request.GymCode)
	suite.Equal("jane.doe@example.com", request.RequesterEmail)
	suite.Equal(domain.RoleMember, request.Role)
	suite.Equal(domain.StatusPending, request.Status)
	suite.WithinDuration(time.Now(), request.RequestedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockGymCodes.AssertExpectations(suite.T())
}

func (suite *JoinRequestServiceTestSuite) TestAdmitRequest_DuplicateReturnsStoredRequest() {
	ctx := context.Background()
	existing := pendingRequest("IRONWORKS", "jane.doe@example.com", domain.RoleMember)

	suite.mockGymCodes.On("ValidateGymCode", ctx, "IRONWORKS").
		Return(true, &domain.Gym{GymCode: "IRONWORKS"}, nil).Once()
	suite.mockRepo.On("InsertPendingRequest", ctx, mock.AnythingOfType("domain.JoinRequest")).
		Return(existing, nil).Once()

	request, err := suite.service.AdmitRequest(ctx, "IRONWORKS", "jane.doe@example.com", "Jane Doe", domain.RoleMember)

	suite.Require().NoError(err)
	suite.Require().NotNil(request)
	suite.Equal(existing.RequestID, request.RequestID)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JoinRequestServiceTestSuite) TestAdmitRequest_UnknownGym() {
	ctx := context.Background()

	suite.mockGymCodes.On("ValidateGymCode", ctx, "GHOSTGYM").Return(false, nil, nil).Once()

	request, err := suite.service.AdmitRequest(ctx, "ghostgym", "jane@example.com", "Jane Doe", domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(request)

	suite.mockRepo.AssertNotCalled(suite.T(), "InsertPendingRequest", mock.Anything, mock.Anything)
}

func (suite *JoinRequestServiceTestSuite) TestAdmitRequest_SuperAdminRoleRejected() {
	ctx := context.Background()

	request, err := suite.service.AdmitRequest(ctx, "IRONWORKS", "jane@example.com", "Jane Doe", domain.RoleSuperAdmin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(request)

	suite.mockGymCodes.AssertNotCalled(suite.T(), "ValidateGymCode", mock.Anything, mock.Anything)
}

func (suite *JoinRequestServiceTestSuite) TestAdmitRequest_MissingFields() {
	ctx := context.Background()

	_, err := suite.service.AdmitRequest(ctx, "IRONWORKS", "", "Jane Doe", domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.AdmitRequest(ctx, "IRONWORKS", "jane@example.com", "  ", domain.RoleMember)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ListPendingRequests ---

func (suite *JoinRequestServiceTestSuite) TestListPendingRequests_ScopedToAuthority() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}
	scope := domain.AuthorityScope{
		GymCode:        "IRONWORKS",
		RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
	}
	rows := []domain.JoinRequest{*pendingRequest("IRONWORKS", "a@example.com", domain.RoleMember)}

	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()
	suite.mockRepo.On("FindPendingRequests", ctx, mock.MatchedBy(func(f portsrepo.PendingRequestFilter) bool {
		return f.GymCode == "IRONWORKS" && len(f.Roles) == 3 && f.Limit == 51
	})).Return(rows, nil).Once()

	requests, nextToken, err := suite.service.ListPendingRequests(ctx, authority, "", "", 0)

	suite.Require().NoError(err)
	suite.Len(requests, 1)
	suite.Empty(nextToken)

	suite.mockAuthority.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JoinRequestServiceTestSuite) TestListPendingRequests_PaginatesWithOverfetch() {
	ctx := context.Background()
	authority := domain.Identity{Email: "root@gma.example", Role: domain.RoleSuperAdmin}
	scope := domain.AuthorityScope{RequesterRoles: []domain.GymRole{domain.RoleAdmin}}

	// Three rows back for a limit of two means another page exists.
	rows := []domain.JoinRequest{
		*pendingRequest("IRONWORKS", "a@example.com", domain.RoleAdmin),
		*pendingRequest("STEELCITY", "b@example.com", domain.RoleAdmin),
		*pendingRequest("GRITHOUSE", "c@example.com", domain.RoleAdmin),
	}

	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()
	suite.mockRepo.On("FindPendingRequests", ctx, mock.MatchedBy(func(f portsrepo.PendingRequestFilter) bool {
		return f.Limit == 3
	})).Return(rows, nil).Once()

	requests, nextToken, err := suite.service.ListPendingRequests(ctx, authority, "", "", 2)

	suite.Require().NoError(err)
	suite.Len(requests, 2)
	suite.Require().NotEmpty(nextToken)

	cursor, err := pagination.DecodeDateBasedToken(nextToken)
	suite.Require().NoError(err)
	suite.WithinDuration(requests[1].RequestedAt, cursor, time.Millisecond)
}

func (suite *JoinRequestServiceTestSuite) TestListPendingRequests_InvalidPageToken() {
	ctx := context.Background()
	authority := domain.Identity{Email: "root@gma.example", Role: domain.RoleSuperAdmin}
	scope := domain.AuthorityScope{RequesterRoles: []domain.GymRole{domain.RoleAdmin}}

	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()

	_, _, err := suite.service.ListPendingRequests(ctx, authority, "", "not-a-token", 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "FindPendingRequests", mock.Anything, mock.Anything)
}

func (suite *JoinRequestServiceTestSuite) TestListPendingRequests_ForbiddenAuthority() {
	ctx := context.Background()
	authority := domain.Identity{Email: "member@ironworks.example", Role: domain.RoleMember}

	suite.mockAuthority.On("ScopeFor", ctx, authority, "").
		Return(domain.AuthorityScope{}, apperrors.ErrForbidden).Once()

	_, _, err := suite.service.ListPendingRequests(ctx, authority, "", "", 10)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- TransitionRequest ---

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_ApproveSuccess() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}
	request := pendingRequest("IRONWORKS", "jane@example.com", domain.RoleMember)
	scope := domain.AuthorityScope{
		GymCode:        "IRONWORKS",
		RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
	}

	approved := *request
	approved.Status = domain.StatusApproved
	approved.ApprovedBy = &authority.Email

	suite.mockRepo.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()
	suite.mockRepo.On("FinalizeRequest", ctx, request.RequestID, domain.ActionApprove, authority.Email, mock.AnythingOfType("time.Time")).
		Return(&approved, nil).Once()

	updated, err := suite.service.TransitionRequest(ctx, request.RequestID, domain.ActionApprove, authority)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.StatusApproved, updated.Status)
	suite.Require().NotNil(updated.ApprovedBy)
	suite.Equal(authority.Email, *updated.ApprovedBy)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAuthority.AssertExpectations(suite.T())
}

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_NotFound() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}
	requestID := uuid.NewString()

	suite.mockRepo.On("FindRequestByID", ctx, requestID).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.TransitionRequest(ctx, requestID, domain.ActionReject, authority)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(updated)

	suite.mockRepo.AssertNotCalled(suite.T(), "FinalizeRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_OutOfScopeForbidden() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@steelcity.example", Role: domain.RoleAdmin}
	request := pendingRequest("IRONWORKS", "jane@example.com", domain.RoleMember)
	scope := domain.AuthorityScope{
		GymCode:        "STEELCITY",
		RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
	}

	suite.mockRepo.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()

	updated, err := suite.service.TransitionRequest(ctx, request.RequestID, domain.ActionApprove, authority)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(updated)

	// The request is untouched on a scope violation.
	suite.mockRepo.AssertNotCalled(suite.T(), "FinalizeRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_AdminCannotFinalizeAdminRequest() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}
	request := pendingRequest("IRONWORKS", "second.admin@example.com", domain.RoleAdmin)
	scope := domain.AuthorityScope{
		GymCode:        "IRONWORKS",
		RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
	}

	suite.mockRepo.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()

	_, err := suite.service.TransitionRequest(ctx, request.RequestID, domain.ActionApprove, authority)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_AlreadyTerminal() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}
	request := pendingRequest("IRONWORKS", "jane@example.com", domain.RoleMember)
	request.Status = domain.StatusApproved
	scope := domain.AuthorityScope{
		GymCode:        "IRONWORKS",
		RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
	}

	suite.mockRepo.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()

	updated, err := suite.service.TransitionRequest(ctx, request.RequestID, domain.ActionReject, authority)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyTerminal)
	suite.Nil(updated)

	suite.mockRepo.AssertNotCalled(suite.T(), "FinalizeRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_LosesFinalizationRace() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}
	request := pendingRequest("IRONWORKS", "jane@example.com", domain.RoleMember)
	scope := domain.AuthorityScope{
		GymCode:        "IRONWORKS",
		RequesterRoles: []domain.GymRole{domain.RoleMember, domain.RoleStaff, domain.RoleTrainer},
	}

	suite.mockRepo.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockAuthority.On("ScopeFor", ctx, authority, "").Return(scope, nil).Once()
	// A concurrent transition finalized the row between the read and the write.
	suite.mockRepo.On("FinalizeRequest", ctx, request.RequestID, domain.ActionApprove, authority.Email, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrAlreadyTerminal).Once()

	updated, err := suite.service.TransitionRequest(ctx, request.RequestID, domain.ActionApprove, authority)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyTerminal)
	suite.Nil(updated)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JoinRequestServiceTestSuite) TestTransitionRequest_UnknownAction() {
	ctx := context.Background()
	authority := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}

	_, err := suite.service.TransitionRequest(ctx, uuid.NewString(), domain.RequestAction("ESCALATE"), authority)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- RequestStatus ---

func (suite *JoinRequestServiceTestSuite) TestRequestStatus_Found() {
	ctx := context.Background()
	request := pendingRequest("IRONWORKS", "jane@example.com", domain.RoleMember)

	suite.mockRepo.On("FindLatestRequest", ctx, "IRONWORKS", "jane@example.com", domain.RoleMember).
		Return(request, nil).Once()

	status, found, err := suite.service.RequestStatus(ctx, "ironworks", "Jane@Example.com", domain.RoleMember)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, status)
	suite.Require().NotNil(found)
	suite.Equal(request.RequestID, found.RequestID)
}

func (suite *JoinRequestServiceTestSuite) TestRequestStatus_UnknownWhenNoRequestExists() {
	ctx := context.Background()

	suite.mockRepo.On("FindLatestRequest", ctx, "IRONWORKS", "jane@example.com", domain.RoleMember).
		Return(nil, apperrors.ErrNotFound).Once()

	status, found, err := suite.service.RequestStatus(ctx, "IRONWORKS", "jane@example.com", domain.RoleMember)

	// Unknown is an answer, not an error.
	suite.Require().NoError(err)
	suite.Equal(domain.StatusUnknown, status)
	suite.Nil(found)
}

func (suite *JoinRequestServiceTestSuite) TestRequestStatus_StorageErrorPropagates() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("FindLatestRequest", ctx, "IRONWORKS", "jane@example.com", domain.RoleMember).
		Return(nil, expectedErr).Once()

	status, found, err := suite.service.RequestStatus(ctx, "IRONWORKS", "jane@example.com", domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
	suite.Equal(domain.StatusUnknown, status)
	suite.Nil(found)
}

// --- Run Test Suite ---

func TestJoinRequestService(t *testing.T) {
	suite.Run(t, new(JoinRequestServiceTestSuite))
}
