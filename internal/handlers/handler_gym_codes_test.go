package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
	"github.com/gymadminhq/gym_management_app/internal/dto"
	"github.com/gymadminhq/gym_management_app/internal/handlers"
	"github.com/gymadminhq/gym_management_app/internal/middleware"
	"github.com/gymadminhq/gym_management_app/internal/platform/config"
)

// --- Test Suite ---
type GymCodeHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockGymSvc     *MockGymService
	mockRequestSvc *MockJoinRequestService
	mockMemberSvc  *MockMembershipService
	jwtSecret      string
}

func (suite *GymCodeHandlerTestSuite) generateTestToken(email string, role domain.GymRole) string {
	claims := middleware.IdentityClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gma-test",
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *GymCodeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockGymSvc = new(MockGymService)
	suite.mockRequestSvc = new(MockJoinRequestService)
	suite.mockMemberSvc = new(MockMembershipService)

	cfg := &config.Config{
		JWTSecret:       suite.jwtSecret,
		VerifyRateLimit: "100-S",
		IsProduction:    true,
	}
	services := &portssvc.ServiceContainer{
		Gym:         suite.mockGymSvc,
		JoinRequest: suite.mockRequestSvc,
		Membership:  suite.mockMemberSvc,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *GymCodeHandlerTestSuite) doJSON(method, url string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *GymCodeHandlerTestSuite) TestVerifyGymCode_Valid() {
	gym := &domain.Gym{
		GymCode:    "IRONWORKS",
		Name:       "Ironworks Gym",
		OwnerEmail: "owner@ironworks.example",
		Status:     domain.GymActive,
	}

	suite.mockGymSvc.On("ValidateGymCode", mock.Anything, "ironworks").Return(true, gym, nil).Once()

	token := suite.generateTestToken("jane@example.com", domain.RoleMember)
	w := suite.doJSON(http.MethodPost, "/api/v1/gym-codes/verify", dto.VerifyGymCodeRequest{GymCode: "ironworks"}, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VerifyGymCodeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Valid)
	suite.Require().NotNil(resp.Gym)
	suite.Equal("IRONWORKS", resp.Gym.GymCode)
	suite.Equal("Ironworks Gym", resp.Gym.Name)

	suite.mockGymSvc.AssertExpectations(suite.T())
}

func (suite *GymCodeHandlerTestSuite) TestVerifyGymCode_InvalidCodeStillOK() {
	suite.mockGymSvc.On("ValidateGymCode", mock.Anything, "ghostgym").Return(false, nil, nil).Once()

	token := suite.generateTestToken("jane@example.com", domain.RoleMember)
	w := suite.doJSON(http.MethodPost, "/api/v1/gym-codes/verify", dto.VerifyGymCodeRequest{GymCode: "ghostgym"}, token)

	// An unknown code is a negative verification, not an HTTP error.
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VerifyGymCodeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Valid)
	suite.Nil(resp.Gym)
}

func (suite *GymCodeHandlerTestSuite) TestVerifyGymCode_MissingBody() {
	token := suite.generateTestToken("jane@example.com", domain.RoleMember)
	w := suite.doJSON(http.MethodPost, "/api/v1/gym-codes/verify", map[string]string{}, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockGymSvc.AssertNotCalled(suite.T(), "ValidateGymCode", mock.Anything, mock.Anything)
}

func (suite *GymCodeHandlerTestSuite) TestJoinGym_Success() {
	actor := domain.Identity{Email: "jane@example.com", Role: domain.RoleMember}
	membership := &domain.GymMembership{
		GymCode:      "IRONWORKS",
		MemberEmail:  actor.Email,
		Role:         domain.RoleMember,
		ProfileImage: "avatar.png",
		JoinedAt:     time.Now(),
	}

	suite.mockMemberSvc.On("JoinGym", mock.Anything, actor, "IRONWORKS", "avatar.png").
		Return(membership, nil).Once()

	token := suite.generateTestToken(actor.Email, actor.Role)
	body := dto.JoinGymRequest{GymCode: "IRONWORKS", ProfileImage: "avatar.png"}
	w := suite.doJSON(http.MethodPost, "/api/v1/gym-codes/join", body, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JoinGymResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Equal("IRONWORKS", resp.GymCode)
	suite.Equal("avatar.png", resp.ProfileImage)

	suite.mockMemberSvc.AssertExpectations(suite.T())
}

func (suite *GymCodeHandlerTestSuite) TestJoinGym_NotApprovedForbidden() {
	actor := domain.Identity{Email: "jane@example.com", Role: domain.RoleMember}

	suite.mockMemberSvc.On("JoinGym", mock.Anything, actor, "IRONWORKS", "").
		Return(nil, apperrors.ErrForbidden).Once()

	token := suite.generateTestToken(actor.Email, actor.Role)
	w := suite.doJSON(http.MethodPost, "/api/v1/gym-codes/join", dto.JoinGymRequest{GymCode: "IRONWORKS"}, token)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *GymCodeHandlerTestSuite) TestCreateGym_Success() {
	creator := domain.Identity{Email: "root@gma.example", Role: domain.RoleSuperAdmin}
	gym := &domain.Gym{
		GymCode:    "IRONWORKS",
		Name:       "Ironworks Gym",
		OwnerEmail: "owner@ironworks.example",
		Status:     domain.GymActive,
	}

	suite.mockGymSvc.On("CreateGym", mock.Anything, creator, "IRONWORKS", "Ironworks Gym", "owner@ironworks.example", "").
		Return(gym, nil).Once()

	token := suite.generateTestToken(creator.Email, creator.Role)
	body := dto.CreateGymRequest{
		GymCode:    "IRONWORKS",
		Name:       "Ironworks Gym",
		OwnerEmail: "owner@ironworks.example",
	}
	w := suite.doJSON(http.MethodPost, "/api/v1/gyms", body, token)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.GymResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("IRONWORKS", resp.GymCode)

	suite.mockGymSvc.AssertExpectations(suite.T())
}

func (suite *GymCodeHandlerTestSuite) TestCreateGym_DuplicateConflict() {
	creator := domain.Identity{Email: "root@gma.example", Role: domain.RoleSuperAdmin}

	suite.mockGymSvc.On("CreateGym", mock.Anything, creator, "IRONWORKS", "Ironworks Gym", "owner@ironworks.example", "").
		Return(nil, apperrors.ErrDuplicate).Once()

	token := suite.generateTestToken(creator.Email, creator.Role)
	body := dto.CreateGymRequest{
		GymCode:    "IRONWORKS",
		Name:       "Ironworks Gym",
		OwnerEmail: "owner@ironworks.example",
	}
	w := suite.doJSON(http.MethodPost, "/api/v1/gyms", body, token)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *GymCodeHandlerTestSuite) TestCreateGym_NonSuperAdminForbidden() {
	creator := domain.Identity{Email: "admin@ironworks.example", Role: domain.RoleAdmin}

	suite.mockGymSvc.On("CreateGym", mock.Anything, creator, "IRONWORKS", "Ironworks Gym", "owner@ironworks.example", "").
		Return(nil, apperrors.ErrForbidden).Once()

	token := suite.generateTestToken(creator.Email, creator.Role)
	body := dto.CreateGymRequest{
		GymCode:    "IRONWORKS",
		Name:       "Ironworks Gym",
		OwnerEmail: "owner@ironworks.example",
	}
	w := suite.doJSON(http.MethodPost, "/api/v1/gyms", body, token)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *GymCodeHandlerTestSuite) TestGetGym_NotFound() {
	suite.mockGymSvc.On("GetGymByCode", mock.Anything, "GHOSTGYM").
		Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken("jane@example.com", domain.RoleMember)
	w := suite.doJSON(http.MethodGet, "/api/v1/gyms/GHOSTGYM", nil, token)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---

func TestGymCodeHandler(t *testing.T) {
	suite.Run(t, new(GymCodeHandlerTestSuite))
}
