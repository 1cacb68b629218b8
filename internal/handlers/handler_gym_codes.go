package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
	"github.com/gymadminhq/gym_management_app/internal/dto"
	"github.com/gymadminhq/gym_management_app/internal/middleware"
)

// gymCodeHandler handles HTTP requests related to gym codes and gyms.
type gymCodeHandler struct {
	gymService        portssvc.GymSvcFacade
	membershipService portssvc.MembershipSvcFacade
}

// newGymCodeHandler creates a new gymCodeHandler.
func newGymCodeHandler(gs portssvc.GymSvcFacade, ms portssvc.MembershipSvcFacade) *gymCodeHandler {
	return &gymCodeHandler{
		gymService:        gs,
		membershipService: ms,
	}
}

// registerGymCodeRoutes registers gym code verification/join and gym admin routes.
// The verify route additionally sits behind the rate limiter so code guessing
// stays expensive.
func registerGymCodeRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc, gymService portssvc.GymSvcFacade, membershipService portssvc.MembershipSvcFacade) {
	h := newGymCodeHandler(gymService, membershipService)

	gymCodes := rg.Group("/gym-codes")
	{
		gymCodes.POST("/verify", rateLimit, h.verifyGymCode)
		gymCodes.POST("/join", h.joinGym)
	}

	gyms := rg.Group("/gyms")
	{
		gyms.POST("", h.createGym)
		gyms.GET("", h.listGyms)
		gyms.GET("/:gym_code", h.getGym)
	}
}

// verifyGymCode godoc
// @Summary Verify a gym code
// @Description Checks a submitted code against registered gyms and returns display data for the join screen. Never mutates state.
// @Tags gym-codes
// @Accept  json
// @Produce  json
// @Param   code body dto.VerifyGymCodeRequest true "Gym code"
// @Success 200 {object} dto.VerifyGymCodeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Verification failed"
// @Security BearerAuth
// @Router /gym-codes/verify [post]
func (h *gymCodeHandler) verifyGymCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifyGymCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VerifyGymCode", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	valid, gym, err := h.gymService.ValidateGymCode(c.Request.Context(), req.GymCode)
	if err != nil {
		logger.Error("Failed to verify gym code in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify gym code"})
		return
	}

	resp := dto.VerifyGymCodeResponse{Valid: valid}
	if valid {
		gymResp := dto.ToGymResponse(gym)
		resp.Gym = &gymResp
	}
	c.JSON(http.StatusOK, resp)
}

// joinGym godoc
// @Summary Join a gym
// @Description Attaches the authenticated identity to a gym after their join request was approved. Idempotent.
// @Tags gym-codes
// @Accept  json
// @Produce  json
// @Param   join body dto.JoinGymRequest true "Gym code and optional profile image"
// @Success 200 {object} dto.JoinGymResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "No approved request"
// @Failure 404 {object} map[string]string "Gym not found"
// @Failure 500 {object} map[string]string "Join failed"
// @Security BearerAuth
// @Router /gym-codes/join [post]
func (h *gymCodeHandler) joinGym(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.JoinGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for JoinGym", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		logger.Error("Acting identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	membership, err := h.membershipService.JoinGym(c.Request.Context(), identity, req.GymCode, req.ProfileImage)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Join request not approved"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to join gym in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join gym"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.JoinGymResponse{
		Success:      true,
		GymCode:      membership.GymCode,
		ProfileImage: membership.ProfileImage,
	})
}

// createGym godoc
// @Summary Register a new gym
// @Description Creates a gym with a unique, immutable code. Super-admin only.
// @Tags gyms
// @Accept  json
// @Produce  json
// @Param   gym body dto.CreateGymRequest true "Gym details"
// @Success 201 {object} dto.GymResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not super-admin)"
// @Failure 409 {object} map[string]string "Gym code already exists"
// @Failure 500 {object} map[string]string "Failed to create gym"
// @Security BearerAuth
// @Router /gyms [post]
func (h *gymCodeHandler) createGym(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGym", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		logger.Error("Acting identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	gym, err := h.gymService.CreateGym(c.Request.Context(), identity, req.GymCode, req.Name, req.OwnerEmail, req.ProfileImage)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Gym code already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create gym in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gym"})
		}
		return
	}

	logger.Info("Gym created successfully", slog.String("gym_code", gym.GymCode))
	c.JSON(http.StatusCreated, dto.ToGymResponse(gym))
}

// getGym godoc
// @Summary Get a gym by code
// @Tags gyms
// @Produce  json
// @Param   gym_code path string true "Gym code"
// @Success 200 {object} dto.GymResponse
// @Failure 404 {object} map[string]string "Gym not found"
// @Security BearerAuth
// @Router /gyms/{gym_code} [get]
func (h *gymCodeHandler) getGym(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	gym, err := h.gymService.GetGymByCode(c.Request.Context(), c.Param("gym_code"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get gym in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get gym"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGymResponse(gym))
}

// listGyms godoc
// @Summary List registered gyms
// @Tags gyms
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListGymsResponse
// @Failure 500 {object} map[string]string "Failed to list gyms"
// @Security BearerAuth
// @Router /gyms [get]
func (h *gymCodeHandler) listGyms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		Limit  int `form:"limit,default=20"`
		Offset int `form:"offset,default=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	gyms, err := h.gymService.ListGyms(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		logger.Error("Failed to list gyms from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list gyms"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListGymsResponse(gyms))
}
