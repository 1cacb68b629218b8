package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymadminhq/gym_management_app/internal/apperrors"
	"github.com/gymadminhq/gym_management_app/internal/core/domain"
	portssvc "github.com/gymadminhq/gym_management_app/internal/core/ports/services"
	"github.com/gymadminhq/gym_management_app/internal/dto"
	"github.com/gymadminhq/gym_management_app/internal/middleware"
)

// joinRequestHandler handles HTTP requests related to join/approval requests.
type joinRequestHandler struct {
	requestService portssvc.JoinRequestSvcFacade
}

// newJoinRequestHandler creates a new joinRequestHandler.
func newJoinRequestHandler(rs portssvc.JoinRequestSvcFacade) *joinRequestHandler {
	return &joinRequestHandler{
		requestService: rs,
	}
}

// registerJoinRequestRoutes registers routes related to join requests.
func registerJoinRequestRoutes(rg *gin.RouterGroup, requestService portssvc.JoinRequestSvcFacade) {
	h := newJoinRequestHandler(requestService)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.submitRequest)
		requests.GET("", h.listPendingRequests)
		requests.GET("/status", h.requestStatus)
		requests.POST("/:request_id/approve", h.approveRequest)
		requests.POST("/:request_id/reject", h.rejectRequest)
	}
}

// submitRequest godoc
// @Summary Submit a join/approval request
// @Description Admits a pending join request for a gym. Re-submission while a request is pending returns the stored request unchanged.
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   request body dto.SubmitJoinRequestRequest true "Join request details"
// @Success 201 {object} dto.SubmitJoinRequestResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Gym not found"
// @Failure 500 {object} map[string]string "Failed to submit request"
// @Security BearerAuth
// @Router /requests [post]
func (h *joinRequestHandler) submitRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitJoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	request, err := h.requestService.AdmitRequest(c.Request.Context(), req.GymCode, req.RequesterEmail, req.FullName, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Submit failed: gym not found", slog.String("gym_code", req.GymCode))
			c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to submit join request in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit request"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitJoinRequestResponse{
		Success: true,
		Request: dto.ToJoinRequestResponse(request),
	})
}

// listPendingRequests godoc
// @Summary List pending join requests for the calling authority
// @Description Returns pending requests inside the caller's resolved scope: an admin sees member/staff/trainer requests for their gym, a super-admin sees admin requests across gyms.
// @Tags requests
// @Produce  json
// @Param   gymCode query string false "Narrow a super-admin listing to one gym"
// @Param   limit query int false "Page size"
// @Param   pageToken query string false "Opaque page token from a previous response"
// @Success 200 {object} dto.ListJoinRequestsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller holds no approval authority"
// @Failure 500 {object} map[string]string "Failed to list requests"
// @Security BearerAuth
// @Router /requests [get]
func (h *joinRequestHandler) listPendingRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		logger.Error("Acting identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var query struct {
		GymCode   string `form:"gymCode"`
		Limit     int    `form:"limit,default=50"`
		PageToken string `form:"pageToken"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	requests, nextToken, err := h.requestService.ListPendingRequests(c.Request.Context(), identity, query.GymCode, query.PageToken, query.Limit)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("List failed: caller holds no approval authority")
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list join requests from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListJoinRequestsResponse(requests, nextToken))
}

// requestStatus godoc
// @Summary Poll the status of the caller's own join request
// @Description Returns the status of the caller's latest request for the (gymCode, role) tuple. UNKNOWN means no matching request exists yet and is not an error.
// @Tags requests
// @Produce  json
// @Param   gymCode query string true "Gym code"
// @Param   role query string true "Requested role"
// @Success 200 {object} dto.RequestStatusResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to read status"
// @Security BearerAuth
// @Router /requests/status [get]
func (h *joinRequestHandler) requestStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		logger.Error("Acting identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var query struct {
		GymCode string `form:"gymCode" binding:"required"`
		Role    string `form:"role" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	status, request, err := h.requestService.RequestStatus(c.Request.Context(), query.GymCode, identity.Email, domain.GymRole(query.Role))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to read request status from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read status"})
		return
	}

	resp := dto.RequestStatusResponse{Status: status}
	if request != nil {
		reqResp := dto.ToJoinRequestResponse(request)
		resp.Request = &reqResp
	}
	c.JSON(http.StatusOK, resp)
}

// approveRequest godoc
// @Summary Approve a pending join request
// @Description Applies the approve transition exactly once and stamps the acting identity. Fails once the request is already approved or rejected.
// @Tags requests
// @Produce  json
// @Param   request_id path string true "Request ID"
// @Success 200 {object} dto.JoinRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Request outside the caller's scope"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already finalized"
// @Failure 500 {object} map[string]string "Failed to approve request"
// @Security BearerAuth
// @Router /requests/{request_id}/approve [post]
func (h *joinRequestHandler) approveRequest(c *gin.Context) {
	h.transitionRequest(c, domain.ActionApprove)
}

// rejectRequest godoc
// @Summary Reject a pending join request
// @Description Applies the reject transition exactly once and stamps the acting identity. Fails once the request is already approved or rejected.
// @Tags requests
// @Produce  json
// @Param   request_id path string true "Request ID"
// @Success 200 {object} dto.JoinRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Request outside the caller's scope"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already finalized"
// @Failure 500 {object} map[string]string "Failed to reject request"
// @Security BearerAuth
// @Router /requests/{request_id}/reject [post]
func (h *joinRequestHandler) rejectRequest(c *gin.Context) {
	h.transitionRequest(c, domain.ActionReject)
}

func (h *joinRequestHandler) transitionRequest(c *gin.Context, action domain.RequestAction) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("request_id")

	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		logger.Error("Acting identity not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.requestService.TransitionRequest(c.Request.Context(), requestID, action, identity)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("Transition failed: request outside caller's scope", slog.String("request_id", requestID))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrAlreadyTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "Request already finalized"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to transition join request in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		}
		return
	}

	logger.Info("Join request transitioned",
		slog.String("request_id", requestID),
		slog.String("action", string(action)))
	c.JSON(http.StatusOK, dto.ToJoinRequestResponse(updated))
}
