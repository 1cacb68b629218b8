package dto

import (
	"time"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// --- Join Request DTOs ---

// SubmitJoinRequestRequest defines data for submitting a join/approval request.
type SubmitJoinRequestRequest struct {
	GymCode        string         `json:"gymCode" binding:"required"`
	FullName       string         `json:"fullName" binding:"required"`
	RequesterEmail string         `json:"requesterEmail" binding:"required,email"`
	Role           domain.GymRole `json:"role" binding:"required,oneof=MEMBER STAFF TRAINER ADMIN"`
}

// JoinRequestResponse defines data returned for a join request.
type JoinRequestResponse struct {
	RequestID      string               `json:"requestID"`
	GymCode        string               `json:"gymCode"`
	RequesterEmail string               `json:"requesterEmail"`
	FullName       string               `json:"fullName"`
	Role           domain.GymRole       `json:"role"`
	Status         domain.RequestStatus `json:"status"`
	RequestedAt    time.Time            `json:"requestedAt"`
	ApprovedBy     *string              `json:"approvedBy,omitempty"`
	RejectedBy     *string              `json:"rejectedBy,omitempty"`
}

// ToJoinRequestResponse converts domain.JoinRequest to DTO.
func ToJoinRequestResponse(r *domain.JoinRequest) JoinRequestResponse {
	return JoinRequestResponse{
		RequestID:      r.RequestID,
		GymCode:        r.GymCode,
		RequesterEmail: r.RequesterEmail,
		FullName:       r.FullName,
		Role:           r.Role,
		Status:         r.Status,
		RequestedAt:    r.RequestedAt,
		ApprovedBy:     r.ApprovedBy,
		RejectedBy:     r.RejectedBy,
	}
}

// SubmitJoinRequestResponse wraps the admitted request.
type SubmitJoinRequestResponse struct {
	Success bool                `json:"success"`
	Request JoinRequestResponse `json:"request"`
}

// ListJoinRequestsResponse wraps a page of pending requests.
type ListJoinRequestsResponse struct {
	Requests      []JoinRequestResponse `json:"requests"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// ToListJoinRequestsResponse converts a slice of domain.JoinRequest to DTO.
func ToListJoinRequestsResponse(rs []domain.JoinRequest, nextPageToken string) ListJoinRequestsResponse {
	list := make([]JoinRequestResponse, len(rs))
	for i, r := range rs {
		list[i] = ToJoinRequestResponse(&r)
	}
	return ListJoinRequestsResponse{Requests: list, NextPageToken: nextPageToken}
}

// RequestStatusResponse is the poll answer: the current status of the caller's
// latest request for the tuple, UNKNOWN when none exists yet.
type RequestStatusResponse struct {
	Status  domain.RequestStatus `json:"status"`
	Request *JoinRequestResponse `json:"request,omitempty"`
}
