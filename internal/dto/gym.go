package dto

import (
	"time"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// --- Gym DTOs ---

// VerifyGymCodeRequest defines the body of a gym code verification.
type VerifyGymCodeRequest struct {
	GymCode string `json:"gymCode" binding:"required"`
}

// VerifyGymCodeResponse reports whether the code resolved and, when it did, the
// display data a client shows before the join attempt.
type VerifyGymCodeResponse struct {
	Valid bool         `json:"valid"`
	Gym   *GymResponse `json:"gym,omitempty"`
}

// CreateGymRequest defines data for registering a new gym.
type CreateGymRequest struct {
	GymCode      string `json:"gymCode" binding:"required"`
	Name         string `json:"name" binding:"required"`
	OwnerEmail   string `json:"ownerEmail" binding:"required,email"`
	ProfileImage string `json:"profileImage"`
}

// GymResponse defines data returned for a gym.
type GymResponse struct {
	GymCode      string           `json:"gymCode"`
	Name         string           `json:"name"`
	OwnerEmail   string           `json:"ownerEmail"`
	ProfileImage string           `json:"profileImage,omitempty"`
	Status       domain.GymStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	CreatedBy    string           `json:"createdBy"`
}

// ToGymResponse converts domain.Gym to DTO.
func ToGymResponse(g *domain.Gym) GymResponse {
	return GymResponse{
		GymCode:      g.GymCode,
		Name:         g.Name,
		OwnerEmail:   g.OwnerEmail,
		ProfileImage: g.ProfileImage,
		Status:       g.Status,
		CreatedAt:    g.CreatedAt,
		CreatedBy:    g.CreatedBy,
	}
}

// ListGymsResponse wraps a list of gyms.
type ListGymsResponse struct {
	Gyms []GymResponse `json:"gyms"`
}

// ToListGymsResponse converts a slice of domain.Gym to DTO.
func ToListGymsResponse(gs []domain.Gym) ListGymsResponse {
	list := make([]GymResponse, len(gs))
	for i, g := range gs {
		list[i] = ToGymResponse(&g)
	}
	return ListGymsResponse{Gyms: list}
}

// --- Membership DTOs ---

// JoinGymRequest defines the body of a post-approval join.
type JoinGymRequest struct {
	GymCode      string `json:"gymCode" binding:"required"`
	ProfileImage string `json:"profileImage"`
}

// JoinGymResponse confirms the attachment and echoes the stored profile image.
type JoinGymResponse struct {
	Success      bool   `json:"success"`
	GymCode      string `json:"gymCode"`
	ProfileImage string `json:"profileImage,omitempty"`
}
