package repositories

import (
	"context"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// GymReader defines read operations for gym data.
type GymReader interface {
	// FindGymByCode retrieves a gym by its normalized (uppercase) code.
	FindGymByCode(ctx context.Context, gymCode string) (*domain.Gym, error)

	// ListGyms retrieves gyms ordered by code.
	ListGyms(ctx context.Context, limit, offset int) ([]domain.Gym, error)
}

// GymWriter defines write operations for gym data.
type GymWriter interface {
	// SaveGym persists a new gym. The code is immutable once created.
	SaveGym(ctx context.Context, gym domain.Gym) error
}

// GymRepositoryFacade combines all gym-related repository interfaces.
type GymRepositoryFacade interface {
	GymReader
	GymWriter
}
