package services

import (
	"context"

	"github.com/gymadminhq/gym_management_app/internal/core/domain"
)

// GymCodeValidatorSvc confirms a submitted gym code is real and returns display
// data needed before a join attempt. Pure read, no mutation.
type GymCodeValidatorSvc interface {
	// ValidateGymCode normalizes (trim, uppercase) and looks up the code.
	// A malformed or empty code yields (false, nil, nil) without a lookup.
	ValidateGymCode(ctx context.Context, code string) (bool, *domain.Gym, error)
}

// GymReaderSvc defines read operations for gyms.
type GymReaderSvc interface {
	GetGymByCode(ctx context.Context, code string) (*domain.Gym, error)
	ListGyms(ctx context.Context, limit, offset int) ([]domain.Gym, error)
}

// GymWriterSvc defines write operations for gyms.
type GymWriterSvc interface {
	// CreateGym registers a new gym. Only a super-admin may create gyms; the code
	// is normalized and must be unique across the namespace.
	CreateGym(ctx context.Context, creator domain.Identity, code, name, ownerEmail, profileImage string) (*domain.Gym, error)
}

// GymSvcFacade combines all gym-related service interfaces.
type GymSvcFacade interface {
	GymCodeValidatorSvc
	GymReaderSvc
	GymWriterSvc
}
