package domain

import "strings"

// GymStatus indicates whether a gym is accepting members.
type GymStatus string

const (
	GymActive   GymStatus = "ACTIVE"
	GymInactive GymStatus = "INACTIVE"
)

// Gym represents a single organizational unit members attach to.
// The code is human-chosen (typically name + postal code), unique, and immutable
// once the gym is created.
type Gym struct {
	GymCode      string    `json:"gymCode" db:"gym_code"` // Primary lookup key, stored uppercase
	Name         string    `json:"name" db:"name"`
	OwnerEmail   string    `json:"ownerEmail" db:"owner_email"`
	ProfileImage string    `json:"profileImage" db:"profile_image"` // URL into external image storage
	Status       GymStatus `json:"status" db:"status"`
	AuditFields
}

// NormalizeGymCode canonicalizes a user-entered gym code for lookup and storage.
// Codes are matched case-insensitively, so everything is compared uppercase.
func NormalizeGymCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
