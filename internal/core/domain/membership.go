package domain

import "time"

// GymMembership records a finalized attachment of an actor to a gym.
// A row is written when a join request is approved, or when an already-approved
// member re-attaches through the join endpoint (upsert).
type GymMembership struct {
	GymCode      string    `json:"gymCode" db:"gym_code"` // FK -> gyms.gym_code
	MemberEmail  string    `json:"memberEmail" db:"member_email"`
	Role         GymRole   `json:"role" db:"role"`
	ProfileImage string    `json:"profileImage" db:"profile_image"` // URL into external image storage
	JoinedAt     time.Time `json:"joinedAt" db:"joined_at"`
}

// Identity is the acting identity resolved from the bearer credential:
// the authenticated email plus the role claim issued by the identity provider.
type Identity struct {
	Email string  `json:"email"`
	Role  GymRole `json:"role"`
}

// AuthorityScope is the slice of join requests an authority may see and act on.
// An empty GymCode means "all gyms" (super-admin listing across the namespace).
type AuthorityScope struct {
	GymCode        string    `json:"gymCode"`
	RequesterRoles []GymRole `json:"requesterRoles"`
}

// Covers reports whether a request for the given gym and role falls inside the scope.
func (s AuthorityScope) Covers(gymCode string, role GymRole) bool {
	if s.GymCode != "" && s.GymCode != gymCode {
		return false
	}
	for _, r := range s.RequesterRoles {
		if r == role {
			return true
		}
	}
	return false
}
