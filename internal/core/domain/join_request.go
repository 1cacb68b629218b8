package domain

import "time"

// GymRole defines the roles an actor can hold (or request) within a gym.
type GymRole string

const (
	RoleMember     GymRole = "MEMBER"
	RoleStaff      GymRole = "STAFF"
	RoleTrainer    GymRole = "TRAINER"
	RoleAdmin      GymRole = "ADMIN"
	RoleSuperAdmin GymRole = "SUPERADMIN"
)

// RequestableRoles are the roles a join request may be submitted for.
// SUPERADMIN is provisioned out of band and never requested.
var RequestableRoles = []GymRole{RoleMember, RoleStaff, RoleTrainer, RoleAdmin}

// IsRequestable reports whether the role may appear on a join request.
func (r GymRole) IsRequestable() bool {
	switch r {
	case RoleMember, RoleStaff, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// RequestStatus is the state of a join request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
	// StatusUnknown is a poll-side answer, never stored: no matching request exists yet.
	StatusUnknown RequestStatus = "UNKNOWN"
)

// IsTerminal reports whether the status ends the request lifecycle.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// JoinRequest is one actor's attempt to attach to a gym under a role.
// At most one PENDING request exists per (gymCode, requesterEmail, role) tuple;
// the role never changes after admission. Terminal requests are kept for history.
type JoinRequest struct {
	RequestID      string        `json:"requestID" db:"request_id"` // Primary Key (UUID)
	GymCode        string        `json:"gymCode" db:"gym_code"`     // FK -> gyms.gym_code
	RequesterEmail string        `json:"requesterEmail" db:"requester_email"`
	FullName       string        `json:"fullName" db:"full_name"`
	Role           GymRole       `json:"role" db:"role"`
	Status         RequestStatus `json:"status" db:"status"`
	RequestedAt    time.Time     `json:"requestedAt" db:"requested_at"`
	ApprovedBy     *string       `json:"approvedBy,omitempty" db:"approved_by"` // Set iff status APPROVED
	RejectedBy     *string       `json:"rejectedBy,omitempty" db:"rejected_by"` // Set iff status REJECTED
}

// RequestAction is a terminal transition applied to a pending join request.
type RequestAction string

const (
	ActionApprove RequestAction = "APPROVE"
	ActionReject  RequestAction = "REJECT"
)

// TargetStatus maps an action to the terminal status it produces.
func (a RequestAction) TargetStatus() RequestStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}
