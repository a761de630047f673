package domain

import "time"

// StaffRole enumerates shop operator roles.
type StaffRole string

const (
	RoleAdmin            StaffRole = "admin"
	RoleFrontDeskManager StaffRole = "front_desk_manager"
	// RoleManager is a legacy alias of RoleFrontDeskManager and carries the
	// identical permission set. Flagged for product clarification; do not
	// diverge the two without a decision.
	RoleManager      StaffRole = "manager"
	RoleFloorManager StaffRole = "floor_manager"
	RoleTechnician   StaffRole = "technician"
)

// Valid reports whether the role is a member of the closed enum.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleFrontDeskManager, RoleManager, RoleFloorManager, RoleTechnician:
		return true
	}
	return false
}

// StaffMember models a shop operator: front desk, manager, or technician.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	LocationID   *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
