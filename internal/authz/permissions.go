package authz

import "github.com/ewheels/service-desk/internal/domain"

// Permission is an atomic capability granted to one or more roles.
type Permission string

const (
	PermViewTickets        Permission = "VIEW_TICKETS"
	PermCreateTickets      Permission = "CREATE_TICKETS"
	PermUpdateTicketStatus Permission = "UPDATE_TICKET_STATUS"
	PermAssignTechnicians  Permission = "ASSIGN_TECHNICIANS"
	PermAddStatusUpdate    Permission = "ADD_STATUS_UPDATE"
	PermUpdateCases        Permission = "UPDATE_CASES"
	PermManageInvoices     Permission = "MANAGE_INVOICES"
	PermViewFinances       Permission = "VIEW_FINANCES"
	PermManageStaff        Permission = "MANAGE_STAFF"
)

// frontDeskPermissions is shared by front_desk_manager and its legacy alias
// manager so the two cannot drift apart accidentally.
var frontDeskPermissions = []Permission{
	PermViewTickets,
	PermCreateTickets,
	PermUpdateTicketStatus,
	PermAddStatusUpdate,
	PermManageInvoices,
	PermViewFinances,
}

// rolePermissions is the full static role to permission mapping. It is built
// once at init and never mutated afterwards.
var rolePermissions = buildTable(map[domain.StaffRole][]Permission{
	domain.RoleAdmin: {
		PermViewTickets,
		PermCreateTickets,
		PermUpdateTicketStatus,
		PermAssignTechnicians,
		PermAddStatusUpdate,
		PermUpdateCases,
		PermManageInvoices,
		PermViewFinances,
		PermManageStaff,
	},
	domain.RoleFrontDeskManager: frontDeskPermissions,
	domain.RoleManager:          frontDeskPermissions,
	domain.RoleFloorManager: {
		PermViewTickets,
		PermUpdateTicketStatus,
		PermAssignTechnicians,
		PermAddStatusUpdate,
		PermUpdateCases,
	},
	domain.RoleTechnician: {
		PermViewTickets,
		PermUpdateTicketStatus,
		PermAddStatusUpdate,
		PermUpdateCases,
	},
})

func buildTable(grants map[domain.StaffRole][]Permission) map[domain.StaffRole]map[Permission]struct{} {
	table := make(map[domain.StaffRole]map[Permission]struct{}, len(grants))
	for role, perms := range grants {
		set := make(map[Permission]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		table[role] = set
	}
	return table
}

// HasPermission reports whether the role may perform the action. Unknown
// roles yield false for every permission so the system fails closed.
func HasPermission(role domain.StaffRole, perm Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, granted := set[perm]
	return granted
}

// HasAny reports whether the role holds at least one of the permissions.
func HasAny(role domain.StaffRole, perms ...Permission) bool {
	for _, perm := range perms {
		if HasPermission(role, perm) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every one of the permissions.
func HasAll(role domain.StaffRole, perms ...Permission) bool {
	for _, perm := range perms {
		if !HasPermission(role, perm) {
			return false
		}
	}
	return true
}

// CanBypassLocationFilter reports whether the role's queries span all shop
// locations rather than being scoped to the actor's own.
func CanBypassLocationFilter(role domain.StaffRole) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleFrontDeskManager, domain.RoleManager:
		return true
	}
	return false
}
