package authz_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ewheels/service-desk/internal/authz"
	"github.com/ewheels/service-desk/internal/domain"
)

func TestAdminHoldsEveryPermission(t *testing.T) {
	perms := []authz.Permission{
		authz.PermViewTickets,
		authz.PermCreateTickets,
		authz.PermUpdateTicketStatus,
		authz.PermAssignTechnicians,
		authz.PermAddStatusUpdate,
		authz.PermUpdateCases,
		authz.PermManageInvoices,
		authz.PermViewFinances,
		authz.PermManageStaff,
	}
	gt.Bool(t, authz.HasAll(domain.RoleAdmin, perms...)).True()
}

func TestRoleGrants(t *testing.T) {
	cases := []struct {
		name    string
		role    domain.StaffRole
		perm    authz.Permission
		granted bool
	}{
		{"front desk creates tickets", domain.RoleFrontDeskManager, authz.PermCreateTickets, true},
		{"front desk cannot assign", domain.RoleFrontDeskManager, authz.PermAssignTechnicians, false},
		{"front desk cannot update cases", domain.RoleFrontDeskManager, authz.PermUpdateCases, false},
		{"front desk manages invoices", domain.RoleFrontDeskManager, authz.PermManageInvoices, true},
		{"floor manager assigns", domain.RoleFloorManager, authz.PermAssignTechnicians, true},
		{"floor manager cannot create tickets", domain.RoleFloorManager, authz.PermCreateTickets, false},
		{"floor manager cannot view finances", domain.RoleFloorManager, authz.PermViewFinances, false},
		{"technician updates cases", domain.RoleTechnician, authz.PermUpdateCases, true},
		{"technician cannot assign", domain.RoleTechnician, authz.PermAssignTechnicians, false},
		{"technician cannot manage staff", domain.RoleTechnician, authz.PermManageStaff, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, authz.HasPermission(tc.role, tc.perm)).Equal(tc.granted)
		})
	}
}

func TestManagerAliasMatchesFrontDesk(t *testing.T) {
	perms := []authz.Permission{
		authz.PermViewTickets,
		authz.PermCreateTickets,
		authz.PermUpdateTicketStatus,
		authz.PermAssignTechnicians,
		authz.PermAddStatusUpdate,
		authz.PermUpdateCases,
		authz.PermManageInvoices,
		authz.PermViewFinances,
		authz.PermManageStaff,
	}
	for _, perm := range perms {
		gt.Value(t, authz.HasPermission(domain.RoleManager, perm)).
			Equal(authz.HasPermission(domain.RoleFrontDeskManager, perm))
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	unknown := domain.StaffRole("intern")
	gt.Bool(t, authz.HasPermission(unknown, authz.PermViewTickets)).False()
	gt.Bool(t, authz.HasAny(unknown, authz.PermViewTickets, authz.PermCreateTickets)).False()
	gt.Bool(t, authz.CanBypassLocationFilter(unknown)).False()
}

func TestLocationBypass(t *testing.T) {
	gt.Bool(t, authz.CanBypassLocationFilter(domain.RoleAdmin)).True()
	gt.Bool(t, authz.CanBypassLocationFilter(domain.RoleFrontDeskManager)).True()
	gt.Bool(t, authz.CanBypassLocationFilter(domain.RoleManager)).True()
	gt.Bool(t, authz.CanBypassLocationFilter(domain.RoleFloorManager)).False()
	gt.Bool(t, authz.CanBypassLocationFilter(domain.RoleTechnician)).False()
}
