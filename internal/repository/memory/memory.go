// Package memory provides in-memory repository implementations used by
// tests and local development. Semantics mirror the postgres repositories,
// including the status-guarded ticket update.
package memory

import (
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/repository"
)

// Memory aggregates the in-memory repositories behind the same interfaces
// the postgres implementations satisfy.
type Memory struct {
	tickets       *ticketRepository
	cases         *caseRepository
	statusUpdates *statusUpdateRepository
	staff         *staffRepository
	customers     *customerRepository
	numbers       *numberAllocator
}

// New creates an empty in-memory store.
func New() *Memory {
	return &Memory{
		tickets:       newTicketRepository(),
		cases:         newCaseRepository(),
		statusUpdates: newStatusUpdateRepository(),
		staff:         newStaffRepository(),
		customers:     newCustomerRepository(),
		numbers:       newNumberAllocator(),
	}
}

func (m *Memory) Tickets() repository.TicketRepository             { return m.tickets }
func (m *Memory) Cases() repository.CaseRepository                 { return m.cases }
func (m *Memory) StatusUpdates() repository.StatusUpdateRepository { return m.statusUpdates }
func (m *Memory) Staff() repository.StaffRepository                { return m.staff }
func (m *Memory) Customers() repository.CustomerRepository         { return m.customers }
func (m *Memory) TicketNumbers() repository.TicketNumberAllocator  { return m.numbers }

// PutStaff seeds a staff record directly, bypassing auth flows.
func (m *Memory) PutStaff(member *domain.StaffMember) *domain.StaffMember {
	return m.staff.Put(member)
}

// PutCustomer seeds a customer record.
func (m *Memory) PutCustomer(customer *domain.Customer) *domain.Customer {
	return m.customers.Put(customer)
}
