package service_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/repository/memory"
	"github.com/ewheels/service-desk/internal/service"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

func newTicketService(store *memory.Memory) *service.TicketService {
	return service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store.Tickets(),
		CustomerRepo: store.Customers(),
		UpdateRepo:   store.StatusUpdates(),
		CaseRepo:     store.Cases(),
		Numbers:      store.TicketNumbers(),
	})
}

func seedFrontDesk(store *memory.Memory, location string) *domain.StaffMember {
	return store.PutStaff(&domain.StaffMember{
		Name:       "Dana",
		Email:      "dana@ewheels.example",
		Role:       domain.RoleFrontDeskManager,
		LocationID: &location,
		Active:     true,
	})
}

func seedCustomer(store *memory.Memory) *domain.Customer {
	return store.PutCustomer(&domain.Customer{Name: "Sam", Phone: "555-0100"})
}

func TestCreateTicketDefaults(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	staff := seedFrontDesk(store, "LOC1")
	customer := seedCustomer(store)

	ticket, err := svc.CreateTicket(ctx, staff, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: customer.ID,
		Complaint:  "  motor whines under load  ",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, ticket.Status).Equal(domain.TicketStatusReported)
	gt.Value(t, ticket.TicketNumber).Equal("EV-LOC1-000001")
	gt.Value(t, ticket.Complaint).Equal("motor whines under load")
	gt.Value(t, ticket.Priority).Nil()
	gt.Value(t, ticket.CreatedBy).Equal(staff.ID)

	second, err := svc.CreateTicket(ctx, staff, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: customer.ID,
		Complaint:  "brake squeal",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, second.TicketNumber).Equal("EV-LOC1-000002")
}

func TestCreateTicketValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	staff := seedFrontDesk(store, "LOC1")
	customer := seedCustomer(store)

	_, err := svc.CreateTicket(ctx, staff, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: customer.ID,
		Complaint:  "   ",
	})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()

	badPriority := domain.TicketPriority(9)
	_, err = svc.CreateTicket(ctx, staff, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: customer.ID,
		Complaint:  "won't start",
		Priority:   &badPriority,
	})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()

	_, err = svc.CreateTicket(ctx, staff, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: "missing-customer",
		Complaint:  "won't start",
	})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "NOT_FOUND")).True()
}

func TestCreateTicketPermission(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	location := "LOC1"
	tech := store.PutStaff(&domain.StaffMember{
		Name:       "Kai",
		Email:      "kai@ewheels.example",
		Role:       domain.RoleTechnician,
		LocationID: &location,
		Active:     true,
	})
	customer := seedCustomer(store)

	_, err := svc.CreateTicket(ctx, tech, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: customer.ID,
		Complaint:  "won't start",
	})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "PERMISSION_DENIED")).True()
}

func TestCreateTicketLocationRules(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	customer := seedCustomer(store)

	admin := store.PutStaff(&domain.StaffMember{
		Name:   "Alex",
		Email:  "alex@ewheels.example",
		Role:   domain.RoleAdmin,
		Active: true,
	})
	ticket, err := svc.CreateTicket(ctx, admin, service.TicketCreateInput{
		LocationID: "LOC2",
		CustomerID: customer.ID,
		Complaint:  "flat tire",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, ticket.LocationID).Equal("LOC2")

	_, err = svc.CreateTicket(ctx, admin, service.TicketCreateInput{
		CustomerID: customer.ID,
		Complaint:  "flat tire",
	})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()
}

func TestListTicketsLocationScoping(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	customer := seedCustomer(store)
	frontDesk := seedFrontDesk(store, "LOC1")

	for _, loc := range []string{"LOC1", "LOC1", "LOC2"} {
		_, err := svc.CreateTicket(ctx, frontDesk, service.TicketCreateInput{
			LocationID: loc,
			CustomerID: customer.ID,
			Complaint:  "complaint at " + loc,
		})
		gt.NoError(t, err).Required()
	}

	loc1 := "LOC1"
	floor := store.PutStaff(&domain.StaffMember{
		Name:       "Robin",
		Email:      "robin@ewheels.example",
		Role:       domain.RoleFloorManager,
		LocationID: &loc1,
		Active:     true,
	})
	visible, err := svc.ListTickets(ctx, floor, service.TicketListFilter{})
	gt.NoError(t, err).Required()
	gt.Array(t, visible).Length(2)
	for _, ticket := range visible {
		gt.Value(t, ticket.LocationID).Equal("LOC1")
	}

	all, err := svc.ListTickets(ctx, frontDesk, service.TicketListFilter{})
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)

	homeless := store.PutStaff(&domain.StaffMember{
		Name:   "Jesse",
		Email:  "jesse@ewheels.example",
		Role:   domain.RoleTechnician,
		Active: true,
	})
	none, err := svc.ListTickets(ctx, homeless, service.TicketListFilter{})
	gt.NoError(t, err).Required()
	gt.Array(t, none).Length(0)
}

func TestGetTicketLocationScope(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	customer := seedCustomer(store)
	frontDesk := seedFrontDesk(store, "LOC1")

	ticket, err := svc.CreateTicket(ctx, frontDesk, service.TicketCreateInput{
		LocationID: "LOC2",
		CustomerID: customer.ID,
		Complaint:  "rattling noise",
	})
	gt.NoError(t, err).Required()

	loc1 := "LOC1"
	tech := store.PutStaff(&domain.StaffMember{
		Name:       "Kai",
		Email:      "kai@ewheels.example",
		Role:       domain.RoleTechnician,
		LocationID: &loc1,
		Active:     true,
	})
	_, _, err = svc.GetTicket(ctx, tech, ticket.ID)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "PERMISSION_DENIED")).True()

	got, cases, err := svc.GetTicket(ctx, frontDesk, ticket.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ID).Equal(ticket.ID)
	gt.Array(t, cases).Length(0)
}

func TestGetTicketByNumber(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newTicketService(store)
	customer := seedCustomer(store)
	frontDesk := seedFrontDesk(store, "LOC1")

	ticket, err := svc.CreateTicket(ctx, frontDesk, service.TicketCreateInput{
		LocationID: "LOC1",
		CustomerID: customer.ID,
		Complaint:  "display dead",
	})
	gt.NoError(t, err).Required()

	got, _, err := svc.GetTicketByNumber(ctx, frontDesk, ticket.TicketNumber)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ID).Equal(ticket.ID)

	_, _, err = svc.GetTicketByNumber(ctx, frontDesk, "EV-LOC1-999999")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "NOT_FOUND")).True()
}
