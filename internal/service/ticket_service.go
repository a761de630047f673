package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewheels/service-desk/internal/authz"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/events"
	"github.com/ewheels/service-desk/internal/repository"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// TicketService handles intake and read access for service tickets. All
// status mutation goes through WorkflowService.
type TicketService struct {
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	updates    repository.StatusUpdateRepository
	cases      repository.CaseRepository
	numbers    repository.TicketNumberAllocator
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	UpdateRepo   repository.StatusUpdateRepository
	CaseRepo     repository.CaseRepository
	Numbers      repository.TicketNumberAllocator
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes the intake payload.
type TicketCreateInput struct {
	LocationID   string
	CustomerID   string
	Complaint    string
	VehicleMake  *string
	VehicleModel *string
	VehicleReg   *string
	VehicleYear  *int
	Priority     *domain.TicketPriority
	DueDate      *time.Time
}

// TicketListFilter describes listing filters before location scoping.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	AssigneeID  *string
	CustomerID  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		updates:    deps.UpdateRepo,
		cases:      deps.CaseRepo,
		numbers:    deps.Numbers,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket logs a new customer complaint in the reported status.
func (s *TicketService) CreateTicket(ctx context.Context, staff *domain.StaffMember, input TicketCreateInput) (*domain.ServiceTicket, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !authz.HasPermission(staff.Role, authz.PermCreateTickets) {
		return nil, apperrors.NewPermissionDenied("role may not create tickets")
	}
	if strings.TrimSpace(input.Complaint) == "" {
		return nil, apperrors.NewValidationError("complaint required", nil)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}

	locationID := input.LocationID
	if !authz.CanBypassLocationFilter(staff.Role) {
		if staff.LocationID == nil {
			return nil, apperrors.NewPermissionDenied("staff member has no location")
		}
		locationID = *staff.LocationID
	}
	if locationID == "" {
		return nil, apperrors.NewValidationError("location required", nil)
	}

	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, apperrors.MapError(err)
	}

	number, err := s.numbers.Next(ctx, locationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.ServiceTicket{
		TicketNumber: number,
		LocationID:   locationID,
		CustomerID:   input.CustomerID,
		Complaint:    strings.TrimSpace(input.Complaint),
		VehicleMake:  input.VehicleMake,
		VehicleModel: input.VehicleModel,
		VehicleReg:   input.VehicleReg,
		VehicleYear:  input.VehicleYear,
		Status:       domain.TicketStatusReported,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		CreatedBy:    staff.ID,
		UpdatedBy:    staff.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	// Notification is informational only; delivery failures never block
	// the intake path.
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketReported,
			TicketID:  ticket.ID,
			ActorID:   staff.ID,
			ActorRole: staff.Role,
			Timestamp: time.Now(),
			Payload: events.TicketReportedPayload{
				TicketNumber: ticket.TicketNumber,
				LocationID:   ticket.LocationID,
				CustomerID:   ticket.CustomerID,
				Priority:     ticket.Priority,
			},
		})
	}
	return ticket, nil
}

// GetTicket fetches a ticket with its cases, enforcing location scope.
func (s *TicketService) GetTicket(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.ServiceTicket, []domain.ServiceCase, error) {
	return s.getScoped(ctx, staff, func() (*domain.ServiceTicket, error) {
		return s.tickets.GetByID(ctx, ticketID)
	})
}

// GetTicketByNumber resolves a ticket by its human-readable number.
func (s *TicketService) GetTicketByNumber(ctx context.Context, staff *domain.StaffMember, number string) (*domain.ServiceTicket, []domain.ServiceCase, error) {
	return s.getScoped(ctx, staff, func() (*domain.ServiceTicket, error) {
		return s.tickets.GetByNumber(ctx, number)
	})
}

func (s *TicketService) getScoped(ctx context.Context, staff *domain.StaffMember, fetch func() (*domain.ServiceTicket, error)) (*domain.ServiceTicket, []domain.ServiceCase, error) {
	if staff == nil {
		return nil, nil, apperrors.NewUnauthorized("staff required")
	}
	if !authz.HasPermission(staff.Role, authz.PermViewTickets) {
		return nil, nil, apperrors.NewPermissionDenied("role may not view tickets")
	}
	ticket, err := fetch()
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, nil, apperrors.NewPermissionDenied("ticket outside your location")
	}
	cases, err := s.cases.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, cases, nil
}

// ListTickets returns tickets visible to the staff member. Roles that cannot
// bypass the location filter only see their own location's tickets.
func (s *TicketService) ListTickets(ctx context.Context, staff *domain.StaffMember, filter TicketListFilter) ([]domain.ServiceTicket, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !authz.HasPermission(staff.Role, authz.PermViewTickets) {
		return nil, apperrors.NewPermissionDenied("role may not view tickets")
	}
	repoFilter := repository.TicketFilter{
		CustomerID:  filter.CustomerID,
		AssigneeID:  filter.AssigneeID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	if !authz.CanBypassLocationFilter(staff.Role) {
		if staff.LocationID == nil {
			return []domain.ServiceTicket{}, nil
		}
		repoFilter.LocationID = staff.LocationID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) staffCanAccessTicket(staff *domain.StaffMember, ticket *domain.ServiceTicket) bool {
	if authz.CanBypassLocationFilter(staff.Role) {
		return true
	}
	return staff.LocationID != nil && *staff.LocationID == ticket.LocationID
}
