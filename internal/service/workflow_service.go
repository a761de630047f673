package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewheels/service-desk/internal/authz"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/events"
	"github.com/ewheels/service-desk/internal/repository"
	"github.com/ewheels/service-desk/internal/workflow"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// WorkflowService is the single entry point for ticket lifecycle changes.
// External callers never mutate tickets or cases directly; every transition,
// triage, and narrative update goes through here, and no operation partially
// applies a write when validation fails.
type WorkflowService struct {
	tickets    repository.TicketRepository
	cases      repository.CaseRepository
	updates    repository.StatusUpdateRepository
	dispatcher events.Dispatcher
}

// WorkflowDependencies bundles repositories for the workflow service.
type WorkflowDependencies struct {
	TicketRepo repository.TicketRepository
	CaseRepo   repository.CaseRepository
	UpdateRepo repository.StatusUpdateRepository
	Dispatcher events.Dispatcher
}

// WorkflowResult is the caller-facing shape of a successful operation.
type WorkflowResult struct {
	Ticket *domain.ServiceTicket
	Cases  []domain.ServiceCase
}

// NewWorkflowService constructs the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	return &WorkflowService{
		tickets:    deps.TicketRepo,
		cases:      deps.CaseRepo,
		updates:    deps.UpdateRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RequestTransition moves a ticket along a legal edge of the state machine.
func (s *WorkflowService) RequestTransition(ctx context.Context, actor workflow.Actor, ticketID string, to domain.TicketStatus, payload workflow.TransitionPayload) (*WorkflowResult, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	plan, err := workflow.PlanTransition(actor, ticket, to, payload)
	if err != nil {
		return nil, err
	}

	from := ticket.Status
	plan.Apply(ticket, actor, time.Now())

	if err := s.tickets.UpdateFromStatus(ctx, ticket, from); err != nil {
		return nil, s.mapUpdateError(err, from)
	}

	entry := &domain.StatusUpdateEntry{
		TicketID:     ticket.ID,
		TicketStatus: ticket.Status,
		Message:      fmt.Sprintf("status changed from %s to %s", from, ticket.Status),
		AuthorID:     actor.ID,
	}
	if err := s.updates.Append(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: from,
			NewStatus: ticket.Status,
		},
	})
	if plan.AssigneeID != nil {
		s.publish(ctx, actor, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Payload:  events.TicketAssignedPayload{TechnicianID: *plan.AssigneeID},
		})
	}

	return s.result(ctx, ticket)
}

// RequestTriage performs the one-time routing decision out of reported,
// creating the specialized case record(s) for the selected variant(s). A
// retry after a partial dual-create failure creates only the missing case.
func (s *WorkflowService) RequestTriage(ctx context.Context, actor workflow.Actor, ticketID string, routeTo domain.CustomerBringing, note *string) (*WorkflowResult, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	plan, err := workflow.PlanTriage(actor, ticket, routeTo, note)
	if err != nil {
		return nil, err
	}

	vehicleCaseID := ticket.VehicleCaseID
	batteryCaseID := ticket.BatteryCaseID

	if plan.CreateVehicle {
		vehicleCase := &domain.ServiceCase{TicketID: ticket.ID, Status: domain.CaseStatusReceived}
		if err := s.cases.CreateVehicleCase(ctx, vehicleCase); err != nil {
			return nil, apperrors.MapError(err)
		}
		vehicleCaseID = &vehicleCase.ID
	}
	if plan.CreateBattery {
		batteryCase := &domain.ServiceCase{TicketID: ticket.ID, Status: domain.CaseStatusReceived}
		if err := s.cases.CreateBatteryCase(ctx, batteryCase); err != nil {
			// Persist any link created above so a retry resumes with only
			// the missing case instead of duplicating.
			if plan.CreateVehicle && vehicleCaseID != nil {
				ticket.VehicleCaseID = vehicleCaseID
				ticket.UpdatedBy = actor.ID
				_ = s.tickets.UpdateFromStatus(ctx, ticket, domain.TicketStatusReported)
			}
			return nil, apperrors.MapError(err)
		}
		batteryCaseID = &batteryCase.ID
	}

	plan.Apply(ticket, actor, time.Now(), vehicleCaseID, batteryCaseID)

	if err := s.tickets.UpdateFromStatus(ctx, ticket, domain.TicketStatusReported); err != nil {
		return nil, s.mapUpdateError(err, domain.TicketStatusReported)
	}

	message := fmt.Sprintf("triaged: customer bringing %s", routeTo)
	if plan.Note != nil {
		message += " - " + *plan.Note
	}
	entry := &domain.StatusUpdateEntry{
		TicketID:     ticket.ID,
		TicketStatus: ticket.Status,
		Message:      message,
		AuthorID:     actor.ID,
	}
	if err := s.updates.Append(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventTicketTriaged,
		TicketID: ticket.ID,
		Payload: events.TicketTriagedPayload{
			RouteTo:       routeTo,
			VehicleCaseID: ticket.VehicleCaseID,
			BatteryCaseID: ticket.BatteryCaseID,
		},
	})

	return s.result(ctx, ticket)
}

// AppendUpdate records a narrative note against a ticket. The supplied
// status is the caller's last-seen view; it is stored as historical context
// and deliberately not validated against the current status.
func (s *WorkflowService) AppendUpdate(ctx context.Context, actor workflow.Actor, ticketID string, statusSeen domain.TicketStatus, message string) (*domain.StatusUpdateEntry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("update message required", nil)
	}
	if len(message) > domain.StatusUpdateMaxLength {
		return nil, apperrors.NewValidationError("update message too long", map[string]any{"max_length": domain.StatusUpdateMaxLength})
	}
	if actor.ID == "" {
		return nil, apperrors.NewValidationError("author identity required", nil)
	}
	if !statusSeen.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": statusSeen})
	}
	if !authz.HasPermission(actor.Role, authz.PermAddStatusUpdate) {
		return nil, apperrors.NewPermissionDenied("role may not add status updates")
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	entry := &domain.StatusUpdateEntry{
		TicketID:     ticket.ID,
		TicketStatus: statusSeen,
		Message:      message,
		AuthorID:     actor.ID,
	}
	if err := s.updates.Append(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventStatusUpdateAdded,
		TicketID: ticket.ID,
		Payload: events.StatusUpdateAddedPayload{
			EntryID:      entry.ID,
			TicketStatus: entry.TicketStatus,
		},
	})

	return entry, nil
}

// ListUpdates returns the narrative trail for a ticket.
func (s *WorkflowService) ListUpdates(ctx context.Context, actor workflow.Actor, ticketID string, limit, offset int) ([]domain.StatusUpdateEntry, error) {
	if !authz.HasPermission(actor.Role, authz.PermViewTickets) {
		return nil, apperrors.NewPermissionDenied("role may not view tickets")
	}
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	updates, err := s.updates.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updates, nil
}

func (s *WorkflowService) getTicket(ctx context.Context, ticketID string) (*domain.ServiceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *WorkflowService) mapUpdateError(err error, expected domain.TicketStatus) error {
	if errors.Is(err, repository.ErrStatusConflict) {
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"expected_status": expected})
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", nil)
	}
	return apperrors.MapError(err)
}

func (s *WorkflowService) result(ctx context.Context, ticket *domain.ServiceTicket) (*WorkflowResult, error) {
	cases, err := s.cases.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &WorkflowResult{Ticket: ticket, Cases: cases}, nil
}

func (s *WorkflowService) publish(ctx context.Context, actor workflow.Actor, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ActorID = actor.ID
	event.ActorRole = actor.Role
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
