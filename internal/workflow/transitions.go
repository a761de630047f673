package workflow

import (
	"time"

	"github.com/ewheels/service-desk/internal/authz"
	"github.com/ewheels/service-desk/internal/domain"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// Actor identifies the staff member requesting a workflow operation.
type Actor struct {
	ID   string
	Role domain.StaffRole
}

// TransitionPayload carries action-specific fields for a status change.
type TransitionPayload struct {
	// TechnicianID is required on the triaged->assigned edge.
	TechnicianID *string
}

// allowedTransitions is the exhaustive edge set of the ticket state machine.
// reported->triaged is deliberately absent: leaving reported is only
// possible through the triage router, never a bare status set.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusReported: {},
	domain.TicketStatusTriaged:  {domain.TicketStatusAssigned},
	domain.TicketStatusAssigned: {
		domain.TicketStatusInProgress,
		domain.TicketStatusOnHold,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusCompleted,
		domain.TicketStatusOnHold,
		domain.TicketStatusWaitingApproval,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusOnHold: {
		domain.TicketStatusInProgress,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusWaitingApproval: {
		domain.TicketStatusInProgress,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusCompleted: {
		domain.TicketStatusDelivered,
		domain.TicketStatusClosed,
	},
	domain.TicketStatusDelivered: {domain.TicketStatusClosed},
	domain.TicketStatusClosed:    {},
	domain.TicketStatusCancelled: {},
}

// AllowedTargets returns the legal successor statuses for the given status.
func AllowedTargets(from domain.TicketStatus) []domain.TicketStatus {
	targets := allowedTransitions[from]
	out := make([]domain.TicketStatus, len(targets))
	copy(out, targets)
	return out
}

func allowedTargetStrings(from domain.TicketStatus) []string {
	targets := allowedTransitions[from]
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = string(t)
	}
	return out
}

func edgeAllowed(from, to domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// TransitionPlan is the validated outcome of a transition request. Nothing
// is mutated until the plan is applied, so any validation failure aborts
// before the first write.
type TransitionPlan struct {
	From       domain.TicketStatus
	To         domain.TicketStatus
	AssigneeID *string
}

// PlanTransition validates a requested status change against the state
// machine, the permission table, and the actor's relationship to the ticket.
func PlanTransition(actor Actor, ticket *domain.ServiceTicket, to domain.TicketStatus, payload TransitionPayload) (*TransitionPlan, error) {
	if !to.Valid() {
		return nil, apperrors.NewValidationError("unknown target status", map[string]any{"to": to})
	}
	if ticket.Status == to {
		// Status-refresh is rejected; narrative-only updates go through the
		// status update log.
		return nil, apperrors.NewIllegalTransition(string(ticket.Status), string(to), allowedTargetStrings(ticket.Status))
	}
	if !edgeAllowed(ticket.Status, to) {
		return nil, apperrors.NewIllegalTransition(string(ticket.Status), string(to), allowedTargetStrings(ticket.Status))
	}
	if !authz.HasPermission(actor.Role, authz.PermUpdateTicketStatus) {
		return nil, apperrors.NewPermissionDenied("role may not update ticket status")
	}

	plan := &TransitionPlan{From: ticket.Status, To: to}

	if ticket.Status == domain.TicketStatusTriaged && to == domain.TicketStatusAssigned {
		if !authz.HasPermission(actor.Role, authz.PermAssignTechnicians) {
			return nil, apperrors.NewPermissionDenied("role may not assign technicians")
		}
		if payload.TechnicianID == nil || *payload.TechnicianID == "" {
			return nil, apperrors.NewValidationError("technician id required to assign ticket", nil)
		}
		plan.AssigneeID = payload.TechnicianID
	}

	// Technicians may only transition tickets currently assigned to them.
	if actor.Role == domain.RoleTechnician {
		if ticket.AssigneeID == nil || *ticket.AssigneeID != actor.ID {
			return nil, apperrors.NewPermissionDenied("ticket is not assigned to you")
		}
	}

	return plan, nil
}

// Apply mutates the ticket per the validated plan. Milestone timestamps are
// stamped once on entry and cleared again when the ticket re-enters a
// non-terminal working status, so a reopened ticket never keeps a stale
// completion stamp.
func (p *TransitionPlan) Apply(ticket *domain.ServiceTicket, actor Actor, now time.Time) {
	ticket.Status = p.To
	ticket.UpdatedBy = actor.ID
	ticket.UpdatedAt = now
	if p.AssigneeID != nil {
		ticket.AssigneeID = p.AssigneeID
	}

	switch p.To {
	case domain.TicketStatusCompleted:
		if ticket.CompletedAt == nil {
			ticket.CompletedAt = &now
		}
	case domain.TicketStatusDelivered:
		if ticket.DeliveredAt == nil {
			ticket.DeliveredAt = &now
		}
	case domain.TicketStatusClosed:
		if ticket.ClosedAt == nil {
			ticket.ClosedAt = &now
		}
	case domain.TicketStatusCancelled:
		if ticket.CancelledAt == nil {
			ticket.CancelledAt = &now
		}
	default:
		ticket.CompletedAt = nil
		ticket.DeliveredAt = nil
		ticket.ClosedAt = nil
	}
}
