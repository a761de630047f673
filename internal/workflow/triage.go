package workflow

import (
	"strings"
	"time"

	"github.com/ewheels/service-desk/internal/authz"
	"github.com/ewheels/service-desk/internal/domain"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// TriagePlan is the validated outcome of a triage request. CreateVehicle and
// CreateBattery name only the cases still missing, so re-running triage
// after a partial dual-create failure resumes instead of duplicating.
type TriagePlan struct {
	RouteTo       domain.CustomerBringing
	CreateVehicle bool
	CreateBattery bool
	Note          *string
}

// PlanTriage validates the one-time routing decision that converts a
// reported ticket into one or two specialized cases.
func PlanTriage(actor Actor, ticket *domain.ServiceTicket, routeTo domain.CustomerBringing, note *string) (*TriagePlan, error) {
	if !routeTo.Valid() {
		return nil, apperrors.NewValidationError("unknown routing target", map[string]any{"route_to": routeTo})
	}
	if ticket.Status != domain.TicketStatusReported {
		return nil, apperrors.NewIllegalTransition(string(ticket.Status), string(domain.TicketStatusTriaged), allowedTargetStrings(ticket.Status))
	}
	// No separate triage-only permission exists; triage rides on the general
	// status update capability.
	if !authz.HasPermission(actor.Role, authz.PermUpdateTicketStatus) {
		return nil, apperrors.NewPermissionDenied("role may not triage tickets")
	}

	wantVehicle := routeTo == domain.BringingVehicle || routeTo == domain.BringingBoth
	wantBattery := routeTo == domain.BringingBattery || routeTo == domain.BringingBoth

	if !wantVehicle && ticket.VehicleCaseID != nil {
		return nil, apperrors.NewConflict("ticket already holds a vehicle case", map[string]any{"vehicle_case_id": *ticket.VehicleCaseID})
	}
	if !wantBattery && ticket.BatteryCaseID != nil {
		return nil, apperrors.NewConflict("ticket already holds a battery case", map[string]any{"battery_case_id": *ticket.BatteryCaseID})
	}

	plan := &TriagePlan{
		RouteTo:       routeTo,
		CreateVehicle: wantVehicle && ticket.VehicleCaseID == nil,
		CreateBattery: wantBattery && ticket.BatteryCaseID == nil,
	}
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed != "" {
			plan.Note = &trimmed
		}
	}
	return plan, nil
}

// Apply stamps the triage outcome onto the ticket. Case ids are supplied by
// the caller after the corresponding case records have been created.
func (p *TriagePlan) Apply(ticket *domain.ServiceTicket, actor Actor, now time.Time, vehicleCaseID, batteryCaseID *string) {
	if vehicleCaseID != nil {
		ticket.VehicleCaseID = vehicleCaseID
	}
	if batteryCaseID != nil {
		ticket.BatteryCaseID = batteryCaseID
	}
	routeTo := p.RouteTo
	ticket.CustomerBringing = &routeTo
	ticket.Status = domain.TicketStatusTriaged
	ticket.TriagedAt = &now
	ticket.TriagedBy = &actor.ID
	ticket.TriageNotes = p.Note
	ticket.UpdatedBy = actor.ID
	ticket.UpdatedAt = now
}
