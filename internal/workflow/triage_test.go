package workflow_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/workflow"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

func TestPlanTriageRoutes(t *testing.T) {
	cases := []struct {
		routeTo     domain.CustomerBringing
		wantVehicle bool
		wantBattery bool
	}{
		{domain.BringingVehicle, true, false},
		{domain.BringingBattery, false, true},
		{domain.BringingBoth, true, true},
	}
	for _, tc := range cases {
		plan, err := workflow.PlanTriage(floorManager(), ticketAt(domain.TicketStatusReported), tc.routeTo, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, plan.CreateVehicle).Equal(tc.wantVehicle)
		gt.Value(t, plan.CreateBattery).Equal(tc.wantBattery)
	}
}

func TestPlanTriageRejectsUnknownRoute(t *testing.T) {
	_, err := workflow.PlanTriage(floorManager(), ticketAt(domain.TicketStatusReported), domain.CustomerBringing("scooter"), nil)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()
}

func TestPlanTriageRequiresReportedStatus(t *testing.T) {
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusTriaged,
		domain.TicketStatusAssigned,
		domain.TicketStatusClosed,
	} {
		_, err := workflow.PlanTriage(floorManager(), ticketAt(status), domain.BringingVehicle, nil)
		gt.Error(t, err)
		gt.Bool(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION")).True()
	}
}

func TestPlanTriageConflictsWithExistingOtherCase(t *testing.T) {
	existing := "case-1"

	ticket := ticketAt(domain.TicketStatusReported)
	ticket.VehicleCaseID = &existing
	_, err := workflow.PlanTriage(floorManager(), ticket, domain.BringingBattery, nil)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "CONFLICT")).True()

	ticket = ticketAt(domain.TicketStatusReported)
	ticket.BatteryCaseID = &existing
	_, err = workflow.PlanTriage(floorManager(), ticket, domain.BringingVehicle, nil)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "CONFLICT")).True()
}

func TestPlanTriageResumesPartialDualCreate(t *testing.T) {
	existing := "case-1"
	ticket := ticketAt(domain.TicketStatusReported)
	ticket.VehicleCaseID = &existing

	plan, err := workflow.PlanTriage(floorManager(), ticket, domain.BringingBoth, nil)
	gt.NoError(t, err).Required()
	gt.Bool(t, plan.CreateVehicle).False()
	gt.Bool(t, plan.CreateBattery).True()
}

func TestPlanTriageTrimsNote(t *testing.T) {
	note := "  leaking coolant  "
	plan, err := workflow.PlanTriage(floorManager(), ticketAt(domain.TicketStatusReported), domain.BringingVehicle, &note)
	gt.NoError(t, err).Required()
	gt.Value(t, *plan.Note).Equal("leaking coolant")

	blank := "   "
	plan, err = workflow.PlanTriage(floorManager(), ticketAt(domain.TicketStatusReported), domain.BringingVehicle, &blank)
	gt.NoError(t, err).Required()
	gt.Value(t, plan.Note).Nil()
}

func TestTriageApplyStampsTicket(t *testing.T) {
	actor := floorManager()
	now := time.Now()
	ticket := ticketAt(domain.TicketStatusReported)

	plan, err := workflow.PlanTriage(actor, ticket, domain.BringingBoth, nil)
	gt.NoError(t, err).Required()

	vehicleID := "case-v"
	batteryID := "case-b"
	plan.Apply(ticket, actor, now, &vehicleID, &batteryID)

	gt.Value(t, ticket.Status).Equal(domain.TicketStatusTriaged)
	gt.Value(t, *ticket.VehicleCaseID).Equal(vehicleID)
	gt.Value(t, *ticket.BatteryCaseID).Equal(batteryID)
	gt.Value(t, *ticket.CustomerBringing).Equal(domain.BringingBoth)
	gt.Value(t, ticket.TriagedAt).NotNil()
	gt.Value(t, *ticket.TriagedBy).Equal(actor.ID)
	gt.Value(t, ticket.UpdatedBy).Equal(actor.ID)
}
