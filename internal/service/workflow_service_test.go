package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/events"
	"github.com/ewheels/service-desk/internal/repository"
	"github.com/ewheels/service-desk/internal/repository/memory"
	"github.com/ewheels/service-desk/internal/service"
	"github.com/ewheels/service-desk/internal/workflow"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

func newWorkflowService(store *memory.Memory, dispatcher events.Dispatcher) *service.WorkflowService {
	return service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo: store.Tickets(),
		CaseRepo:   store.Cases(),
		UpdateRepo: store.StatusUpdates(),
		Dispatcher: dispatcher,
	})
}

func seedTicket(t *testing.T, store *memory.Memory, status domain.TicketStatus) *domain.ServiceTicket {
	t.Helper()
	ticket := &domain.ServiceTicket{
		TicketNumber: "EV-LOC1-000001",
		LocationID:   "LOC1",
		CustomerID:   "cust-1",
		Complaint:    "does not charge",
		Status:       domain.TicketStatusReported,
		CreatedBy:    "staff-fd",
		UpdatedBy:    "staff-fd",
	}
	gt.NoError(t, store.Tickets().Create(context.Background(), ticket)).Required()
	if status != domain.TicketStatusReported {
		ticket.Status = status
		gt.NoError(t, store.Tickets().UpdateFromStatus(context.Background(), ticket, domain.TicketStatusReported)).Required()
	}
	return ticket
}

func countUpdates(t *testing.T, store *memory.Memory, ticketID string) int {
	t.Helper()
	entries, err := store.StatusUpdates().ListByTicket(context.Background(), ticketID, 100, 0)
	gt.NoError(t, err).Required()
	return len(entries)
}

func TestFullLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.EventType
	for _, eventType := range []events.EventType{
		events.EventTicketTriaged,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
	} {
		et := eventType
		dispatcher.Subscribe(et, func(_ context.Context, event events.Event) error {
			published = append(published, event.Type)
			return nil
		})
	}
	svc := newWorkflowService(store, dispatcher)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	techID := "staff-tech"
	tech := workflow.Actor{ID: techID, Role: domain.RoleTechnician}

	ticket := seedTicket(t, store, domain.TicketStatusReported)

	result, err := svc.RequestTriage(ctx, floor, ticket.ID, domain.BringingVehicle, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Ticket.Status).Equal(domain.TicketStatusTriaged)
	gt.Array(t, result.Cases).Length(1)
	gt.Value(t, result.Cases[0].Status).Equal(domain.CaseStatusReceived)

	result, err = svc.RequestTransition(ctx, floor, ticket.ID, domain.TicketStatusAssigned, workflow.TransitionPayload{TechnicianID: &techID})
	gt.NoError(t, err).Required()
	gt.Value(t, *result.Ticket.AssigneeID).Equal(techID)

	for _, to := range []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
	} {
		result, err = svc.RequestTransition(ctx, tech, ticket.ID, to, workflow.TransitionPayload{})
		gt.NoError(t, err).Required()
	}
	gt.Value(t, result.Ticket.CompletedAt).NotNil()

	result, err = svc.RequestTransition(ctx, floor, ticket.ID, domain.TicketStatusDelivered, workflow.TransitionPayload{})
	gt.NoError(t, err).Required()
	result, err = svc.RequestTransition(ctx, floor, ticket.ID, domain.TicketStatusClosed, workflow.TransitionPayload{})
	gt.NoError(t, err).Required()
	gt.Value(t, result.Ticket.Status).Equal(domain.TicketStatusClosed)
	gt.Value(t, result.Ticket.ClosedAt).NotNil()

	// one entry per triage and per transition
	gt.Number(t, countUpdates(t, store, ticket.ID)).Equal(6)
	// triaged + 5 status changes + 1 assignment
	gt.Array(t, published).Length(7)
}

func TestTriageCreatesBothCases(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newWorkflowService(store, nil)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	note := "customer dropping both"
	result, err := svc.RequestTriage(ctx, floor, ticket.ID, domain.BringingBoth, &note)
	gt.NoError(t, err).Required()
	gt.Array(t, result.Cases).Length(2)
	gt.Value(t, result.Ticket.VehicleCaseID).NotNil()
	gt.Value(t, result.Ticket.BatteryCaseID).NotNil()
	gt.Value(t, *result.Ticket.TriageNotes).Equal(note)
}

func TestTriageIsOneTime(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newWorkflowService(store, nil)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.RequestTriage(ctx, floor, ticket.ID, domain.BringingVehicle, nil)
	gt.NoError(t, err).Required()

	_, err = svc.RequestTriage(ctx, floor, ticket.ID, domain.BringingVehicle, nil)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION")).True()

	cases, listErr := store.Cases().ListByTicket(ctx, ticket.ID)
	gt.NoError(t, listErr).Required()
	gt.Array(t, cases).Length(1)
}

func TestFailedTransitionWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newWorkflowService(store, nil)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	ticket := seedTicket(t, store, domain.TicketStatusAssigned)

	_, err := svc.RequestTransition(ctx, floor, ticket.ID, domain.TicketStatusCompleted, workflow.TransitionPayload{})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION")).True()

	stored, getErr := store.Tickets().GetByID(ctx, ticket.ID)
	gt.NoError(t, getErr).Required()
	gt.Value(t, stored.Status).Equal(domain.TicketStatusAssigned)
	gt.Number(t, countUpdates(t, store, ticket.ID)).Equal(0)
}

func TestTransitionUnknownTicket(t *testing.T) {
	svc := newWorkflowService(memory.New(), nil)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	_, err := svc.RequestTransition(context.Background(), floor, "missing", domain.TicketStatusInProgress, workflow.TransitionPayload{})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "NOT_FOUND")).True()
}

// staleTicketRepo serves a stale status from GetByID so the guarded update
// underneath reports a lost race.
type staleTicketRepo struct {
	repository.TicketRepository
	staleStatus domain.TicketStatus
}

func (r *staleTicketRepo) GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	ticket, err := r.TicketRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ticket.Status = r.staleStatus
	return ticket, nil
}

func TestConcurrentModificationConflict(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	ticket := seedTicket(t, store, domain.TicketStatusInProgress)

	svc := service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo: &staleTicketRepo{TicketRepository: store.Tickets(), staleStatus: domain.TicketStatusOnHold},
		CaseRepo:   store.Cases(),
		UpdateRepo: store.StatusUpdates(),
	})
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}

	_, err := svc.RequestTransition(ctx, floor, ticket.ID, domain.TicketStatusInProgress, workflow.TransitionPayload{})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "CONFLICT")).True()
	gt.Number(t, countUpdates(t, store, ticket.ID)).Equal(0)
}

// failingCaseRepo rejects battery case creation until reset.
type failingCaseRepo struct {
	repository.CaseRepository
	failBattery bool
}

func (r *failingCaseRepo) CreateBatteryCase(ctx context.Context, c *domain.ServiceCase) error {
	if r.failBattery {
		return errors.New("storage unavailable")
	}
	return r.CaseRepository.CreateBatteryCase(ctx, c)
}

func TestTriageResumesAfterPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	failing := &failingCaseRepo{CaseRepository: store.Cases(), failBattery: true}
	svc := service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo: store.Tickets(),
		CaseRepo:   failing,
		UpdateRepo: store.StatusUpdates(),
	})
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.RequestTriage(ctx, floor, ticket.ID, domain.BringingBoth, nil)
	gt.Error(t, err)

	// The vehicle case link survived the failure and the ticket stayed reported.
	stored, getErr := store.Tickets().GetByID(ctx, ticket.ID)
	gt.NoError(t, getErr).Required()
	gt.Value(t, stored.Status).Equal(domain.TicketStatusReported)
	gt.Value(t, stored.VehicleCaseID).NotNil()

	failing.failBattery = false
	result, err := svc.RequestTriage(ctx, floor, ticket.ID, domain.BringingBoth, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Ticket.Status).Equal(domain.TicketStatusTriaged)

	cases, listErr := store.Cases().ListByTicket(ctx, ticket.ID)
	gt.NoError(t, listErr).Required()
	gt.Array(t, cases).Length(2)
}

func TestAppendUpdateValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newWorkflowService(store, nil)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.AppendUpdate(ctx, floor, ticket.ID, domain.TicketStatusReported, "   ")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()

	long := make([]byte, domain.StatusUpdateMaxLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.AppendUpdate(ctx, floor, ticket.ID, domain.TicketStatusReported, string(long))
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()

	_, err = svc.AppendUpdate(ctx, floor, ticket.ID, domain.TicketStatus("bogus"), "note")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()

	unknown := workflow.Actor{ID: "staff-x", Role: domain.StaffRole("intern")}
	_, err = svc.AppendUpdate(ctx, unknown, ticket.ID, domain.TicketStatusReported, "note")
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "PERMISSION_DENIED")).True()

	gt.Number(t, countUpdates(t, store, ticket.ID)).Equal(0)
}

func TestAppendAndListUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newWorkflowService(store, nil)
	floor := workflow.Actor{ID: "staff-floor", Role: domain.RoleFloorManager}
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	entry, err := svc.AppendUpdate(ctx, floor, ticket.ID, domain.TicketStatusReported, "customer called for an update")
	gt.NoError(t, err).Required()
	gt.Value(t, entry.AuthorID).Equal(floor.ID)
	gt.Value(t, entry.TicketStatus).Equal(domain.TicketStatusReported)

	entries, err := svc.ListUpdates(ctx, floor, ticket.ID, 10, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(1)
	gt.Value(t, entries[0].Message).Equal("customer called for an update")
}
