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

func seedVehicleCase(t *testing.T, store *memory.Memory) *domain.ServiceCase {
	t.Helper()
	c := &domain.ServiceCase{TicketID: "ticket-1", Status: domain.CaseStatusReceived}
	gt.NoError(t, store.Cases().CreateVehicleCase(context.Background(), c)).Required()
	return c
}

func technician(store *memory.Memory) *domain.StaffMember {
	location := "LOC1"
	return store.PutStaff(&domain.StaffMember{
		Name:       "Kai",
		Email:      "kai@ewheels.example",
		Role:       domain.RoleTechnician,
		LocationID: &location,
		Active:     true,
	})
}

func TestCaseLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewCaseService(store.Cases())
	tech := technician(store)
	c := seedVehicleCase(t, store)

	for _, to := range []domain.CaseStatus{
		domain.CaseStatusDiagnosed,
		domain.CaseStatusInProgress,
		domain.CaseStatusCompleted,
		domain.CaseStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(ctx, tech, domain.CaseTypeVehicle, c.ID, to)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(to)
	}
}

func TestCaseLifecycleRejectsSkips(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewCaseService(store.Cases())
	tech := technician(store)
	c := seedVehicleCase(t, store)

	_, err := svc.UpdateStatus(ctx, tech, domain.CaseTypeVehicle, c.ID, domain.CaseStatusCompleted)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "ILLEGAL_TRANSITION")).True()

	_, err = svc.UpdateStatus(ctx, tech, domain.CaseTypeVehicle, c.ID, domain.CaseStatus("scrapped"))
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()
}

func TestCaseUpdatePermissions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewCaseService(store.Cases())
	c := seedVehicleCase(t, store)

	location := "LOC1"
	frontDesk := store.PutStaff(&domain.StaffMember{
		Name:       "Dana",
		Email:      "dana@ewheels.example",
		Role:       domain.RoleFrontDeskManager,
		LocationID: &location,
		Active:     true,
	})
	_, err := svc.UpdateStatus(ctx, frontDesk, domain.CaseTypeVehicle, c.ID, domain.CaseStatusDiagnosed)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "PERMISSION_DENIED")).True()

	// Front desk can still read the case.
	got, err := svc.GetCase(ctx, frontDesk, domain.CaseTypeVehicle, c.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ID).Equal(c.ID)
}

func TestCaseDetailsRecomputeTotal(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewCaseService(store.Cases())
	tech := technician(store)
	c := seedVehicleCase(t, store)

	parts := 120.50
	notes := "controller board corroded"
	updated, err := svc.UpdateDetails(ctx, tech, domain.CaseTypeVehicle, c.ID, service.CaseUpdateInput{
		DiagnosticNotes: &notes,
		PartsCost:       &parts,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, *updated.DiagnosticNotes).Equal(notes)
	gt.Value(t, *updated.TotalCost).Equal(120.50)

	labor := 80.0
	updated, err = svc.UpdateDetails(ctx, tech, domain.CaseTypeVehicle, c.ID, service.CaseUpdateInput{
		LaborCost: &labor,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, *updated.TotalCost).Equal(200.50)

	negative := -5.0
	_, err = svc.UpdateDetails(ctx, tech, domain.CaseTypeVehicle, c.ID, service.CaseUpdateInput{
		PartsCost: &negative,
	})
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "VALIDATION_FAILED")).True()
}

func TestCaseTypeSelectsStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := service.NewCaseService(store.Cases())
	tech := technician(store)
	c := seedVehicleCase(t, store)

	_, err := svc.GetCase(ctx, tech, domain.CaseTypeBattery, c.ID)
	gt.Error(t, err)
	gt.Bool(t, apperrors.IsCode(err, "NOT_FOUND")).True()
}
