package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ewheels/service-desk/internal/authz"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/repository"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// caseTransitions is the linear sub-lifecycle of a specialized case. It is
// independent of the parent ticket's state machine.
var caseTransitions = map[domain.CaseStatus][]domain.CaseStatus{
	domain.CaseStatusReceived:   {domain.CaseStatusDiagnosed},
	domain.CaseStatusDiagnosed:  {domain.CaseStatusInProgress},
	domain.CaseStatusInProgress: {domain.CaseStatusCompleted},
	domain.CaseStatusCompleted:  {domain.CaseStatusDelivered},
	domain.CaseStatusDelivered:  {},
}

// CaseService manages specialized cases after triage has created them.
type CaseService struct {
	cases repository.CaseRepository
}

// CaseUpdateInput carries diagnostic and cost fields.
type CaseUpdateInput struct {
	DiagnosticNotes *string
	PartsCost       *float64
	LaborCost       *float64
}

// NewCaseService constructs the service.
func NewCaseService(cases repository.CaseRepository) *CaseService {
	return &CaseService{cases: cases}
}

// GetCase fetches a case by type and id.
func (s *CaseService) GetCase(ctx context.Context, staff *domain.StaffMember, caseType domain.CaseType, caseID string) (*domain.ServiceCase, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !authz.HasPermission(staff.Role, authz.PermViewTickets) {
		return nil, apperrors.NewPermissionDenied("role may not view cases")
	}
	return s.fetch(ctx, caseType, caseID)
}

// UpdateStatus advances a case along its sub-lifecycle.
func (s *CaseService) UpdateStatus(ctx context.Context, staff *domain.StaffMember, caseType domain.CaseType, caseID string, to domain.CaseStatus) (*domain.ServiceCase, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !authz.HasPermission(staff.Role, authz.PermUpdateCases) {
		return nil, apperrors.NewPermissionDenied("role may not update cases")
	}
	if !to.Valid() {
		return nil, apperrors.NewValidationError("unknown case status", map[string]any{"to": to})
	}

	serviceCase, err := s.fetch(ctx, caseType, caseID)
	if err != nil {
		return nil, err
	}
	if !caseEdgeAllowed(serviceCase.Status, to) {
		allowed := make([]string, 0, 1)
		for _, t := range caseTransitions[serviceCase.Status] {
			allowed = append(allowed, string(t))
		}
		return nil, apperrors.NewIllegalTransition(string(serviceCase.Status), string(to), allowed)
	}
	serviceCase.Status = to
	if err := s.cases.Update(ctx, serviceCase); err != nil {
		return nil, apperrors.MapError(err)
	}
	return serviceCase, nil
}

// UpdateDetails records diagnostics and costs on a case. Total cost is
// recomputed whenever either component changes.
func (s *CaseService) UpdateDetails(ctx context.Context, staff *domain.StaffMember, caseType domain.CaseType, caseID string, input CaseUpdateInput) (*domain.ServiceCase, error) {
	if staff == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !authz.HasPermission(staff.Role, authz.PermUpdateCases) {
		return nil, apperrors.NewPermissionDenied("role may not update cases")
	}

	serviceCase, err := s.fetch(ctx, caseType, caseID)
	if err != nil {
		return nil, err
	}
	if input.DiagnosticNotes != nil {
		notes := strings.TrimSpace(*input.DiagnosticNotes)
		serviceCase.DiagnosticNotes = &notes
	}
	if input.PartsCost != nil {
		if *input.PartsCost < 0 {
			return nil, apperrors.NewValidationError("parts cost cannot be negative", nil)
		}
		serviceCase.PartsCost = input.PartsCost
	}
	if input.LaborCost != nil {
		if *input.LaborCost < 0 {
			return nil, apperrors.NewValidationError("labor cost cannot be negative", nil)
		}
		serviceCase.LaborCost = input.LaborCost
	}
	if serviceCase.PartsCost != nil || serviceCase.LaborCost != nil {
		total := 0.0
		if serviceCase.PartsCost != nil {
			total += *serviceCase.PartsCost
		}
		if serviceCase.LaborCost != nil {
			total += *serviceCase.LaborCost
		}
		serviceCase.TotalCost = &total
	}
	if err := s.cases.Update(ctx, serviceCase); err != nil {
		return nil, apperrors.MapError(err)
	}
	return serviceCase, nil
}

func (s *CaseService) fetch(ctx context.Context, caseType domain.CaseType, caseID string) (*domain.ServiceCase, error) {
	serviceCase, err := s.cases.GetByID(ctx, caseType, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return nil, apperrors.MapError(err)
	}
	return serviceCase, nil
}

func caseEdgeAllowed(from, to domain.CaseStatus) bool {
	for _, candidate := range caseTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
