package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ewheels/service-desk/internal/api/dto"
	"github.com/ewheels/service-desk/internal/auth"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/service"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// CasesHandler manages specialized case endpoints.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{service: caseService}
}

func caseTypeFromParam(c *fiber.Ctx) (domain.CaseType, error) {
	switch c.Params("type") {
	case string(domain.CaseTypeVehicle):
		return domain.CaseTypeVehicle, nil
	case string(domain.CaseTypeBattery):
		return domain.CaseTypeBattery, nil
	}
	return "", apperrors.NewValidationError("unknown case type", map[string]any{"type": c.Params("type")})
}

// GetCase GET /cases/:type/:id.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	caseType, err := caseTypeFromParam(c)
	if err != nil {
		return err
	}
	serviceCase, err := h.service.GetCase(c.Context(), principal.Staff, caseType, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseResponse(serviceCase)})
}

// UpdateStatus POST /cases/:type/:id/status.
func (h *CasesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	caseType, err := caseTypeFromParam(c)
	if err != nil {
		return err
	}
	var req dto.CaseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	serviceCase, err := h.service.UpdateStatus(c.Context(), principal.Staff, caseType, c.Params("id"), req.To)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseResponse(serviceCase)})
}

// UpdateDetails PATCH /cases/:type/:id.
func (h *CasesHandler) UpdateDetails(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	caseType, err := caseTypeFromParam(c)
	if err != nil {
		return err
	}
	var req dto.CaseDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	serviceCase, err := h.service.UpdateDetails(c.Context(), principal.Staff, caseType, c.Params("id"), service.CaseUpdateInput{
		DiagnosticNotes: req.DiagnosticNotes,
		PartsCost:       req.PartsCost,
		LaborCost:       req.LaborCost,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseResponse(serviceCase)})
}
