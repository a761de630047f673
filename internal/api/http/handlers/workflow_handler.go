package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ewheels/service-desk/internal/api/dto"
	"github.com/ewheels/service-desk/internal/auth"
	"github.com/ewheels/service-desk/internal/service"
	"github.com/ewheels/service-desk/internal/workflow"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// WorkflowHandler exposes lifecycle operations: transition, triage, and the
// status update log.
type WorkflowHandler struct {
	service *service.WorkflowService
}

// NewWorkflowHandler constructs handler.
func NewWorkflowHandler(workflowService *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: workflowService}
}

func actorFromContext(c *fiber.Ctx) (workflow.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return workflow.Actor{}, apperrors.NewUnauthorized("staff required")
	}
	return workflow.Actor{ID: principal.Staff.ID, Role: principal.Staff.Role}, nil
}

// Transition POST /tickets/:id/transition.
func (h *WorkflowHandler) Transition(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.To == "" {
		return apperrors.NewValidationError("target status required", nil)
	}

	result, err := h.service.RequestTransition(c.Context(), actor, c.Params("id"), req.To, workflow.TransitionPayload{
		TechnicianID: req.TechnicianID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workflowResponse(result)})
}

// Triage POST /tickets/:id/triage.
func (h *WorkflowHandler) Triage(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.TriageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RouteTo == "" {
		return apperrors.NewValidationError("route_to required", nil)
	}

	result, err := h.service.RequestTriage(c.Context(), actor, c.Params("id"), req.RouteTo, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workflowResponse(result)})
}

// AppendUpdate POST /tickets/:id/updates.
func (h *WorkflowHandler) AppendUpdate(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	entry, err := h.service.AppendUpdate(c.Context(), actor, c.Params("id"), req.TicketStatus, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": statusUpdateResponse(entry)})
}

// ListUpdates GET /tickets/:id/updates.
func (h *WorkflowHandler) ListUpdates(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	entries, err := h.service.ListUpdates(c.Context(), actor, c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.StatusUpdateResponse, 0, len(entries))
	for i := range entries {
		items = append(items, statusUpdateResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func workflowResponse(result *service.WorkflowResult) dto.WorkflowResponse {
	return dto.WorkflowResponse{
		Ticket: ticketDetail(result.Ticket, result.Cases),
		Cases:  caseResponses(result.Cases),
	}
}
