package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ewheels/service-desk/internal/api/dto"
	"github.com/ewheels/service-desk/internal/auth"
	"github.com/ewheels/service-desk/internal/domain"
	"github.com/ewheels/service-desk/internal/service"
	apperrors "github.com/ewheels/service-desk/pkg/util"
)

// TicketsHandler manages ticket intake and read endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" || strings.TrimSpace(req.Complaint) == "" {
		return apperrors.NewValidationError("customer_id and complaint required", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), principal.Staff, service.TicketCreateInput{
		LocationID:   req.LocationID,
		CustomerID:   req.CustomerID,
		Complaint:    req.Complaint,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VehicleReg:   req.VehicleReg,
		VehicleYear:  req.VehicleYear,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	tickets, err := h.service.ListTickets(c.Context(), principal.Staff, parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	ticket, cases, err := h.service.GetTicket(c.Context(), principal.Staff, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, cases)})
}

// GetTicketByNumber GET /tickets/number/:number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	ticket, cases, err := h.service.GetTicketByNumber(c.Context(), principal.Staff, c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, cases)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			if parsed, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				filter.Priorities = append(filter.Priorities, domain.TicketPriority(parsed))
			}
		}
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if customer := c.Query("customer_id"); customer != "" {
		filter.CustomerID = &customer
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.ServiceTicket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		LocationID:   ticket.LocationID,
		CustomerID:   ticket.CustomerID,
		Complaint:    ticket.Complaint,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		AssigneeID:   ticket.AssigneeID,
		DueDate:      ticket.DueDate,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.ServiceTicket, cases []domain.ServiceCase) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketSummary:    ticketSummary(ticket),
		VehicleMake:      ticket.VehicleMake,
		VehicleModel:     ticket.VehicleModel,
		VehicleReg:       ticket.VehicleReg,
		VehicleYear:      ticket.VehicleYear,
		CustomerBringing: ticket.CustomerBringing,
		TriagedAt:        ticket.TriagedAt,
		TriagedBy:        ticket.TriagedBy,
		TriageNotes:      ticket.TriageNotes,
		VehicleCaseID:    ticket.VehicleCaseID,
		BatteryCaseID:    ticket.BatteryCaseID,
		CompletedAt:      ticket.CompletedAt,
		DeliveredAt:      ticket.DeliveredAt,
		ClosedAt:         ticket.ClosedAt,
		CancelledAt:      ticket.CancelledAt,
		Cases:            caseResponses(cases),
	}
}

func caseResponses(cases []domain.ServiceCase) []dto.CaseResponse {
	out := make([]dto.CaseResponse, 0, len(cases))
	for _, c := range cases {
		out = append(out, caseResponse(&c))
	}
	return out
}

func caseResponse(c *domain.ServiceCase) dto.CaseResponse {
	return dto.CaseResponse{
		ID:              c.ID,
		TicketID:        c.TicketID,
		Type:            c.Type,
		Status:          c.Status,
		DiagnosticNotes: c.DiagnosticNotes,
		PartsCost:       c.PartsCost,
		LaborCost:       c.LaborCost,
		TotalCost:       c.TotalCost,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func statusUpdateResponse(entry *domain.StatusUpdateEntry) dto.StatusUpdateResponse {
	return dto.StatusUpdateResponse{
		ID:           entry.ID,
		TicketID:     entry.TicketID,
		TicketStatus: entry.TicketStatus,
		Message:      entry.Message,
		AuthorID:     entry.AuthorID,
		CreatedAt:    entry.CreatedAt,
	}
}
