package dto

import "github.com/ewheels/service-desk/internal/domain"

// TransitionRequest payload for a status change.
type TransitionRequest struct {
	To           domain.TicketStatus `json:"to"`
	TechnicianID *string             `json:"technician_id,omitempty"`
}

// TriageRequest payload for the routing decision.
type TriageRequest struct {
	RouteTo domain.CustomerBringing `json:"route_to"`
	Note    *string                 `json:"note,omitempty"`
}

// StatusUpdateRequest payload for a narrative note.
type StatusUpdateRequest struct {
	TicketStatus domain.TicketStatus `json:"ticket_status"`
	Message      string              `json:"message"`
}

// WorkflowResponse wraps the updated ticket and its cases.
type WorkflowResponse struct {
	Ticket TicketDetailResponse `json:"ticket"`
	Cases  []CaseResponse       `json:"cases"`
}
