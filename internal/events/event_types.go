package events

import (
	"time"

	"github.com/ewheels/service-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketReported      EventType = "ticket_reported"
	EventTicketTriaged       EventType = "ticket_triaged"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventStatusUpdateAdded   EventType = "status_update_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	TicketID  string           `json:"ticket_id"`
	ActorID   string           `json:"actor_id"`
	ActorRole domain.StaffRole `json:"actor_role"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   interface{}      `json:"payload"`
}

// TicketReportedPayload payload.
type TicketReportedPayload struct {
	TicketNumber string                 `json:"ticket_number"`
	LocationID   string                 `json:"location_id"`
	CustomerID   string                 `json:"customer_id"`
	Priority     *domain.TicketPriority `json:"priority,omitempty"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	RouteTo       domain.CustomerBringing `json:"route_to"`
	VehicleCaseID *string                 `json:"vehicle_case_id,omitempty"`
	BatteryCaseID *string                 `json:"battery_case_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID string `json:"technician_id"`
}

// StatusUpdateAddedPayload payload.
type StatusUpdateAddedPayload struct {
	EntryID      string              `json:"entry_id"`
	TicketStatus domain.TicketStatus `json:"ticket_status"`
}
