package domain

import "time"

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusReported        TicketStatus = "reported"
	TicketStatusTriaged         TicketStatus = "triaged"
	TicketStatusAssigned        TicketStatus = "assigned"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusCompleted       TicketStatus = "completed"
	TicketStatusDelivered       TicketStatus = "delivered"
	TicketStatusClosed          TicketStatus = "closed"
	TicketStatusCancelled       TicketStatus = "cancelled"
	TicketStatusOnHold          TicketStatus = "on_hold"
	TicketStatusWaitingApproval TicketStatus = "waiting_approval"
)

// Valid reports whether the status is a member of the closed enum.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusReported, TicketStatusTriaged, TicketStatusAssigned,
		TicketStatusInProgress, TicketStatusCompleted, TicketStatusDelivered,
		TicketStatusClosed, TicketStatusCancelled, TicketStatusOnHold,
		TicketStatusWaitingApproval:
		return true
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusClosed || s == TicketStatusCancelled
}

// TicketPriority ranks tickets; lower is more urgent.
type TicketPriority int

const (
	TicketPriorityHigh   TicketPriority = 1
	TicketPriorityMedium TicketPriority = 2
	TicketPriorityLow    TicketPriority = 3
)

// Valid reports whether the priority is a member of the closed enum.
func (p TicketPriority) Valid() bool {
	return p >= TicketPriorityHigh && p <= TicketPriorityLow
}

// CustomerBringing records the triage routing decision.
type CustomerBringing string

const (
	BringingBattery CustomerBringing = "battery"
	BringingVehicle CustomerBringing = "vehicle"
	BringingBoth    CustomerBringing = "both"
)

// Valid reports whether the routing value is a member of the closed enum.
func (b CustomerBringing) Valid() bool {
	return b == BringingBattery || b == BringingVehicle || b == BringingBoth
}

// ServiceTicket is the aggregate for customer service requests.
type ServiceTicket struct {
	ID           string
	TicketNumber string
	LocationID   string
	CustomerID   string
	Complaint    string

	// Vehicle descriptors captured at intake, independent of any case.
	VehicleMake  *string
	VehicleModel *string
	VehicleReg   *string
	VehicleYear  *int

	Status     TicketStatus
	Priority   *TicketPriority
	AssigneeID *string
	DueDate    *time.Time

	CustomerBringing *CustomerBringing
	TriagedAt        *time.Time
	TriagedBy        *string
	TriageNotes      *string
	VehicleCaseID    *string
	BatteryCaseID    *string

	CompletedAt *time.Time
	DeliveredAt *time.Time
	ClosedAt    *time.Time
	CancelledAt *time.Time

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
