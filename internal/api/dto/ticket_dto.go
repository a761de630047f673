package dto

import (
	"time"

	"github.com/ewheels/service-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	LocationID   string                 `json:"location_id"`
	CustomerID   string                 `json:"customer_id"`
	Complaint    string                 `json:"complaint"`
	VehicleMake  *string                `json:"vehicle_make,omitempty"`
	VehicleModel *string                `json:"vehicle_model,omitempty"`
	VehicleReg   *string                `json:"vehicle_reg,omitempty"`
	VehicleYear  *int                   `json:"vehicle_year,omitempty"`
	Priority     *domain.TicketPriority `json:"priority,omitempty"`
	DueDate      *time.Time             `json:"due_date,omitempty"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                 `json:"id"`
	TicketNumber string                 `json:"ticket_number"`
	LocationID   string                 `json:"location_id"`
	CustomerID   string                 `json:"customer_id"`
	Complaint    string                 `json:"complaint"`
	Status       domain.TicketStatus    `json:"status"`
	Priority     *domain.TicketPriority `json:"priority,omitempty"`
	AssigneeID   *string                `json:"assignee_id,omitempty"`
	DueDate      *time.Time             `json:"due_date,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info including triage outcome.
type TicketDetailResponse struct {
	TicketSummary
	VehicleMake      *string                  `json:"vehicle_make,omitempty"`
	VehicleModel     *string                  `json:"vehicle_model,omitempty"`
	VehicleReg       *string                  `json:"vehicle_reg,omitempty"`
	VehicleYear      *int                     `json:"vehicle_year,omitempty"`
	CustomerBringing *domain.CustomerBringing `json:"customer_bringing,omitempty"`
	TriagedAt        *time.Time               `json:"triaged_at,omitempty"`
	TriagedBy        *string                  `json:"triaged_by,omitempty"`
	TriageNotes      *string                  `json:"triage_notes,omitempty"`
	VehicleCaseID    *string                  `json:"vehicle_case_id,omitempty"`
	BatteryCaseID    *string                  `json:"battery_case_id,omitempty"`
	CompletedAt      *time.Time               `json:"completed_at,omitempty"`
	DeliveredAt      *time.Time               `json:"delivered_at,omitempty"`
	ClosedAt         *time.Time               `json:"closed_at,omitempty"`
	CancelledAt      *time.Time               `json:"cancelled_at,omitempty"`
	Cases            []CaseResponse           `json:"cases"`
}

// CaseResponse represents a specialized case.
type CaseResponse struct {
	ID              string            `json:"id"`
	TicketID        string            `json:"ticket_id"`
	Type            domain.CaseType   `json:"type"`
	Status          domain.CaseStatus `json:"status"`
	DiagnosticNotes *string           `json:"diagnostic_notes,omitempty"`
	PartsCost       *float64          `json:"parts_cost,omitempty"`
	LaborCost       *float64          `json:"labor_cost,omitempty"`
	TotalCost       *float64          `json:"total_cost,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// StatusUpdateResponse represents a narrative trail entry.
type StatusUpdateResponse struct {
	ID           string              `json:"id"`
	TicketID     string              `json:"ticket_id"`
	TicketStatus domain.TicketStatus `json:"ticket_status"`
	Message      string              `json:"message"`
	AuthorID     string              `json:"author_id"`
	CreatedAt    time.Time           `json:"created_at"`
}
