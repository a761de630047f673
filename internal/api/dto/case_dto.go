package dto

import "github.com/ewheels/service-desk/internal/domain"

// CaseStatusRequest payload for case sub-lifecycle changes.
type CaseStatusRequest struct {
	To domain.CaseStatus `json:"to"`
}

// CaseDetailsRequest payload for diagnostics and costs.
type CaseDetailsRequest struct {
	DiagnosticNotes *string  `json:"diagnostic_notes,omitempty"`
	PartsCost       *float64 `json:"parts_cost,omitempty"`
	LaborCost       *float64 `json:"labor_cost,omitempty"`
}
