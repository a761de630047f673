package domain

import "time"

// CaseType distinguishes the two specialized service workflows.
type CaseType string

const (
	CaseTypeVehicle CaseType = "vehicle"
	CaseTypeBattery CaseType = "battery"
)

// CaseStatus enumerates the independent sub-lifecycle of a service case.
type CaseStatus string

const (
	CaseStatusReceived   CaseStatus = "received"
	CaseStatusDiagnosed  CaseStatus = "diagnosed"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusCompleted  CaseStatus = "completed"
	CaseStatusDelivered  CaseStatus = "delivered"
)

// Valid reports whether the status is a member of the closed enum.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusReceived, CaseStatusDiagnosed, CaseStatusInProgress,
		CaseStatusCompleted, CaseStatusDelivered:
		return true
	}
	return false
}

// ServiceCase is a specialized sub-workflow record created by triage.
// Vehicle and battery cases are structurally parallel; Type selects the
// backing table and workflow.
type ServiceCase struct {
	ID              string
	TicketID        string
	Type            CaseType
	Status          CaseStatus
	DiagnosticNotes *string
	PartsCost       *float64
	LaborCost       *float64
	TotalCost       *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
