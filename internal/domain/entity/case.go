package entity

import "time"

// Case is the user-facing summary record for a reimbursement case. The
// workflow engine projects stage/status/risk fields onto it but the record
// itself is created and deleted by the API layer.
type Case struct {
	CaseID              string    `json:"case_id"`
	Title               string    `json:"title"`
	PatientName         string    `json:"patient_name,omitempty"`
	Payer               string    `json:"payer,omitempty"`
	Status              string    `json:"status,omitempty"`
	ReimbursementAmount *float64  `json:"reimbursement_amount,omitempty"`
	ReimbursementDate   string    `json:"reimbursement_date,omitempty"`
	WorkflowStage       string    `json:"workflow_stage,omitempty"`
	WorkflowStatus      string    `json:"workflow_status,omitempty"`
	NextAction          string    `json:"next_action,omitempty"`
	RiskLevel           string    `json:"risk_level,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CaseUpdate holds projection fields to merge onto a case row. Nil pointers
// leave the column untouched; empty strings clear it.
type CaseUpdate struct {
	Status              *string
	ReimbursementAmount *float64
	ReimbursementDate   *string
	WorkflowStage       *string
	WorkflowStatus      *string
	NextAction          *string
	RiskLevel           *string
}

// Risk level constants used by the reimbursement forecast projection.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)
