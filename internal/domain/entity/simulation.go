package entity

// EligibilityResult is the output shape of the eligibility check.
type EligibilityResult struct {
	Status  string `json:"status"`
	Program string `json:"program"`
	Notes   string `json:"notes"`
}

// CodeMapping maps a single ADA CDT code to its CPT equivalent.
type CodeMapping struct {
	CPT       string   `json:"cpt"`
	Modifiers []string `json:"modifiers"`
}

// ConversionIssue flags a reimbursement problem found during code conversion.
type ConversionIssue struct {
	Code    string `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Conversion issue type constants.
const (
	IssueDocumentation = "documentation"
	IssueDuplicate     = "duplicate"
)

// ConversionResult is the output shape of the CDT-to-CPT conversion and
// policy rules check.
type ConversionResult struct {
	CDTToCPT map[string]CodeMapping `json:"cdt_to_cpt"`
	Issues   []ConversionIssue      `json:"issues"`
}

// RCMReview is the response from the (simulated) RCM expert.
type RCMReview struct {
	Expert       string `json:"expert"`
	Response     string `json:"response"`
	Instructions string `json:"instructions"`
}

// ReimbursementForecast is the projected payment outcome for a case.
type ReimbursementForecast struct {
	Amount   float64 `json:"amount"`
	Timeline string  `json:"timeline"`
	Risk     string  `json:"risk"`
	Summary  string  `json:"summary"`
}
