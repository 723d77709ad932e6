package oracle

import (
	"context"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// Simulated returns canned, reproducible results for every oracle so each
// workflow branch has concrete inputs. No randomness, no I/O.
type Simulated struct{}

// NewSimulated creates the deterministic oracle set.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// CheckEligibility reports the fixed Medicare Part B result.
func (s *Simulated) CheckEligibility(ctx context.Context, caseID string) (*entity.EligibilityResult, error) {
	return &entity.EligibilityResult{
		Status:  "Likely Eligible",
		Program: "Medicare Part B",
		Notes:   "Patient meets age requirements; confirm procedure specifics to finalize reimbursement forecast.",
	}, nil
}

// ConvertCodes returns the fixed two-entry CDT-to-CPT map plus the
// documentation gap and duplicate-submission flags.
func (s *Simulated) ConvertCodes(ctx context.Context, caseID string) (*entity.ConversionResult, error) {
	return &entity.ConversionResult{
		CDTToCPT: map[string]entity.CodeMapping{
			"D7471": {CPT: "21040", Modifiers: []string{"LT"}},
			"D7955": {CPT: "21248", Modifiers: []string{}},
		},
		Issues: []entity.ConversionIssue{
			{
				Code:    "D7471",
				Type:    entity.IssueDocumentation,
				Message: "Supporting operative documentation is incomplete for D7471. Additional MD notes recommended.",
			},
			{
				Code:    "D7955",
				Type:    entity.IssueDuplicate,
				Message: "D7955 appears to duplicate a prior submission; verify if this occurred at a different location.",
			},
		},
	}, nil
}

// RCMReview returns the fixed reviewer response.
func (s *Simulated) RCMReview(ctx context.Context, caseID string) (*entity.RCMReview, error) {
	return &entity.RCMReview{
		Expert:       "Mila (RCM expert)",
		Response:     "Confirmed the procedure occurred at a different location; proceed if the multi-site detail is documented.",
		Instructions: "Clarify in the reimbursement request and SOAP note that D7955 reflects a second location.",
	}, nil
}

// Forecast returns the fixed projection.
func (s *Simulated) Forecast(ctx context.Context, caseID string) (*entity.ReimbursementForecast, error) {
	return &entity.ReimbursementForecast{
		Amount:   4820.00,
		Timeline: "14-21 days",
		Risk:     entity.RiskLow,
		Summary:  "Eligibility and documentation complete; expect partial payment in the next three weeks.",
	}, nil
}

var _ Oracles = (*Simulated)(nil)
