// Package oracle provides the business-service stand-ins the workflow engine
// consults: eligibility, code conversion, RCM review, and reimbursement
// forecasting. The default implementation is deterministic; a real service
// can be substituted behind the same interface without touching the engine.
package oracle

import (
	"context"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// Oracles is the set of domain computations the engine calls during
// transitions. Implementations must be safe for concurrent use.
type Oracles interface {
	// CheckEligibility runs the payer eligibility check for a case.
	CheckEligibility(ctx context.Context, caseID string) (*entity.EligibilityResult, error)

	// ConvertCodes converts ADA CDT codes to CPT and flags reimbursement issues.
	ConvertCodes(ctx context.Context, caseID string) (*entity.ConversionResult, error)

	// RCMReview returns the RCM expert's response on the duplicate alert.
	RCMReview(ctx context.Context, caseID string) (*entity.RCMReview, error)

	// Forecast projects the reimbursement amount, timeline and risk.
	Forecast(ctx context.Context, caseID string) (*entity.ReimbursementForecast, error)
}
