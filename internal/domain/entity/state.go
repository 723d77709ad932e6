package entity

// CaseContext is the accumulated structured memory of a case's workflow
// progress. Fields are set once and generally never cleared, only
// overwritten. The zero value is a valid empty context.
type CaseContext struct {
	Title               string                 `json:"title,omitempty"`
	CaseDetailsProvided bool                   `json:"case_details_provided,omitempty"`
	Eligibility         *EligibilityResult     `json:"eligibility,omitempty"`
	Issues              map[string]bool        `json:"issues,omitempty"`
	Conversion          *ConversionResult      `json:"conversion,omitempty"`
	Documents           map[string]string      `json:"documents,omitempty"`
	RCMReview           *RCMReview             `json:"rcm_review,omitempty"`
	Reimbursement       *ReimbursementForecast `json:"reimbursement,omitempty"`
	Actions             map[string]bool        `json:"actions,omitempty"`
}

// Named issue keys seeded at case initialization.
const (
	IssueKeyInsufficientDocumentation = "insufficient_documentation"
	IssueKeyDuplicate                 = "duplicate"
)

// Named action keys recorded when the user picks a resolution choice.
const (
	ActionRemovedProcedure     = "removed_procedure"
	ActionSubmitWithoutSupport = "submit_without_support"
)

// SetDocument records a document id under its workflow role name.
func (c *CaseContext) SetDocument(role, docID string) {
	if c.Documents == nil {
		c.Documents = make(map[string]string)
	}
	c.Documents[role] = docID
}

// SetAction flags a user-chosen resolution action.
func (c *CaseContext) SetAction(name string) {
	if c.Actions == nil {
		c.Actions = make(map[string]bool)
	}
	c.Actions[name] = true
}

// CaseState pairs the current workflow stage with its context blob. One per
// case, owned exclusively by the workflow engine.
type CaseState struct {
	Stage   string      `json:"stage"`
	Context CaseContext `json:"context"`
}
