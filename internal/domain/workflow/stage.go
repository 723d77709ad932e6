package workflow

// Stage represents a named point in a case's conversational workflow. It
// determines which transition rules the engine applies to incoming events.
type Stage string

const (
	StageAwaitingCaseStart        Stage = "awaiting_case_start"
	StageAwaitingCaseDetails      Stage = "awaiting_case_details"
	StageAwaitingProcedureDocs    Stage = "awaiting_procedure_documents"
	StageAwaitingResolutionChoice Stage = "awaiting_resolution_choice"
	StageAwaitingAdditionalDocs   Stage = "awaiting_additional_documentation"
	StageRCMReviewPending         Stage = "rcm_review_pending"
	StageAwaitingRCMConfirmation  Stage = "awaiting_rcm_user_confirmation"
	StageAwaitingFinalConfirm     Stage = "awaiting_final_confirmation"
	StageAwaitingSignedSOAPNote   Stage = "awaiting_signed_soap_note"
	StageCompleted                Stage = "completed"
	StageSubmitted                Stage = "submitted"
)

var validStages = map[Stage]bool{
	StageAwaitingCaseStart:        true,
	StageAwaitingCaseDetails:      true,
	StageAwaitingProcedureDocs:    true,
	StageAwaitingResolutionChoice: true,
	StageAwaitingAdditionalDocs:   true,
	StageRCMReviewPending:         true,
	StageAwaitingRCMConfirmation:  true,
	StageAwaitingFinalConfirm:     true,
	StageAwaitingSignedSOAPNote:   true,
	StageCompleted:                true,
	StageSubmitted:                true,
}

// StageSubmitted has no outgoing transitions.
var terminalStages = map[Stage]bool{
	StageSubmitted: true,
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// IsValid returns true if the stage is a known workflow stage.
func (s Stage) IsValid() bool {
	return validStages[s]
}

// IsTerminal returns true if no further transitions are allowed.
func (s Stage) IsTerminal() bool {
	return terminalStages[s]
}
