package workflow

// Projection is the static default triple a stage contributes to the
// user-facing case record when the engine supplies no overrides.
type Projection struct {
	Status         string
	WorkflowStatus string
	NextAction     string
}

// stageDefaults centralizes what each stage looks like by default. Loaded
// once, never mutated.
var stageDefaults = map[Stage]Projection{
	StageAwaitingCaseStart: {
		Status:         "Awaiting kickoff",
		WorkflowStatus: "Let the assistant know when you are ready to start the claim.",
		NextAction:     "Tell the assistant you want to start a new case.",
	},
	StageAwaitingCaseDetails: {
		Status:         "Collecting case details",
		WorkflowStatus: "Awaiting patient demographics and payer information.",
		NextAction:     "Provide case ID, patient demographics, and payer details (upload a document or type them).",
	},
	StageAwaitingProcedureDocs: {
		Status:         "Eligibility review",
		WorkflowStatus: "Eligibility looks good—need procedure specifics to continue.",
		NextAction:     "Upload the clinical notes with ADA CDT codes.",
	},
	StageAwaitingResolutionChoice: {
		Status:         "Reviewing procedure requirements",
		WorkflowStatus: "Two reimbursement issues identified. Awaiting direction.",
		NextAction:     "Choose how to handle the documentation issue for D7471.",
	},
	StageAwaitingAdditionalDocs: {
		Status:         "Gathering supporting documentation",
		WorkflowStatus: "Need additional MD documentation for D7471.",
		NextAction:     "Upload the MD or operative documentation supporting D7471.",
	},
	StageRCMReviewPending: {
		Status:         "RCM review in progress",
		WorkflowStatus: "Waiting on RCM expert feedback about the duplicate alert.",
		NextAction:     "Hold for RCM expert response.",
	},
	StageAwaitingRCMConfirmation: {
		Status:         "RCM feedback ready",
		WorkflowStatus: "Confirm the RCM recommendation about the potential duplicate.",
		NextAction:     "Confirm whether you want to proceed with the multi-location clarification.",
	},
	StageAwaitingFinalConfirm: {
		Status:         "Ready for finalization",
		WorkflowStatus: "Awaiting confirmation to generate SOAP note and signature package.",
		NextAction:     "Confirm that you want the SOAP note prepared for signature.",
	},
	StageAwaitingSignedSOAPNote: {
		Status:         "Waiting on signature",
		WorkflowStatus: "SOAP note drafted—awaiting signed upload.",
		NextAction:     "Download the SOAP note, obtain the signature, then upload the signed copy.",
	},
	StageCompleted: {
		Status:         "Ready to submit",
		WorkflowStatus: "All documents compiled and ready for payer submission.",
		NextAction:     "Download the final package and submit to the payer.",
	},
	StageSubmitted: {
		Status:         "Submitted",
		WorkflowStatus: "Claim has been submitted to the payer.",
		NextAction:     "Monitor for payer response and EOB.",
	},
}

// Defaults returns the default projection for a stage. The second return is
// false for stages with no entry (unknown or empty stage).
func Defaults(stage Stage) (Projection, bool) {
	p, ok := stageDefaults[stage]
	return p, ok
}
