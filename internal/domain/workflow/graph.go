package workflow

import "context"

// caseGraph is the full transition graph for the reimbursement case
// workflow. Built once at package init and shared by every machine. The
// assignment lives in init, not a var initializer, so the stage validity
// table is populated before Configure validates against it.
var caseGraph StateMachineBuilder

func init() {
	caseGraph = buildCaseGraph()
}

func buildCaseGraph() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StageAwaitingCaseStart).
		Permit(TriggerStartCase, StageAwaitingCaseDetails)

	b.Configure(StageAwaitingCaseDetails).
		Permit(TriggerPatientInfo, StageAwaitingProcedureDocs)

	b.Configure(StageAwaitingProcedureDocs).
		Permit(TriggerClinicalNotes, StageAwaitingResolutionChoice)

	b.Configure(StageAwaitingResolutionChoice).
		Permit(TriggerChooseUpload, StageAwaitingAdditionalDocs).
		Permit(TriggerChooseRemove, StageRCMReviewPending).
		Permit(TriggerChooseSubmitAsIs, StageRCMReviewPending).
		Permit(TriggerPauseCase, StageAwaitingCaseStart)

	b.Configure(StageAwaitingAdditionalDocs).
		Permit(TriggerAdditionalDocs, StageRCMReviewPending)

	b.Configure(StageRCMReviewPending).
		Permit(TriggerRCMResponded, StageAwaitingRCMConfirmation)

	b.Configure(StageAwaitingRCMConfirmation).
		Permit(TriggerConfirmForecast, StageAwaitingFinalConfirm)

	b.Configure(StageAwaitingFinalConfirm).
		Permit(TriggerConfirmSOAP, StageAwaitingSignedSOAPNote)

	b.Configure(StageAwaitingSignedSOAPNote).
		Permit(TriggerSignedSOAPNote, StageCompleted)

	b.Configure(StageCompleted).
		Permit(TriggerSubmitClaim, StageSubmitted)

	return b
}

// NewCaseMachine returns a state machine over the case workflow graph,
// positioned at the given stage.
func NewCaseMachine(current Stage) StateMachine {
	return caseGraph.Build(current)
}

// Advance fires the trigger from the given stage and returns the resulting
// stage. It is the single authority on which transitions the workflow allows.
func Advance(ctx context.Context, from Stage, trigger Trigger) (Stage, error) {
	m := NewCaseMachine(from)
	if err := m.Fire(ctx, trigger); err != nil {
		return from, err
	}
	return m.Stage(), nil
}
