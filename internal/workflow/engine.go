// Package workflow drives the conversational reimbursement workflow: it owns
// the per-case state, turns user messages and document uploads into stage
// transitions, and keeps the case record's projection in sync with the stage.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/codes"
	"github.com/amdal/case-copilot/internal/domain/entity"
	wf "github.com/amdal/case-copilot/internal/domain/workflow"
	"github.com/amdal/case-copilot/internal/oracle"
	"github.com/amdal/case-copilot/pkg/utils"
)

// CaseStore is the slice of the case repository the engine needs.
type CaseStore interface {
	GetByID(ctx context.Context, caseID string) (*entity.Case, error)
	Update(ctx context.Context, caseID string, upd entity.CaseUpdate) error
}

// MessageStore appends to the per-case conversation log.
type MessageStore interface {
	Append(ctx context.Context, m *entity.Message) error
}

// StateStore persists workflow state between turns.
type StateStore interface {
	Get(ctx context.Context, caseID string) (*entity.CaseState, error)
	Set(ctx context.Context, caseID string, state *entity.CaseState) error
}

// ArtifactStore generates case deliverables (SOAP notes, submission
// packages) and records them as case documents.
type ArtifactStore interface {
	TextFile(ctx context.Context, caseID, filename, content, docType string) (*entity.Document, error)
	PDF(ctx context.Context, caseID, filename, text string) (*entity.Document, error)
	ClaimWorkbook(ctx context.Context, caseID, filename string, c *entity.Case, state *entity.CaseState) (*entity.Document, error)
}

// CodeScanner partitions ADA CDT code mentions into known and unknown codes.
type CodeScanner interface {
	Scan(text string) (known []codes.Known, unknown []string)
}

// Notifier is told when a case reaches submission. Implementations must not
// block the workflow; failures are theirs to log.
type Notifier interface {
	CaseSubmitted(ctx context.Context, c *entity.Case)
}

// Engine is the workflow engine. All case mutations funnel through it; turns
// on the same case are serialized, turns on different cases are not.
type Engine struct {
	cases     CaseStore
	messages  MessageStore
	states    StateStore
	oracles   oracle.Oracles
	artifacts ArtifactStore
	codes     CodeScanner
	notifier  Notifier
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a workflow engine. notifier may be nil.
func NewEngine(
	cases CaseStore,
	messages MessageStore,
	states StateStore,
	oracles oracle.Oracles,
	artifacts ArtifactStore,
	scanner CodeScanner,
	notifier Notifier,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cases:     cases,
		messages:  messages,
		states:    states,
		oracles:   oracles,
		artifacts: artifacts,
		codes:     scanner,
		notifier:  notifier,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockCase serializes turns on a single case.
func (e *Engine) lockCase(caseID string) func() {
	e.mu.Lock()
	l, ok := e.locks[caseID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[caseID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// State returns the workflow state for a case. A case with no stored state
// reads as a fresh one at the initial stage.
func (e *Engine) State(ctx context.Context, caseID string) (*entity.CaseState, error) {
	state, err := e.states.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &entity.CaseState{Stage: wf.StageAwaitingCaseStart.String()}
	}
	if state.Stage == "" {
		state.Stage = wf.StageAwaitingCaseStart.String()
	}
	return state, nil
}

// SetState overwrites a case's workflow state and re-projects the stage onto
// the case record. Intended for projection repair and debugging.
func (e *Engine) SetState(ctx context.Context, caseID string, state *entity.CaseState) error {
	unlock := e.lockCase(caseID)
	defer unlock()

	stage := wf.Stage(state.Stage)
	if !stage.IsValid() {
		return fmt.Errorf("set state for case %s: unknown stage %q", caseID, state.Stage)
	}
	if err := e.states.Set(ctx, caseID, state); err != nil {
		return err
	}
	return e.applyStage(ctx, caseID, stage, entity.CaseUpdate{})
}

// InitializeCase seeds workflow state for a new case and posts the welcome
// message. Calling it again for an existing case is a no-op.
func (e *Engine) InitializeCase(ctx context.Context, caseID, title string) ([]*entity.Message, error) {
	unlock := e.lockCase(caseID)
	defer unlock()

	existing, err := e.states.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	state := &entity.CaseState{
		Stage: wf.StageAwaitingCaseStart.String(),
		Context: entity.CaseContext{
			Title: title,
			Issues: map[string]bool{
				entity.IssueKeyInsufficientDocumentation: true,
				entity.IssueKeyDuplicate:                 true,
			},
			Documents: map[string]string{},
		},
	}
	if err := e.states.Set(ctx, caseID, state); err != nil {
		return nil, err
	}
	if err := e.applyStage(ctx, caseID, wf.StageAwaitingCaseStart, entity.CaseUpdate{}); err != nil {
		return nil, err
	}

	msg, err := e.say(ctx, caseID, entity.RoleAssistant,
		"Hi there! I'm your reimbursement copilot. Let me know when you'd like to start a new case and I'll guide you step by step.")
	if err != nil {
		return nil, err
	}
	return []*entity.Message{msg}, nil
}

// HandleUserMessage runs one conversational turn and returns the messages
// emitted in response, in order.
func (e *Engine) HandleUserMessage(ctx context.Context, caseID, content string) ([]*entity.Message, error) {
	unlock := e.lockCase(caseID)
	defer unlock()

	state, err := e.State(ctx, caseID)
	if err != nil {
		return nil, err
	}

	responses, err := e.codeMessages(ctx, caseID, content)
	if err != nil {
		return responses, err
	}

	var turn []*entity.Message
	switch wf.Stage(state.Stage) {
	case wf.StageAwaitingCaseStart:
		turn, err = e.onCaseStart(ctx, caseID, state, content)
	case wf.StageAwaitingCaseDetails:
		turn, err = e.sayOne(ctx, caseID,
			"I'm ready to load the patient information once you upload or enter it. The case tracker will stay in sync as we go.")
	case wf.StageAwaitingProcedureDocs:
		turn, err = e.sayOne(ctx, caseID,
			"Once you upload the clinical notes with ADA CDT codes, I'll convert them to CPT and run the reimbursement checks.")
	case wf.StageAwaitingResolutionChoice:
		turn, err = e.onResolutionChoice(ctx, caseID, state, content)
	case wf.StageAwaitingAdditionalDocs:
		turn, err = e.sayOne(ctx, caseID,
			"Upload the MD documentation for D7471 when ready and I'll take another look.")
	case wf.StageRCMReviewPending:
		turn, err = e.completeRCMReview(ctx, caseID, state)
	case wf.StageAwaitingRCMConfirmation:
		turn, err = e.onRCMConfirmation(ctx, caseID, state, content)
	case wf.StageAwaitingFinalConfirm:
		turn, err = e.onFinalConfirmation(ctx, caseID, state, content)
	case wf.StageAwaitingSignedSOAPNote:
		turn, err = e.sayOne(ctx, caseID,
			"Once the signed SOAP note is uploaded, I'll generate the remaining submission package automatically.")
	case wf.StageCompleted:
		turn, err = e.onCompleted(ctx, caseID, state, content)
	default:
		turn, err = e.sayOne(ctx, caseID,
			"I'm tracking the workflow—let me know if you need help with the next action listed in the dashboard.")
	}
	responses = append(responses, turn...)
	if err != nil {
		return responses, err
	}

	if err := e.states.Set(ctx, caseID, state); err != nil {
		return responses, err
	}
	return responses, nil
}

func (e *Engine) onCaseStart(ctx context.Context, caseID string, state *entity.CaseState, content string) ([]*entity.Message, error) {
	if !isStartIntent(content) {
		return e.sayOne(ctx, caseID,
			"Whenever you're ready, just let me know you want to start a new case and we'll walk through it together.")
	}

	if err := e.advance(ctx, caseID, state, wf.TriggerStartCase, entity.CaseUpdate{}); err != nil {
		return nil, err
	}
	return e.sayOne(ctx, caseID,
		"Perfect—let's get the case set up. Please share the case ID, patient demographics, and payer information. You can upload the patient intake document if you have it.")
}

func (e *Engine) onResolutionChoice(ctx context.Context, caseID string, state *entity.CaseState, content string) ([]*entity.Message, error) {
	choice, ok := ResolveChoice(content)
	if !ok {
		return e.sayOne(ctx, caseID,
			"To keep things moving, choose one of the options: upload more documentation, remove the procedure, submit as-is, or pause the case.")
	}

	switch choice {
	case ChoiceUpload:
		if err := e.advance(ctx, caseID, state, wf.TriggerChooseUpload, entity.CaseUpdate{}); err != nil {
			return nil, err
		}
		return e.sayOne(ctx, caseID,
			"Great choice. Please upload the MD or operative documentation that supports procedure D7471.")

	case ChoiceRemove:
		state.Context.SetAction(entity.ActionRemovedProcedure)
		msg, err := e.say(ctx, caseID, entity.RoleAssistant,
			"Understood. I'll note that procedure D7471 will be removed. For D7955, I'll still loop in Mila from the RCM team to double-check the duplicate risk.")
		if err != nil {
			return nil, err
		}
		rest, err := e.runRCMReview(ctx, caseID, state, wf.TriggerChooseRemove)
		return append([]*entity.Message{msg}, rest...), err

	case ChoiceSubmitAsIs:
		state.Context.SetAction(entity.ActionSubmitWithoutSupport)
		msg, err := e.say(ctx, caseID, entity.RoleAssistant,
			"Okay, I'll proceed without supplemental documentation, but let's have an RCM expert weigh in on the duplicate concern before we finalize.")
		if err != nil {
			return nil, err
		}
		rest, err := e.runRCMReview(ctx, caseID, state, wf.TriggerChooseSubmitAsIs)
		return append([]*entity.Message{msg}, rest...), err

	case ChoiceExit:
		hold := "On hold"
		wfStatus := "Paused—let me know when you want to restart the case."
		next := "Tell the assistant when you are ready to continue."
		if err := e.advance(ctx, caseID, state, wf.TriggerPauseCase, entity.CaseUpdate{
			Status:         &hold,
			WorkflowStatus: &wfStatus,
			NextAction:     &next,
		}); err != nil {
			return nil, err
		}
		return e.sayOne(ctx, caseID,
			"No problem. The case is paused. Let me know when you are ready to pick it back up.")
	}
	return nil, fmt.Errorf("unhandled resolution choice %q", choice)
}

func (e *Engine) onRCMConfirmation(ctx context.Context, caseID string, state *entity.CaseState, content string) ([]*entity.Message, error) {
	switch {
	case isAffirmative(content):
		forecast, err := e.oracles.Forecast(ctx, caseID)
		if err != nil {
			return e.holdForOracle(ctx, caseID, "Reimbursement forecast", err)
		}
		state.Context.Reimbursement = forecast

		date := forecast.Timeline + " (projected)"
		if err := e.advance(ctx, caseID, state, wf.TriggerConfirmForecast, entity.CaseUpdate{
			ReimbursementAmount: &forecast.Amount,
			ReimbursementDate:   &date,
			RiskLevel:           &forecast.Risk,
		}); err != nil {
			return nil, err
		}
		return e.sayOne(ctx, caseID, fmt.Sprintf(
			"Based on the documentation and RCM feedback, the projected reimbursement is $%s with an expected payment window of %s (risk level: %s). Shall I prepare the SOAP note for final review and signatures?",
			formatUSD(forecast.Amount), forecast.Timeline, forecast.Risk))

	case isNegative(content):
		return e.sayOne(ctx, caseID,
			"Okay, I'll hold. Let me know when you're ready to move forward with the RCM recommendation.")

	default:
		return e.sayOne(ctx, caseID,
			"Please confirm if you're okay proceeding with the RCM expert's recommendation so we can wrap this up.")
	}
}

func (e *Engine) onFinalConfirmation(ctx context.Context, caseID string, state *entity.CaseState, content string) ([]*entity.Message, error) {
	switch {
	case isAffirmative(content):
		soap, err := e.artifacts.TextFile(ctx, caseID,
			"Deborah SOAP Note for Dr Review.txt", SOAPNoteSample, entity.DocTypeGeneratedSOAP)
		if err != nil {
			return nil, fmt.Errorf("generate soap note: %w", err)
		}
		soapPDF, err := e.artifacts.PDF(ctx, caseID,
			"Deborah SOAP Note for Dr Review.pdf", SOAPNoteSample)
		if err != nil {
			return nil, fmt.Errorf("generate soap note pdf: %w", err)
		}
		state.Context.SetDocument(entity.DocRoleSOAPNote, soap.DocID)
		state.Context.SetDocument(entity.DocRoleSOAPNotePDF, soapPDF.DocID)

		if err := e.advance(ctx, caseID, state, wf.TriggerConfirmSOAP, entity.CaseUpdate{}); err != nil {
			return nil, err
		}

		links := ""
		if soap.PublicURL != "" || soapPDF.PublicURL != "" {
			links = fmt.Sprintf(" (Text: %s | PDF: %s)", soap.PublicURL, soapPDF.PublicURL)
		}
		return e.sayOne(ctx, caseID,
			"I've generated the SOAP note for Dr. review. Download it from the documents panel"+links+
				", get it signed, and upload the signed version when it's ready.")

	case isNegative(content):
		return e.sayOne(ctx, caseID,
			"No problem—just let me know when you'd like me to prepare the SOAP note.")

	default:
		return e.sayOne(ctx, caseID,
			"Should I generate the SOAP note for doctor review and signature now?")
	}
}

func (e *Engine) onCompleted(ctx context.Context, caseID string, state *entity.CaseState, content string) ([]*entity.Message, error) {
	if !isSubmitIntent(content) {
		return e.sayOne(ctx, caseID,
			"This case is ready to submit. Say 'submit' when you're ready, or let me know if you need any additional summaries.")
	}

	if err := e.advance(ctx, caseID, state, wf.TriggerSubmitClaim, entity.CaseUpdate{}); err != nil {
		return nil, err
	}
	if e.notifier != nil {
		if c, err := e.cases.GetByID(ctx, caseID); err == nil && c != nil {
			e.notifier.CaseSubmitted(ctx, c)
		}
	}
	return e.sayOne(ctx, caseID,
		"This case has been submitted. Let me know if you need any additional summaries or follow-up steps.")
}

// HandleDocumentUpload reacts to a newly recorded document and returns the
// messages emitted in response.
func (e *Engine) HandleDocumentUpload(ctx context.Context, caseID string, doc *entity.Document) ([]*entity.Message, error) {
	unlock := e.lockCase(caseID)
	defer unlock()

	state, err := e.State(ctx, caseID)
	if err != nil {
		return nil, err
	}

	// The stage branches emit fixed message sequences; only the catch-all
	// branch scans the document text for code mentions.
	var responses []*entity.Message
	switch wf.Stage(state.Stage) {
	case wf.StageAwaitingCaseDetails:
		responses, err = e.onPatientInfoUpload(ctx, caseID, state, doc)
	case wf.StageAwaitingProcedureDocs:
		responses, err = e.onClinicalNotesUpload(ctx, caseID, state, doc)
	case wf.StageAwaitingAdditionalDocs:
		responses, err = e.onAdditionalDocsUpload(ctx, caseID, state, doc)
	case wf.StageAwaitingSignedSOAPNote:
		responses, err = e.onSignedSOAPUpload(ctx, caseID, state, doc)
	default:
		responses, err = e.codeMessages(ctx, caseID, doc.ExtractedText)
		if err == nil {
			var ack []*entity.Message
			ack, err = e.sayOne(ctx, caseID, "Document received. I'll keep it on file.")
			responses = append(responses, ack...)
		}
	}
	if err != nil {
		return responses, err
	}

	if err := e.states.Set(ctx, caseID, state); err != nil {
		return responses, err
	}
	return responses, nil
}

func (e *Engine) onPatientInfoUpload(ctx context.Context, caseID string, state *entity.CaseState, doc *entity.Document) ([]*entity.Message, error) {
	eligibility, err := e.oracles.CheckEligibility(ctx, caseID)
	if err != nil {
		return e.holdForOracle(ctx, caseID, "Medicare eligibility check", err)
	}
	state.Context.SetDocument(entity.DocRolePatientInfo, doc.DocID)
	state.Context.CaseDetailsProvided = true
	state.Context.Eligibility = eligibility

	if err := e.advance(ctx, caseID, state, wf.TriggerPatientInfo, entity.CaseUpdate{}); err != nil {
		return nil, err
	}
	return e.sayAll(ctx, caseID,
		assistant("Patient information has been loaded into the dashboard. As you keep adding documents the status will stay updated automatically."),
		assistant("I'll start with a Medicare eligibility check now."),
		system(fmt.Sprintf("Medicare eligibility check complete: %s (%s)", eligibility.Status, eligibility.Notes)),
		assistant("The patient appears eligible, but I need the clinical notes and ADA CDT codes to project reimbursement and spot any issues."),
	)
}

func (e *Engine) onClinicalNotesUpload(ctx context.Context, caseID string, state *entity.CaseState, doc *entity.Document) ([]*entity.Message, error) {
	conversion, err := e.oracles.ConvertCodes(ctx, caseID)
	if err != nil {
		return e.holdForOracle(ctx, caseID, "Code conversion", err)
	}
	state.Context.SetDocument(entity.DocRoleClinicalNotes, doc.DocID)
	state.Context.Conversion = conversion

	if err := e.advance(ctx, caseID, state, wf.TriggerClinicalNotes, entity.CaseUpdate{}); err != nil {
		return nil, err
	}
	return e.sayAll(ctx, caseID,
		assistant("Thanks for the notes. I've converted the ADA CDT codes to CPT and applied the Medicare policy rules."),
		system("Reimbursement rules check flag: D7471 requires additional supporting documentation; D7955 may be a duplicate."),
		assistant("Two items need attention before we finalize: 1) D7471 may lack sufficient supporting documentation. 2) D7955 might be a duplicate.\n"+
			"For the first item, choose one of the following options:\n"+
			"1. Upload additional clinical documentation\n2. Remove the procedure from the reimbursement request\n3. Submit without fully supporting it (higher risk)\n4. Exit the case and restart later"),
	)
}

func (e *Engine) onAdditionalDocsUpload(ctx context.Context, caseID string, state *entity.CaseState, doc *entity.Document) ([]*entity.Message, error) {
	state.Context.SetDocument(entity.DocRoleAdditionalMD, doc.DocID)

	msgs, err := e.sayAll(ctx, caseID,
		assistant("The additional documentation looks good and covers the D7471 requirements."),
		assistant("Regarding the duplicate alert on D7955, I'm looping in Mila from the RCM team for a quick review. The case will stay paused until we hear back."),
	)
	if err != nil {
		return msgs, err
	}
	rest, err := e.runRCMReview(ctx, caseID, state, wf.TriggerAdditionalDocs)
	return append(msgs, rest...), err
}

func (e *Engine) onSignedSOAPUpload(ctx context.Context, caseID string, state *entity.CaseState, doc *entity.Document) ([]*entity.Message, error) {
	state.Context.SetDocument(entity.DocRoleSignedSOAP, doc.DocID)

	packagePDF, err := e.artifacts.PDF(ctx, caseID,
		"Deborah_McCormick_1500.pdf", "CMS 1500 package ready for submission")
	if err != nil {
		return nil, fmt.Errorf("generate submission package: %w", err)
	}
	summary, err := e.artifacts.TextFile(ctx, caseID,
		"Deborah SOAP Note for Dr Review - Final Package.txt",
		"Final package includes: Signed SOAP note, Operative note, CMS 1500/837I summary.",
		entity.DocTypeGeneratedSummary)
	if err != nil {
		return nil, fmt.Errorf("generate package summary: %w", err)
	}
	state.Context.SetDocument(entity.DocRoleFinalPackage, packagePDF.DocID)
	state.Context.SetDocument(entity.DocRoleFinalSummary, summary.DocID)

	// Workbook is a convenience export; a failure there should not block
	// submission readiness.
	c, _ := e.cases.GetByID(ctx, caseID)
	if workbook, wbErr := e.artifacts.ClaimWorkbook(ctx, caseID, "Deborah_McCormick_claim.xlsx", c, state); wbErr != nil {
		e.logger.Warn("claim workbook generation failed", zap.String("case_id", caseID), zap.Error(wbErr))
	} else {
		state.Context.SetDocument(entity.DocRoleFinalWorkbook, workbook.DocID)
	}

	if err := e.advance(ctx, caseID, state, wf.TriggerSignedSOAPNote, entity.CaseUpdate{}); err != nil {
		return nil, err
	}
	return e.sayAll(ctx, caseID,
		assistant("Signed SOAP note received—thank you."),
		assistant("I've generated the full reimbursement package including the CMS 1500/837 output. It's ready to submit to the payer when you are."),
	)
}

// runRCMReview takes the case through the RCM sub-flow: enter the pending
// stage via the given trigger, collect the expert response, then move to the
// user confirmation stage. An oracle failure leaves the case pending; the
// next user message re-runs the completion step.
func (e *Engine) runRCMReview(ctx context.Context, caseID string, state *entity.CaseState, enter wf.Trigger) ([]*entity.Message, error) {
	if err := e.advance(ctx, caseID, state, enter, entity.CaseUpdate{}); err != nil {
		return nil, err
	}
	responses, err := e.sayOne(ctx, caseID,
		"Routing the case to Mila from the RCM team to confirm the duplicate alert. I'll update you as soon as I hear back.")
	if err != nil {
		return responses, err
	}

	rest, err := e.completeRCMReview(ctx, caseID, state)
	return append(responses, rest...), err
}

// completeRCMReview resolves the pending RCM review: collect the expert
// response, record it as a system note, and move to user confirmation.
func (e *Engine) completeRCMReview(ctx context.Context, caseID string, state *entity.CaseState) ([]*entity.Message, error) {
	review, err := e.oracles.RCMReview(ctx, caseID)
	if err != nil {
		return e.holdForOracle(ctx, caseID, "RCM review", err)
	}
	state.Context.RCMReview = review

	note, err := e.say(ctx, caseID, entity.RoleSystem, fmt.Sprintf(
		"RCM Expert %s responded: %s Recommendation: %s",
		review.Expert, review.Response, review.Instructions))
	if err != nil {
		return nil, err
	}
	responses := []*entity.Message{note}

	if err := e.advance(ctx, caseID, state, wf.TriggerRCMResponded, entity.CaseUpdate{}); err != nil {
		return responses, err
	}
	confirm, err := e.say(ctx, caseID, entity.RoleAssistant,
		"Mila confirmed the procedure happened at a different location. Are you okay moving forward by clarifying that multiple sites were involved in the reimbursement submission and SOAP note?")
	if err != nil {
		return responses, err
	}
	return append(responses, confirm), nil
}

// advance fires the trigger, updates the in-memory stage, and projects the
// new stage's defaults (plus overrides) onto the case record.
func (e *Engine) advance(ctx context.Context, caseID string, state *entity.CaseState, trigger wf.Trigger, extra entity.CaseUpdate) error {
	next, err := wf.Advance(ctx, wf.Stage(state.Stage), trigger)
	if err != nil {
		return fmt.Errorf("advance case %s from %s on %s: %w", caseID, state.Stage, trigger, err)
	}
	state.Stage = next.String()
	return e.applyStage(ctx, caseID, next, extra)
}

// applyStage merges the stage's default projection, the stage name, and any
// overrides onto the case record. Missing cases are silently skipped.
func (e *Engine) applyStage(ctx context.Context, caseID string, stage wf.Stage, extra entity.CaseUpdate) error {
	upd := extra
	stageName := stage.String()
	upd.WorkflowStage = &stageName

	if defaults, ok := wf.Defaults(stage); ok {
		if upd.Status == nil {
			upd.Status = &defaults.Status
		}
		if upd.WorkflowStatus == nil {
			upd.WorkflowStatus = &defaults.WorkflowStatus
		}
		if upd.NextAction == nil {
			upd.NextAction = &defaults.NextAction
		}
	}
	if err := e.cases.Update(ctx, caseID, upd); err != nil {
		return fmt.Errorf("apply stage %s to case %s: %w", stage, caseID, err)
	}
	return nil
}

// codeMessages scans free text for ADA CDT code mentions and posts lookup
// results ahead of the stage response. No mentions, no messages.
func (e *Engine) codeMessages(ctx context.Context, caseID, content string) ([]*entity.Message, error) {
	known, unknown := e.codes.Scan(content)
	if len(known) == 0 && len(unknown) == 0 {
		return nil, nil
	}

	var responses []*entity.Message
	if len(known) > 0 {
		lines := "Here is what I have on the ADA codes you mentioned:"
		for _, k := range known {
			lines += fmt.Sprintf("\n- %s: %s", k.Code, k.Description)
		}
		msg, err := e.say(ctx, caseID, entity.RoleAssistant, lines)
		if err != nil {
			return responses, err
		}
		responses = append(responses, msg)
	}
	if len(unknown) > 0 {
		note := "I do not have details on the following codes yet: "
		for i, code := range unknown {
			if i > 0 {
				note += ", "
			}
			note += code
		}
		note += ". If you have clinical notes for them, upload those and I can keep the case moving."
		msg, err := e.say(ctx, caseID, entity.RoleAssistant, note)
		if err != nil {
			return responses, err
		}
		responses = append(responses, msg)
	}
	return responses, nil
}

// holdForOracle reports a failed background check and leaves the case at its
// current stage so the step can be retried.
func (e *Engine) holdForOracle(ctx context.Context, caseID, what string, cause error) ([]*entity.Message, error) {
	e.logger.Error("oracle call failed",
		zap.String("case_id", caseID),
		zap.String("check", what),
		zap.Error(cause))

	return e.sayAll(ctx, caseID,
		system(fmt.Sprintf("%s failed; the case will hold at the current step.", what)),
		assistant("I hit a snag running that check. Give it another try in a moment and I'll pick the case back up."),
	)
}

type turnMessage struct {
	role    string
	content string
}

func assistant(content string) turnMessage { return turnMessage{entity.RoleAssistant, content} }
func system(content string) turnMessage    { return turnMessage{entity.RoleSystem, content} }

func (e *Engine) say(ctx context.Context, caseID, role, content string) (*entity.Message, error) {
	msg := &entity.Message{
		MsgID:     utils.NewID("msg"),
		CaseID:    caseID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("record message for case %s: %w", caseID, err)
	}
	return msg, nil
}

func (e *Engine) sayOne(ctx context.Context, caseID, content string) ([]*entity.Message, error) {
	msg, err := e.say(ctx, caseID, entity.RoleAssistant, content)
	if err != nil {
		return nil, err
	}
	return []*entity.Message{msg}, nil
}

func (e *Engine) sayAll(ctx context.Context, caseID string, turns ...turnMessage) ([]*entity.Message, error) {
	msgs := make([]*entity.Message, 0, len(turns))
	for _, t := range turns {
		msg, err := e.say(ctx, caseID, t.role, t.content)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
