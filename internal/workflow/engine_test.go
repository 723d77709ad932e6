package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/codes"
	"github.com/amdal/case-copilot/internal/domain/entity"
	"github.com/amdal/case-copilot/internal/oracle"
)

type fakeCases struct {
	byID map[string]*entity.Case
}

func (f *fakeCases) GetByID(_ context.Context, caseID string) (*entity.Case, error) {
	return f.byID[caseID], nil
}

func (f *fakeCases) Update(_ context.Context, caseID string, upd entity.CaseUpdate) error {
	c, ok := f.byID[caseID]
	if !ok {
		return nil
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.ReimbursementAmount != nil {
		c.ReimbursementAmount = upd.ReimbursementAmount
	}
	if upd.ReimbursementDate != nil {
		c.ReimbursementDate = *upd.ReimbursementDate
	}
	if upd.WorkflowStage != nil {
		c.WorkflowStage = *upd.WorkflowStage
	}
	if upd.WorkflowStatus != nil {
		c.WorkflowStatus = *upd.WorkflowStatus
	}
	if upd.NextAction != nil {
		c.NextAction = *upd.NextAction
	}
	if upd.RiskLevel != nil {
		c.RiskLevel = *upd.RiskLevel
	}
	c.UpdatedAt = time.Now()
	return nil
}

type fakeMessages struct {
	all []*entity.Message
}

func (f *fakeMessages) Append(_ context.Context, m *entity.Message) error {
	f.all = append(f.all, m)
	return nil
}

// fakeStates round-trips through JSON so tests exercise the same
// serialization boundary the real store has.
type fakeStates struct {
	blobs map[string][]byte
}

func (f *fakeStates) Get(_ context.Context, caseID string) (*entity.CaseState, error) {
	blob, ok := f.blobs[caseID]
	if !ok {
		return nil, nil
	}
	var state entity.CaseState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (f *fakeStates) Set(_ context.Context, caseID string, state *entity.CaseState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}
	f.blobs[caseID] = blob
	return nil
}

type fakeArtifacts struct {
	pdfErr  error
	created []string
}

func (f *fakeArtifacts) doc(caseID, filename, docType string) *entity.Document {
	f.created = append(f.created, filename)
	return &entity.Document{
		DocID:     "doc_" + filename,
		CaseID:    caseID,
		Name:      filename,
		Type:      docType,
		PublicURL: fmt.Sprintf("/uploads/%s/%s", caseID, filename),
	}
}

func (f *fakeArtifacts) TextFile(_ context.Context, caseID, filename, _, docType string) (*entity.Document, error) {
	return f.doc(caseID, filename, docType), nil
}

func (f *fakeArtifacts) PDF(_ context.Context, caseID, filename, _ string) (*entity.Document, error) {
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return f.doc(caseID, filename, entity.DocTypeGeneratedPDF), nil
}

func (f *fakeArtifacts) ClaimWorkbook(_ context.Context, caseID, filename string, _ *entity.Case, _ *entity.CaseState) (*entity.Document, error) {
	return f.doc(caseID, filename, entity.DocTypeGeneratedXLSX), nil
}

type fakeScanner struct {
	known   []codes.Known
	unknown []string
}

func (f *fakeScanner) Scan(text string) ([]codes.Known, []string) {
	if text == "" {
		return nil, nil
	}
	return f.known, f.unknown
}

type fakeNotifier struct {
	submitted []string
}

func (f *fakeNotifier) CaseSubmitted(_ context.Context, c *entity.Case) {
	f.submitted = append(f.submitted, c.CaseID)
}

type failingOracles struct {
	oracle.Oracles
	err error
}

func (f *failingOracles) CheckEligibility(context.Context, string) (*entity.EligibilityResult, error) {
	return nil, f.err
}

type testRig struct {
	engine    *Engine
	cases     *fakeCases
	messages  *fakeMessages
	states    *fakeStates
	artifacts *fakeArtifacts
	notifier  *fakeNotifier
}

func newTestRig(t *testing.T, caseID string) *testRig {
	t.Helper()
	rig := &testRig{
		cases:     &fakeCases{byID: map[string]*entity.Case{caseID: {CaseID: caseID, Title: "Deborah claim"}}},
		messages:  &fakeMessages{},
		states:    &fakeStates{blobs: map[string][]byte{}},
		artifacts: &fakeArtifacts{},
		notifier:  &fakeNotifier{},
	}
	rig.engine = NewEngine(rig.cases, rig.messages, rig.states, oracle.NewSimulated(),
		rig.artifacts, &fakeScanner{}, rig.notifier, zap.NewNop())
	return rig
}

func (r *testRig) stage(t *testing.T, caseID string) string {
	t.Helper()
	state, err := r.engine.State(context.Background(), caseID)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	return state.Stage
}

func (r *testRig) chat(t *testing.T, caseID, content string) []*entity.Message {
	t.Helper()
	msgs, err := r.engine.HandleUserMessage(context.Background(), caseID, content)
	if err != nil {
		t.Fatalf("HandleUserMessage(%q): %v", content, err)
	}
	return msgs
}

func (r *testRig) upload(t *testing.T, caseID, name string) []*entity.Message {
	t.Helper()
	msgs, err := r.engine.HandleDocumentUpload(context.Background(), caseID, &entity.Document{
		DocID:  "doc_" + name,
		CaseID: caseID,
		Name:   name,
	})
	if err != nil {
		t.Fatalf("HandleDocumentUpload(%q): %v", name, err)
	}
	return msgs
}

func TestInitializeCase(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()

	msgs, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim")
	if err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "reimbursement copilot") {
		t.Fatalf("expected one welcome message, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_case_start" {
		t.Fatalf("stage = %q, want awaiting_case_start", got)
	}
	if rig.cases.byID["case_a"].Status != "Awaiting kickoff" {
		t.Fatalf("status = %q, want Awaiting kickoff", rig.cases.byID["case_a"].Status)
	}

	state, _ := rig.engine.State(ctx, "case_a")
	if !state.Context.Issues[entity.IssueKeyInsufficientDocumentation] || !state.Context.Issues[entity.IssueKeyDuplicate] {
		t.Fatalf("expected both issues seeded, got %v", state.Context.Issues)
	}

	again, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim")
	if err != nil {
		t.Fatalf("second InitializeCase: %v", err)
	}
	if again != nil {
		t.Fatalf("second InitializeCase should be a no-op, got %v", again)
	}
}

func TestHappyPathToSubmission(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	c := rig.cases.byID["case_a"]

	// kickoff
	msgs := rig.chat(t, "case_a", "I'm ready to start a new case")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "let's get the case set up") {
		t.Fatalf("kickoff response = %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_case_details" {
		t.Fatalf("stage = %q", got)
	}

	// patient intake upload triggers the eligibility check
	msgs = rig.upload(t, "case_a", "intake.pdf")
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages after intake upload, got %d", len(msgs))
	}
	if msgs[2].Role != entity.RoleSystem || !strings.Contains(msgs[2].Content, "Likely Eligible") {
		t.Fatalf("expected system eligibility note, got %+v", msgs[2])
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_procedure_documents" {
		t.Fatalf("stage = %q", got)
	}
	if c.Status != "Eligibility review" {
		t.Fatalf("status = %q", c.Status)
	}
	state, _ := rig.engine.State(ctx, "case_a")
	if state.Context.Eligibility == nil || state.Context.Eligibility.Status != "Likely Eligible" {
		t.Fatalf("eligibility not recorded: %+v", state.Context.Eligibility)
	}

	// clinical notes upload runs the code conversion
	msgs = rig.upload(t, "case_a", "clinical_notes.pdf")
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages after notes upload, got %d", len(msgs))
	}
	if !strings.Contains(msgs[2].Content, "1. Upload additional clinical documentation") {
		t.Fatalf("expected options prompt, got %q", msgs[2].Content)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_resolution_choice" {
		t.Fatalf("stage = %q", got)
	}

	// option 2 removes the procedure and runs the RCM sub-flow
	msgs = rig.chat(t, "case_a", "2")
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages for remove choice, got %d", len(msgs))
	}
	if msgs[2].Role != entity.RoleSystem || !strings.Contains(msgs[2].Content, "RCM Expert Mila (RCM expert) responded") {
		t.Fatalf("expected single RCM system note, got %+v", msgs[2])
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_rcm_user_confirmation" {
		t.Fatalf("stage = %q", got)
	}
	state, _ = rig.engine.State(ctx, "case_a")
	if !state.Context.Actions[entity.ActionRemovedProcedure] {
		t.Fatalf("removed_procedure action not recorded: %v", state.Context.Actions)
	}
	if state.Context.RCMReview == nil {
		t.Fatal("rcm review not recorded")
	}

	// confirming the RCM recommendation produces the forecast
	msgs = rig.chat(t, "case_a", "yes")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "$4,820.00") {
		t.Fatalf("expected forecast message, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_final_confirmation" {
		t.Fatalf("stage = %q", got)
	}
	if c.ReimbursementAmount == nil || *c.ReimbursementAmount != 4820.00 {
		t.Fatalf("reimbursement amount = %v", c.ReimbursementAmount)
	}
	if c.RiskLevel != entity.RiskLow {
		t.Fatalf("risk level = %q", c.RiskLevel)
	}
	if c.ReimbursementDate != "14-21 days (projected)" {
		t.Fatalf("reimbursement date = %q", c.ReimbursementDate)
	}

	// confirming again generates the SOAP note pair
	msgs = rig.chat(t, "case_a", "ok")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "generated the SOAP note") {
		t.Fatalf("expected soap note message, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_signed_soap_note" {
		t.Fatalf("stage = %q", got)
	}
	state, _ = rig.engine.State(ctx, "case_a")
	if state.Context.Documents[entity.DocRoleSOAPNote] == "" || state.Context.Documents[entity.DocRoleSOAPNotePDF] == "" {
		t.Fatalf("soap documents not recorded: %v", state.Context.Documents)
	}

	// signed upload assembles the submission package
	msgs = rig.upload(t, "case_a", "signed_soap.pdf")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages after signed upload, got %d", len(msgs))
	}
	if got := rig.stage(t, "case_a"); got != "completed" {
		t.Fatalf("stage = %q", got)
	}
	state, _ = rig.engine.State(ctx, "case_a")
	for _, role := range []string{entity.DocRoleSignedSOAP, entity.DocRoleFinalPackage, entity.DocRoleFinalSummary, entity.DocRoleFinalWorkbook} {
		if state.Context.Documents[role] == "" {
			t.Fatalf("document role %s not recorded: %v", role, state.Context.Documents)
		}
	}

	// submit
	msgs = rig.chat(t, "case_a", "please submit")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "has been submitted") {
		t.Fatalf("expected submission message, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "submitted" {
		t.Fatalf("stage = %q", got)
	}
	if c.Status != "Submitted" {
		t.Fatalf("status = %q", c.Status)
	}
	if len(rig.notifier.submitted) != 1 || rig.notifier.submitted[0] != "case_a" {
		t.Fatalf("notifier calls = %v", rig.notifier.submitted)
	}
}

func TestResolutionChoiceBranches(t *testing.T) {
	toChoice := func(t *testing.T, rig *testRig) {
		t.Helper()
		ctx := context.Background()
		if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
			t.Fatalf("InitializeCase: %v", err)
		}
		rig.chat(t, "case_a", "start")
		rig.upload(t, "case_a", "intake.pdf")
		rig.upload(t, "case_a", "notes.pdf")
	}

	t.Run("upload then additional docs", func(t *testing.T) {
		rig := newTestRig(t, "case_a")
		toChoice(t, rig)

		msgs := rig.chat(t, "case_a", "1")
		if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "upload the MD or operative documentation") {
			t.Fatalf("upload choice response = %v", msgs)
		}
		if got := rig.stage(t, "case_a"); got != "awaiting_additional_documentation" {
			t.Fatalf("stage = %q", got)
		}

		msgs = rig.upload(t, "case_a", "md_notes.pdf")
		if got := rig.stage(t, "case_a"); got != "awaiting_rcm_user_confirmation" {
			t.Fatalf("stage after MD upload = %q", got)
		}
		systemNotes := 0
		for _, m := range msgs {
			if m.Role == entity.RoleSystem {
				systemNotes++
			}
		}
		if systemNotes != 1 {
			t.Fatalf("expected exactly one system note in RCM flow, got %d", systemNotes)
		}
	})

	t.Run("submit without support", func(t *testing.T) {
		rig := newTestRig(t, "case_a")
		toChoice(t, rig)

		rig.chat(t, "case_a", "three")
		if got := rig.stage(t, "case_a"); got != "awaiting_rcm_user_confirmation" {
			t.Fatalf("stage = %q", got)
		}
		state, _ := rig.engine.State(context.Background(), "case_a")
		if !state.Context.Actions[entity.ActionSubmitWithoutSupport] {
			t.Fatalf("submit_without_support not recorded: %v", state.Context.Actions)
		}
	})

	t.Run("pause puts the case on hold", func(t *testing.T) {
		rig := newTestRig(t, "case_a")
		toChoice(t, rig)

		msgs := rig.chat(t, "case_a", "④")
		if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "The case is paused") {
			t.Fatalf("pause response = %v", msgs)
		}
		if got := rig.stage(t, "case_a"); got != "awaiting_case_start" {
			t.Fatalf("stage = %q", got)
		}
		c := rig.cases.byID["case_a"]
		if c.Status != "On hold" {
			t.Fatalf("status = %q, want On hold", c.Status)
		}
		if !strings.Contains(c.WorkflowStatus, "Paused") {
			t.Fatalf("workflow status = %q", c.WorkflowStatus)
		}
	})

	t.Run("unrecognized reply re-prompts", func(t *testing.T) {
		rig := newTestRig(t, "case_a")
		toChoice(t, rig)

		msgs := rig.chat(t, "case_a", "what are my choices again")
		if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "choose one of the options") {
			t.Fatalf("re-prompt = %v", msgs)
		}
		if got := rig.stage(t, "case_a"); got != "awaiting_resolution_choice" {
			t.Fatalf("stage = %q", got)
		}
	})
}

func TestUnrecognizedStartIntent(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}

	msgs := rig.chat(t, "case_a", "hmm")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "Whenever you're ready") {
		t.Fatalf("expected re-prompt, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_case_start" {
		t.Fatalf("stage = %q", got)
	}
}

func TestRCMConfirmationHold(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	rig.chat(t, "case_a", "start")
	rig.upload(t, "case_a", "intake.pdf")
	rig.upload(t, "case_a", "notes.pdf")
	rig.chat(t, "case_a", "2")

	msgs := rig.chat(t, "case_a", "not yet")
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "I'll hold") {
		t.Fatalf("expected hold response, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_rcm_user_confirmation" {
		t.Fatalf("stage = %q", got)
	}
}

func TestMissingCaseDefaultsToInitialStage(t *testing.T) {
	rig := newTestRig(t, "case_a")

	// no InitializeCase call; chatting should behave like a fresh case
	msgs := rig.chat(t, "case_ghost", "hello hello")
	if len(msgs) != 1 {
		t.Fatalf("expected one response, got %d", len(msgs))
	}
	if got := rig.stage(t, "case_ghost"); got != "awaiting_case_start" {
		t.Fatalf("stage = %q", got)
	}
}

func TestOracleFailureHoldsCase(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	rig.engine.oracles = &failingOracles{Oracles: oracle.NewSimulated(), err: errors.New("upstream down")}

	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	rig.chat(t, "case_a", "start")

	msgs := rig.upload(t, "case_a", "intake.pdf")
	if len(msgs) != 2 {
		t.Fatalf("expected system note plus assistant hold, got %d messages", len(msgs))
	}
	if msgs[0].Role != entity.RoleSystem || !strings.Contains(msgs[0].Content, "hold at the current step") {
		t.Fatalf("expected system hold note, got %+v", msgs[0])
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_case_details" {
		t.Fatalf("stage = %q, want awaiting_case_details", got)
	}
}

func TestCodeMentionsPrependLookups(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	rig.engine.codes = &fakeScanner{
		known:   []codes.Known{{Code: "D7471", Description: "Removal of lateral exostosis"}},
		unknown: []string{"D9999"},
	}

	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}

	msgs := rig.chat(t, "case_a", "hmm what about D7471 and D9999")
	if len(msgs) != 3 {
		t.Fatalf("expected code lookups plus stage reply, got %d messages", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, "D7471: Removal of lateral exostosis") {
		t.Fatalf("known code message = %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[1].Content, "I do not have details on the following codes yet: D9999") {
		t.Fatalf("unknown code message = %q", msgs[1].Content)
	}
}

func TestArtifactFailureFailsOperation(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	rig.artifacts.pdfErr = errors.New("disk full")

	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	rig.chat(t, "case_a", "start")
	rig.upload(t, "case_a", "intake.pdf")
	rig.upload(t, "case_a", "notes.pdf")
	rig.chat(t, "case_a", "2")
	rig.chat(t, "case_a", "yes")

	_, err := rig.engine.HandleUserMessage(ctx, "case_a", "yes")
	if err == nil {
		t.Fatal("expected error from failed artifact generation")
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_final_confirmation" {
		t.Fatalf("stage = %q, want awaiting_final_confirmation", got)
	}
}

func TestApplyStageIsIdempotent(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	rig.chat(t, "case_a", "start")

	c := rig.cases.byID["case_a"]
	before := *c

	// static replies re-project the same stage; the record must not drift
	rig.chat(t, "case_a", "here are the details in text form")
	rig.chat(t, "case_a", "anything else needed")

	if c.Status != before.Status || c.WorkflowStage != before.WorkflowStage ||
		c.WorkflowStatus != before.WorkflowStatus || c.NextAction != before.NextAction {
		t.Fatalf("projection drifted: before %+v, after %+v", before, *c)
	}
}

func TestSetStateReprojects(t *testing.T) {
	rig := newTestRig(t, "case_a")
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}

	if err := rig.engine.SetState(ctx, "case_a", &entity.CaseState{Stage: "completed"}); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if got := rig.stage(t, "case_a"); got != "completed" {
		t.Fatalf("stage = %q, want completed", got)
	}
	c := rig.cases.byID["case_a"]
	if c.WorkflowStage != "completed" || c.Status != "Ready to submit" {
		t.Fatalf("projection not refreshed: %+v", *c)
	}

	if err := rig.engine.SetState(ctx, "case_a", &entity.CaseState{Stage: "no_such_stage"}); err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if got := rig.stage(t, "case_a"); got != "completed" {
		t.Fatalf("stage changed on rejected SetState: %q", got)
	}
}

func TestUploadScanOnlyInCatchAllBranch(t *testing.T) {
	rig := newTestRig(t, "case_a")
	rig.engine.codes = &fakeScanner{known: []codes.Known{
		{Code: "D7471", Description: "Removal of lateral exostosis (maxilla or mandible)"},
	}}
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	rig.chat(t, "case_a", "start")

	// a stage branch keeps its fixed message count even when the document
	// text mentions codes
	msgs, err := rig.engine.HandleDocumentUpload(ctx, "case_a", &entity.Document{
		DocID:         "doc_intake",
		CaseID:        "case_a",
		Name:          "intake.pdf",
		ExtractedText: "Patient intake, planned procedure D7471.",
	})
	if err != nil {
		t.Fatalf("HandleDocumentUpload: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("messages at awaiting_case_details = %d, want 4", len(msgs))
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_procedure_documents" {
		t.Fatalf("stage = %q, want awaiting_procedure_documents", got)
	}

	// the catch-all branch still answers code mentions before its receipt
	if err := rig.engine.SetState(ctx, "case_a", &entity.CaseState{Stage: "completed"}); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	msgs, err = rig.engine.HandleDocumentUpload(ctx, "case_a", &entity.Document{
		DocID:         "doc_extra",
		CaseID:        "case_a",
		Name:          "extra.txt",
		ExtractedText: "Also includes D7471.",
	})
	if err != nil {
		t.Fatalf("HandleDocumentUpload: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("catch-all messages = %d, want 2", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, "D7471") {
		t.Fatalf("expected code lookup first, got %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[1].Content, "keep it on file") {
		t.Fatalf("expected receipt last, got %q", msgs[1].Content)
	}
}

type failingRCMOracles struct {
	oracle.Oracles
	err error
}

func (f *failingRCMOracles) RCMReview(context.Context, string) (*entity.RCMReview, error) {
	return nil, f.err
}

func TestPendingRCMReviewResumesOnChat(t *testing.T) {
	rig := newTestRig(t, "case_a")
	rig.engine.oracles = &failingRCMOracles{Oracles: oracle.NewSimulated(), err: errors.New("rcm line busy")}
	ctx := context.Background()
	if _, err := rig.engine.InitializeCase(ctx, "case_a", "Deborah claim"); err != nil {
		t.Fatalf("InitializeCase: %v", err)
	}
	if err := rig.engine.SetState(ctx, "case_a", &entity.CaseState{Stage: "rcm_review_pending"}); err != nil {
		t.Fatalf("SetState: %v", err)
	}

	// expert unavailable: the case holds at pending
	msgs := rig.chat(t, "case_a", "any update from the RCM team?")
	if len(msgs) != 2 || msgs[0].Role != entity.RoleSystem {
		t.Fatalf("expected hold messages, got %v", msgs)
	}
	if got := rig.stage(t, "case_a"); got != "rcm_review_pending" {
		t.Fatalf("stage = %q, want rcm_review_pending", got)
	}

	// next turn resumes the review once the oracle answers
	rig.engine.oracles = oracle.NewSimulated()
	msgs = rig.chat(t, "case_a", "let's try again")
	if len(msgs) != 2 {
		t.Fatalf("expected review completion messages, got %v", msgs)
	}
	if msgs[0].Role != entity.RoleSystem || !strings.Contains(msgs[0].Content, "RCM Expert") {
		t.Fatalf("expected expert system note first, got %v", msgs[0])
	}
	if got := rig.stage(t, "case_a"); got != "awaiting_rcm_user_confirmation" {
		t.Fatalf("stage = %q, want awaiting_rcm_user_confirmation", got)
	}

	state, _ := rig.engine.State(ctx, "case_a")
	if state.Context.RCMReview == nil {
		t.Fatal("expected RCM review recorded in context")
	}
}
