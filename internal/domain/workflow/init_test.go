package workflow_test

import (
	"context"
	"testing"

	wf "github.com/amdal/case-copilot/internal/domain/workflow"
)

// Importing the package must leave the shared graph fully built; a fresh
// machine fires its first transition without touching any internals.
func TestGraphReadyOnImport(t *testing.T) {
	next, err := wf.Advance(context.Background(), wf.StageAwaitingCaseStart, wf.TriggerStartCase)
	if err != nil {
		t.Fatalf("Advance from initial stage: %v", err)
	}
	if next != wf.StageAwaitingCaseDetails {
		t.Fatalf("Advance = %q, want %q", next, wf.StageAwaitingCaseDetails)
	}

	m := wf.NewCaseMachine(wf.StageAwaitingResolutionChoice)
	if got := len(m.PermittedTriggers()); got != 4 {
		t.Fatalf("PermittedTriggers at resolution choice = %d, want 4", got)
	}
}
