package workflow

import "testing"

func TestStage_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		stage    Stage
		expected bool
	}{
		{"initial stage", StageAwaitingCaseStart, true},
		{"mid-flow stage", StageAwaitingResolutionChoice, true},
		{"terminal stage", StageSubmitted, true},
		{"unknown stage", Stage("awaiting_nothing"), false},
		{"empty stage", Stage(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.IsValid(); got != tt.expected {
				t.Errorf("Stage.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStage_IsTerminal(t *testing.T) {
	tests := []struct {
		stage    Stage
		expected bool
	}{
		{StageAwaitingCaseStart, false},
		{StageAwaitingCaseDetails, false},
		{StageAwaitingProcedureDocs, false},
		{StageAwaitingResolutionChoice, false},
		{StageAwaitingAdditionalDocs, false},
		{StageRCMReviewPending, false},
		{StageAwaitingRCMConfirmation, false},
		{StageAwaitingFinalConfirm, false},
		{StageAwaitingSignedSOAPNote, false},
		{StageCompleted, false},
		{StageSubmitted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			if got := tt.stage.IsTerminal(); got != tt.expected {
				t.Errorf("Stage.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStage_String(t *testing.T) {
	if got := StageAwaitingCaseStart.String(); got != "awaiting_case_start" {
		t.Errorf("Stage.String() = %v, want %v", got, "awaiting_case_start")
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerStartCase.String(); got != "START_CASE" {
		t.Errorf("Trigger.String() = %v, want %v", got, "START_CASE")
	}
}

func TestDefaults(t *testing.T) {
	t.Run("known stage", func(t *testing.T) {
		p, ok := Defaults(StageSubmitted)
		if !ok {
			t.Fatal("Defaults() should find submitted stage")
		}
		if p.Status != "Submitted" {
			t.Errorf("Status = %v, want %v", p.Status, "Submitted")
		}
	})

	t.Run("every valid stage has defaults", func(t *testing.T) {
		for stage := range validStages {
			if _, ok := Defaults(stage); !ok {
				t.Errorf("Defaults() missing entry for %s", stage)
			}
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		if _, ok := Defaults(Stage("nope")); ok {
			t.Error("Defaults() should not find unknown stage")
		}
	})
}
