package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestAdvance_HappyPath(t *testing.T) {
	steps := []struct {
		from    Stage
		trigger Trigger
		want    Stage
	}{
		{StageAwaitingCaseStart, TriggerStartCase, StageAwaitingCaseDetails},
		{StageAwaitingCaseDetails, TriggerPatientInfo, StageAwaitingProcedureDocs},
		{StageAwaitingProcedureDocs, TriggerClinicalNotes, StageAwaitingResolutionChoice},
		{StageAwaitingResolutionChoice, TriggerChooseUpload, StageAwaitingAdditionalDocs},
		{StageAwaitingAdditionalDocs, TriggerAdditionalDocs, StageRCMReviewPending},
		{StageRCMReviewPending, TriggerRCMResponded, StageAwaitingRCMConfirmation},
		{StageAwaitingRCMConfirmation, TriggerConfirmForecast, StageAwaitingFinalConfirm},
		{StageAwaitingFinalConfirm, TriggerConfirmSOAP, StageAwaitingSignedSOAPNote},
		{StageAwaitingSignedSOAPNote, TriggerSignedSOAPNote, StageCompleted},
		{StageCompleted, TriggerSubmitClaim, StageSubmitted},
	}

	for _, step := range steps {
		t.Run(string(step.trigger), func(t *testing.T) {
			got, err := Advance(context.Background(), step.from, step.trigger)
			if err != nil {
				t.Fatalf("Advance(%s, %s) failed: %v", step.from, step.trigger, err)
			}
			if got != step.want {
				t.Errorf("Advance(%s, %s) = %v, want %v", step.from, step.trigger, got, step.want)
			}
		})
	}
}

func TestAdvance_ResolutionBranches(t *testing.T) {
	tests := []struct {
		trigger Trigger
		want    Stage
	}{
		{TriggerChooseUpload, StageAwaitingAdditionalDocs},
		{TriggerChooseRemove, StageRCMReviewPending},
		{TriggerChooseSubmitAsIs, StageRCMReviewPending},
		{TriggerPauseCase, StageAwaitingCaseStart},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			got, err := Advance(context.Background(), StageAwaitingResolutionChoice, tt.trigger)
			if err != nil {
				t.Fatalf("Advance() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Advance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvance_RejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Stage
		trigger Trigger
	}{
		{"cannot skip to signature", StageAwaitingCaseStart, TriggerSignedSOAPNote},
		{"cannot submit before completion", StageAwaitingFinalConfirm, TriggerSubmitClaim},
		{"submitted is terminal", StageSubmitted, TriggerStartCase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Advance(context.Background(), tt.from, tt.trigger)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Advance() error = %v, want ErrInvalidTransition", err)
			}
			if got != tt.from {
				t.Errorf("Advance() should return the original stage on failure, got %v", got)
			}
		})
	}
}

func TestNewCaseMachine_PermittedTriggersAtResolution(t *testing.T) {
	m := NewCaseMachine(StageAwaitingResolutionChoice)
	if len(m.PermittedTriggers()) != 4 {
		t.Errorf("expected 4 permitted triggers at resolution choice, got %d", len(m.PermittedTriggers()))
	}
}
