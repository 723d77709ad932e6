package workflow

import (
	"context"
	"fmt"
)

// StateMachine tracks a case's current stage and validates transitions
// against the configured stage graph.
type StateMachine interface {
	// Stage returns the current stage
	Stage() Stage

	// CanFire returns true if the trigger is permitted in the current stage
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, moving to the new stage if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current stage
	PermittedTriggers() []Trigger
}

type stateMachine struct {
	currentStage   Stage
	configurations map[Stage]*stageConfig
}

// Stage returns the current stage.
func (m *stateMachine) Stage() Stage {
	return m.currentStage
}

// CanFire returns true if the trigger is permitted in the current stage.
// Guards are not evaluated here; any configured transition counts.
func (m *stateMachine) CanFire(trigger Trigger) bool {
	config, exists := m.configurations[m.currentStage]
	if !exists {
		return false
	}
	transitions, exists := config.transitions[trigger]
	return exists && len(transitions) > 0
}

// Fire attempts to execute the trigger, moving to the new stage if allowed.
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	config, exists := m.configurations[m.currentStage]
	if !exists {
		return fmt.Errorf("%w: cannot fire trigger %s from stage %s (no configuration)", ErrInvalidTransition, trigger, m.currentStage)
	}

	transitions, exists := config.transitions[trigger]
	if !exists || len(transitions) == 0 {
		return fmt.Errorf("%w: cannot fire trigger %s from stage %s", ErrInvalidTransition, trigger, m.currentStage)
	}

	// Try each transition in order until one succeeds
	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx) {
			m.currentStage = t.toStage
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from stage %s", ErrGuardFailed, trigger, m.currentStage)
}

// PermittedTriggers returns all triggers that can be fired in the current stage.
func (m *stateMachine) PermittedTriggers() []Trigger {
	config, exists := m.configurations[m.currentStage]
	if !exists {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(config.transitions))
	for trigger := range config.transitions {
		triggers = append(triggers, trigger)
	}
	return triggers
}
