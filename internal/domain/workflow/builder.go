package workflow

import (
	"context"
	"fmt"
)

// GuardFunc is a function that evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder interface {
	// Configure returns a stage configuration for the given stage
	Configure(stage Stage) StageConfiguration

	// Build creates a new state machine instance positioned at the given stage
	Build(initialStage Stage) StateMachine
}

// StageConfiguration configures transitions out of a specific stage
type StageConfiguration interface {
	// Permit allows a trigger to transition to the target stage
	Permit(trigger Trigger, toStage Stage) StageConfiguration

	// PermitIf allows a trigger to transition to the target stage if the guard passes
	PermitIf(trigger Trigger, toStage Stage, guard GuardFunc) StageConfiguration
}

// transition represents a stage transition with optional guard
type transition struct {
	toStage Stage
	guard   GuardFunc
}

type stageConfig struct {
	builder     *stateMachineBuilder
	fromStage   Stage
	transitions map[Trigger][]transition
}

type stateMachineBuilder struct {
	configurations map[Stage]*stageConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[Stage]*stageConfig),
	}
}

// Configure returns a stage configuration for the given stage
func (b *stateMachineBuilder) Configure(stage Stage) StageConfiguration {
	if !stage.IsValid() {
		panic(fmt.Sprintf("invalid stage: %s", stage))
	}

	config, exists := b.configurations[stage]
	if !exists {
		config = &stageConfig{
			builder:     b,
			fromStage:   stage,
			transitions: make(map[Trigger][]transition),
		}
		b.configurations[stage] = config
	}

	return config
}

// Build creates a new state machine instance positioned at the given stage
func (b *stateMachineBuilder) Build(initialStage Stage) StateMachine {
	if !initialStage.IsValid() {
		panic(fmt.Sprintf("invalid initial stage: %s", initialStage))
	}

	// Deep copy configurations so machines built from the same builder
	// cannot observe each other's mutations
	configsCopy := make(map[Stage]*stageConfig)
	for stage, config := range b.configurations {
		transitionsCopy := make(map[Trigger][]transition)
		for trigger, transitions := range config.transitions {
			transitionsCopy[trigger] = append([]transition{}, transitions...)
		}
		configsCopy[stage] = &stageConfig{
			fromStage:   stage,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		currentStage:   initialStage,
		configurations: configsCopy,
	}
}

// Permit allows a trigger to transition to the target stage
func (c *stageConfig) Permit(trigger Trigger, toStage Stage) StageConfiguration {
	return c.PermitIf(trigger, toStage, nil)
}

// PermitIf allows a trigger to transition to the target stage if the guard passes
func (c *stageConfig) PermitIf(trigger Trigger, toStage Stage, guard GuardFunc) StageConfiguration {
	if !toStage.IsValid() {
		panic(fmt.Sprintf("invalid target stage: %s", toStage))
	}

	c.transitions[trigger] = append(c.transitions[trigger], transition{
		toStage: toStage,
		guard:   guard,
	})

	return c
}
