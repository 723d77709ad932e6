package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// StateRepository persists the per-case workflow state (stage + context
// blob). The context is stored as JSON.
type StateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStateRepository creates a new workflow state repository
func NewStateRepository(db *sql.DB, logger *zap.Logger) *StateRepository {
	return &StateRepository{db: db, logger: logger}
}

// Get retrieves the workflow state for a case. Returns (nil, nil) when no
// state exists. A corrupt context blob discards the whole stored state; the
// case reads as fresh rather than failing.
func (r *StateRepository) Get(ctx context.Context, caseID string) (*entity.CaseState, error) {
	query := `SELECT stage, context FROM workflow_states WHERE case_id = ?`

	var stage, blob string
	err := r.db.QueryRowContext(ctx, query, caseID).Scan(&stage, &blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get workflow state", zap.String("case_id", caseID), zap.Error(err))
		return nil, fmt.Errorf("failed to get workflow state: %w", err)
	}

	state := &entity.CaseState{Stage: stage}
	if err := json.Unmarshal([]byte(blob), &state.Context); err != nil {
		r.logger.Warn("Discarding corrupt workflow state",
			zap.String("case_id", caseID),
			zap.Error(err))
		return &entity.CaseState{}, nil
	}

	return state, nil
}

// Set upserts the workflow state for a case.
func (r *StateRepository) Set(ctx context.Context, caseID string, state *entity.CaseState) error {
	blob, err := json.Marshal(state.Context)
	if err != nil {
		return fmt.Errorf("failed to encode workflow context: %w", err)
	}

	query := `
		INSERT INTO workflow_states (case_id, stage, context, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(case_id) DO UPDATE SET
			stage = excluded.stage,
			context = excluded.context,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query, caseID, state.Stage, string(blob), time.Now())
	if err != nil {
		r.logger.Error("Failed to set workflow state",
			zap.String("case_id", caseID),
			zap.String("stage", state.Stage),
			zap.Error(err))
		return fmt.Errorf("failed to set workflow state: %w", err)
	}

	return nil
}

// Delete removes the workflow state for a case.
func (r *StateRepository) Delete(ctx context.Context, caseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM workflow_states WHERE case_id = ?`, caseID)
	if err != nil {
		r.logger.Error("Failed to delete workflow state", zap.String("case_id", caseID), zap.Error(err))
		return fmt.Errorf("failed to delete workflow state: %w", err)
	}
	return nil
}
