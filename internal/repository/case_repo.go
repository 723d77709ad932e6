// Package repository implements SQLite persistence for cases, messages,
// documents and workflow states.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// CaseRepository persists case summary records.
type CaseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *sql.DB, logger *zap.Logger) *CaseRepository {
	return &CaseRepository{db: db, logger: logger}
}

const caseColumns = `case_id, title, patient_name, payer, status,
	reimbursement_amount, reimbursement_date, workflow_stage,
	workflow_status, next_action, risk_level, created_at, updated_at`

// Create inserts a new case row.
func (r *CaseRepository) Create(ctx context.Context, c *entity.Case) error {
	query := `
		INSERT INTO cases (` + caseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var amount sql.NullFloat64
	if c.ReimbursementAmount != nil {
		amount = sql.NullFloat64{Float64: *c.ReimbursementAmount, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		c.CaseID,
		c.Title,
		c.PatientName,
		c.Payer,
		c.Status,
		amount,
		c.ReimbursementDate,
		c.WorkflowStage,
		c.WorkflowStatus,
		c.NextAction,
		c.RiskLevel,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create case", zap.String("case_id", c.CaseID), zap.Error(err))
		return fmt.Errorf("failed to create case: %w", err)
	}

	return nil
}

// GetByID retrieves a case by id. Returns (nil, nil) when the case does not
// exist.
func (r *CaseRepository) GetByID(ctx context.Context, caseID string) (*entity.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE case_id = ?`

	c, err := scanCase(r.db.QueryRowContext(ctx, query, caseID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get case", zap.String("case_id", caseID), zap.Error(err))
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	return c, nil
}

// List retrieves all cases, newest first.
func (r *CaseRepository) List(ctx context.Context) ([]*entity.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC, case_id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list cases", zap.Error(err))
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*entity.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}

	return cases, rows.Err()
}

// Update merges the non-nil fields of upd onto the case row and refreshes
// updated_at. Updating a missing case is a silent no-op.
func (r *CaseRepository) Update(ctx context.Context, caseID string, upd entity.CaseUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.Status != nil {
		appendSet("status", *upd.Status)
	}
	if upd.ReimbursementAmount != nil {
		appendSet("reimbursement_amount", *upd.ReimbursementAmount)
	}
	if upd.ReimbursementDate != nil {
		appendSet("reimbursement_date", *upd.ReimbursementDate)
	}
	if upd.WorkflowStage != nil {
		appendSet("workflow_stage", *upd.WorkflowStage)
	}
	if upd.WorkflowStatus != nil {
		appendSet("workflow_status", *upd.WorkflowStatus)
	}
	if upd.NextAction != nil {
		appendSet("next_action", *upd.NextAction)
	}
	if upd.RiskLevel != nil {
		appendSet("risk_level", *upd.RiskLevel)
	}

	query := "UPDATE cases SET " + strings.Join(sets, ", ") + " WHERE case_id = ?"
	args = append(args, caseID)

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update case", zap.String("case_id", caseID), zap.Error(err))
		return fmt.Errorf("failed to update case: %w", err)
	}

	return nil
}

// Delete removes a case row.
func (r *CaseRepository) Delete(ctx context.Context, caseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE case_id = ?`, caseID)
	if err != nil {
		r.logger.Error("Failed to delete case", zap.String("case_id", caseID), zap.Error(err))
		return fmt.Errorf("failed to delete case: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCase(row rowScanner) (*entity.Case, error) {
	var c entity.Case
	var amount sql.NullFloat64

	err := row.Scan(
		&c.CaseID,
		&c.Title,
		&c.PatientName,
		&c.Payer,
		&c.Status,
		&amount,
		&c.ReimbursementDate,
		&c.WorkflowStage,
		&c.WorkflowStatus,
		&c.NextAction,
		&c.RiskLevel,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if amount.Valid {
		c.ReimbursementAmount = &amount.Float64
	}

	return &c, nil
}
