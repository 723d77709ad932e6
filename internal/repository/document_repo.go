package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// DocumentRepository persists uploaded and generated document records.
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// Append records a new document.
func (r *DocumentRepository) Append(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (doc_id, case_id, name, type, path, public_url, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		d.DocID, d.CaseID, d.Name, d.Type, d.Path, d.PublicURL, d.UploadedAt)
	if err != nil {
		r.logger.Error("Failed to append document",
			zap.String("case_id", d.CaseID),
			zap.String("name", d.Name),
			zap.Error(err))
		return fmt.Errorf("failed to append document: %w", err)
	}

	return nil
}

// ListByCase returns all documents for a case, oldest first.
func (r *DocumentRepository) ListByCase(ctx context.Context, caseID string) ([]*entity.Document, error) {
	query := `
		SELECT doc_id, case_id, name, type, path, public_url, uploaded_at
		FROM documents
		WHERE case_id = ?
		ORDER BY uploaded_at ASC, doc_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		r.logger.Error("Failed to list documents", zap.String("case_id", caseID), zap.Error(err))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(&d.DocID, &d.CaseID, &d.Name, &d.Type, &d.Path, &d.PublicURL, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &d)
	}

	return docs, rows.Err()
}

// DeleteByCase removes every document record belonging to a case. The files
// themselves live under the case upload directory and are removed by the
// file store.
func (r *DocumentRepository) DeleteByCase(ctx context.Context, caseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE case_id = ?`, caseID)
	if err != nil {
		r.logger.Error("Failed to delete documents", zap.String("case_id", caseID), zap.Error(err))
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}
