package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// MessageRepository persists the append-only conversation log.
type MessageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

// Append records a new conversational turn.
func (r *MessageRepository) Append(ctx context.Context, m *entity.Message) error {
	query := `
		INSERT INTO messages (msg_id, case_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, m.MsgID, m.CaseID, m.Role, m.Content, m.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to append message",
			zap.String("case_id", m.CaseID),
			zap.String("role", m.Role),
			zap.Error(err))
		return fmt.Errorf("failed to append message: %w", err)
	}

	return nil
}

// ListByCase returns all messages for a case, oldest first.
func (r *MessageRepository) ListByCase(ctx context.Context, caseID string) ([]*entity.Message, error) {
	query := `
		SELECT msg_id, case_id, role, content, created_at
		FROM messages
		WHERE case_id = ?
		ORDER BY created_at ASC, msg_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		r.logger.Error("Failed to list messages", zap.String("case_id", caseID), zap.Error(err))
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.MsgID, &m.CaseID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

// DeleteByCase removes every message belonging to a case.
func (r *MessageRepository) DeleteByCase(ctx context.Context, caseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE case_id = ?`, caseID)
	if err != nil {
		r.logger.Error("Failed to delete messages", zap.String("case_id", caseID), zap.Error(err))
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
