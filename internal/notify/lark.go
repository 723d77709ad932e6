// Package notify pushes case lifecycle notifications to Lark. Notification
// failures are logged and swallowed; they never affect the workflow.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
)

// Config holds the Lark app credentials and the chat to notify.
type Config struct {
	AppID     string
	AppSecret string
	ChatID    string
}

// LarkNotifier announces submitted cases in a Lark group chat.
type LarkNotifier struct {
	client *lark.Client
	chatID string
	logger *zap.Logger
}

// NewLarkNotifier creates a Lark notifier.
func NewLarkNotifier(cfg Config, logger *zap.Logger) *LarkNotifier {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)
	return &LarkNotifier{
		client: client,
		chatID: cfg.ChatID,
		logger: logger,
	}
}

// CaseSubmitted posts a text message announcing the submitted case.
func (n *LarkNotifier) CaseSubmitted(ctx context.Context, c *entity.Case) {
	text := fmt.Sprintf("Reimbursement case %s (%s) has been submitted to %s.",
		c.CaseID, c.Title, c.Payer)
	if c.ReimbursementAmount != nil {
		text += fmt.Sprintf(" Projected reimbursement: $%.2f.", *c.ReimbursementAmount)
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		n.logger.Error("Failed to encode notification content", zap.Error(err))
		return
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("chat_id").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(n.chatID).
			MsgType("text").
			Content(string(content)).
			Build()).
		Build()

	resp, err := n.client.Im.Message.Create(ctx, req)
	if err != nil {
		n.logger.Error("Failed to send case notification",
			zap.String("case_id", c.CaseID),
			zap.Error(err))
		return
	}
	if !resp.Success() {
		n.logger.Error("Lark API returned failure",
			zap.String("case_id", c.CaseID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return
	}

	n.logger.Info("Case submission notified",
		zap.String("case_id", c.CaseID),
		zap.String("chat_id", n.chatID))
}
