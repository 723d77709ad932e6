package entity

import "time"

// Message role constants.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversational turn on a case. The log is append-only;
// display ordering is created_at ascending.
type Message struct {
	MsgID     string    `json:"msg_id"`
	CaseID    string    `json:"case_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
