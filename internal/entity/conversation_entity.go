package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// ChatMessage is a single turn stored inside a conversation.
// ActionResults is only populated on assistant messages that carried
// tool executions.
type ChatMessage struct {
	Role          string                   `json:"role"`
	Content       string                   `json:"content"`
	ActionResults []map[string]interface{} `json:"action_results,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
}

// Conversation is an append-only message log for one user session.
type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
