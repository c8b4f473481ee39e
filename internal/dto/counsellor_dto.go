package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message        string     `json:"message" validate:"required,max=4000"`
	ConversationId *uuid.UUID `json:"conversation_id,omitempty"`
}

// ActionResultDTO reports one executed action within a turn.
// Status is "ok" or "failed"; a failed action never aborts the turn.
type ActionResultDTO struct {
	Name    string                 `json:"name"`
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

type ChatResponse struct {
	ConversationId uuid.UUID         `json:"conversation_id"`
	Reply          string            `json:"reply"`
	Actions        []ActionResultDTO `json:"actions,omitempty"`
	Stage          int               `json:"stage"`
}

type ChatMessageDTO struct {
	Role          string            `json:"role"`
	Content       string            `json:"content"`
	ActionResults []ActionResultDTO `json:"action_results,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

type ConversationResponse struct {
	Id        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Messages  []ChatMessageDTO `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// StreamEvent is one SSE frame in a streamed chat turn.
// Type is one of "start", "chunk", "action", "done", "error". The done
// frame carries the full assembled reply and the full action list.
type StreamEvent struct {
	Type           string            `json:"type"`
	ConversationId *uuid.UUID        `json:"conversation_id,omitempty"`
	Content        string            `json:"content,omitempty"`
	Action         *ActionResultDTO  `json:"action,omitempty"`
	Reply          string            `json:"reply,omitempty"`
	Actions        []ActionResultDTO `json:"actions,omitempty"`
	Stage          int               `json:"stage,omitempty"`
	Error          string            `json:"error,omitempty"`
}
