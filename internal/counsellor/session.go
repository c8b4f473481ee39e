package counsellor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"
)

// PromptWindow bounds how many trailing messages are replayed into the
// prompt. Full history stays in storage; only this suffix is sent.
const PromptWindow = 15

// SessionManager owns conversation continuity: fetch-or-create by
// recency, atomic appends, and the bounded window used for prompting.
type SessionManager struct {
	conversations contract.ConversationRepository
}

func NewSessionManager(conversations contract.ConversationRepository) *SessionManager {
	return &SessionManager{conversations: conversations}
}

// GetOrCreate returns the user's most recently updated conversation,
// creating one when none exists. When conversationId is set, that
// conversation is fetched instead, scoped to the owning user.
func (m *SessionManager) GetOrCreate(ctx context.Context, userId uuid.UUID, conversationId *uuid.UUID) (*entity.Conversation, error) {
	if conversationId != nil {
		conv, err := m.conversations.FindOne(ctx,
			specification.ByID{ID: *conversationId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if conv != nil {
			return conv, nil
		}
		// Fall through: a stale id from the client starts a fresh session.
	}

	conv, err := m.conversations.FindLatestByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = &entity.Conversation{
		Id:     uuid.New(),
		UserId: userId,
		Title:  "Counselling Session",
	}
	if err := m.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Append adds messages to the conversation and persists the full log in
// one write, bumping the updated timestamp.
func (m *SessionManager) Append(ctx context.Context, conv *entity.Conversation, messages ...entity.ChatMessage) error {
	now := time.Now()
	for i := range messages {
		if messages[i].Timestamp.IsZero() {
			messages[i].Timestamp = now
		}
		conv.Messages = append(conv.Messages, messages[i])
	}
	return m.conversations.Update(ctx, conv)
}

// Window returns the bounded trailing slice of the log for prompting.
func (m *SessionManager) Window(conv *entity.Conversation) []entity.ChatMessage {
	if len(conv.Messages) <= PromptWindow {
		return conv.Messages
	}
	return conv.Messages[len(conv.Messages)-PromptWindow:]
}
