package counsellor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/entity"
)

func TestGetOrCreateReturnsMostRecent(t *testing.T) {
	repo := newFakeConversationRepo()
	manager := NewSessionManager(repo)
	userId := uuid.New()
	ctx := context.Background()

	older := &entity.Conversation{Id: uuid.New(), UserId: userId}
	newer := &entity.Conversation{Id: uuid.New(), UserId: userId}
	repo.conversations[older.Id] = older
	repo.conversations[newer.Id] = newer
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer.UpdatedAt = time.Now()

	conv, err := manager.GetOrCreate(ctx, userId, nil)
	assert.NoError(t, err)
	assert.Equal(t, newer.Id, conv.Id)
}

func TestGetOrCreateCreatesWhenNoneExists(t *testing.T) {
	repo := newFakeConversationRepo()
	manager := NewSessionManager(repo)
	userId := uuid.New()

	conv, err := manager.GetOrCreate(context.Background(), userId, nil)
	assert.NoError(t, err)
	assert.NotNil(t, conv)
	assert.Equal(t, userId, conv.UserId)
	assert.Len(t, repo.conversations, 1)
}

func TestGetOrCreateScopedToOwner(t *testing.T) {
	repo := newFakeConversationRepo()
	manager := NewSessionManager(repo)
	owner := uuid.New()
	intruder := uuid.New()
	ctx := context.Background()

	conv := &entity.Conversation{Id: uuid.New(), UserId: owner, UpdatedAt: time.Now()}
	repo.conversations[conv.Id] = conv

	// Another user's conversation id falls back to that user's own session.
	got, err := manager.GetOrCreate(ctx, intruder, &conv.Id)
	assert.NoError(t, err)
	assert.NotEqual(t, conv.Id, got.Id)
	assert.Equal(t, intruder, got.UserId)
}

func TestAppendIsOrderedAndStamped(t *testing.T) {
	repo := newFakeConversationRepo()
	manager := NewSessionManager(repo)
	ctx := context.Background()

	conv, _ := manager.GetOrCreate(ctx, uuid.New(), nil)
	err := manager.Append(ctx, conv,
		entity.ChatMessage{Role: entity.MessageRoleUser, Content: "hi"},
		entity.ChatMessage{Role: entity.MessageRoleAssistant, Content: "hello"},
	)

	assert.NoError(t, err)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, "hi", conv.Messages[0].Content)
	assert.Equal(t, "hello", conv.Messages[1].Content)
	assert.False(t, conv.Messages[0].Timestamp.IsZero())
}

func TestWindowBoundsHistory(t *testing.T) {
	manager := NewSessionManager(newFakeConversationRepo())

	conv := &entity.Conversation{Id: uuid.New()}
	for i := 0; i < PromptWindow+10; i++ {
		conv.Messages = append(conv.Messages, entity.ChatMessage{
			Role:    entity.MessageRoleUser,
			Content: fmt.Sprintf("message %d", i),
		})
	}

	window := manager.Window(conv)
	assert.Len(t, window, PromptWindow)
	// The window is the trailing suffix; full history stays stored.
	assert.Equal(t, "message 10", window[0].Content)
	assert.Len(t, conv.Messages, PromptWindow+10)
}

func TestWindowShortHistoryUnchanged(t *testing.T) {
	manager := NewSessionManager(newFakeConversationRepo())
	conv := &entity.Conversation{Id: uuid.New(), Messages: []entity.ChatMessage{
		{Role: entity.MessageRoleUser, Content: "only one"},
	}}

	window := manager.Window(conv)
	assert.Len(t, window, 1)
}
