package contract

import (
	"context"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	Update(ctx context.Context, conv *entity.Conversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)

	// FindLatestByUserId returns the most recently updated conversation,
	// or nil when the user has none yet.
	FindLatestByUserId(ctx context.Context, userId uuid.UUID) (*entity.Conversation, error)
}
