package unitofwork

import (
	"context"

	"ai-counsellor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ShortlistRepository() contract.ShortlistRepository
	TaskRepository() contract.TaskRepository
	ConversationRepository() contract.ConversationRepository
	RecommendationRepository() contract.RecommendationRepository
}
