package contract

import (
	"context"
	"time"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RecommendationRepository interface {
	Create(ctx context.Context, cache *entity.RecommendationCache) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecommendationCache, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error

	// DeleteOlderThan prunes stale cache rows and returns how many went.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
