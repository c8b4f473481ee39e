package contract

import (
	"context"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ShortlistRepository interface {
	Create(ctx context.Context, entry *entity.ShortlistEntry) error
	Update(ctx context.Context, entry *entity.ShortlistEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShortlistEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShortlistEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UnlockAll clears the lock flag on every entry for the user.
	// Locking a new entry always goes through this first.
	UnlockAll(ctx context.Context, userId uuid.UUID) error
	SetLocked(ctx context.Context, id uuid.UUID, locked bool) error
}
