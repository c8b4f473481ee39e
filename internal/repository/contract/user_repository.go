package contract

import (
	"context"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteUnscoped(ctx context.Context, id uuid.UUID) error // Hard delete
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Token Management
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID) error

	CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error
	FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error)
	DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error

	// Business Specific
	ActivateUser(ctx context.Context, userId uuid.UUID) error
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error
	UpdateProfile(ctx context.Context, userId uuid.UUID, profile entity.Profile) error
	UpdateProfileField(ctx context.Context, userId uuid.UUID, field string, value interface{}) (map[string]interface{}, error)
	SetOnboardingCompleted(ctx context.Context, userId uuid.UUID) error
	SetStage(ctx context.Context, userId uuid.UUID, stage int) error
	SetLockedUniversity(ctx context.Context, userId uuid.UUID, shortlistId *uuid.UUID) error
}
