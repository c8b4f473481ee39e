package mapper

import (
	"encoding/json"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var profile entity.Profile
	if len(u.ProfileData) > 0 {
		// Corrupt profile JSON degrades to an empty profile instead of failing the read.
		_ = json.Unmarshal(u.ProfileData, &profile)
	}

	return &entity.User{
		Id:                  u.Id,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FullName:            u.FullName,
		Role:                entity.UserRole(u.Role),
		Status:              entity.UserStatus(u.Status),
		EmailVerified:       u.EmailVerified,
		EmailVerifiedAt:     u.EmailVerifiedAt,
		OnboardingCompleted: u.OnboardingCompleted,
		Stage:               u.Stage,
		LockedUniversityId:  u.LockedUniversityId,
		LockedAt:            u.LockedAt,
		Profile:             profile,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	profileJSON, err := json.Marshal(u.Profile)
	if err != nil {
		profileJSON = []byte("{}")
	}

	return &model.User{
		Id:                  u.Id,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FullName:            u.FullName,
		Role:                string(u.Role),
		Status:              string(u.Status),
		EmailVerified:       u.EmailVerified,
		EmailVerifiedAt:     u.EmailVerifiedAt,
		OnboardingCompleted: u.OnboardingCompleted,
		Stage:               u.Stage,
		LockedUniversityId:  u.LockedUniversityId,
		LockedAt:            u.LockedAt,
		ProfileData:         datatypes.JSON(profileJSON),
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

// Token Mappers

func (m *UserMapper) PasswordResetTokenToEntity(t *model.PasswordResetToken) *entity.PasswordResetToken {
	if t == nil {
		return nil
	}
	return &entity.PasswordResetToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		Used:      t.Used,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) PasswordResetTokenToModel(t *entity.PasswordResetToken) *model.PasswordResetToken {
	if t == nil {
		return nil
	}
	return &model.PasswordResetToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		Used:      t.Used,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) EmailVerificationTokenToEntity(t *model.EmailVerificationToken) *entity.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &entity.EmailVerificationToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) EmailVerificationTokenToModel(t *entity.EmailVerificationToken) *model.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &model.EmailVerificationToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}
