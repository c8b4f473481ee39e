package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email               string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash        *string   `gorm:"type:varchar(255)"`
	FullName            string    `gorm:"type:varchar(255);not null"`
	Role                string    `gorm:"type:varchar(50);not null;default:'user'"`
	Status              string    `gorm:"type:varchar(50);not null;default:'pending'"`
	EmailVerified       bool      `gorm:"default:false"`
	EmailVerifiedAt     *time.Time
	OnboardingCompleted bool       `gorm:"default:false"`
	Stage               int        `gorm:"default:1"`
	LockedUniversityId  *uuid.UUID `gorm:"type:uuid"`
	LockedAt            *time.Time
	ProfileData         datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type PasswordResetToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

type EmailVerificationToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}
