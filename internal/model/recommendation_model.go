package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RecommendationCache struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index:idx_recommendations_user"`
	ProfileHash string         `gorm:"type:varchar(64);not null;index:idx_recommendations_hash"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
}

func (RecommendationCache) TableName() string {
	return "user_recommendations"
}
