package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation keeps the whole message log as a JSONB array.
// Appends rewrite the column, which is fine at chat-history sizes.
type Conversation struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_conversations_user"`
	Title     string         `gorm:"type:varchar(255);default:'Counselling Session'"`
	Messages  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
