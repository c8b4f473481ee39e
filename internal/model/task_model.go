package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_user"`
	Title        string    `gorm:"type:varchar(500);not null"`
	Description  string    `gorm:"type:text"`
	Category     string    `gorm:"type:varchar(100)"`
	Priority     string    `gorm:"type:varchar(20)"`
	Status       string    `gorm:"type:varchar(50);not null;default:'not-started'"`
	DueDate      *time.Time
	AiGenerated  bool       `gorm:"default:false"`
	UniversityId *uuid.UUID `gorm:"type:uuid"`
	CompletedAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
