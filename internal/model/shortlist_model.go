package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ShortlistEntry struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index:idx_shortlists_user"`
	UniversityName   string         `gorm:"type:varchar(255);not null"`
	Country          string         `gorm:"type:varchar(100)"`
	Program          string         `gorm:"type:varchar(255)"`
	Category         string         `gorm:"type:varchar(20)"`
	FitScore         *float64       `gorm:"type:numeric(4,1)"`
	WhyFits          *string        `gorm:"type:text"`
	KeyRisks         datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	AcceptanceChance *string        `gorm:"type:varchar(50)"`
	IsLocked         bool           `gorm:"default:false;index:idx_shortlists_locked"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (ShortlistEntry) TableName() string {
	return "shortlists"
}
