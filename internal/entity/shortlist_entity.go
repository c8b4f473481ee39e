package entity

import (
	"time"

	"github.com/google/uuid"
)

// Shortlist categories.
const (
	CategoryDream  = "Dream"
	CategoryTarget = "Target"
	CategorySafe   = "Safe"
)

// ShortlistEntry is a university a user is considering. At most one
// entry per user may be locked at a time.
type ShortlistEntry struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	UniversityName   string
	Country          string
	Program          string
	Category         string
	FitScore         *float64
	WhyFits          *string
	KeyRisks         []string
	AcceptanceChance *string
	IsLocked         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
