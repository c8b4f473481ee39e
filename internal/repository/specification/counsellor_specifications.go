package specification

import (
	"time"

	"gorm.io/gorm"
)

// Shortlist Specs

type LockedOnly struct{}

func (s LockedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_locked = ?", true)
}

// ByUniversityName matches case-insensitively on the normalized name.
type ByUniversityName struct {
	Name string
}

func (s ByUniversityName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(university_name) = LOWER(?)", s.Name)
}

// Task Specs

type AiGeneratedOnly struct{}

func (s AiGeneratedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ai_generated = ?", true)
}

type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// Recommendation Cache Specs

type ByProfileHash struct {
	Hash string
}

func (s ByProfileHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("profile_hash = ?", s.Hash)
}

type CreatedBefore struct {
	Cutoff time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Cutoff)
}
