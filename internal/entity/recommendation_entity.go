package entity

import (
	"time"

	"github.com/google/uuid"
)

// RecommendedUniversity is one AI-generated suggestion inside a
// recommendation set.
type RecommendedUniversity struct {
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	Program          string   `json:"program"`
	EstimatedCost    string   `json:"estimated_cost"`
	WhyFits          string   `json:"why_fits"`
	KeyRisks         []string `json:"key_risks,omitempty"`
	AcceptanceChance string   `json:"acceptance_chance,omitempty"`
}

// RecommendationSet groups suggestions into dream / target / safe tiers.
type RecommendationSet struct {
	Dream  []RecommendedUniversity `json:"dream"`
	Target []RecommendedUniversity `json:"target"`
	Safe   []RecommendedUniversity `json:"safe"`
}

// RecommendationCache stores a generated set keyed by a hash of the
// profile fields that influenced it. Entries older than the freshness
// window are regenerated.
type RecommendationCache struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ProfileHash string
	Payload     RecommendationSet
	CreatedAt   time.Time
}
