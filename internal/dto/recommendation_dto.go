package dto

import "time"

type RecommendedUniversityDTO struct {
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	Program          string   `json:"program"`
	EstimatedCost    string   `json:"estimated_cost"`
	WhyFits          string   `json:"why_fits"`
	KeyRisks         []string `json:"key_risks,omitempty"`
	AcceptanceChance string   `json:"acceptance_chance,omitempty"`
}

type RecommendationResponse struct {
	Dream       []RecommendedUniversityDTO `json:"dream"`
	Target      []RecommendedUniversityDTO `json:"target"`
	Safe        []RecommendedUniversityDTO `json:"safe"`
	FromCache   bool                       `json:"from_cache"`
	GeneratedAt time.Time                  `json:"generated_at"`
}
