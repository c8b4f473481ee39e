package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddShortlistRequest struct {
	UniversityName   string   `json:"university_name" validate:"required,max=255"`
	Country          string   `json:"country"`
	Program          string   `json:"program"`
	Category         string   `json:"category" validate:"omitempty,oneof=Dream Target Safe"`
	FitScore         *float64 `json:"fit_score" validate:"omitempty,gte=0,lte=10"`
	WhyFits          *string  `json:"why_fits"`
	KeyRisks         []string `json:"key_risks"`
	AcceptanceChance *string  `json:"acceptance_chance"`
}

type ShortlistResponse struct {
	Id               uuid.UUID `json:"id"`
	UniversityName   string    `json:"university_name"`
	Country          string    `json:"country,omitempty"`
	Program          string    `json:"program,omitempty"`
	Category         string    `json:"category,omitempty"`
	FitScore         *float64  `json:"fit_score,omitempty"`
	WhyFits          *string   `json:"why_fits,omitempty"`
	KeyRisks         []string  `json:"key_risks,omitempty"`
	AcceptanceChance *string   `json:"acceptance_chance,omitempty"`
	IsLocked         bool      `json:"is_locked"`
	CreatedAt        time.Time `json:"created_at"`
}

type LockUniversityRequest struct {
	ShortlistId uuid.UUID `json:"shortlist_id" validate:"required"`
}
