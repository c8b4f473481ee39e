package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileDTO struct {
	Gpa                *float64 `json:"gpa,omitempty"`
	GpaScale           *float64 `json:"gpa_scale,omitempty"`
	BudgetRangeMin     *float64 `json:"budget_range_min,omitempty"`
	BudgetRangeMax     *float64 `json:"budget_range_max,omitempty"`
	PreferredCountries []string `json:"preferred_countries,omitempty"`
	IntendedDegree     string   `json:"intended_degree,omitempty"`
	FieldOfStudy       string   `json:"field_of_study,omitempty"`
	TargetIntake       string   `json:"target_intake,omitempty"`
	WorkExperience     string   `json:"work_experience,omitempty"`
	ExtraNotes         string   `json:"extra_notes,omitempty"`
}

type UserResponse struct {
	Id                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	FullName            string     `json:"full_name"`
	Stage               int        `json:"stage"`
	StageName           string     `json:"stage_name"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	LockedUniversityId  *uuid.UUID `json:"locked_university_id,omitempty"`
	Profile             ProfileDTO `json:"profile"`
	CreatedAt           time.Time  `json:"created_at"`
}

// OnboardingRequest captures the initial academic profile. Most knobs are
// optional; stage derivation only needs the degree and field.
type OnboardingRequest struct {
	Gpa                *float64 `json:"gpa" validate:"omitempty,gte=0"`
	GpaScale           *float64 `json:"gpa_scale" validate:"omitempty,oneof=4 5 10 100"`
	BudgetRangeMin     *float64 `json:"budget_range_min" validate:"omitempty,gte=0"`
	BudgetRangeMax     *float64 `json:"budget_range_max" validate:"omitempty,gte=0"`
	PreferredCountries []string `json:"preferred_countries"`
	IntendedDegree     string   `json:"intended_degree" validate:"required"`
	FieldOfStudy       string   `json:"field_of_study" validate:"required"`
	TargetIntake       string   `json:"target_intake"`
	WorkExperience     string   `json:"work_experience"`
	ExtraNotes         string   `json:"extra_notes"`
}

// UpdateProfileRequest is a partial update. Nil pointers leave the
// corresponding profile field untouched.
type UpdateProfileRequest struct {
	Gpa                *float64 `json:"gpa" validate:"omitempty,gte=0"`
	GpaScale           *float64 `json:"gpa_scale" validate:"omitempty,oneof=4 5 10 100"`
	BudgetRangeMin     *float64 `json:"budget_range_min" validate:"omitempty,gte=0"`
	BudgetRangeMax     *float64 `json:"budget_range_max" validate:"omitempty,gte=0"`
	PreferredCountries []string `json:"preferred_countries"`
	IntendedDegree     *string  `json:"intended_degree"`
	FieldOfStudy       *string  `json:"field_of_study"`
	TargetIntake       *string  `json:"target_intake"`
	WorkExperience     *string  `json:"work_experience"`
	ExtraNotes         *string  `json:"extra_notes"`
}
