package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// Journey stages. Derived from onboarding/shortlist/lock state, never
// stored ahead of the facts that imply it.
const (
	StageOnboarding  = 1
	StageDiscovery   = 2
	StageShortlist   = 3
	StageApplication = 4
)

type User struct {
	Id                  uuid.UUID
	Email               string
	PasswordHash        *string
	FullName            string
	Role                UserRole
	Status              UserStatus
	EmailVerified       bool
	EmailVerifiedAt     *time.Time
	OnboardingCompleted bool
	Stage               int
	LockedUniversityId  *uuid.UUID
	LockedAt            *time.Time
	Profile             Profile
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Profile holds the academic profile collected during onboarding and
// refined through counsellor conversations.
type Profile struct {
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

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
