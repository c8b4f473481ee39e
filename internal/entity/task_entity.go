package entity

import (
	"time"

	"github.com/google/uuid"
)

// Canonical task statuses. Unknown values coming from the model layer
// are stored verbatim so user phrasing is never silently rewritten.
const (
	TaskStatusNotStarted = "not-started"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusReady      = "ready"
	TaskStatusDraft      = "draft"
	TaskStatusPending    = "pending"
)

type Task struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Description  string
	Category     string
	Priority     string
	Status       string
	DueDate      *time.Time
	AiGenerated  bool
	UniversityId *uuid.UUID
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
