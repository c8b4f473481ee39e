package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=500"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=high medium low"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type BulkCreateTasksRequest struct {
	Tasks []CreateTaskRequest `json:"tasks" validate:"required,min=1,max=50,dive"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=500"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=high medium low"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type TaskResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	AiGenerated  bool       `json:"ai_generated"`
	UniversityId *uuid.UUID `json:"university_id,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type TaskStatsResponse struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	InProgress     int64   `json:"in_progress"`
	NotStarted     int64   `json:"not_started"`
	CompletionRate float64 `json:"completion_rate"`
}
