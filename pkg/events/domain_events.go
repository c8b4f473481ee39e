package events

import (
	"time"

	"github.com/google/uuid"
)

// Domain event codes published over the bus. Notification routing
// is keyed on these codes.
const (
	TypeUserRegistered   = "USER_REGISTERED"
	TypeUniversityLocked = "UNIVERSITY_LOCKED"
	TypeStageAdvanced    = "STAGE_ADVANCED"
	TypeTasksGenerated   = "TASKS_GENERATED"
	TypeProfileUpdated   = "PROFILE_UPDATED"
)

func NewUserRegistered(userID uuid.UUID, email string) BaseEvent {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userID.String(),
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewUniversityLocked(userID, shortlistID uuid.UUID, universityName string) BaseEvent {
	return BaseEvent{
		Type: TypeUniversityLocked,
		Data: map[string]interface{}{
			"user_id":         userID.String(),
			"shortlist_id":    shortlistID.String(),
			"university_name": universityName,
		},
		OccurredAt: time.Now(),
	}
}

func NewStageAdvanced(userID uuid.UUID, fromStage, toStage int) BaseEvent {
	return BaseEvent{
		Type: TypeStageAdvanced,
		Data: map[string]interface{}{
			"user_id":    userID.String(),
			"from_stage": fromStage,
			"to_stage":   toStage,
		},
		OccurredAt: time.Now(),
	}
}

func NewTasksGenerated(userID uuid.UUID, count int, universityName string) BaseEvent {
	return BaseEvent{
		Type: TypeTasksGenerated,
		Data: map[string]interface{}{
			"user_id":         userID.String(),
			"count":           count,
			"university_name": universityName,
		},
		OccurredAt: time.Now(),
	}
}

func NewProfileUpdated(userID uuid.UUID, field string) BaseEvent {
	return BaseEvent{
		Type: TypeProfileUpdated,
		Data: map[string]interface{}{
			"user_id": userID.String(),
			"field":   field,
		},
		OccurredAt: time.Now(),
	}
}
