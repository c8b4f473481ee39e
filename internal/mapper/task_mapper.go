package mapper

import (
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/model"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) ToEntity(t *model.Task) *entity.Task {
	if t == nil {
		return nil
	}
	return &entity.Task{
		Id:           t.Id,
		UserId:       t.UserId,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Priority:     t.Priority,
		Status:       t.Status,
		DueDate:      t.DueDate,
		AiGenerated:  t.AiGenerated,
		UniversityId: t.UniversityId,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (m *TaskMapper) ToModel(t *entity.Task) *model.Task {
	if t == nil {
		return nil
	}
	return &model.Task{
		Id:           t.Id,
		UserId:       t.UserId,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Priority:     t.Priority,
		Status:       t.Status,
		DueDate:      t.DueDate,
		AiGenerated:  t.AiGenerated,
		UniversityId: t.UniversityId,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (m *TaskMapper) ToEntities(tasks []*model.Task) []*entity.Task {
	entities := make([]*entity.Task, len(tasks))
	for i, t := range tasks {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *TaskMapper) ToModels(tasks []*entity.Task) []*model.Task {
	models := make([]*model.Task, len(tasks))
	for i, t := range tasks {
		models[i] = m.ToModel(t)
	}
	return models
}
