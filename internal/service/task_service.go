package service

import (
	"context"
	"errors"
	"time"

	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ITaskService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	CreateBulk(ctx context.Context, userId uuid.UUID, req *dto.BulkCreateTasksRequest) ([]*dto.TaskResponse, error)
	List(ctx context.Context, userId uuid.UUID, status string) ([]*dto.TaskResponse, error)
	Update(ctx context.Context, userId, taskId uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userId, taskId uuid.UUID) error
	Stats(ctx context.Context, userId uuid.UUID) (*dto.TaskStatsResponse, error)
}

type taskService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTaskService(uowFactory unitofwork.RepositoryFactory) ITaskService {
	return &taskService{uowFactory: uowFactory}
}

func (s *taskService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	status := req.Status
	if status == "" {
		status = entity.TaskStatusNotStarted
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	task := &entity.Task{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    priority,
		Status:      status,
		DueDate:     req.DueDate,
	}
	if err := uow.TaskRepository().Create(ctx, task); err != nil {
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

// CreateBulk inserts a batch of tasks in one write. Defaults apply
// per task the same way Create applies them.
func (s *taskService) CreateBulk(ctx context.Context, userId uuid.UUID, req *dto.BulkCreateTasksRequest) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tasks := make([]*entity.Task, 0, len(req.Tasks))
	for _, item := range req.Tasks {
		status := item.Status
		if status == "" {
			status = entity.TaskStatusNotStarted
		}
		priority := item.Priority
		if priority == "" {
			priority = "medium"
		}
		tasks = append(tasks, &entity.Task{
			Id:          uuid.New(),
			UserId:      userId,
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
			Priority:    priority,
			Status:      status,
			DueDate:     item.DueDate,
		})
	}
	if err := uow.TaskRepository().CreateBatch(ctx, tasks); err != nil {
		return nil, err
	}

	out := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp := toTaskResponse(task)
		out = append(out, &resp)
	}
	return out, nil
}

func (s *taskService) List(ctx context.Context, userId uuid.UUID, status string) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	}
	if status != "" {
		specs = append(specs, specification.StatusIs{Status: status})
	}
	tasks, err := uow.TaskRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp := toTaskResponse(task)
		out = append(out, &resp)
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, userId, taskId uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Status != nil {
		task.Status = *req.Status
		// completed_at is set iff the task is completed.
		if task.Status == entity.TaskStatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

func (s *taskService) Delete(ctx context.Context, userId, taskId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if task == nil {
		return errors.New("task not found")
	}
	return uow.TaskRepository().Delete(ctx, taskId)
}

func (s *taskService) Stats(ctx context.Context, userId uuid.UUID) (*dto.TaskStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tasks, err := uow.TaskRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	stats := computeTaskStats(tasks)
	return &stats, nil
}

func toTaskResponse(task *entity.Task) dto.TaskResponse {
	return dto.TaskResponse{
		Id:           task.Id,
		Title:        task.Title,
		Description:  task.Description,
		Category:     task.Category,
		Priority:     task.Priority,
		Status:       task.Status,
		DueDate:      task.DueDate,
		AiGenerated:  task.AiGenerated,
		UniversityId: task.UniversityId,
		CompletedAt:  task.CompletedAt,
		CreatedAt:    task.CreatedAt,
	}
}
