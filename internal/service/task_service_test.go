package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"
)

type stubTaskRepo struct {
	contract.TaskRepository
	findAllSpecs []specification.Specification
	tasks        []*entity.Task
	batched      []*entity.Task
}

func (r *stubTaskRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	r.findAllSpecs = specs
	return r.tasks, nil
}

func (r *stubTaskRepo) CreateBatch(_ context.Context, tasks []*entity.Task) error {
	r.batched = tasks
	return nil
}

type taskStubUow struct {
	unitofwork.UnitOfWork
	tasks contract.TaskRepository
}

func (u *taskStubUow) TaskRepository() contract.TaskRepository { return u.tasks }

func taskServiceWithRepo(repo *stubTaskRepo) ITaskService {
	return NewTaskService(&stubFactory{uow: &taskStubUow{tasks: repo}})
}

func TestTaskListStatusFilter(t *testing.T) {
	userId := uuid.New()

	t.Run("no status queries all owned tasks", func(t *testing.T) {
		repo := &stubTaskRepo{}
		_, err := taskServiceWithRepo(repo).List(context.Background(), userId, "")
		assert.NoError(t, err)
		for _, spec := range repo.findAllSpecs {
			_, isStatus := spec.(specification.StatusIs)
			assert.False(t, isStatus)
		}
	})

	t.Run("status narrows the query", func(t *testing.T) {
		repo := &stubTaskRepo{}
		_, err := taskServiceWithRepo(repo).List(context.Background(), userId, entity.TaskStatusNotStarted)
		assert.NoError(t, err)

		var got *specification.StatusIs
		for _, spec := range repo.findAllSpecs {
			if s, ok := spec.(specification.StatusIs); ok {
				got = &s
			}
		}
		assert.NotNil(t, got)
		assert.Equal(t, entity.TaskStatusNotStarted, got.Status)
	})
}

func TestTaskCreateBulk(t *testing.T) {
	userId := uuid.New()
	repo := &stubTaskRepo{}
	svc := taskServiceWithRepo(repo)

	res, err := svc.CreateBulk(context.Background(), userId, &dto.BulkCreateTasksRequest{
		Tasks: []dto.CreateTaskRequest{
			{Title: "Draft SOP", Priority: "high"},
			{Title: "Request transcripts"},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Len(t, repo.batched, 2)
	for _, task := range repo.batched {
		assert.Equal(t, userId, task.UserId)
	}
	// Defaults apply per task.
	assert.Equal(t, "high", repo.batched[0].Priority)
	assert.Equal(t, "medium", repo.batched[1].Priority)
	assert.Equal(t, entity.TaskStatusNotStarted, repo.batched[1].Status)
}
