package service

import (
	"context"
	"errors"
	"fmt"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"

	"ai-counsellor-be/pkg/events"
	pktNats "ai-counsellor-be/pkg/nats"

	"github.com/google/uuid"
)

type IShortlistService interface {
	Add(ctx context.Context, userId uuid.UUID, req *dto.AddShortlistRequest) (*dto.ShortlistResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShortlistResponse, error)
	Delete(ctx context.Context, userId, shortlistId uuid.UUID) error
	// Lock commits the user to one shortlisted university: any previous
	// lock is released, the stage advances, and the default application
	// tasks are seeded. Shared by the REST endpoint and the chat action.
	Lock(ctx context.Context, userId, shortlistId uuid.UUID) (*entity.ShortlistEntry, error)
	Unlock(ctx context.Context, userId uuid.UUID) error
}

type shortlistService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewShortlistService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IShortlistService {
	return &shortlistService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *shortlistService) Add(ctx context.Context, userId uuid.UUID, req *dto.AddShortlistRequest) (*dto.ShortlistResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Duplicate add is a no-op: return the existing entry.
	existing, err := uow.ShortlistRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByUniversityName{Name: req.UniversityName},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		resp := toShortlistResponse(existing)
		return &resp, nil
	}

	category := req.Category
	if category == "" {
		category = entity.CategoryTarget
	}

	entry := &entity.ShortlistEntry{
		Id:               uuid.New(),
		UserId:           userId,
		UniversityName:   req.UniversityName,
		Country:          req.Country,
		Program:          req.Program,
		Category:         category,
		FitScore:         req.FitScore,
		WhyFits:          req.WhyFits,
		KeyRisks:         req.KeyRisks,
		AcceptanceChance: req.AcceptanceChance,
	}
	if err := uow.ShortlistRepository().Create(ctx, entry); err != nil {
		return nil, err
	}

	// A first shortlist entry moves a discovery-stage user forward.
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err == nil && user != nil && user.Stage == entity.StageDiscovery {
		_ = uow.UserRepository().SetStage(ctx, userId, entity.StageShortlist)
	}

	resp := toShortlistResponse(entry)
	return &resp, nil
}

func (s *shortlistService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShortlistResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.ShortlistRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ShortlistResponse, 0, len(entries))
	for _, entry := range entries {
		resp := toShortlistResponse(entry)
		out = append(out, &resp)
	}
	return out, nil
}

func (s *shortlistService) Delete(ctx context.Context, userId, shortlistId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.ShortlistRepository().FindOne(ctx,
		specification.ByID{ID: shortlistId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if entry == nil {
		return errors.New("shortlist entry not found")
	}
	if entry.IsLocked {
		return errors.New("cannot remove a locked university. unlock it first")
	}
	return uow.ShortlistRepository().Delete(ctx, shortlistId)
}

func (s *shortlistService) Lock(ctx context.Context, userId, shortlistId uuid.UUID) (*entity.ShortlistEntry, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.ShortlistRepository().FindOne(ctx,
		specification.ByID{ID: shortlistId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("shortlist entry not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return nil, errors.New("user not found")
	}
	previousStage := user.Stage

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// 1. Release any previous lock, then lock the target.
	if err := uow.ShortlistRepository().UnlockAll(ctx, userId); err != nil {
		return nil, err
	}
	if err := uow.ShortlistRepository().SetLocked(ctx, shortlistId, true); err != nil {
		return nil, err
	}

	// 2. Advance the user into the application stage.
	if err := uow.UserRepository().SetLockedUniversity(ctx, userId, &shortlistId); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().SetStage(ctx, userId, entity.StageApplication); err != nil {
		return nil, err
	}

	// 3. Seed the default application tasks, skipping titles the user
	// already has.
	existingTasks, err := uow.TaskRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	existingTitles := make(map[string]struct{}, len(existingTasks))
	for _, task := range existingTasks {
		existingTitles[task.Title] = struct{}{}
	}

	var seeded []*entity.Task
	for _, title := range constant.DefaultLockTasks {
		if _, dup := existingTitles[title]; dup {
			continue
		}
		seeded = append(seeded, &entity.Task{
			Id:           uuid.New(),
			UserId:       userId,
			Title:        title,
			Category:     "Application",
			Priority:     "high",
			Status:       entity.TaskStatusNotStarted,
			AiGenerated:  true,
			UniversityId: &shortlistId,
		})
	}
	if len(seeded) > 0 {
		if err := uow.TaskRepository().CreateBatch(ctx, seeded); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	entry.IsLocked = true

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewUniversityLocked(userId, shortlistId, entry.UniversityName)); err != nil {
			fmt.Printf("[WARN] Failed to publish UNIVERSITY_LOCKED event: %v\n", err)
		}
		if len(seeded) > 0 {
			_ = s.eventPublisher.Publish(ctx, events.NewTasksGenerated(userId, len(seeded), entry.UniversityName))
		}
		if previousStage != entity.StageApplication {
			_ = s.eventPublisher.Publish(ctx, events.NewStageAdvanced(userId, previousStage, entity.StageApplication))
		}
	}

	return entry, nil
}

func (s *shortlistService) Unlock(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ShortlistRepository().UnlockAll(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().SetLockedUniversity(ctx, userId, nil); err != nil {
		return err
	}
	// Back to shortlist review; the generated application tasks go too.
	if err := uow.UserRepository().SetStage(ctx, userId, entity.StageShortlist); err != nil {
		return err
	}
	if _, err := uow.TaskRepository().DeleteAiGenerated(ctx, userId); err != nil {
		return err
	}
	return uow.Commit()
}

// ToShortlistDTO converts an entry for transport. Exposed for callers
// that hold the entity directly, such as the lock endpoint.
func ToShortlistDTO(entry *entity.ShortlistEntry) dto.ShortlistResponse {
	return toShortlistResponse(entry)
}

func toShortlistResponse(entry *entity.ShortlistEntry) dto.ShortlistResponse {
	return dto.ShortlistResponse{
		Id:               entry.Id,
		UniversityName:   entry.UniversityName,
		Country:          entry.Country,
		Program:          entry.Program,
		Category:         entry.Category,
		FitScore:         entry.FitScore,
		WhyFits:          entry.WhyFits,
		KeyRisks:         entry.KeyRisks,
		AcceptanceChance: entry.AcceptanceChance,
		IsLocked:         entry.IsLocked,
		CreatedAt:        entry.CreatedAt,
	}
}
