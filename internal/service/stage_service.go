package service

import (
	"context"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IStageService interface {
	// DeriveStage computes the funnel stage from the facts that imply
	// it: onboarding state, shortlist contents, and the lock.
	DeriveStage(ctx context.Context, user *entity.User) (int, error)
	// SyncStage recomputes and persists the stage when it drifted.
	SyncStage(ctx context.Context, userId uuid.UUID) (int, error)
	ProfileGaps(profile entity.Profile) []string
}

type stageService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewStageService(uowFactory unitofwork.RepositoryFactory) IStageService {
	return &stageService{uowFactory: uowFactory}
}

func (s *stageService) DeriveStage(ctx context.Context, user *entity.User) (int, error) {
	if !user.OnboardingCompleted {
		return entity.StageOnboarding, nil
	}
	if user.LockedUniversityId != nil {
		return entity.StageApplication, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.ShortlistRepository().Count(ctx, specification.UserOwnedBy{UserID: user.Id})
	if err != nil {
		return user.Stage, err
	}
	if count > 0 {
		return entity.StageShortlist, nil
	}
	return entity.StageDiscovery, nil
}

func (s *stageService) SyncStage(ctx context.Context, userId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return 0, err
	}

	stage, err := s.DeriveStage(ctx, user)
	if err != nil {
		return user.Stage, err
	}
	if stage != user.Stage {
		if err := uow.UserRepository().SetStage(ctx, userId, stage); err != nil {
			return user.Stage, err
		}
	}
	return stage, nil
}

// ProfileGaps lists the profile fields still missing, in the order the
// counsellor should ask about them.
func (s *stageService) ProfileGaps(profile entity.Profile) []string {
	var gaps []string
	if profile.Gpa == nil {
		gaps = append(gaps, "GPA")
	}
	if profile.BudgetRangeMin == nil && profile.BudgetRangeMax == nil {
		gaps = append(gaps, "Budget range")
	}
	if len(profile.PreferredCountries) == 0 {
		gaps = append(gaps, "Preferred countries")
	}
	if profile.IntendedDegree == "" {
		gaps = append(gaps, "Intended degree")
	}
	if profile.FieldOfStudy == "" {
		gaps = append(gaps, "Field of study")
	}
	if profile.TargetIntake == "" {
		gaps = append(gaps, "Target intake")
	}
	return gaps
}
