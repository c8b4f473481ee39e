package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"

	"ai-counsellor-be/pkg/events"
	pktNats "ai-counsellor-be/pkg/nats"

	"github.com/google/uuid"
)

type IUserService interface {
	GetMe(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	CompleteOnboarding(ctx context.Context, userId uuid.UUID, req *dto.OnboardingRequest) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetDashboard(ctx context.Context, userId uuid.UUID) (*dto.DashboardResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	stageService   IStageService
	eventPublisher *pktNats.Publisher
	prewarmQueue   IPublisherService
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	stageService IStageService,
	eventPublisher *pktNats.Publisher,
	prewarmQueue IPublisherService,
) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		stageService:   stageService,
		eventPublisher: eventPublisher,
		prewarmQueue:   prewarmQueue,
	}
}

func (s *userService) GetMe(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) CompleteOnboarding(ctx context.Context, userId uuid.UUID, req *dto.OnboardingRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	profile := entity.Profile{
		Gpa:                req.Gpa,
		GpaScale:           req.GpaScale,
		BudgetRangeMin:     req.BudgetRangeMin,
		BudgetRangeMax:     req.BudgetRangeMax,
		PreferredCountries: req.PreferredCountries,
		IntendedDegree:     req.IntendedDegree,
		FieldOfStudy:       req.FieldOfStudy,
		TargetIntake:       req.TargetIntake,
		WorkExperience:     req.WorkExperience,
		ExtraNotes:         req.ExtraNotes,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdateProfile(ctx, userId, profile); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().SetOnboardingCompleted(ctx, userId); err != nil {
		return nil, err
	}
	// Onboarding done: the user moves into discovery.
	if err := uow.UserRepository().SetStage(ctx, userId, entity.StageDiscovery); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.NewStageAdvanced(userId, entity.StageOnboarding, entity.StageDiscovery)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish STAGE_ADVANCED event: %v\n", err)
		}
	}

	// First full profile: warm the recommendation cache in the background.
	s.queuePrewarm(ctx, userId)

	return s.GetMe(ctx, userId)
}

func (s *userService) queuePrewarm(ctx context.Context, userId uuid.UUID) {
	if s.prewarmQueue == nil {
		return
	}
	payload, err := json.Marshal(dto.ProfileInvalidatedMessage{UserId: userId})
	if err != nil {
		return
	}
	if err := s.prewarmQueue.Publish(ctx, payload); err != nil {
		fmt.Printf("[WARN] Failed to queue recommendation pre-warm: %v\n", err)
	}
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	profile := user.Profile
	var changed []string
	critical := false

	if req.Gpa != nil {
		profile.Gpa = req.Gpa
		changed = append(changed, "gpa")
		critical = true
	}
	if req.GpaScale != nil {
		profile.GpaScale = req.GpaScale
		changed = append(changed, "gpa_scale")
		critical = true
	}
	if req.BudgetRangeMin != nil {
		profile.BudgetRangeMin = req.BudgetRangeMin
		changed = append(changed, "budget_range_min")
		critical = true
	}
	if req.BudgetRangeMax != nil {
		profile.BudgetRangeMax = req.BudgetRangeMax
		changed = append(changed, "budget_range_max")
		critical = true
	}
	if req.PreferredCountries != nil {
		profile.PreferredCountries = req.PreferredCountries
		changed = append(changed, "preferred_countries")
		critical = true
	}
	if req.IntendedDegree != nil {
		profile.IntendedDegree = *req.IntendedDegree
		changed = append(changed, "intended_degree")
		critical = true
	}
	if req.FieldOfStudy != nil {
		profile.FieldOfStudy = *req.FieldOfStudy
		changed = append(changed, "field_of_study")
		critical = true
	}
	if req.TargetIntake != nil {
		profile.TargetIntake = *req.TargetIntake
		changed = append(changed, "target_intake")
	}
	if req.WorkExperience != nil {
		profile.WorkExperience = *req.WorkExperience
		changed = append(changed, "work_experience")
	}
	if req.ExtraNotes != nil {
		profile.ExtraNotes = *req.ExtraNotes
		changed = append(changed, "extra_notes")
	}

	if err := uow.UserRepository().UpdateProfile(ctx, userId, profile); err != nil {
		return nil, err
	}

	if len(changed) > 0 && s.eventPublisher != nil {
		event := events.NewProfileUpdated(userId, strings.Join(changed, ", "))
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish PROFILE_UPDATED event: %v\n", err)
		}
	}

	// Changing a field that feeds recommendations invalidates the cache.
	if critical {
		if err := uow.RecommendationRepository().DeleteAllByUserId(ctx, userId); err != nil {
			fmt.Printf("[WARN] Failed to invalidate recommendation cache: %v\n", err)
		}
		s.queuePrewarm(ctx, userId)
	}

	return s.GetMe(ctx, userId)
}

func (s *userService) GetDashboard(ctx context.Context, userId uuid.UUID) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	shortlistCount, err := uow.ShortlistRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	tasks, err := uow.TaskRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	stats := computeTaskStats(tasks)

	var locked *dto.ShortlistResponse
	if user.LockedUniversityId != nil {
		entry, err := uow.ShortlistRepository().FindOne(ctx, specification.ByID{ID: *user.LockedUniversityId})
		if err == nil && entry != nil {
			resp := toShortlistResponse(entry)
			locked = &resp
		}
	}

	gaps := s.stageService.ProfileGaps(user.Profile)
	completion := profileCompletion(len(gaps))

	return &dto.DashboardResponse{
		Stage:             user.Stage,
		StageName:         constant.StageNames[user.Stage],
		ProfileStrength:   profileStrength(completion),
		ProfileCompletion: completion,
		ShortlistCount:    shortlistCount,
		LockedUniversity:  locked,
		TaskStats:         stats,
		NextSteps:         nextSteps(user, shortlistCount, gaps),
	}, nil
}

// DeleteAccount removes every owned row before the user itself, so no
// orphans survive the cascade.
func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.TaskRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.ShortlistRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.ConversationRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.RecommendationRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().DeleteUnscoped(ctx, userId); err != nil {
		return err
	}
	return uow.Commit()
}

func computeTaskStats(tasks []*entity.Task) dto.TaskStatsResponse {
	stats := dto.TaskStatsResponse{Total: int64(len(tasks))}
	for _, task := range tasks {
		switch task.Status {
		case entity.TaskStatusCompleted:
			stats.Completed++
		case entity.TaskStatusInProgress:
			stats.InProgress++
		default:
			stats.NotStarted++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

func profileCompletion(gapCount int) int {
	const totalFields = 6
	filled := totalFields - gapCount
	if filled < 0 {
		filled = 0
	}
	return filled * 100 / totalFields
}

func profileStrength(completion int) string {
	switch {
	case completion >= 80:
		return "strong"
	case completion >= 50:
		return "moderate"
	default:
		return "weak"
	}
}

func nextSteps(user *entity.User, shortlistCount int64, gaps []string) []string {
	switch user.Stage {
	case entity.StageOnboarding:
		return []string{"Complete your profile to unlock AI features"}
	case entity.StageDiscovery:
		steps := []string{"Ask the AI counsellor for university recommendations", "Shortlist universities you like"}
		if len(gaps) > 0 {
			steps = append([]string{"Fill in your " + gaps[0]}, steps...)
		}
		return steps
	case entity.StageShortlist:
		if shortlistCount < 3 {
			return []string{"Add a few more universities to compare", "Lock your final choice when ready"}
		}
		return []string{"Review your shortlist and lock your final choice"}
	default:
		return []string{"Work through your application tasks", "Check the document checklist for your university"}
	}
}
