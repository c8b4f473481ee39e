package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/dto"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/pkg/logger"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"
	"ai-counsellor-be/pkg/llm"

	"github.com/google/uuid"
)

// CacheFreshness bounds how long a recommendation set stays valid even
// when the profile has not changed.
const CacheFreshness = 24 * time.Hour

// staleAfter is when background cleanup prunes old cache rows.
const staleAfter = 7 * 24 * time.Hour

type IRecommendationService interface {
	Get(ctx context.Context, userId uuid.UUID, force bool) (*dto.RecommendationResponse, error)
	// Refresh regenerates from the freshest stored profile, bypassing
	// the cache. Used by the chat action path.
	Refresh(ctx context.Context, userId uuid.UUID) (*entity.RecommendationSet, error)
	CleanupStale(ctx context.Context) (int64, error)
}

type recommendationService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.Provider
	model      string
	log        logger.ILogger
}

func NewRecommendationService(uowFactory unitofwork.RepositoryFactory, provider llm.Provider, model string, log logger.ILogger) IRecommendationService {
	return &recommendationService{
		uowFactory: uowFactory,
		provider:   provider,
		model:      model,
		log:        log,
	}
}

// ProfileHash fingerprints the profile fields that influence
// recommendations. Changing any of them invalidates cached sets.
func ProfileHash(p entity.Profile) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"gpa":                 p.Gpa,
		"gpa_scale":           p.GpaScale,
		"budget_range_min":    p.BudgetRangeMin,
		"budget_range_max":    p.BudgetRangeMax,
		"preferred_countries": p.PreferredCountries,
		"intended_degree":     p.IntendedDegree,
		"field_of_study":      p.FieldOfStudy,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *recommendationService) Get(ctx context.Context, userId uuid.UUID, force bool) (*dto.RecommendationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if !user.OnboardingCompleted {
		return nil, errors.New("complete onboarding before requesting recommendations")
	}

	hash := ProfileHash(user.Profile)

	if !force {
		cached, err := uow.RecommendationRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByProfileHash{Hash: hash},
		)
		if err == nil && cached != nil && time.Since(cached.CreatedAt) < CacheFreshness {
			return toRecommendationResponse(&cached.Payload, true, cached.CreatedAt), nil
		}
	}

	set, err := s.generate(ctx, user.Profile)
	if err != nil {
		return nil, err
	}

	// Replace the cache: one live entry per user.
	if err := uow.RecommendationRepository().DeleteAllByUserId(ctx, userId); err != nil {
		s.log.Warn("recommendation", "failed to clear old cache", map[string]interface{}{"error": err.Error()})
	}
	cache := &entity.RecommendationCache{
		Id:          uuid.New(),
		UserId:      userId,
		ProfileHash: hash,
		Payload:     *set,
		CreatedAt:   time.Now(),
	}
	if err := uow.RecommendationRepository().Create(ctx, cache); err != nil {
		s.log.Warn("recommendation", "failed to store cache", map[string]interface{}{"error": err.Error()})
	}

	return toRecommendationResponse(set, false, cache.CreatedAt), nil
}

func (s *recommendationService) Refresh(ctx context.Context, userId uuid.UUID) (*entity.RecommendationSet, error) {
	resp, err := s.Get(ctx, userId, true)
	if err != nil {
		return nil, err
	}
	return recommendationSetFromDTO(resp), nil
}

func (s *recommendationService) CleanupStale(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RecommendationRepository().DeleteOlderThan(ctx, time.Now().Add(-staleAfter))
}

func (s *recommendationService) generate(ctx context.Context, profile entity.Profile) (*entity.RecommendationSet, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: constant.RecommendationSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Student profile:\n%s", profileJSON)},
		},
		Temperature: 0.5,
		Model:       s.model,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation generation failed: %w", err)
	}

	var set entity.RecommendationSet
	if err := json.Unmarshal([]byte(resp.Text), &set); err != nil {
		return nil, fmt.Errorf("recommendation payload unparseable: %w", err)
	}
	if len(set.Dream)+len(set.Target)+len(set.Safe) == 0 {
		return nil, errors.New("recommendation payload was empty")
	}
	return &set, nil
}

func toRecommendationResponse(set *entity.RecommendationSet, fromCache bool, generatedAt time.Time) *dto.RecommendationResponse {
	return &dto.RecommendationResponse{
		Dream:       toRecommendedDTOs(set.Dream),
		Target:      toRecommendedDTOs(set.Target),
		Safe:        toRecommendedDTOs(set.Safe),
		FromCache:   fromCache,
		GeneratedAt: generatedAt,
	}
}

func toRecommendedDTOs(list []entity.RecommendedUniversity) []dto.RecommendedUniversityDTO {
	out := make([]dto.RecommendedUniversityDTO, 0, len(list))
	for _, u := range list {
		out = append(out, dto.RecommendedUniversityDTO{
			Name:             u.Name,
			Country:          u.Country,
			Program:          u.Program,
			EstimatedCost:    u.EstimatedCost,
			WhyFits:          u.WhyFits,
			KeyRisks:         u.KeyRisks,
			AcceptanceChance: u.AcceptanceChance,
		})
	}
	return out
}

func recommendationSetFromDTO(resp *dto.RecommendationResponse) *entity.RecommendationSet {
	fromDTOs := func(list []dto.RecommendedUniversityDTO) []entity.RecommendedUniversity {
		out := make([]entity.RecommendedUniversity, 0, len(list))
		for _, u := range list {
			out = append(out, entity.RecommendedUniversity{
				Name:             u.Name,
				Country:          u.Country,
				Program:          u.Program,
				EstimatedCost:    u.EstimatedCost,
				WhyFits:          u.WhyFits,
				KeyRisks:         u.KeyRisks,
				AcceptanceChance: u.AcceptanceChance,
			})
		}
		return out
	}
	return &entity.RecommendationSet{
		Dream:  fromDTOs(resp.Dream),
		Target: fromDTOs(resp.Target),
		Safe:   fromDTOs(resp.Safe),
	}
}
