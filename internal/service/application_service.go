package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

type IApplicationService interface {
	// GetGuidance bundles checklist and timeline for the locked
	// university. Only meaningful once the user reached the
	// application stage.
	GetGuidance(ctx context.Context, userId uuid.UUID) (*dto.ApplicationGuidanceResponse, error)
	GetChecklist(ctx context.Context, userId uuid.UUID) (*dto.DocumentChecklistResponse, error)
	GetTimeline(ctx context.Context, userId uuid.UUID) (*dto.TimelineResponse, error)
}

type applicationService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.Provider
	model      string
	log        logger.ILogger
}

func NewApplicationService(uowFactory unitofwork.RepositoryFactory, provider llm.Provider, model string, log logger.ILogger) IApplicationService {
	return &applicationService{
		uowFactory: uowFactory,
		provider:   provider,
		model:      model,
		log:        log,
	}
}

func (s *applicationService) GetGuidance(ctx context.Context, userId uuid.UUID) (*dto.ApplicationGuidanceResponse, error) {
	user, entry, err := s.lockedUniversity(ctx, userId)
	if err != nil {
		return nil, err
	}

	checklist := buildChecklist(entry.Country, user.Profile.IntendedDegree)
	timeline := s.buildTimeline(ctx, user, entry)

	return &dto.ApplicationGuidanceResponse{
		University: toShortlistResponse(entry),
		Checklist:  *checklist,
		Timeline:   *timeline,
	}, nil
}

func (s *applicationService) GetChecklist(ctx context.Context, userId uuid.UUID) (*dto.DocumentChecklistResponse, error) {
	user, entry, err := s.lockedUniversity(ctx, userId)
	if err != nil {
		return nil, err
	}
	return buildChecklist(entry.Country, user.Profile.IntendedDegree), nil
}

func (s *applicationService) GetTimeline(ctx context.Context, userId uuid.UUID) (*dto.TimelineResponse, error) {
	user, entry, err := s.lockedUniversity(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.buildTimeline(ctx, user, entry), nil
}

func (s *applicationService) lockedUniversity(ctx context.Context, userId uuid.UUID) (*entity.User, *entity.ShortlistEntry, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, errors.New("user not found")
	}
	if user.Stage != entity.StageApplication || user.LockedUniversityId == nil {
		return nil, nil, errors.New("lock a university first to get application guidance")
	}

	entry, err := uow.ShortlistRepository().FindOne(ctx, specification.ByID{ID: *user.LockedUniversityId})
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, nil, errors.New("locked university not found")
	}
	return user, entry, nil
}

func buildChecklist(country, degree string) *dto.DocumentChecklistResponse {
	documents := make([]dto.ChecklistItemDTO, 0, len(constant.CommonDocuments)+4)
	documents = append(documents, constant.CommonDocuments...)

	if extra, ok := constant.CountryDocuments[canonicalCountry(country)]; ok {
		documents = append(documents, extra...)
	}

	lowerDegree := strings.ToLower(degree)
	if strings.Contains(lowerDegree, "master") || strings.Contains(lowerDegree, "mba") {
		documents = append(documents, constant.GraduateTestDocument)
	}

	return &dto.DocumentChecklistResponse{
		Country:   country,
		Degree:    degree,
		Documents: documents,
	}
}

func canonicalCountry(country string) string {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "usa", "us", "united states", "united states of america":
		return "USA"
	case "uk", "united kingdom", "england":
		return "UK"
	case "canada":
		return "Canada"
	case "germany":
		return "Germany"
	default:
		return strings.TrimSpace(country)
	}
}

// buildTimeline asks the model for a tailored timeline and falls back
// to a generic one when generation fails.
func (s *applicationService) buildTimeline(ctx context.Context, user *entity.User, entry *entity.ShortlistEntry) *dto.TimelineResponse {
	intake := user.Profile.TargetIntake
	if intake == "" {
		intake = "the next available intake"
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: constant.TimelineSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("University: %s (%s). Intake: %s. Degree: %s.",
				entry.UniversityName, entry.Country, intake, user.Profile.IntendedDegree)},
		},
		Temperature: 0.4,
		Model:       s.model,
		JSONMode:    true,
	})
	if err == nil {
		if phases := parseTimelinePhases(resp.Text); len(phases) > 0 {
			return &dto.TimelineResponse{
				University: entry.UniversityName,
				Intake:     user.Profile.TargetIntake,
				Phases:     phases,
				Source:     "ai",
			}
		}
	} else {
		s.log.Warn("application", "timeline generation failed, using default", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &dto.TimelineResponse{
		University: entry.UniversityName,
		Intake:     user.Profile.TargetIntake,
		Phases:     defaultTimeline(),
		Source:     "default",
	}
}

func parseTimelinePhases(raw string) []dto.TimelinePhaseDTO {
	var phases []dto.TimelinePhaseDTO
	if err := json.Unmarshal([]byte(raw), &phases); err == nil {
		return phases
	}
	var wrapped struct {
		Phases   []dto.TimelinePhaseDTO `json:"phases"`
		Timeline []dto.TimelinePhaseDTO `json:"timeline"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil
	}
	if len(wrapped.Phases) > 0 {
		return wrapped.Phases
	}
	return wrapped.Timeline
}

func defaultTimeline() []dto.TimelinePhaseDTO {
	now := time.Now()
	deadline := func(days int) string {
		return now.AddDate(0, 0, days).Format("Jan 2, 2006")
	}
	return []dto.TimelinePhaseDTO{
		{
			Phase:       "Test Preparation",
			Deadline:    deadline(60),
			Tasks:       []string{"Register for IELTS/TOEFL", "Take practice tests", "Book the test date"},
			Status:      "current",
			Description: "Get your language and standardized tests out of the way early",
		},
		{
			Phase:       "Document Preparation",
			Deadline:    deadline(90),
			Tasks:       []string{"Draft your SOP", "Request recommendation letters", "Order official transcripts"},
			Status:      "upcoming",
			Description: "Assemble everything the application portal will ask for",
		},
		{
			Phase:       "Application Submission",
			Deadline:    deadline(120),
			Tasks:       []string{"Complete the online application", "Pay application fees", "Submit before the deadline"},
			Status:      "upcoming",
			Description: "Submit well before the deadline to leave room for surprises",
		},
	}
}
