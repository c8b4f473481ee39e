package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"
)

// Stubs cover only what DeriveStage touches; anything else panics on
// the embedded nil interface.

type stubShortlistRepo struct {
	contract.ShortlistRepository
	count int64
}

func (r *stubShortlistRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return r.count, nil
}

type stubUow struct {
	unitofwork.UnitOfWork
	shortlists contract.ShortlistRepository
}

func (u *stubUow) ShortlistRepository() contract.ShortlistRepository { return u.shortlists }

type stubFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *stubFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func stageServiceWithShortlists(count int64) IStageService {
	return NewStageService(&stubFactory{
		uow: &stubUow{shortlists: &stubShortlistRepo{count: count}},
	})
}

func TestDeriveStage(t *testing.T) {
	lockedId := uuid.New()

	tests := []struct {
		name           string
		user           entity.User
		shortlistCount int64
		want           int
	}{
		{
			name: "onboarding not completed",
			user: entity.User{Id: uuid.New()},
			want: entity.StageOnboarding,
		},
		{
			name:           "completed with empty shortlist",
			user:           entity.User{Id: uuid.New(), OnboardingCompleted: true},
			shortlistCount: 0,
			want:           entity.StageDiscovery,
		},
		{
			name:           "completed with shortlist entries",
			user:           entity.User{Id: uuid.New(), OnboardingCompleted: true},
			shortlistCount: 3,
			want:           entity.StageShortlist,
		},
		{
			name: "locked university wins over shortlist count",
			user: entity.User{
				Id:                  uuid.New(),
				OnboardingCompleted: true,
				LockedUniversityId:  &lockedId,
			},
			shortlistCount: 3,
			want:           entity.StageApplication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := stageServiceWithShortlists(tt.shortlistCount)
			got, err := svc.DeriveStage(context.Background(), &tt.user)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileGaps(t *testing.T) {
	svc := NewStageService(nil)

	t.Run("empty profile lists every gap in asking order", func(t *testing.T) {
		gaps := svc.ProfileGaps(entity.Profile{})
		assert.Equal(t, []string{
			"GPA",
			"Budget range",
			"Preferred countries",
			"Intended degree",
			"Field of study",
			"Target intake",
		}, gaps)
	})

	t.Run("one budget bound is enough", func(t *testing.T) {
		min := 20000.0
		gaps := svc.ProfileGaps(entity.Profile{BudgetRangeMin: &min})
		assert.NotContains(t, gaps, "Budget range")
	})

	t.Run("complete profile has no gaps", func(t *testing.T) {
		gpa := 3.6
		max := 40000.0
		gaps := svc.ProfileGaps(entity.Profile{
			Gpa:                &gpa,
			BudgetRangeMax:     &max,
			PreferredCountries: []string{"Germany"},
			IntendedDegree:     "Master's",
			FieldOfStudy:       "Computer Science",
			TargetIntake:       "Fall 2027",
		})
		assert.Empty(t, gaps)
	})
}
