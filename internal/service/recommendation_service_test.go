package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/internal/repository/unitofwork"
	"ai-counsellor-be/pkg/llm"
)

func sampleProfile() entity.Profile {
	gpa := 3.4
	max := 35000.0
	return entity.Profile{
		Gpa:                &gpa,
		BudgetRangeMax:     &max,
		PreferredCountries: []string{"USA", "Canada"},
		IntendedDegree:     "Master's",
		FieldOfStudy:       "Data Science",
		TargetIntake:       "Fall 2027",
	}
}

func TestProfileHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, ProfileHash(sampleProfile()), ProfileHash(sampleProfile()))
	})

	t.Run("changes when a recommendation input changes", func(t *testing.T) {
		base := ProfileHash(sampleProfile())

		p := sampleProfile()
		gpa := 3.9
		p.Gpa = &gpa
		assert.NotEqual(t, base, ProfileHash(p))

		p = sampleProfile()
		p.PreferredCountries = []string{"Germany"}
		assert.NotEqual(t, base, ProfileHash(p))

		p = sampleProfile()
		p.FieldOfStudy = "Philosophy"
		assert.NotEqual(t, base, ProfileHash(p))
	})

	t.Run("ignores fields that do not feed recommendations", func(t *testing.T) {
		base := ProfileHash(sampleProfile())

		p := sampleProfile()
		p.TargetIntake = "Spring 2028"
		assert.Equal(t, base, ProfileHash(p))
	})
}

type quietLogger struct{}

func (quietLogger) Debug(string, string, map[string]interface{}) {}
func (quietLogger) Info(string, string, map[string]interface{})  {}
func (quietLogger) Warn(string, string, map[string]interface{})  {}
func (quietLogger) Error(string, string, map[string]interface{}) {}
func (quietLogger) Sync() error                                  { return nil }

type stubProvider struct {
	response *llm.Response
	err      error
	calls    int
}

func (p *stubProvider) Complete(context.Context, llm.Request) (*llm.Response, error) {
	p.calls++
	return p.response, p.err
}

func (p *stubProvider) Stream(_ context.Context, _ llm.Request, _ llm.StreamHandler) (*llm.Response, error) {
	p.calls++
	return p.response, p.err
}

type recUserRepo struct {
	contract.UserRepository
	user *entity.User
}

func (r *recUserRepo) FindOne(context.Context, ...specification.Specification) (*entity.User, error) {
	return r.user, nil
}

// recCacheRepo answers FindOne the way the real query would: only an
// entry whose stored hash matches the hash spec comes back.
type recCacheRepo struct {
	contract.RecommendationRepository
	cached  *entity.RecommendationCache
	created *entity.RecommendationCache
	cleared bool
}

func (r *recCacheRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.RecommendationCache, error) {
	if r.cached == nil {
		return nil, nil
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.ByProfileHash); ok && s.Hash != r.cached.ProfileHash {
			return nil, nil
		}
	}
	return r.cached, nil
}

func (r *recCacheRepo) DeleteAllByUserId(context.Context, uuid.UUID) error {
	r.cleared = true
	return nil
}

func (r *recCacheRepo) Create(_ context.Context, cache *entity.RecommendationCache) error {
	r.created = cache
	return nil
}

type recStubUow struct {
	unitofwork.UnitOfWork
	users contract.UserRepository
	recs  contract.RecommendationRepository
}

func (u *recStubUow) UserRepository() contract.UserRepository { return u.users }
func (u *recStubUow) RecommendationRepository() contract.RecommendationRepository {
	return u.recs
}

func recFixture(cached *entity.RecommendationCache, provider *stubProvider) (IRecommendationService, *recCacheRepo) {
	user := &entity.User{
		Id:                  uuid.New(),
		OnboardingCompleted: true,
		Profile:             sampleProfile(),
	}
	repo := &recCacheRepo{cached: cached}
	factory := &stubFactory{uow: &recStubUow{
		users: &recUserRepo{user: user},
		recs:  repo,
	}}
	return NewRecommendationService(factory, provider, "test-model", quietLogger{}), repo
}

const generatedSet = `{"dream": [{"name": "MIT", "country": "USA", "program": "MS CS"}], "target": [], "safe": []}`

func TestRecommendationCacheFreshness(t *testing.T) {
	hash := ProfileHash(sampleProfile())

	t.Run("fresh matching entry hits without a model call", func(t *testing.T) {
		provider := &stubProvider{}
		svc, _ := recFixture(&entity.RecommendationCache{
			ProfileHash: hash,
			Payload: entity.RecommendationSet{
				Dream: []entity.RecommendedUniversity{{Name: "MIT"}},
			},
			CreatedAt: time.Now().Add(-time.Hour),
		}, provider)

		res, err := svc.Get(context.Background(), uuid.New(), false)

		assert.NoError(t, err)
		assert.True(t, res.FromCache)
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("entry past the freshness window regenerates", func(t *testing.T) {
		provider := &stubProvider{response: &llm.Response{Text: generatedSet}}
		svc, repo := recFixture(&entity.RecommendationCache{
			ProfileHash: hash,
			CreatedAt:   time.Now().Add(-(CacheFreshness + time.Hour)),
		}, provider)

		res, err := svc.Get(context.Background(), uuid.New(), false)

		assert.NoError(t, err)
		assert.False(t, res.FromCache)
		assert.Equal(t, 1, provider.calls)
		assert.True(t, repo.cleared)
		assert.Equal(t, hash, repo.created.ProfileHash)
	})

	t.Run("stored hash from an older profile misses", func(t *testing.T) {
		provider := &stubProvider{response: &llm.Response{Text: generatedSet}}
		svc, repo := recFixture(&entity.RecommendationCache{
			ProfileHash: "stale-profile-hash",
			CreatedAt:   time.Now().Add(-time.Hour),
		}, provider)

		res, err := svc.Get(context.Background(), uuid.New(), false)

		assert.NoError(t, err)
		assert.False(t, res.FromCache)
		assert.Equal(t, hash, repo.created.ProfileHash)
	})

	t.Run("force bypasses a fresh entry", func(t *testing.T) {
		provider := &stubProvider{response: &llm.Response{Text: generatedSet}}
		svc, repo := recFixture(&entity.RecommendationCache{
			ProfileHash: hash,
			CreatedAt:   time.Now().Add(-time.Minute),
		}, provider)

		res, err := svc.Get(context.Background(), uuid.New(), true)

		assert.NoError(t, err)
		assert.False(t, res.FromCache)
		assert.Equal(t, 1, provider.calls)
		assert.True(t, repo.cleared)
	})
}
