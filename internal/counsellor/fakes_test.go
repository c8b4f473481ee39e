package counsellor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/pkg/llm"
)

// In-memory stands-ins for the stores and the completion service. They
// interpret the handful of query specifications the package actually
// uses.

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type fakeUserRepo struct {
	users    map[uuid.UUID]*entity.User
	profiles map[uuid.UUID]map[string]interface{}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[uuid.UUID]*entity.User{},
		profiles: map[uuid.UUID]map[string]interface{}{},
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteUnscoped(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if user, found := r.users[byId.ID]; found {
				copied := *user
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(context.Context, *entity.PasswordResetToken) error {
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(context.Context, ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) MarkTokenUsed(context.Context, uuid.UUID) error { return nil }

func (r *fakeUserRepo) CreateEmailVerificationToken(context.Context, *entity.EmailVerificationToken) error {
	return nil
}

func (r *fakeUserRepo) FindEmailVerificationToken(context.Context, ...specification.Specification) (*entity.EmailVerificationToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) DeleteEmailVerificationToken(context.Context, uuid.UUID) error { return nil }

func (r *fakeUserRepo) ActivateUser(context.Context, uuid.UUID) error { return nil }

func (r *fakeUserRepo) UpdatePassword(context.Context, uuid.UUID, string) error { return nil }

func (r *fakeUserRepo) UpdateProfile(_ context.Context, userId uuid.UUID, profile entity.Profile) error {
	if user, ok := r.users[userId]; ok {
		user.Profile = profile
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfileField(_ context.Context, userId uuid.UUID, field string, value interface{}) (map[string]interface{}, error) {
	merged, ok := r.profiles[userId]
	if !ok {
		merged = map[string]interface{}{}
	}
	merged[field] = value
	r.profiles[userId] = merged
	if user, found := r.users[userId]; found {
		user.Profile = profileFromMap(merged)
	}
	out := make(map[string]interface{}, len(merged))
	for k, v := range merged {
		out[k] = v
	}
	return out, nil
}

func (r *fakeUserRepo) SetOnboardingCompleted(context.Context, uuid.UUID) error { return nil }

func (r *fakeUserRepo) SetStage(_ context.Context, userId uuid.UUID, stage int) error {
	if user, ok := r.users[userId]; ok {
		user.Stage = stage
	}
	return nil
}

func (r *fakeUserRepo) SetLockedUniversity(_ context.Context, userId uuid.UUID, shortlistId *uuid.UUID) error {
	if user, ok := r.users[userId]; ok {
		user.LockedUniversityId = shortlistId
	}
	return nil
}

type fakeShortlistRepo struct {
	entries []*entity.ShortlistEntry
}

func (r *fakeShortlistRepo) Create(_ context.Context, entry *entity.ShortlistEntry) error {
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeShortlistRepo) Update(_ context.Context, entry *entity.ShortlistEntry) error {
	for i, existing := range r.entries {
		if existing.Id == entry.Id {
			r.entries[i] = entry
		}
	}
	return nil
}

func (r *fakeShortlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	out := r.entries[:0]
	for _, entry := range r.entries {
		if entry.Id != id {
			out = append(out, entry)
		}
	}
	r.entries = out
	return nil
}

func (r *fakeShortlistRepo) DeleteAllByUserId(context.Context, uuid.UUID) error { return nil }

func (r *fakeShortlistRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ShortlistEntry, error) {
	matches, _ := r.FindAll(context.Background(), specs...)
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeShortlistRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ShortlistEntry, error) {
	var out []*entity.ShortlistEntry
	for _, entry := range r.entries {
		if shortlistMatches(entry, specs) {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func shortlistMatches(entry *entity.ShortlistEntry, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.UserOwnedBy:
			if entry.UserId != s.UserID {
				return false
			}
		case specification.ByUniversityName:
			if !strings.EqualFold(entry.UniversityName, s.Name) {
				return false
			}
		case specification.LockedOnly:
			if !entry.IsLocked {
				return false
			}
		case specification.ByID:
			if entry.Id != s.ID {
				return false
			}
		}
	}
	return true
}

func (r *fakeShortlistRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, _ := r.FindAll(ctx, specs...)
	return int64(len(matches)), nil
}

func (r *fakeShortlistRepo) UnlockAll(_ context.Context, userId uuid.UUID) error {
	for _, entry := range r.entries {
		if entry.UserId == userId {
			entry.IsLocked = false
		}
	}
	return nil
}

func (r *fakeShortlistRepo) SetLocked(_ context.Context, id uuid.UUID, locked bool) error {
	for _, entry := range r.entries {
		if entry.Id == id {
			entry.IsLocked = locked
		}
	}
	return nil
}

type fakeTaskRepo struct {
	tasks []*entity.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entity.Task) error {
	task.CreatedAt = time.Now().Add(time.Duration(len(r.tasks)) * time.Millisecond)
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *fakeTaskRepo) CreateBatch(ctx context.Context, tasks []*entity.Task) error {
	for _, task := range tasks {
		_ = r.Create(ctx, task)
	}
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *entity.Task) error {
	for i, existing := range r.tasks {
		if existing.Id == task.Id {
			r.tasks[i] = task
		}
	}
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	out := r.tasks[:0]
	for _, task := range r.tasks {
		if task.Id != id {
			out = append(out, task)
		}
	}
	r.tasks = out
	return nil
}

func (r *fakeTaskRepo) DeleteAllByUserId(context.Context, uuid.UUID) error { return nil }

func (r *fakeTaskRepo) DeleteAiGenerated(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (r *fakeTaskRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	matches, _ := r.FindAll(ctx, specs...)
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeTaskRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, task := range r.tasks {
		if taskMatches(task, specs) {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func taskMatches(task *entity.Task, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.UserOwnedBy:
			if task.UserId != s.UserID {
				return false
			}
		case specification.ByID:
			if task.Id != s.ID {
				return false
			}
		case specification.StatusIs:
			if task.Status != s.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeTaskRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, _ := r.FindAll(ctx, specs...)
	return int64(len(matches)), nil
}

type fakeConversationRepo struct {
	conversations map[uuid.UUID]*entity.Conversation
	updateErr     error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: map[uuid.UUID]*entity.Conversation{}}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *entity.Conversation) error {
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	r.conversations[conv.Id] = conv
	return nil
}

func (r *fakeConversationRepo) Update(_ context.Context, conv *entity.Conversation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	conv.UpdatedAt = time.Now()
	r.conversations[conv.Id] = conv
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.conversations, id)
	return nil
}

func (r *fakeConversationRepo) DeleteAllByUserId(context.Context, uuid.UUID) error { return nil }

func (r *fakeConversationRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, conv := range r.conversations {
		if conversationMatches(conv, specs) {
			return conv, nil
		}
	}
	return nil, nil
}

func conversationMatches(conv *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if conv.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if conv.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeConversationRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Conversation, error) {
	return nil, nil
}

func (r *fakeConversationRepo) FindLatestByUserId(_ context.Context, userId uuid.UUID) (*entity.Conversation, error) {
	var latest *entity.Conversation
	for _, conv := range r.conversations {
		if conv.UserId != userId {
			continue
		}
		if latest == nil || conv.UpdatedAt.After(latest.UpdatedAt) {
			latest = conv
		}
	}
	return latest, nil
}

// fakeLockFlow mirrors the real lock semantics closely enough for the
// executor: unlock everything, lock the target, bump the stage.
type fakeLockFlow struct {
	shortlists *fakeShortlistRepo
	users      *fakeUserRepo
}

func (f *fakeLockFlow) Lock(ctx context.Context, userId, shortlistId uuid.UUID) (*entity.ShortlistEntry, error) {
	_ = f.shortlists.UnlockAll(ctx, userId)
	_ = f.shortlists.SetLocked(ctx, shortlistId, true)
	_ = f.users.SetStage(ctx, userId, entity.StageApplication)
	_ = f.users.SetLockedUniversity(ctx, userId, &shortlistId)
	for _, entry := range f.shortlists.entries {
		if entry.Id == shortlistId {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("shortlist entry %s not found", shortlistId)
}

type fakeRecommender struct {
	calls int
	set   entity.RecommendationSet
	err   error
}

func (f *fakeRecommender) Refresh(context.Context, uuid.UUID) (*entity.RecommendationSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &f.set, nil
}

// scriptedProvider returns queued responses or errors in order.
type scriptedProvider struct {
	responses []*llm.Response
	errs      []error
	requests  []llm.Request
}

func (p *scriptedProvider) next() (*llm.Response, error) {
	var resp *llm.Response
	var err error
	if len(p.responses) > 0 {
		resp = p.responses[0]
		p.responses = p.responses[1:]
	}
	if len(p.errs) > 0 {
		err = p.errs[0]
		p.errs = p.errs[1:]
	}
	if resp == nil && err == nil {
		err = fmt.Errorf("no scripted response left")
	}
	return resp, err
}

func (p *scriptedProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	p.requests = append(p.requests, req)
	return p.next()
}

func (p *scriptedProvider) Stream(_ context.Context, req llm.Request, onDelta llm.StreamHandler) (*llm.Response, error) {
	p.requests = append(p.requests, req)
	resp, err := p.next()
	if err == nil && onDelta != nil && resp.Text != "" {
		onDelta(resp.Text)
	}
	return resp, err
}
