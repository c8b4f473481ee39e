package counsellor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/entity"
)

func newTestExecutor() (*Executor, *fakeUserRepo, *fakeShortlistRepo, *fakeTaskRepo, *fakeRecommender) {
	users := newFakeUserRepo()
	shortlists := &fakeShortlistRepo{}
	tasks := &fakeTaskRepo{}
	recommender := &fakeRecommender{}
	lockFlow := &fakeLockFlow{shortlists: shortlists, users: users}
	executor := NewExecutor(users, shortlists, tasks, lockFlow, recommender, noopLogger{})
	return executor, users, shortlists, tasks, recommender
}

func seedUser(users *fakeUserRepo) *entity.User {
	user := &entity.User{
		Id:       uuid.New(),
		Email:    "student@example.com",
		FullName: "Test Student",
		Stage:    entity.StageDiscovery,
	}
	users.users[user.Id] = user
	return user
}

func newTurn(user *entity.User) *TurnContext {
	return &TurnContext{User: user, Profile: user.Profile}
}

func TestShortlistUniversityIdempotent(t *testing.T) {
	executor, users, shortlists, _, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()

	call := Call{Name: ActionShortlistUniversity, Args: map[string]interface{}{
		"university_name": "MIT",
		"country":         "USA",
		"category":        "Dream",
	}}

	first := executor.Execute(ctx, user.Id, []Call{call}, newTurn(user))
	assert.True(t, first[0].Success)
	assert.Len(t, shortlists.entries, 1)

	// Same university again, different casing: no second row.
	call.Args["university_name"] = "mit"
	second := executor.Execute(ctx, user.Id, []Call{call}, newTurn(user))
	assert.True(t, second[0].Success)
	assert.Contains(t, second[0].Message, "already in your shortlist")
	assert.Equal(t, true, second[0].Data["duplicate"])
	assert.Len(t, shortlists.entries, 1)
}

func TestAddTaskAlwaysCreates(t *testing.T) {
	executor, users, _, tasks, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()

	call := Call{Name: ActionAddTask, Args: map[string]interface{}{"title": "Draft SOP"}}
	executor.Execute(ctx, user.Id, []Call{call}, newTurn(user))
	executor.Execute(ctx, user.Id, []Call{call}, newTurn(user))

	// Unlike set_task_status, add_task never matches existing rows.
	assert.Len(t, tasks.tasks, 2)
}

func TestSetTaskStatusFuzzyMatch(t *testing.T) {
	executor, users, _, tasks, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()

	_ = tasks.Create(ctx, &entity.Task{Id: uuid.New(), UserId: user.Id, Title: "Draft Statement of Purpose (SOP)", Status: entity.TaskStatusNotStarted})
	_ = tasks.Create(ctx, &entity.Task{Id: uuid.New(), UserId: user.Id, Title: "Book IELTS test", Status: entity.TaskStatusNotStarted})

	complete := Call{Name: ActionSetTaskStatus, Args: map[string]interface{}{"keyword": "SOP", "status": "Completed"}}
	outcomes := executor.Execute(ctx, user.Id, []Call{complete}, newTurn(user))

	assert.True(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Message, "Draft Statement of Purpose (SOP)")
	assert.Equal(t, entity.TaskStatusCompleted, tasks.tasks[0].Status)
	assert.NotNil(t, tasks.tasks[0].CompletedAt)

	// Reverting to a non-terminal status clears the completion stamp.
	revert := Call{Name: ActionSetTaskStatus, Args: map[string]interface{}{"keyword": "sop", "status": "pending"}}
	outcomes = executor.Execute(ctx, user.Id, []Call{revert}, newTurn(user))

	assert.True(t, outcomes[0].Success)
	assert.Equal(t, "pending", tasks.tasks[0].Status)
	assert.Nil(t, tasks.tasks[0].CompletedAt)
}

func TestSetTaskStatusDeterministicOnMultipleMatches(t *testing.T) {
	executor, users, _, tasks, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()

	_ = tasks.Create(ctx, &entity.Task{Id: uuid.New(), UserId: user.Id, Title: "Draft SOP for MIT", Status: entity.TaskStatusNotStarted})
	_ = tasks.Create(ctx, &entity.Task{Id: uuid.New(), UserId: user.Id, Title: "Review SOP with mentor", Status: entity.TaskStatusNotStarted})

	call := Call{Name: ActionSetTaskStatus, Args: map[string]interface{}{"keyword": "SOP", "status": "completed"}}
	outcomes := executor.Execute(ctx, user.Id, []Call{call}, newTurn(user))

	// First match by creation order, and the outcome names it.
	assert.True(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Message, "Draft SOP for MIT")
	assert.Equal(t, entity.TaskStatusCompleted, tasks.tasks[0].Status)
	assert.Equal(t, entity.TaskStatusNotStarted, tasks.tasks[1].Status)
}

func TestSetTaskStatusNotFound(t *testing.T) {
	executor, users, _, _, _ := newTestExecutor()
	user := seedUser(users)

	call := Call{Name: ActionSetTaskStatus, Args: map[string]interface{}{"keyword": "visa", "status": "completed"}}
	outcomes := executor.Execute(context.Background(), user.Id, []Call{call}, newTurn(user))

	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Message, "No task matching")
}

func TestLockUniversitySwitchesLock(t *testing.T) {
	executor, users, shortlists, _, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()

	mit := &entity.ShortlistEntry{Id: uuid.New(), UserId: user.Id, UniversityName: "MIT", Category: entity.CategoryDream}
	yale := &entity.ShortlistEntry{Id: uuid.New(), UserId: user.Id, UniversityName: "Yale", Category: entity.CategoryTarget}
	_ = shortlists.Create(ctx, mit)
	_ = shortlists.Create(ctx, yale)

	turn := newTurn(user)
	turn.Shortlist = []*entity.ShortlistEntry{mit, yale}

	lockMit := Call{Name: ActionLockUniversity, Args: map[string]interface{}{"university_name": "mit"}}
	outcomes := executor.Execute(ctx, user.Id, []Call{lockMit}, turn)

	assert.True(t, outcomes[0].Success)
	assert.True(t, mit.IsLocked)
	assert.False(t, yale.IsLocked)
	assert.Equal(t, entity.StageApplication, users.users[user.Id].Stage)

	// Locking another university releases the previous lock.
	lockYale := Call{Name: ActionLockUniversity, Args: map[string]interface{}{"university_name": "yale"}}
	outcomes = executor.Execute(ctx, user.Id, []Call{lockYale}, turn)

	assert.True(t, outcomes[0].Success)
	assert.False(t, mit.IsLocked)
	assert.True(t, yale.IsLocked)
	assert.Equal(t, entity.StageApplication, users.users[user.Id].Stage)
}

func TestLockUniversityNotInShortlist(t *testing.T) {
	executor, users, _, _, _ := newTestExecutor()
	user := seedUser(users)

	call := Call{Name: ActionLockUniversity, Args: map[string]interface{}{"university_name": "Hogwarts"}}
	outcomes := executor.Execute(context.Background(), user.Id, []Call{call}, newTurn(user))

	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Message, "not in your shortlist")
}

func TestUpdateProfileMergesSingleField(t *testing.T) {
	executor, users, _, _, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()
	turn := newTurn(user)

	calls := []Call{
		{Name: ActionUpdateProfile, Args: map[string]interface{}{"field": "gpa", "value": "3.8"}},
		{Name: ActionUpdateProfile, Args: map[string]interface{}{"field": "budget_range_max", "value": "85k"}},
	}
	outcomes := executor.Execute(ctx, user.Id, calls, turn)

	assert.True(t, outcomes[0].Success)
	assert.True(t, outcomes[1].Success)

	// Both fields survive: each update merged rather than replaced.
	merged := users.profiles[user.Id]
	assert.Equal(t, 3.8, merged["gpa"])
	assert.Equal(t, 85000.0, merged["budget_range_max"])

	// The in-turn profile was refreshed for later actions.
	assert.NotNil(t, turn.Profile.Gpa)
	assert.Equal(t, 3.8, *turn.Profile.Gpa)
	assert.NotNil(t, turn.Profile.BudgetRangeMax)
	assert.Equal(t, 85000.0, *turn.Profile.BudgetRangeMax)

	// The outcome carries the updated mapping.
	profile, ok := outcomes[1].Data["profile"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, 3.8, profile["gpa"])
}

func TestGetRecommendationsReadsFreshProfile(t *testing.T) {
	executor, users, _, _, recommender := newTestExecutor()
	user := seedUser(users)
	recommender.set = entity.RecommendationSet{
		Dream:  []entity.RecommendedUniversity{{Name: "MIT"}},
		Target: []entity.RecommendedUniversity{{Name: "TU Delft"}, {Name: "NUS"}},
		Safe:   []entity.RecommendedUniversity{{Name: "ASU"}},
	}

	call := Call{Name: ActionGetRecommendations}
	outcomes := executor.Execute(context.Background(), user.Id, []Call{call}, newTurn(user))

	assert.True(t, outcomes[0].Success)
	assert.Equal(t, 1, recommender.calls)
	assert.Equal(t, 1, outcomes[0].Data["dream"])
	assert.Equal(t, 2, outcomes[0].Data["target"])
	assert.Equal(t, 1, outcomes[0].Data["safe"])
}

func TestUnknownActionRejected(t *testing.T) {
	executor, users, _, _, _ := newTestExecutor()
	user := seedUser(users)

	call := Call{Name: "delete_everything", Args: map[string]interface{}{}}
	outcomes := executor.Execute(context.Background(), user.Id, []Call{call}, newTurn(user))

	assert.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Message, "Unknown action")
}

func TestFailedActionDoesNotAbortQueue(t *testing.T) {
	executor, users, _, tasks, _ := newTestExecutor()
	user := seedUser(users)
	ctx := context.Background()

	calls := []Call{
		{Name: ActionSetTaskStatus, Args: map[string]interface{}{"keyword": "nope", "status": "completed"}},
		{Name: ActionAddTask, Args: map[string]interface{}{"title": "Book IELTS"}},
	}
	outcomes := executor.Execute(ctx, user.Id, calls, newTurn(user))

	assert.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Success)
	assert.True(t, outcomes[1].Success)
	assert.Len(t, tasks.tasks, 1)
}
