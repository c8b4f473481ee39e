package counsellor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/pkg/llm"
)

type orchestratorFixture struct {
	orchestrator  *Orchestrator
	provider      *scriptedProvider
	users         *fakeUserRepo
	shortlists    *fakeShortlistRepo
	tasks         *fakeTaskRepo
	conversations *fakeConversationRepo
	user          *entity.User
}

func newOrchestratorFixture() *orchestratorFixture {
	users := newFakeUserRepo()
	shortlists := &fakeShortlistRepo{}
	tasks := &fakeTaskRepo{}
	conversations := newFakeConversationRepo()
	provider := &scriptedProvider{}

	executor := NewExecutor(users, shortlists, tasks,
		&fakeLockFlow{shortlists: shortlists, users: users},
		&fakeRecommender{}, noopLogger{})
	orchestrator := NewOrchestrator(provider, executor,
		NewSessionManager(conversations), users, shortlists, tasks,
		noopLogger{}, "test-model")

	return &orchestratorFixture{
		orchestrator:  orchestrator,
		provider:      provider,
		users:         users,
		shortlists:    shortlists,
		tasks:         tasks,
		conversations: conversations,
		user:          seedUser(users),
	}
}

func TestTurnWithPlainTextReply(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{{Text: "Start with your SOP draft."}}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "Where should I start?", nil)

	assert.NoError(t, err)
	assert.Equal(t, "Start with your SOP draft.", result.Reply)
	assert.Empty(t, result.Actions)

	// Both sides of the exchange are persisted.
	conv := f.conversations.conversations[result.ConversationId]
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, entity.MessageRoleUser, conv.Messages[0].Role)
	assert.Equal(t, entity.MessageRoleAssistant, conv.Messages[1].Role)
}

func TestTurnExecutesStructuredToolCalls(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{{
		Text: "Adding MIT to your list now.",
		ToolCalls: []llm.ToolCall{
			{Id: "call_1", Name: "shortlist_university", Arguments: `{"university_name": "MIT", "country": "USA", "category": "Dream"}`},
		},
	}}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "Add MIT please", nil)

	assert.NoError(t, err)
	assert.Len(t, result.Actions, 1)
	assert.True(t, result.Actions[0].Success)
	assert.Len(t, f.shortlists.entries, 1)
	assert.Equal(t, "MIT", f.shortlists.entries[0].UniversityName)
}

// A turn where the model produced zero text but executed an action must
// never end with an empty assistant message.
func TestTurnNeverEmptyAfterActions(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{
		{ToolCalls: []llm.ToolCall{{Id: "call_1", Name: "add_task", Arguments: `{"title": "Draft SOP"}`}}},
		{Text: "Done! I added the SOP task."},
	}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "add a task for my SOP", nil)

	assert.NoError(t, err)
	assert.Equal(t, "Done! I added the SOP task.", result.Reply)
	assert.Len(t, f.tasks.tasks, 1)
	// The follow-up call was made without tools.
	assert.Len(t, f.provider.requests, 2)
	assert.Empty(t, f.provider.requests[1].Tools)
}

func TestTurnFallbackSentenceWhenFollowUpFails(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{
		{ToolCalls: []llm.ToolCall{{Id: "call_1", Name: "add_task", Arguments: `{"title": "Draft SOP"}`}}},
	}
	f.provider.errs = []error{nil, fmt.Errorf("model unavailable")}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "add a task", nil)

	assert.NoError(t, err)
	assert.Equal(t, constant.FallbackReply, result.Reply)
	assert.NotEmpty(t, result.Reply)
	assert.Len(t, f.tasks.tasks, 1)
}

func TestTurnRecoversFailedGeneration(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.errs = []error{&llm.FailedGenerationError{
		Raw: `<function=add_task>{"title": "Draft SOP"}</function>`,
		Err: fmt.Errorf("400 tool_use_failed"),
	}}
	// Follow-up summarization after the recovered action.
	f.provider.responses = []*llm.Response{nil, {Text: "Added the SOP task for you."}}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "add sop task", nil)

	assert.NoError(t, err)
	assert.Len(t, result.Actions, 1)
	assert.True(t, result.Actions[0].Success)
	assert.Len(t, f.tasks.tasks, 1)
	assert.Equal(t, "Added the SOP task for you.", result.Reply)
}

func TestTurnTextRetryAfterHardFailure(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.errs = []error{fmt.Errorf("502 bad gateway")}
	f.provider.responses = []*llm.Response{nil, {
		Text: "Let me note that down.\n" + `add_task{"title": "Draft SOP"}`,
	}}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "add sop task", nil)

	assert.NoError(t, err)
	assert.Len(t, result.Actions, 1)
	assert.Len(t, f.tasks.tasks, 1)
	assert.Equal(t, "Let me note that down.", result.Reply)

	// The retry went out without tools and with a correcting instruction.
	assert.Len(t, f.provider.requests, 2)
	retry := f.provider.requests[1]
	assert.Empty(t, retry.Tools)
	last := retry.Messages[len(retry.Messages)-1]
	assert.Equal(t, "system", last.Role)
	assert.Equal(t, constant.TextRetryInstruction, last.Content)
}

func TestTurnStageReflectsLock(t *testing.T) {
	f := newOrchestratorFixture()
	entry := &entity.ShortlistEntry{Id: uuid.New(), UserId: f.user.Id, UniversityName: "MIT"}
	_ = f.shortlists.Create(context.Background(), entry)
	f.provider.responses = []*llm.Response{{
		Text:      "Locking MIT. Exciting!",
		ToolCalls: []llm.ToolCall{{Id: "call_1", Name: "lock_university", Arguments: `{"university_name": "MIT"}`}},
	}}

	result, err := f.orchestrator.HandleTurn(context.Background(), f.user.Id, "lock mit", nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.StageApplication, result.Stage)
	assert.True(t, entry.IsLocked)
}

type recordingEmitter struct {
	started uuid.UUID
	chunks  []string
	actions []Outcome
	done    *TurnResult
	errMsg  string
}

func (e *recordingEmitter) Start(id uuid.UUID) error { e.started = id; return nil }
func (e *recordingEmitter) Chunk(delta string) error { e.chunks = append(e.chunks, delta); return nil }
func (e *recordingEmitter) Action(o Outcome) error   { e.actions = append(e.actions, o); return nil }
func (e *recordingEmitter) Done(r *TurnResult) error { e.done = r; return nil }
func (e *recordingEmitter) Error(msg string) error   { e.errMsg = msg; return nil }

func TestStreamTurnEmitsEventSequence(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{{
		Text:      "On it!",
		ToolCalls: []llm.ToolCall{{Id: "call_1", Name: "add_task", Arguments: `{"title": "Draft SOP"}`}},
	}}

	emitter := &recordingEmitter{}
	err := f.orchestrator.StreamTurn(context.Background(), f.user.Id, "add sop task", nil, emitter)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, emitter.started)
	assert.Equal(t, []string{"On it!"}, emitter.chunks)
	assert.Len(t, emitter.actions, 1)
	assert.NotNil(t, emitter.done)
	assert.Equal(t, "On it!", emitter.done.Reply)
	assert.Empty(t, emitter.errMsg)
}

// Leaked call syntax must never reach the client through chunk events,
// even though the extractor still sees and executes it.
func TestStreamTurnFiltersLeakedCallSyntax(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{{
		Text: "Noted!\nadd_task{\"title\": \"Draft SOP\"}\nAnything else?",
	}}

	emitter := &recordingEmitter{}
	err := f.orchestrator.StreamTurn(context.Background(), f.user.Id, "add sop task", nil, emitter)

	assert.NoError(t, err)
	streamed := strings.Join(emitter.chunks, "")
	assert.Contains(t, streamed, "Noted!")
	assert.Contains(t, streamed, "Anything else?")
	assert.NotContains(t, streamed, "add_task{")
	assert.Len(t, emitter.actions, 1)
	assert.Len(t, f.tasks.tasks, 1)
	assert.NotContains(t, emitter.done.Reply, "add_task{")
}

// The text-mode retry asks the model for name{...} lines; only the
// cleaned text may stream, as a single chunk after extraction.
func TestStreamTurnRetryStreamsOnlyCleanText(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.errs = []error{fmt.Errorf("502 bad gateway")}
	f.provider.responses = []*llm.Response{nil, {
		Text: "Let me note that down.\n" + `add_task{"title": "Draft SOP"}`,
	}}

	emitter := &recordingEmitter{}
	err := f.orchestrator.StreamTurn(context.Background(), f.user.Id, "add sop task", nil, emitter)

	assert.NoError(t, err)
	streamed := strings.Join(emitter.chunks, "")
	assert.Equal(t, "Let me note that down.", streamed)
	assert.NotContains(t, streamed, "add_task{")
	assert.Len(t, f.tasks.tasks, 1)
}

func TestStreamTurnEmitsErrorOnPersistFailure(t *testing.T) {
	f := newOrchestratorFixture()
	f.provider.responses = []*llm.Response{{Text: "hello"}}
	f.conversations.updateErr = fmt.Errorf("connection reset")

	emitter := &recordingEmitter{}
	err := f.orchestrator.StreamTurn(context.Background(), f.user.Id, "hi", nil, emitter)

	assert.Error(t, err)
	assert.NotEmpty(t, emitter.errMsg)
	assert.Nil(t, emitter.done)
}
