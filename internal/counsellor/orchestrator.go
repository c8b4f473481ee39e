package counsellor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ai-counsellor-be/internal/constant"
	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/internal/pkg/logger"
	"ai-counsellor-be/internal/repository/contract"
	"ai-counsellor-be/internal/repository/specification"
	"ai-counsellor-be/pkg/llm"
)

// TurnResult is the caller-visible output of one chat turn.
type TurnResult struct {
	ConversationId uuid.UUID
	Reply          string
	Actions        []Outcome
	Stage          int
}

// StreamEmitter receives turn progress as it happens. Implemented by
// the transport layer (SSE, websocket); emit errors abort the stream
// but not side effects already committed.
type StreamEmitter interface {
	Start(conversationId uuid.UUID) error
	Chunk(delta string) error
	Action(outcome Outcome) error
	Done(result *TurnResult) error
	Error(message string) error
}

// Orchestrator drives one chat turn through its phases: gather context,
// call the model, extract and execute actions, assemble a reply, and
// persist both sides of the exchange. The completion service is treated
// as unreliable throughout; every model failure has a fallback rung
// before the turn gives up.
type Orchestrator struct {
	provider   llm.Provider
	executor   *Executor
	extractor  *Extractor
	sessions   *SessionManager
	users      contract.UserRepository
	shortlists contract.ShortlistRepository
	tasks      contract.TaskRepository
	log        logger.ILogger

	chatModel   string
	temperature float64
}

func NewOrchestrator(
	provider llm.Provider,
	executor *Executor,
	sessions *SessionManager,
	users contract.UserRepository,
	shortlists contract.ShortlistRepository,
	tasks contract.TaskRepository,
	log logger.ILogger,
	chatModel string,
) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		executor:    executor,
		extractor:   NewExtractor(executor.Registry()),
		sessions:    sessions,
		users:       users,
		shortlists:  shortlists,
		tasks:       tasks,
		log:         log,
		chatModel:   chatModel,
		temperature: 0.7,
	}
}

// HandleTurn processes one user message synchronously and returns the
// assembled reply plus the per-action outcomes.
func (o *Orchestrator) HandleTurn(ctx context.Context, userId uuid.UUID, message string, conversationId *uuid.UUID) (*TurnResult, error) {
	return o.runTurn(ctx, userId, message, conversationId, nil)
}

// StreamTurn runs the same state machine but emits progress events as
// they occur. After the client disconnects, side effects of actions
// already extracted still run to completion; only further model token
// consumption stops.
func (o *Orchestrator) StreamTurn(ctx context.Context, userId uuid.UUID, message string, conversationId *uuid.UUID, emitter StreamEmitter) error {
	_, err := o.runTurn(ctx, userId, message, conversationId, emitter)
	if err != nil && emitter != nil {
		_ = emitter.Error("The counsellor is unavailable right now. Please try again.")
	}
	return err
}

func (o *Orchestrator) runTurn(ctx context.Context, userId uuid.UUID, message string, conversationId *uuid.UUID, emitter StreamEmitter) (*TurnResult, error) {
	// received
	user, err := o.users.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userId)
	}

	conv, err := o.sessions.GetOrCreate(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}
	if emitter != nil {
		if err := emitter.Start(conv.Id); err != nil {
			return nil, err
		}
	}

	// context-built: shortlist and tasks are independent reads.
	turn, err := o.buildContext(ctx, user)
	if err != nil {
		return nil, err
	}

	// model-called. Deltas pass through a filter that withholds any
	// tool-call syntax the model leaks into its text, so the client
	// only ever sees the conversational part of the stream.
	messages := BuildMessages(turn, o.sessions.Window(conv), message)
	var onDelta llm.StreamHandler
	var filter *streamFilter
	if emitter != nil {
		filter = newStreamFilter(o.executor.Registry(), emitter.Chunk)
		onDelta = filter.Write
	}
	calls, visibleText := o.callModel(ctx, messages, onDelta)
	if filter != nil {
		filter.Close()
	}

	// actions-executed. A disconnected client must not abort writes for
	// actions the model already requested.
	execCtx := context.WithoutCancel(ctx)
	outcomes := o.executor.Execute(execCtx, userId, calls, turn)
	if emitter != nil {
		for _, outcome := range outcomes {
			_ = emitter.Action(outcome)
		}
	}

	// reply-assembled
	reply := o.assembleReply(ctx, message, visibleText, outcomes)

	// persisted
	if err := o.persistTurn(execCtx, conv, message, reply, outcomes); err != nil {
		o.log.Error("counsellor.orchestrator", "failed to persist turn", map[string]interface{}{
			"conversation_id": conv.Id.String(),
			"error":           err.Error(),
		})
		return nil, err
	}

	result := &TurnResult{
		ConversationId: conv.Id,
		Reply:          reply,
		Actions:        outcomes,
		Stage:          o.currentStage(execCtx, userId, turn),
	}
	if emitter != nil {
		if err := emitter.Done(result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (o *Orchestrator) buildContext(ctx context.Context, user *entity.User) (*TurnContext, error) {
	turn := &TurnContext{User: user, Profile: user.Profile}

	var wg sync.WaitGroup
	var shortlistErr, tasksErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		turn.Shortlist, shortlistErr = o.shortlists.FindAll(ctx,
			specification.UserOwnedBy{UserID: user.Id},
			specification.OrderBy{Field: "created_at"},
		)
	}()
	go func() {
		defer wg.Done()
		turn.Tasks, tasksErr = o.tasks.FindAll(ctx,
			specification.UserOwnedBy{UserID: user.Id},
			specification.OrderBy{Field: "created_at"},
		)
	}()
	wg.Wait()

	if shortlistErr != nil {
		return nil, shortlistErr
	}
	if tasksErr != nil {
		return nil, tasksErr
	}
	return turn, nil
}

// callModel invokes the completion service with full tool definitions
// and walks the recovery ladder on failure: first parse the rejected
// generation if the service exposed one, then retry once in plain-text
// mode with a correcting instruction. Returns whatever calls and
// visible text could be salvaged; an empty pair means every rung failed.
func (o *Orchestrator) callModel(ctx context.Context, messages []llm.Message, onDelta llm.StreamHandler) ([]Call, string) {
	req := llm.Request{
		Messages:    messages,
		Tools:       o.executor.Registry().Tools(),
		ToolChoice:  llm.ToolChoiceAuto,
		Temperature: o.temperature,
		Model:       o.chatModel,
	}

	resp, err := o.complete(ctx, req, onDelta)
	if err == nil {
		return o.extractor.Extract(resp)
	}

	var failedGen *llm.FailedGenerationError
	if errors.As(err, &failedGen) {
		o.log.Warn("counsellor.orchestrator", "recovering rejected generation", map[string]interface{}{
			"raw_length": len(failedGen.Raw),
		})
		calls, text := o.extractor.ExtractFromText(failedGen.Raw)
		if len(calls) > 0 || text != "" {
			if onDelta != nil && text != "" {
				onDelta(text)
			}
			return calls, text
		}
	}

	// Plain retry without tools, with a correcting instruction. The
	// instruction invites name{...} lines, so the retry response is
	// never streamed raw; the cleaned text goes out as one chunk after
	// extraction.
	retry := llm.Request{
		Messages:    append(messages, llm.Message{Role: "system", Content: constant.TextRetryInstruction}),
		Temperature: o.temperature,
		Model:       o.chatModel,
	}
	resp, err = o.complete(ctx, retry, nil)
	if err != nil {
		o.log.Error("counsellor.orchestrator", "text-mode retry failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ""
	}
	calls, text := o.extractor.ExtractFromText(resp.Text)
	if onDelta != nil && text != "" {
		onDelta(text)
	}
	return calls, text
}

func (o *Orchestrator) complete(ctx context.Context, req llm.Request, onDelta llm.StreamHandler) (*llm.Response, error) {
	if onDelta != nil {
		return o.provider.Stream(ctx, req, onDelta)
	}
	return o.provider.Complete(ctx, req)
}

// assembleReply picks the final assistant text: visible model text if
// any survived stripping, otherwise a follow-up summarization over the
// outcomes, otherwise a fixed fallback. A turn with actions never ends
// with an empty assistant message.
func (o *Orchestrator) assembleReply(ctx context.Context, userMessage, visibleText string, outcomes []Outcome) string {
	if visibleText != "" {
		return visibleText
	}
	if len(outcomes) == 0 {
		return constant.EmptyReplyNudge
	}

	resp, err := o.provider.Complete(ctx, llm.Request{
		Messages:    BuildFollowUpMessages(userMessage, outcomes),
		Temperature: o.temperature,
		Model:       o.chatModel,
	})
	if err == nil && resp.Text != "" {
		_, cleaned := o.extractor.ExtractFromText(resp.Text)
		if cleaned != "" {
			return cleaned
		}
	}
	return constant.FallbackReply
}

func (o *Orchestrator) persistTurn(ctx context.Context, conv *entity.Conversation, userMessage, reply string, outcomes []Outcome) error {
	assistant := entity.ChatMessage{
		Role:    entity.MessageRoleAssistant,
		Content: reply,
	}
	for _, outcome := range outcomes {
		assistant.ActionResults = append(assistant.ActionResults, map[string]interface{}{
			"name":    outcome.Name,
			"success": outcome.Success,
			"message": outcome.Message,
		})
	}
	return o.sessions.Append(ctx, conv,
		entity.ChatMessage{Role: entity.MessageRoleUser, Content: userMessage},
		assistant,
	)
}

// currentStage re-reads the stage after execution since lock actions
// advance it mid-turn.
func (o *Orchestrator) currentStage(ctx context.Context, userId uuid.UUID, turn *TurnContext) int {
	user, err := o.users.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return turn.User.Stage
	}
	return user.Stage
}
