package llm

import (
	"context"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCallId string     // set on "tool" role messages
	ToolCalls  []ToolCall // set on assistant messages that invoked tools
}

// Tool describes one callable function exposed to the model.
// Parameters is a JSON Schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is one structured function invocation returned by the model.
// Arguments is the raw JSON string exactly as the model produced it.
type ToolCall struct {
	Id        string
	Name      string
	Arguments string
}

// ToolChoice modes. Any other value names a single tool the model is
// forced to call (see ToolChoiceFunc).
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

// ToolChoiceFunc forces the model to call exactly the named tool.
func ToolChoiceFunc(name string) string {
	return name
}

type Request struct {
	Messages    []Message
	Tools       []Tool
	ToolChoice  string // ToolChoiceAuto, ToolChoiceNone, or a tool name
	Temperature float64
	Model       string // override provider default
	JSONMode    bool   // force a JSON object response
}

type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// StreamHandler receives incremental text as the model produces it.
type StreamHandler func(delta string)

// Provider defines the contract for any completion backend.
// It must be treated as unreliable: it may ignore the tool schema, emit
// invalid JSON arguments, or fail with a recoverable payload.
type Provider interface {
	// Complete runs one chat completion and returns text and/or tool calls.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream runs one chat completion, delivering text deltas to onDelta
	// as they arrive. The returned Response carries the accumulated text
	// and any tool calls once the stream finishes.
	Stream(ctx context.Context, req Request, onDelta StreamHandler) (*Response, error)
}

// FailedGenerationError is returned when the backend rejected the
// model's own malformed function-call output but exposed the raw
// generation for recovery parsing.
type FailedGenerationError struct {
	Raw string // the model's raw failed generation
	Err error
}

func (e *FailedGenerationError) Error() string {
	return fmt.Sprintf("completion rejected with recoverable generation: %v", e.Err)
}

func (e *FailedGenerationError) Unwrap() error {
	return e.Err
}
