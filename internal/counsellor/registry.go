package counsellor

import (
	"context"

	"github.com/google/uuid"

	"ai-counsellor-be/internal/entity"
	"ai-counsellor-be/pkg/llm"
)

// Action names form a closed vocabulary. The model may only request
// these; anything else is rejected with a not-found outcome.
const (
	ActionShortlistUniversity = "shortlist_university"
	ActionAddTask             = "add_task"
	ActionSetTaskStatus       = "set_task_status"
	ActionLockUniversity      = "lock_university"
	ActionUpdateProfile       = "update_profile"
	ActionGetRecommendations  = "get_recommendations"
)

// Outcome is the structured result of one executed action. It is
// ephemeral: reported to the caller and embedded in the transcript,
// never stored on its own.
type Outcome struct {
	Name    string                 `json:"name"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// TurnContext carries the state gathered for one chat turn. Handlers
// receive it explicitly and may refresh slices they mutate so later
// actions in the same turn see the change.
type TurnContext struct {
	User      *entity.User
	Profile   entity.Profile
	Shortlist []*entity.ShortlistEntry
	Tasks     []*entity.Task
}

// Handler performs one action's side effect for the acting user.
type Handler func(ctx context.Context, userId uuid.UUID, args map[string]interface{}, turn *TurnContext) Outcome

// Action declares one callable action: its schema as exposed to the
// model and the handler that executes it.
type Action struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Handler     Handler
}

// Registry maps action names to their declarations. Registration order
// is preserved so tool definitions are stable across requests.
type Registry struct {
	actions map[string]Action
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

func (r *Registry) Register(a Action) {
	if _, exists := r.actions[a.Name]; !exists {
		r.order = append(r.order, a.Name)
	}
	r.actions[a.Name] = a
}

func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.actions[name]
	return ok
}

func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tools renders the registry as tool definitions for the completion
// service.
func (r *Registry) Tools() []llm.Tool {
	tools := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		a := r.actions[name]
		tools = append(tools, llm.Tool{
			Name:        a.Name,
			Description: a.Description,
			Parameters:  a.Parameters,
		})
	}
	return tools
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func enumProp(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description, "enum": values}
}
