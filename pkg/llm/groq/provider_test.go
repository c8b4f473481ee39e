package groq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/pkg/llm"
)

func TestBuildParamsToolChoice(t *testing.T) {
	p := NewProvider("key", "http://localhost", "model-a")

	t.Run("auto leaves the default", func(t *testing.T) {
		params := p.buildParams(llm.Request{ToolChoice: llm.ToolChoiceAuto})
		assert.Nil(t, params.ToolChoice.OfFunctionToolChoice)
		assert.False(t, params.ToolChoice.OfAuto.Valid())
	})

	t.Run("none disables tools", func(t *testing.T) {
		params := p.buildParams(llm.Request{ToolChoice: llm.ToolChoiceNone})
		assert.Equal(t, "none", params.ToolChoice.OfAuto.Value)
	})

	t.Run("a tool name forces that single tool", func(t *testing.T) {
		params := p.buildParams(llm.Request{ToolChoice: llm.ToolChoiceFunc("add_task")})
		forced := params.ToolChoice.OfFunctionToolChoice
		assert.NotNil(t, forced)
		assert.Equal(t, "add_task", forced.Function.Name)
	})
}
