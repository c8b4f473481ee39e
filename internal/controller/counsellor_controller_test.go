package controller

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-counsellor-be/internal/counsellor"
	"ai-counsellor-be/internal/dto"
)

func decodeFrame(t *testing.T, raw string) dto.StreamEvent {
	t.Helper()
	assert.True(t, strings.HasPrefix(raw, "data: "))
	var event dto.StreamEvent
	payload := strings.TrimSpace(strings.TrimPrefix(raw, "data: "))
	assert.NoError(t, json.Unmarshal([]byte(payload), &event))
	return event
}

func TestSSEDoneFrameCarriesReplyAndActions(t *testing.T) {
	var buf bytes.Buffer
	e := &sseEmitter{w: bufio.NewWriter(&buf)}

	result := &counsellor.TurnResult{
		ConversationId: uuid.New(),
		Reply:          "Added the SOP task for you.",
		Actions: []counsellor.Outcome{
			{Name: "add_task", Success: true, Message: "Task added"},
			{Name: "lock_university", Success: false, Message: "not in your shortlist"},
		},
		Stage: 3,
	}
	assert.NoError(t, e.Done(result))

	event := decodeFrame(t, buf.String())
	assert.Equal(t, "done", event.Type)
	assert.Equal(t, result.Reply, event.Reply)
	assert.Equal(t, result.ConversationId, *event.ConversationId)
	assert.Equal(t, 3, event.Stage)
	assert.Len(t, event.Actions, 2)
	assert.Equal(t, "add_task", event.Actions[0].Name)
	assert.Equal(t, "ok", event.Actions[0].Status)
	assert.Equal(t, "lock_university", event.Actions[1].Name)
	assert.Equal(t, "failed", event.Actions[1].Status)
}

func TestSSEChunkFrame(t *testing.T) {
	var buf bytes.Buffer
	e := &sseEmitter{w: bufio.NewWriter(&buf)}

	assert.NoError(t, e.Chunk("Hello"))

	raw := buf.String()
	assert.True(t, strings.HasSuffix(raw, "\n\n"))
	event := decodeFrame(t, raw)
	assert.Equal(t, "chunk", event.Type)
	assert.Equal(t, "Hello", event.Content)
}
