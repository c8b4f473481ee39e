package counsellor

import (
	"strings"
	"testing"

	"ai-counsellor-be/pkg/llm"
)

func testRegistry() *Registry {
	r := NewRegistry()
	for _, name := range []string{
		ActionShortlistUniversity, ActionAddTask, ActionSetTaskStatus,
		ActionLockUniversity, ActionUpdateProfile, ActionGetRecommendations,
	} {
		r.Register(Action{Name: name})
	}
	return r
}

// An equivalent intended call must come out identically regardless of
// which encoding the model chose.
func TestExtractThreeChannelsEquivalent(t *testing.T) {
	x := NewExtractor(testRegistry())

	tests := []struct {
		name string
		resp *llm.Response
	}{
		{
			name: "native structured call",
			resp: &llm.Response{ToolCalls: []llm.ToolCall{
				{Id: "call_1", Name: "add_task", Arguments: `{"title": "Draft SOP"}`},
			}},
		},
		{
			name: "malformed tag wrapper",
			resp: &llm.Response{Text: `Sure! <function=add_task>{"title": "Draft SOP"}</function>`},
		},
		{
			name: "bare name fragment",
			resp: &llm.Response{Text: `Sure! add_task{"title": "Draft SOP"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, _ := x.Extract(tt.resp)
			if len(calls) != 1 {
				t.Fatalf("got %d calls, want 1", len(calls))
			}
			if calls[0].Name != "add_task" {
				t.Errorf("name = %q, want add_task", calls[0].Name)
			}
			if title, _ := calls[0].Args["title"].(string); title != "Draft SOP" {
				t.Errorf("title = %q, want Draft SOP", title)
			}
		})
	}
}

func TestExtractStripsPseudoSyntaxFromReply(t *testing.T) {
	x := NewExtractor(testRegistry())

	resp := &llm.Response{Text: "I'll add that now.\n\n" +
		`add_task{"title": "Draft SOP"}` + "\n\nDone, anything else?"}
	calls, cleaned := x.Extract(resp)

	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if strings.Contains(cleaned, "{") || strings.Contains(cleaned, "add_task") {
		t.Errorf("pseudo-syntax leaked into reply: %q", cleaned)
	}
	if !strings.Contains(cleaned, "I'll add that now.") || !strings.Contains(cleaned, "anything else?") {
		t.Errorf("surrounding prose lost: %q", cleaned)
	}
}

func TestExtractMalformedJSONOneCallDoesNotAbortOthers(t *testing.T) {
	x := NewExtractor(testRegistry())

	resp := &llm.Response{ToolCalls: []llm.ToolCall{
		{Id: "call_1", Name: "add_task", Arguments: `{title: "Broken`},
		{Id: "call_2", Name: "shortlist_university", Arguments: `{"university_name": "MIT"}`},
	}}
	calls, _ := x.Extract(resp)

	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	// The broken call survives through the lenient scraper.
	if title, _ := calls[0].Args["title"].(string); title != "Broken" && len(calls[0].Args) > 0 {
		t.Errorf("lenient scrape of broken args = %v", calls[0].Args)
	}
	if name, _ := calls[1].Args["university_name"].(string); name != "MIT" {
		t.Errorf("second call args = %v", calls[1].Args)
	}
}

func TestExtractLenientScraperRecoversPartialArgs(t *testing.T) {
	x := NewExtractor(testRegistry())

	resp := &llm.Response{Text: `<function=update_profile>{"field": "gpa", "value": "3.8", oops}`}
	calls, _ := x.Extract(resp)

	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if field, _ := calls[0].Args["field"].(string); field != "gpa" {
		t.Errorf("field = %v", calls[0].Args)
	}
	if value, _ := calls[0].Args["value"].(string); value != "3.8" {
		t.Errorf("value = %v", calls[0].Args)
	}
}

func TestExtractBareNameOnlyForRegisteredActions(t *testing.T) {
	x := NewExtractor(testRegistry())

	resp := &llm.Response{Text: `Some config looks like settings{"theme": "dark"} in that app.`}
	calls, cleaned := x.Extract(resp)

	if len(calls) != 0 {
		t.Fatalf("unregistered name extracted: %v", calls)
	}
	if !strings.Contains(cleaned, `settings{"theme": "dark"}`) {
		t.Errorf("unregistered fragment should stay in text: %q", cleaned)
	}
}

func TestExtractPreservesCallOrder(t *testing.T) {
	x := NewExtractor(testRegistry())

	resp := &llm.Response{
		ToolCalls: []llm.ToolCall{
			{Id: "call_1", Name: "update_profile", Arguments: `{"field": "gpa", "value": "3.8"}`},
		},
		Text: `shortlist_university{"university_name": "MIT"}` + "\n" +
			`add_task{"title": "Draft SOP"}`,
	}
	calls, _ := x.Extract(resp)

	want := []string{"update_profile", "shortlist_university", "add_task"}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i, name := range want {
		if calls[i].Name != name {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i].Name, name)
		}
	}
}

func TestExtractToolCallTagEnvelope(t *testing.T) {
	x := NewExtractor(testRegistry())

	calls, cleaned := x.ExtractFromText(
		`<tool_call>{"name": "set_task_status", "arguments": {"keyword": "SOP", "status": "completed"}}</tool_call>`)

	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if calls[0].Name != "set_task_status" {
		t.Errorf("name = %q", calls[0].Name)
	}
	if kw, _ := calls[0].Args["keyword"].(string); kw != "SOP" {
		t.Errorf("args = %v", calls[0].Args)
	}
	if cleaned != "" {
		t.Errorf("cleaned = %q, want empty", cleaned)
	}
}

func TestExtractNestedBraces(t *testing.T) {
	x := NewExtractor(testRegistry())

	calls, _ := x.ExtractFromText(
		`add_task{"title": "Check {fees} page", "description": "see https://x"}`)

	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if title, _ := calls[0].Args["title"].(string); title != "Check {fees} page" {
		t.Errorf("title = %q", title)
	}
}
