package counsellor

import (
	"strings"
	"testing"
)

func filterFixture() (*streamFilter, *[]string) {
	registry := NewRegistry()
	registry.Register(Action{Name: ActionAddTask})
	registry.Register(Action{Name: ActionLockUniversity})

	var out []string
	filter := newStreamFilter(registry, func(delta string) error {
		out = append(out, delta)
		return nil
	})
	return filter, &out
}

func TestStreamFilter(t *testing.T) {
	tests := []struct {
		name   string
		deltas []string
		want   string
	}{
		{
			name:   "plain text passes through",
			deltas: []string{"Hello ", "there!\nHow can I help?"},
			want:   "Hello there!\nHow can I help?",
		},
		{
			name:   "bare call line dropped",
			deltas: []string{"Noted!\nadd_task{\"title\": \"Draft SOP\"}\nAnything else?"},
			want:   "Noted!\nAnything else?",
		},
		{
			name:   "call split across deltas",
			deltas: []string{"Noted!\nadd_ta", "sk{\"title\": \"Dra", "ft SOP\"}\nDone."},
			want:   "Noted!\nDone.",
		},
		{
			name:   "multi line argument object suppressed",
			deltas: []string{"add_task{\n  \"title\": \"Draft SOP\"\n}\nAll set."},
			want:   "All set.",
		},
		{
			name:   "tag block suppressed until close",
			deltas: []string{"<function=add_task>\n{\"title\": \"Draft SOP\"}\n</function>\nOn it."},
			want:   "On it.",
		},
		{
			name:   "tool_call envelope suppressed",
			deltas: []string{"Sure.\n<tool_call>{\"name\": \"lock_university\", \"arguments\": {\"university_name\": \"MIT\"}}</tool_call>\nLocked."},
			want:   "Sure.\nLocked.",
		},
		{
			name:   "safe prefix before a call survives",
			deltas: []string{"One sec. add_task{\"title\": \"Draft SOP\"}"},
			want:   "One sec.\n",
		},
		{
			name:   "unregistered name with braces passes through",
			deltas: []string{"use config{debug: true} at startup"},
			want:   "use config{debug: true} at startup",
		},
		{
			name:   "braces inside strings do not open suppression",
			deltas: []string{"add_task{\"title\": \"notes on {x}\"}\nNext."},
			want:   "Next.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, out := filterFixture()
			for _, delta := range tt.deltas {
				filter.Write(delta)
			}
			filter.Close()
			if got := strings.Join(*out, ""); got != tt.want {
				t.Errorf("streamed %q, want %q", got, tt.want)
			}
		})
	}
}
