package counsellor

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ai-counsellor-be/pkg/llm"
)

// Call is one normalized action request extracted from model output.
type Call struct {
	Name string
	Args map[string]interface{}
}

// Extractor turns raw model output into an ordered list of calls. It
// handles three encodings, in priority order: native structured tool
// calls, tag-like pseudo-syntax wrapping a JSON-ish body, and bare
// "name{...}" fragments in plain text. Whatever path matches, the
// pseudo-call text is stripped from the user-visible reply.
type Extractor struct {
	registry *Registry
}

func NewExtractor(registry *Registry) *Extractor {
	return &Extractor{registry: registry}
}

// tag wrappers the model invents when it leaks tool syntax into text.
var (
	functionTagPattern = regexp.MustCompile(`<\s*function\s*=\s*"?([a-zA-Z_][a-zA-Z0-9_]*)"?\s*>?`)
	toolCallTagPattern = regexp.MustCompile(`<\s*tool_call\s*>`)
	closingTagPattern  = regexp.MustCompile(`^\s*</\s*(?:function|tool_call)\s*>`)
	lenientPairPattern = regexp.MustCompile(`"?([A-Za-z_][A-Za-z0-9_]*)"?\s*:\s*(?:"((?:[^"\\]|\\.)*)"|(-?[0-9][0-9.]*)|(true|false))`)
)

// Extract processes a full model response. Structured tool calls come
// first; any further calls leaked into the text follow in the order
// they appear. The second return value is the reply text with all
// pseudo-syntax removed.
func (x *Extractor) Extract(resp *llm.Response) ([]Call, string) {
	var calls []Call
	for _, tc := range resp.ToolCalls {
		if !x.registry.Has(tc.Name) {
			calls = append(calls, Call{Name: tc.Name, Args: map[string]interface{}{}})
			continue
		}
		args := parseArgs(tc.Arguments)
		calls = append(calls, Call{Name: tc.Name, Args: args})
	}

	textCalls, cleaned := x.ExtractFromText(resp.Text)
	calls = append(calls, textCalls...)
	return calls, cleaned
}

// ExtractFromText scrapes calls out of plain text. Used both for text
// leaked alongside structured calls and for the recovery paths where
// the whole response is plain text.
func (x *Extractor) ExtractFromText(text string) ([]Call, string) {
	if strings.TrimSpace(text) == "" {
		return nil, strings.TrimSpace(text)
	}

	type span struct {
		start, end int
		call       *Call
	}
	var spans []span
	covered := func(pos int) bool {
		for _, s := range spans {
			if pos >= s.start && pos < s.end {
				return true
			}
		}
		return false
	}

	// Tag-wrapped pseudo-calls, e.g. <function=add_task>{"title": "..."}</function>
	for _, m := range functionTagPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		body, end, ok := braceSpan(text, m[1])
		if !ok {
			continue
		}
		if tail := closingTagPattern.FindStringIndex(text[end:]); tail != nil {
			end += tail[1]
		}
		call := Call{Name: name, Args: parseArgs(body)}
		spans = append(spans, span{start: m[0], end: end, call: &call})
	}

	// <tool_call>{"name": "...", "arguments": {...}}</tool_call>
	for _, m := range toolCallTagPattern.FindAllStringIndex(text, -1) {
		body, end, ok := braceSpan(text, m[1])
		if !ok {
			continue
		}
		if tail := closingTagPattern.FindStringIndex(text[end:]); tail != nil {
			end += tail[1]
		}
		var envelope struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal([]byte(body), &envelope); err != nil || envelope.Name == "" {
			continue
		}
		call := Call{Name: envelope.Name, Args: parseArgs(string(envelope.Arguments))}
		spans = append(spans, span{start: m[0], end: end, call: &call})
	}

	// Bare name{...} fragments, recognized only for registered names.
	for _, name := range x.registry.Names() {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\{`)
		for _, m := range pattern.FindAllStringIndex(text, -1) {
			if covered(m[0]) {
				continue
			}
			body, end, ok := braceSpan(text, m[0])
			if !ok {
				continue
			}
			var args map[string]interface{}
			if err := json.Unmarshal([]byte(body), &args); err != nil {
				continue
			}
			call := Call{Name: name, Args: args}
			spans = append(spans, span{start: m[0], end: end, call: &call})
		}
	}

	if len(spans) == 0 {
		return nil, strings.TrimSpace(text)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	calls := make([]Call, 0, len(spans))
	var b strings.Builder
	cursor := 0
	for _, s := range spans {
		if s.start < cursor {
			continue // overlapping match already consumed
		}
		calls = append(calls, *s.call)
		b.WriteString(text[cursor:s.start])
		cursor = s.end
	}
	b.WriteString(text[cursor:])

	return calls, tidyReply(b.String())
}

// parseArgs tries a strict JSON parse of an arguments blob, then falls
// back to a lenient key:"value" scraper that recovers what it can. A
// blob that yields nothing produces an empty map, never a nil one.
func parseArgs(raw string) map[string]interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]interface{}{}
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err == nil && args != nil {
		return args
	}
	return lenientArgs(raw)
}

// lenientArgs scrapes key/value pairs out of a JSON-ish blob the model
// mangled. Best effort: partial arguments are better than losing the
// whole call.
func lenientArgs(raw string) map[string]interface{} {
	args := map[string]interface{}{}
	for _, m := range lenientPairPattern.FindAllStringSubmatchIndex(raw, -1) {
		key := raw[m[2]:m[3]]
		switch {
		case m[4] >= 0: // quoted string value, possibly empty
			value := strings.ReplaceAll(raw[m[4]:m[5]], `\"`, `"`)
			args[key] = value
		case m[6] >= 0: // numeric value
			if f, err := strconv.ParseFloat(raw[m[6]:m[7]], 64); err == nil {
				args[key] = f
			}
		case m[8] >= 0: // boolean value
			args[key] = raw[m[8]:m[9]] == "true"
		}
	}
	return args
}

// braceSpan locates the outermost {...} pair starting at or after from,
// respecting string literals and escapes. Returns the body including
// braces and the index just past the closing brace.
func braceSpan(text string, from int) (string, int, bool) {
	start := strings.IndexByte(text[from:], '{')
	if start < 0 {
		return "", 0, false
	}
	start += from

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], i + 1, true
			}
		}
	}
	return "", 0, false
}

// tidyReply collapses the whitespace holes left by stripped pseudo-calls.
func tidyReply(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if blank {
				continue
			}
			blank = true
			trimmed = ""
		} else {
			blank = false
		}
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
