package counsellor

import (
	"regexp"
	"strings"
)

// streamFilter sits between the model's token stream and the client.
// Deltas are held back until a full line is available, and lines that
// carry tool-call syntax (tag wrappers or a registered action name
// followed by an argument object) are dropped instead of emitted. The
// extractor still sees the full response text; the filter only guards
// what the client watches arrive.
type streamFilter struct {
	emit        func(delta string) error
	callOpening *regexp.Regexp
	line        strings.Builder
	inTag       bool
	braceDepth  int
}

var (
	streamTagOpening = regexp.MustCompile(`<\s*(?:function\b|tool_call\b)`)
	streamTagClosing = regexp.MustCompile(`</\s*(?:function|tool_call)\s*>`)
)

func newStreamFilter(registry *Registry, emit func(delta string) error) *streamFilter {
	names := registry.Names()
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	return &streamFilter{
		emit:        emit,
		callOpening: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\s*\{`),
	}
}

// Write buffers a delta and pushes every completed line through the
// filter. Deltas may split lines at arbitrary points.
func (f *streamFilter) Write(delta string) {
	f.line.WriteString(delta)
	buffered := f.line.String()
	for {
		idx := strings.IndexByte(buffered, '\n')
		if idx < 0 {
			break
		}
		f.filterLine(buffered[:idx+1])
		buffered = buffered[idx+1:]
	}
	f.line.Reset()
	f.line.WriteString(buffered)
}

// Close flushes the trailing partial line once the stream has ended.
func (f *streamFilter) Close() {
	if f.line.Len() > 0 {
		f.filterLine(f.line.String())
		f.line.Reset()
	}
}

func (f *streamFilter) filterLine(line string) {
	switch {
	case f.inTag:
		if streamTagClosing.MatchString(line) {
			f.inTag = false
		}
		return
	case f.braceDepth > 0:
		f.braceDepth += braceDelta(line)
		if f.braceDepth < 0 {
			f.braceDepth = 0
		}
		return
	}

	if m := streamTagOpening.FindStringIndex(line); m != nil {
		f.emitPrefix(line[:m[0]])
		if !streamTagClosing.MatchString(line[m[0]:]) {
			f.inTag = true
		}
		return
	}
	if m := f.callOpening.FindStringIndex(line); m != nil {
		f.emitPrefix(line[:m[0]])
		if d := braceDelta(line[m[0]:]); d > 0 {
			f.braceDepth = d
		}
		return
	}
	_ = f.emit(line)
}

// emitPrefix passes along safe text that preceded a call opening on the
// same line.
func (f *streamFilter) emitPrefix(prefix string) {
	if strings.TrimSpace(prefix) == "" {
		return
	}
	_ = f.emit(strings.TrimRight(prefix, " \t") + "\n")
}

// braceDelta counts unmatched braces on a line, skipping string
// literals. Best effort: argument strings rarely span lines.
func braceDelta(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
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
		}
	}
	return depth
}
