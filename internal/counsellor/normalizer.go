package counsellor

import (
	"strconv"
	"strings"
)

// Argument normalization. Arguments arrive from free text or a JSON-ish
// blob and are loosely typed; these helpers coerce them into canonical
// shapes while staying permissive. A value that cannot be coerced is
// kept as-is rather than rejected, so a model formatting slip never
// blocks the conversation.

var canonicalStatuses = map[string]struct{}{
	"not-started": {},
	"in-progress": {},
	"completed":   {},
	"ready":       {},
	"draft":       {},
}

// numericProfileFields get float coercion on update_profile.
var numericProfileFields = map[string]struct{}{
	"gpa":              {},
	"gpa_scale":        {},
	"budget_range_min": {},
	"budget_range_max": {},
}

// listProfileFields get comma-split coercion on update_profile.
var listProfileFields = map[string]struct{}{
	"preferred_countries": {},
}

// NormalizeNumeric coerces a loosely typed numeric value. A trailing
// lowercase "k" on a numeric string multiplies by 1000 ("85k" → 85000).
// Non-numeric strings come back unchanged.
func NormalizeNumeric(value interface{}) interface{} {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		multiplier := 1.0
		if strings.HasSuffix(s, "k") {
			if _, err := strconv.ParseFloat(strings.TrimSuffix(s, "k"), 64); err == nil {
				s = strings.TrimSuffix(s, "k")
				multiplier = 1000
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f * multiplier
		}
		return v
	default:
		return value
	}
}

// NormalizeList splits a comma-separated string into trimmed elements.
// An already-listy value is flattened to strings.
func NormalizeList(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return v
	default:
		return value
	}
}

// NormalizeStatus lowercases and hyphenates a status token
// ("In Progress" → "in-progress"). Known statuses are canonicalized;
// unknown ones are returned verbatim so user phrasing survives.
func NormalizeStatus(value string) string {
	candidate := strings.ToLower(strings.TrimSpace(value))
	candidate = strings.Join(strings.Fields(candidate), "-")
	candidate = strings.ReplaceAll(candidate, "_", "-")
	if _, ok := canonicalStatuses[candidate]; ok {
		return candidate
	}
	return value
}

// NormalizeProfileValue routes one profile field through the coercion
// appropriate for it. GPA values are stored as given even when a scale
// is set alongside; cross-scale conversion is the caller's concern.
func NormalizeProfileValue(field string, value interface{}) interface{} {
	if _, ok := numericProfileFields[field]; ok {
		return NormalizeNumeric(value)
	}
	if _, ok := listProfileFields[field]; ok {
		return NormalizeList(value)
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return value
}

func argString(args map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if raw, ok := args[key]; ok {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
