package query

import "time"

const dateWrapperKey = "$date"

// Generated pipelines carry timestamps as {"$date": "<ISO-8601>"} literals.
// The store needs native temporal values, so the layouts below are tried in
// order; a trailing Z and zone offsets are handled by RFC 3339, naive
// timestamps by the remaining layouts.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// SanitizeDates rewrites every {"$date": "<ISO-8601>"} wrapper in the
// pipeline into a time.Time. Unparseable wrappers are left untouched and all
// other values pass through unchanged, so the transform never fails and is
// idempotent on already-converted input.
func SanitizeDates(pipeline Pipeline) Pipeline {
	if pipeline == nil {
		return nil
	}
	out := make(Pipeline, len(pipeline))
	for i, stage := range pipeline {
		// A stage that is itself a wrapper would sanitize to a bare
		// time.Time; stages must stay maps, so keep it as-is.
		if m, ok := sanitizeValue(stage).(map[string]any); ok {
			out[i] = m
		} else {
			out[i] = stage
		}
	}
	return out
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if raw, ok := dateWrapperValue(val); ok {
			if ts, ok := parseTimestamp(raw); ok {
				return ts
			}
			return val
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}

func dateWrapperValue(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	raw, ok := m[dateWrapperKey]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
