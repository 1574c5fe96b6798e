package render

import (
	"sort"
	"strings"
)

// CallableFieldName is the hidden input naming the callable a page was
// rendered for. Submission handlers cross-check it against the target
// callable, so a stale or edited page cannot post into another form.
const CallableFieldName = "__callable"

// HiddenField is one hidden input emitted alongside the visible parameters.
type HiddenField struct {
	Name  string
	Value string
}

// RoutingFields builds the hidden values a form page carries so its
// submission can be routed back and verified: the callable field plus any
// caller-supplied extras. Empty extra names are dropped; extras cannot
// shadow the callable field.
func RoutingFields(callable string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(extra)+1)
	for name, value := range extra {
		if key := strings.TrimSpace(name); key != "" && key != CallableFieldName {
			out[key] = value
		}
	}
	out[CallableFieldName] = callable
	return out
}

// SortedHiddenFields normalises hidden fields for deterministic rendering.
// Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	out := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if key := strings.TrimSpace(name); key != "" {
			out = append(out, HiddenField{Name: key, Value: value})
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
