// Package coerce converts raw submitted values into the typed values a
// parameter declares. Raw values are whatever the rendering boundary
// collected: strings for text inputs, booleans from native checkboxes,
// string slices from multi-entry widgets.
//
// Coerced values use a canonical representation per type tag: string for
// string/path, int64 for integer, float64 for float, bool for boolean, the
// matching choice value for enum, []any for sequences and nil for an omitted
// optional. The invocation pipeline converts canonical values onto the
// concrete struct field types.
package coerce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-callform/pkg/schema"
)

// Omitted is the explicit marker a renderer submits when the user chose to
// leave an optional parameter without a value. It is distinct from an empty
// string, which coerces like any other text.
var Omitted = omitted{}

type omitted struct{}

// Coerce converts raw into the typed value declared by desc, or fails with a
// *CoercionError naming the parameter and the reason.
func Coerce(desc schema.ParameterDescriptor, raw any) (any, error) {
	switch desc.Type {
	case schema.TagString, schema.TagPath:
		return coerceString(desc, raw)
	case schema.TagInteger:
		return coerceInteger(desc, raw)
	case schema.TagFloat:
		return coerceFloat(desc, raw)
	case schema.TagBoolean:
		return coerceBoolean(desc, raw)
	case schema.TagEnum:
		return coerceEnum(desc, raw)
	case schema.TagSequence:
		return coerceSequence(desc, raw)
	case schema.TagOptional:
		return coerceOptional(desc, raw)
	case schema.TagAny:
		return raw, nil
	default:
		return nil, scalarErr(desc.Name, fmt.Sprintf("unsupported type tag %q", desc.Type))
	}
}

func coerceString(desc schema.ParameterDescriptor, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, scalarErr(desc.Name, fmt.Sprintf("expected text, got %T", raw))
	}
	return s, nil
}

func coerceInteger(desc schema.ParameterDescriptor, raw any) (any, error) {
	var value int64
	switch v := raw.(type) {
	case int:
		value = int64(v)
	case int64:
		value = v
	case float64:
		// Native number widgets deliver float64; accept integral values only.
		if v != float64(int64(v)) {
			return nil, scalarErr(desc.Name, "not a valid integer")
		}
		value = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, scalarErr(desc.Name, "not a valid integer")
		}
		value = parsed
	default:
		return nil, scalarErr(desc.Name, fmt.Sprintf("expected integer, got %T", raw))
	}
	if err := checkBounds(desc, float64(value)); err != nil {
		return nil, err
	}
	return value, nil
}

func coerceFloat(desc schema.ParameterDescriptor, raw any) (any, error) {
	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, scalarErr(desc.Name, "not a valid number")
		}
		value = parsed
	default:
		return nil, scalarErr(desc.Name, fmt.Sprintf("expected number, got %T", raw))
	}
	if err := checkBounds(desc, value); err != nil {
		return nil, err
	}
	return value, nil
}

func coerceBoolean(desc schema.ParameterDescriptor, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true", "1", "on":
			return true, nil
		case "false", "0", "off", "":
			return false, nil
		}
		return nil, scalarErr(desc.Name, fmt.Sprintf("not a valid boolean: %q", v))
	default:
		return nil, scalarErr(desc.Name, fmt.Sprintf("expected boolean, got %T", raw))
	}
}

// coerceEnum matches the raw value against the declared choice set by value
// equality. No case folding, no fuzzy matching.
func coerceEnum(desc schema.ParameterDescriptor, raw any) (any, error) {
	if len(desc.Enum) == 0 {
		return nil, scalarErr(desc.Name, "enum parameter declares no choices")
	}

	inner := desc
	inner.Type = enumBaseTag(desc)
	inner.Enum = nil
	candidate, err := Coerce(inner, raw)
	if err != nil {
		return nil, scalarErr(desc.Name, "not one of the allowed choices")
	}

	for _, choice := range desc.Enum {
		if choice == candidate {
			return candidate, nil
		}
	}
	return nil, scalarErr(desc.Name, fmt.Sprintf("%v is not one of the allowed choices", candidate))
}

func enumBaseTag(desc schema.ParameterDescriptor) schema.TypeTag {
	if len(desc.Enum) == 0 {
		return schema.TagString
	}
	switch desc.Enum[0].(type) {
	case int64:
		return schema.TagInteger
	case float64:
		return schema.TagFloat
	default:
		return schema.TagString
	}
}

// coerceSequence applies scalar coercion element-wise and fails on the first
// element that fails, reporting that element's index.
func coerceSequence(desc schema.ParameterDescriptor, raw any) (any, error) {
	if desc.Element == nil {
		return nil, scalarErr(desc.Name, "sequence parameter declares no element type")
	}

	var entries []any
	switch v := raw.(type) {
	case []string:
		entries = make([]any, len(v))
		for i, s := range v {
			entries[i] = s
		}
	case []any:
		entries = v
	case string:
		// A single entry submitted without list framing.
		entries = []any{v}
	default:
		return nil, scalarErr(desc.Name, fmt.Sprintf("expected a list, got %T", raw))
	}

	elem := *desc.Element
	elem.Name = desc.Name
	out := make([]any, 0, len(entries))
	for i, entry := range entries {
		value, err := Coerce(elem, entry)
		if err != nil {
			reason := err.Error()
			var cerr *CoercionError
			if errors.As(err, &cerr) {
				reason = cerr.Reason
			}
			return nil, &CoercionError{Param: desc.Name, Reason: reason, Index: i}
		}
		out = append(out, value)
	}
	return out, nil
}

// coerceOptional maps the explicit omitted marker to the absent state without
// invoking scalar coercion; any other value coerces as the inner type.
func coerceOptional(desc schema.ParameterDescriptor, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if _, isOmitted := raw.(omitted); isOmitted {
		return nil, nil
	}
	if desc.Element == nil {
		return nil, scalarErr(desc.Name, "optional parameter declares no inner type")
	}
	inner := *desc.Element
	inner.Name = desc.Name
	return Coerce(inner, raw)
}

// checkBounds enforces declared numeric bounds inclusively.
func checkBounds(desc schema.ParameterDescriptor, value float64) error {
	if desc.Min != nil && value < *desc.Min {
		return scalarErr(desc.Name, fmt.Sprintf("value %v below minimum %v", formatFloat(value), formatFloat(*desc.Min)))
	}
	if desc.Max != nil && value > *desc.Max {
		return scalarErr(desc.Name, fmt.Sprintf("value %v above maximum %v", formatFloat(value), formatFloat(*desc.Max)))
	}
	return nil
}

// Format renders a typed value back to the raw textual form a widget would
// prefill. For every scalar tag, Coerce(desc, Format(desc, v)) == v.
func Format(desc schema.ParameterDescriptor, v any) string {
	if v == nil {
		return ""
	}
	switch desc.Type {
	case schema.TagOptional:
		if desc.Element != nil {
			return Format(*desc.Element, v)
		}
		return fmt.Sprint(v)
	case schema.TagSequence:
		if desc.Element == nil {
			return fmt.Sprint(v)
		}
		items, ok := v.([]any)
		if !ok {
			return formatScalar(v)
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = Format(*desc.Element, item)
		}
		return strings.Join(parts, ",")
	default:
		return formatScalar(v)
	}
}

func formatScalar(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return formatFloat(value)
	case float32:
		return formatFloat(float64(value))
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
