package introspect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// fieldTag is the parsed view of one struct field's `json` and `form` tags.
//
// Supported form tag entries:
//
//	form:"label=Max retries"     display label override
//	form:"help=..."              help text shown next to the widget
//	form:"placeholder=..."       input placeholder
//	form:"enum=red,enum=blue"    fixed choice set (repeat per choice)
//	form:"min=0,max=10,step=2"   numeric constraints
//	form:"default=5"             default in raw textual form
//	form:"path"                  treat a string parameter as a filesystem path
//	form:"required"              force the required flag
//	form:"-"                     exclude the field from the form
type fieldTag struct {
	name        string
	label       string
	help        string
	placeholder string
	defaultRaw  string
	hasDefault  bool
	enum        []string
	min         *float64
	max         *float64
	step        *float64
	required    bool
	path        bool
	skip        bool
	omitEmpty   bool
}

func parseFieldTags(field reflect.StructField) (fieldTag, error) {
	tag := fieldTag{name: field.Name}

	if jsonTag := field.Tag.Get("json"); jsonTag != "" {
		if jsonTag == "-" {
			tag.skip = true
			return tag, nil
		}
		name, rest, found := strings.Cut(jsonTag, ",")
		if name != "" {
			tag.name = name
		}
		if found && strings.Contains(rest, "omitempty") {
			tag.omitEmpty = true
		}
	}

	formTag := field.Tag.Get("form")
	if formTag == "" {
		return tag, nil
	}
	if formTag == "-" {
		tag.skip = true
		return tag, nil
	}

	for _, item := range strings.Split(formTag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !hasValue {
			switch key {
			case "required":
				tag.required = true
			case "path":
				tag.path = true
			case "":
			default:
				return tag, fmt.Errorf("introspect: field %s: unknown form tag entry %q", field.Name, key)
			}
			continue
		}

		switch key {
		case "label":
			tag.label = value
		case "help":
			tag.help = value
		case "placeholder":
			tag.placeholder = value
		case "default":
			tag.defaultRaw = value
			tag.hasDefault = true
		case "enum":
			tag.enum = append(tag.enum, value)
		case "min", "max", "step":
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return tag, fmt.Errorf("introspect: field %s: %s=%q is not numeric", field.Name, key, value)
			}
			switch key {
			case "min":
				tag.min = &parsed
			case "max":
				tag.max = &parsed
			case "step":
				tag.step = &parsed
			}
		default:
			return tag, fmt.Errorf("introspect: field %s: unknown form tag key %q", field.Name, key)
		}
	}

	if tag.min != nil && tag.max != nil && *tag.min > *tag.max {
		return tag, fmt.Errorf("introspect: field %s: min %v exceeds max %v", field.Name, *tag.min, *tag.max)
	}
	return tag, nil
}

// parseEnumChoices converts tag-declared choices into values typed to match
// the field kind, so later enum coercion compares by value equality.
func parseEnumChoices(field reflect.StructField, kind reflect.Kind, raw []string) ([]any, error) {
	choices := make([]any, 0, len(raw))
	for _, item := range raw {
		switch kind {
		case reflect.String:
			choices = append(choices, item)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			v, err := strconv.ParseInt(item, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("introspect: field %s: enum choice %q is not an integer", field.Name, item)
			}
			choices = append(choices, v)
		case reflect.Float32, reflect.Float64:
			v, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return nil, fmt.Errorf("introspect: field %s: enum choice %q is not a number", field.Name, item)
			}
			choices = append(choices, v)
		default:
			return nil, fmt.Errorf("introspect: field %s: enum is unsupported for kind %s", field.Name, kind)
		}
	}
	return choices, nil
}
