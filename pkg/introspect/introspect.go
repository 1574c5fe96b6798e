// Package introspect extracts ordered parameter descriptors from a callable's
// input struct. The module-wide callable shape is
//
//	func(context.Context, I) (O, error)
//
// where I is a struct whose exported fields are the form parameters. Field
// declaration order becomes parameter order; `json` and `form` tags carry the
// metadata a signature cannot express (names, help text, enum choices,
// numeric bounds). Defaults come from a prototype value of I supplied at
// registration, or from a `form:"default=..."` tag.
//
// Introspection is a pure read of type metadata: it never invokes the
// callable and has no side effects.
package introspect

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-callform/pkg/coerce"
	"github.com/goliatone/go-callform/pkg/schema"
)

// UnsupportedPolicy decides what happens when a field cannot be represented
// as a discrete form parameter (maps, channels, funcs, nested structs).
type UnsupportedPolicy int

const (
	// RejectCallable fails introspection when any field is unrepresentable.
	RejectCallable UnsupportedPolicy = iota
	// SkipParameter drops unrepresentable fields but reports them in the
	// result, so the exclusion is never silent.
	SkipParameter
)

// UnsupportedParameter names a field that was excluded and why.
type UnsupportedParameter struct {
	Name   string
	Reason string
}

// UnsupportedParameterError reports an unrepresentable field under the
// RejectCallable policy.
type UnsupportedParameterError struct {
	Callable string
	Param    string
	Reason   string
}

func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("introspect: callable %q parameter %q: %s", e.Callable, e.Param, e.Reason)
}

// HelpSource supplies help text for parameters whose tags carry none. No
// particular documentation convention is mandated; applications plug in
// whatever source they keep their docs in.
type HelpSource interface {
	// ParameterHelp returns help text for one parameter, or "" when unknown.
	ParameterHelp(callable, parameter string) string
}

// Option configures introspection.
type Option func(*config)

type config struct {
	policy UnsupportedPolicy
	help   HelpSource
}

// WithUnsupportedPolicy selects how unrepresentable fields are handled.
func WithUnsupportedPolicy(policy UnsupportedPolicy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// WithHelpSource plugs in a fallback source of parameter help text.
func WithHelpSource(source HelpSource) Option {
	return func(cfg *config) {
		if source != nil {
			cfg.help = source
		}
	}
}

// Result carries the ordered descriptors plus any fields excluded under the
// SkipParameter policy.
type Result struct {
	Parameters  []schema.ParameterDescriptor
	Unsupported []UnsupportedParameter
}

// Struct introspects the prototype's struct type into parameter descriptors.
// The prototype also supplies defaults: any field holding a non-zero value
// becomes an optional parameter with that default.
func Struct(callable string, prototype any, opts ...Option) (Result, error) {
	cfg := config{policy: RejectCallable}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	value := reflect.ValueOf(prototype)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			value = reflect.New(value.Type().Elem()).Elem()
			continue
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return Result{}, &schema.SchemaBuildError{
			Callable: callable,
			Reason:   fmt.Sprintf("input must be a struct, got %s", value.Kind()),
		}
	}

	var result Result
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, err := parseFieldTags(field)
		if err != nil {
			return Result{}, err
		}
		if tag.skip {
			continue
		}

		desc, reason, err := descriptorFor(field, value.Field(i), tag)
		if err != nil {
			return Result{}, err
		}
		if reason != "" {
			if cfg.policy == RejectCallable {
				return Result{}, &UnsupportedParameterError{
					Callable: callable,
					Param:    tag.name,
					Reason:   reason,
				}
			}
			result.Unsupported = append(result.Unsupported, UnsupportedParameter{
				Name:   tag.name,
				Reason: reason,
			})
			continue
		}

		if desc.Help == "" && cfg.help != nil {
			desc.Help = cfg.help.ParameterHelp(callable, desc.Name)
		}
		result.Parameters = append(result.Parameters, desc)
	}

	return result, nil
}

// descriptorFor builds one descriptor. A non-empty reason string marks the
// field unrepresentable; an error aborts introspection outright (bad tags).
func descriptorFor(field reflect.StructField, value reflect.Value, tag fieldTag) (schema.ParameterDescriptor, string, error) {
	if field.Anonymous {
		return schema.ParameterDescriptor{}, "embedded fields cannot be form parameters", nil
	}

	desc := schema.ParameterDescriptor{
		Name:        tag.name,
		Label:       tag.label,
		Help:        tag.help,
		Placeholder: tag.placeholder,
		Min:         tag.min,
		Max:         tag.max,
		Step:        tag.step,
		FieldIndex:  field.Index,
	}

	fieldType := field.Type
	optional := fieldType.Kind() == reflect.Pointer
	if optional {
		fieldType = fieldType.Elem()
		if fieldType.Kind() == reflect.Pointer {
			return desc, "nested pointers cannot be form parameters", nil
		}
	}

	typeTag, elem, reason := tagForType(fieldType, tag)
	if reason != "" {
		return desc, reason, nil
	}
	desc.Type = typeTag
	desc.Element = elem

	if len(tag.enum) > 0 {
		switch typeTag {
		case schema.TagString, schema.TagInteger, schema.TagFloat:
			choices, err := parseEnumChoices(field, fieldType.Kind(), tag.enum)
			if err != nil {
				return desc, "", err
			}
			desc.Type = schema.TagEnum
			desc.Enum = choices
		case schema.TagSequence:
			// The choice set applies to each element of the sequence.
			choices, err := parseEnumChoices(field, fieldType.Elem().Kind(), tag.enum)
			if err != nil {
				return desc, "", err
			}
			desc.Element.Type = schema.TagEnum
			desc.Element.Enum = choices
		default:
			return desc, "", fmt.Errorf("introspect: field %s: enum declared on non-scalar type", field.Name)
		}
	}

	if optional {
		inner := desc
		inner.Element = elem
		desc = schema.ParameterDescriptor{
			Name:        desc.Name,
			Type:        schema.TagOptional,
			Label:       desc.Label,
			Help:        desc.Help,
			Placeholder: desc.Placeholder,
			Element:     &inner,
			FieldIndex:  field.Index,
		}
	}

	if err := applyDefault(&desc, value, tag); err != nil {
		return desc, "", err
	}

	desc.Required = !desc.HasDefault && desc.Type != schema.TagOptional
	if tag.required {
		desc.Required = true
	}
	if tag.omitEmpty && desc.Type != schema.TagOptional && !desc.HasDefault {
		// omitempty marks the parameter optional with its zero value.
		desc.Default = zeroDefault(desc.Type)
		desc.HasDefault = true
		desc.Required = tag.required
	}

	if desc.Type == schema.TagEnum && desc.HasDefault {
		if !enumContains(desc.Enum, desc.Default) {
			return desc, "", fmt.Errorf("introspect: field %s: default %v is not an allowed choice", field.Name, desc.Default)
		}
	}

	return desc, "", nil
}

func tagForType(t reflect.Type, tag fieldTag) (schema.TypeTag, *schema.ParameterDescriptor, string) {
	switch t.Kind() {
	case reflect.String:
		if tag.path {
			return schema.TagPath, nil, ""
		}
		return schema.TagString, nil, ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return schema.TagInteger, nil, ""
	case reflect.Float32, reflect.Float64:
		return schema.TagFloat, nil, ""
	case reflect.Bool:
		return schema.TagBoolean, nil, ""
	case reflect.Slice, reflect.Array:
		elemTag, nested, reason := tagForType(t.Elem(), fieldTag{path: tag.path})
		if reason != "" {
			return "", nil, reason
		}
		if nested != nil || elemTag == schema.TagSequence {
			return "", nil, "nested sequences cannot be form parameters"
		}
		elem := &schema.ParameterDescriptor{
			Type: elemTag,
			Min:  tag.min,
			Max:  tag.max,
		}
		return schema.TagSequence, elem, ""
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return schema.TagAny, nil, ""
		}
		return "", nil, fmt.Sprintf("interface type %s cannot be a form parameter", t)
	default:
		return "", nil, fmt.Sprintf("type %s cannot be a form parameter", t)
	}
}

func applyDefault(desc *schema.ParameterDescriptor, value reflect.Value, tag fieldTag) error {
	if tag.hasDefault {
		coerced, err := coerce.Coerce(defaultTarget(*desc), tag.defaultRaw)
		if err != nil {
			return fmt.Errorf("introspect: parameter %s: bad default: %w", desc.Name, err)
		}
		desc.Default = coerced
		desc.HasDefault = true
		return nil
	}

	if !value.IsValid() || value.IsZero() {
		return nil
	}
	canonical, ok := canonicalValue(value)
	if !ok {
		return nil
	}
	desc.Default = canonical
	desc.HasDefault = true
	return nil
}

// defaultTarget strips the optional wrapper so tag defaults coerce as the
// inner scalar.
func defaultTarget(desc schema.ParameterDescriptor) schema.ParameterDescriptor {
	if desc.Type == schema.TagOptional && desc.Element != nil {
		inner := *desc.Element
		inner.Name = desc.Name
		return inner
	}
	return desc
}

// canonicalValue converts a prototype field value into the canonical
// representation used by the coercer: int64, float64, string, bool, []any.
func canonicalValue(value reflect.Value) (any, bool) {
	switch value.Kind() {
	case reflect.String:
		return value.String(), true
	case reflect.Bool:
		return value.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(value.Uint()), true
	case reflect.Float32, reflect.Float64:
		return value.Float(), true
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, value.Len())
		for i := 0; i < value.Len(); i++ {
			item, ok := canonicalValue(value.Index(i))
			if !ok {
				return nil, false
			}
			out = append(out, item)
		}
		return out, true
	case reflect.Pointer:
		if value.IsNil() {
			return nil, false
		}
		return canonicalValue(value.Elem())
	case reflect.Interface:
		if value.IsNil() {
			return nil, false
		}
		return canonicalValue(value.Elem())
	default:
		return nil, false
	}
}

func zeroDefault(tag schema.TypeTag) any {
	switch tag {
	case schema.TagInteger:
		return int64(0)
	case schema.TagFloat:
		return float64(0)
	case schema.TagBoolean:
		return false
	case schema.TagSequence:
		return []any(nil)
	default:
		return ""
	}
}

func enumContains(choices []any, candidate any) bool {
	for _, choice := range choices {
		if choice == candidate {
			return true
		}
	}
	return false
}
