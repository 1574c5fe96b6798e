// Package invoke runs the submission side of the pipeline: it binds a
// callable to its generated form schema, coerces one raw value map per
// submission, assembles the typed input and executes the callable.
//
// A Form never mutates its schema after construction; every Invoke builds a
// fresh input value seeded from the registered prototype, so concurrent
// submissions are safe as long as the callable itself is.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/goliatone/go-callform/pkg/coerce"
	"github.com/goliatone/go-callform/pkg/introspect"
	"github.com/goliatone/go-callform/pkg/log"
	"github.com/goliatone/go-callform/pkg/schema"
	"github.com/goliatone/go-callform/pkg/widgets"
)

// Option configures form construction.
type Option func(*config)

type config struct {
	summary    string
	registry   *widgets.Registry
	introspect []introspect.Option
}

// WithSummary sets the one-line description shown under the form title.
func WithSummary(summary string) Option {
	return func(c *config) {
		c.summary = summary
	}
}

// WithWidgetRegistry resolves widgets through a custom registry instead of
// the package default.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithIntrospectOptions forwards options to parameter introspection, e.g. a
// help source or an unsupported-field policy.
func WithIntrospectOptions(opts ...introspect.Option) Option {
	return func(c *config) {
		c.introspect = append(c.introspect, opts...)
	}
}

// Form binds one callable to the schema generated from its input struct.
type Form struct {
	schema    *schema.FormSchema
	inputType reflect.Type
	prototype reflect.Value
	call      func(context.Context, reflect.Value) (any, error)
}

// New builds a form for fn, deriving parameters from I's exported fields.
// The zero value of I supplies defaults; use NewWithDefaults to seed them
// from a populated prototype instead.
func New[I, O any](name string, fn func(context.Context, I) (O, error), opts ...Option) (*Form, error) {
	var prototype I
	return NewWithDefaults(name, prototype, fn, opts...)
}

// NewWithDefaults builds a form for fn with non-zero prototype fields
// exposed as parameter defaults.
func NewWithDefaults[I, O any](name string, prototype I, fn func(context.Context, I) (O, error), opts ...Option) (*Form, error) {
	cfg := config{registry: widgets.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	result, err := introspect.Struct(name, prototype, cfg.introspect...)
	if err != nil {
		return nil, err
	}
	for _, skipped := range result.Unsupported {
		log.Warnf("form %q: skipping parameter %q: %s", name, skipped.Name, skipped.Reason)
	}

	formSchema, err := schema.Build(name, cfg.summary, result.Parameters, cfg.registry)
	if err != nil {
		return nil, err
	}

	protoValue := reflect.ValueOf(prototype)
	return &Form{
		schema:    formSchema,
		inputType: protoValue.Type(),
		prototype: protoValue,
		call: func(ctx context.Context, input reflect.Value) (any, error) {
			return fn(ctx, input.Interface().(I))
		},
	}, nil
}

// Schema returns the generated form schema. Callers must treat it as
// read-only.
func (f *Form) Schema() *schema.FormSchema {
	return f.schema
}

// Name returns the callable's registered name.
func (f *Form) Name() string {
	return f.schema.Name
}

// Invoke validates raw against the schema and, when every parameter checks
// out, executes the callable. Validation collects every coercion failure but
// stops at the first missing required parameter; the callable runs only when
// no errors were found. A panic inside the callable is reported as an
// execution failure, not propagated.
func (f *Form) Invoke(ctx context.Context, raw map[string]any) *SubmissionResult {
	res := &SubmissionResult{
		ID:   uuid.NewString(),
		Form: f.schema.Name,
	}

	input := reflect.New(f.inputType).Elem()
	input.Set(f.prototype)

	var fieldErrs []FieldError
	for _, param := range f.schema.Parameters {
		desc := param.Descriptor
		rawValue, present := raw[desc.Name]
		if !present {
			if desc.HasDefault {
				if err := assignField(input, desc, desc.Default); err != nil {
					fieldErrs = append(fieldErrs, coercionFieldError(desc.Name, err))
				}
				continue
			}
			if desc.Type == schema.TagOptional {
				continue
			}
			if desc.Required {
				fieldErrs = append(fieldErrs, FieldError{
					Param:   desc.Name,
					Kind:    FieldErrorMissing,
					Message: fmt.Sprintf("missing required parameter %q (%s)", desc.Name, desc.Type),
					Index:   -1,
				})
				break
			}
			continue
		}

		value, err := coerce.Coerce(desc, rawValue)
		if err != nil {
			fieldErrs = append(fieldErrs, coercionFieldError(desc.Name, err))
			continue
		}
		if err := assignField(input, desc, value); err != nil {
			fieldErrs = append(fieldErrs, coercionFieldError(desc.Name, err))
		}
	}

	if len(fieldErrs) > 0 {
		res.Kind = ResultInvalid
		res.FieldErrors = fieldErrs
		return res
	}

	value, err := f.safeCall(ctx, input)
	if err != nil {
		log.Errorf("form %q: invocation failed: %v", f.schema.Name, err)
		res.Kind = ResultFailed
		res.Message = err.Error()
		return res
	}
	res.Kind = ResultSuccess
	res.Value = value
	return res
}

func (f *Form) safeCall(ctx context.Context, input reflect.Value) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f.call(ctx, input)
}

func coercionFieldError(param string, err error) FieldError {
	fe := FieldError{Param: param, Kind: FieldErrorCoercion, Message: err.Error(), Index: -1}
	var cerr *coerce.CoercionError
	if errors.As(err, &cerr) {
		fe.Message = cerr.Reason
		fe.Index = cerr.Index
	}
	return fe
}

// assignField writes a canonical coerced value onto the struct field the
// descriptor points at, converting to the field's concrete type.
func assignField(input reflect.Value, desc schema.ParameterDescriptor, value any) error {
	field := input.FieldByIndex(desc.FieldIndex)
	return assignValue(field, value, desc.Name)
}

func assignValue(field reflect.Value, value any, param string) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assignValue(elem.Elem(), value, param); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return assignError(param, field, value)
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt64(value)
		if !ok || field.OverflowInt(n) {
			return assignError(param, field, value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt64(value)
		if !ok || n < 0 || field.OverflowUint(uint64(n)) {
			return assignError(param, field, value)
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		fv, ok := asFloat64(value)
		if !ok {
			return assignError(param, field, value)
		}
		field.SetFloat(fv)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return assignError(param, field, value)
		}
		field.SetBool(b)
	case reflect.Slice:
		items, ok := value.([]any)
		if !ok {
			return assignError(param, field, value)
		}
		out := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := assignValue(out.Index(i), item, param); err != nil {
				return err
			}
		}
		field.Set(out)
	case reflect.Interface:
		if field.NumMethod() != 0 {
			return assignError(param, field, value)
		}
		field.Set(reflect.ValueOf(value))
	default:
		return assignError(param, field, value)
	}
	return nil
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func assignError(param string, field reflect.Value, value any) error {
	return &coerce.CoercionError{
		Param:  param,
		Reason: fmt.Sprintf("cannot assign %T to %s field", value, field.Type()),
		Index:  -1,
	}
}
