package schema

// TypeTag is the closed set of parameter type kinds the pipeline understands.
// Introspection maps arbitrary Go field types onto this set; everything the
// resolver and coercer do is driven by it.
type TypeTag string

const (
	TagString   TypeTag = "string"
	TagInteger  TypeTag = "integer"
	TagFloat    TypeTag = "float"
	TagBoolean  TypeTag = "boolean"
	TagEnum     TypeTag = "enum"
	TagSequence TypeTag = "sequence"
	TagOptional TypeTag = "optional"
	TagPath     TypeTag = "path"
	TagAny      TypeTag = "any"
)

// WidgetKind identifies an abstract input widget, independent of any
// rendering toolkit.
type WidgetKind string

const (
	WidgetText     WidgetKind = "text"
	WidgetNumber   WidgetKind = "number"
	WidgetCheckbox WidgetKind = "checkbox"
	WidgetSelect   WidgetKind = "select"
	WidgetList     WidgetKind = "list"
	WidgetFile     WidgetKind = "file"
)

// ParameterDescriptor is the structured record of one callable parameter.
// Descriptors are immutable once the schema holding them is built.
type ParameterDescriptor struct {
	Name        string  `json:"name"`
	Type        TypeTag `json:"type"`
	Label       string  `json:"label,omitempty"`
	Help        string  `json:"help,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`

	// Element describes the inner type for sequence-of-T and optional-T.
	Element *ParameterDescriptor `json:"element,omitempty"`

	Default    any  `json:"default,omitempty"`
	HasDefault bool `json:"hasDefault"`
	Required   bool `json:"required"`

	Enum []any    `json:"enum,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// FieldIndex locates the backing struct field for the invocation
	// pipeline, in reflect.StructField.Index form.
	FieldIndex []int `json:"-"`
}

// Bounded reports whether the descriptor declares at least one numeric bound.
func (d ParameterDescriptor) Bounded() bool {
	return d.Min != nil || d.Max != nil
}

// WidgetSpec is the resolved widget for one descriptor: a kind plus the
// kind-specific constraints a renderer needs. One spec per descriptor, 1:1.
type WidgetSpec struct {
	Kind     WidgetKind `json:"kind"`
	Required bool       `json:"required"`

	// Default holds the parameter default rendered to its raw string form,
	// used to prefill optional inputs and to implement reset-to-defaults.
	Default string `json:"default,omitempty"`

	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// Choices carries the allowed values, in string form, for select widgets.
	Choices []string `json:"choices,omitempty"`

	// Element is the widget used for each entry of a list widget.
	Element *WidgetSpec `json:"element,omitempty"`

	// AllowOmit marks widgets for optional-T parameters: the renderer must
	// offer an explicit omit affordance distinct from an empty value.
	AllowOmit bool `json:"allowOmit,omitempty"`
}

// Parameter pairs a descriptor with its resolved widget.
type Parameter struct {
	Descriptor ParameterDescriptor `json:"descriptor"`
	Widget     WidgetSpec          `json:"widget"`
}

// FormSchema is the ordered set of parameters for one callable, plus the
// callable's identity. Built once at registration, then shared read-only by
// renderers and the invocation pipeline; it is never mutated afterwards, so
// concurrent reads need no locking.
type FormSchema struct {
	Name       string      `json:"name"`
	Title      string      `json:"title,omitempty"`
	Summary    string      `json:"summary,omitempty"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter returns the schema entry for the named parameter.
func (s *FormSchema) Parameter(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Descriptor.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Names returns the parameter names in declared order.
func (s *FormSchema) Names() []string {
	names := make([]string, 0, len(s.Parameters))
	for _, p := range s.Parameters {
		names = append(names, p.Descriptor.Name)
	}
	return names
}
