package schema

import internalschema "github.com/goliatone/go-callform/internal/schema"

// TypeTag re-exports the internal type tag enumeration.
type TypeTag = internalschema.TypeTag

const (
	TagString   = internalschema.TagString
	TagInteger  = internalschema.TagInteger
	TagFloat    = internalschema.TagFloat
	TagBoolean  = internalschema.TagBoolean
	TagEnum     = internalschema.TagEnum
	TagSequence = internalschema.TagSequence
	TagOptional = internalschema.TagOptional
	TagPath     = internalschema.TagPath
	TagAny      = internalschema.TagAny
)

// WidgetKind re-exports the internal widget kind enumeration.
type WidgetKind = internalschema.WidgetKind

const (
	WidgetText     = internalschema.WidgetText
	WidgetNumber   = internalschema.WidgetNumber
	WidgetCheckbox = internalschema.WidgetCheckbox
	WidgetSelect   = internalschema.WidgetSelect
	WidgetList     = internalschema.WidgetList
	WidgetFile     = internalschema.WidgetFile
)

type ParameterDescriptor = internalschema.ParameterDescriptor
type WidgetSpec = internalschema.WidgetSpec
type Parameter = internalschema.Parameter
type FormSchema = internalschema.FormSchema
type WidgetResolver = internalschema.WidgetResolver
type SchemaBuildError = internalschema.SchemaBuildError
type Labeler = internalschema.Labeler

// Build composes descriptors and widget resolution into a FormSchema.
func Build(name, summary string, descriptors []ParameterDescriptor, resolver WidgetResolver) (*FormSchema, error) {
	return internalschema.Build(name, summary, descriptors, resolver)
}

// DefaultLabeler converts a parameter name into a human-friendly label.
func DefaultLabeler(name string) string {
	return internalschema.DefaultLabeler(name)
}

// TitleFromName formats a callable identifier into a display title.
func TitleFromName(name string) string {
	return internalschema.TitleFromName(name)
}
