package schema

import (
	"fmt"
	"strings"
)

// WidgetResolver maps a descriptor to its widget. pkg/widgets provides the
// default implementation; the indirection keeps this package free of a
// dependency on the matcher registry.
type WidgetResolver interface {
	Resolve(ParameterDescriptor) WidgetSpec
}

// SchemaBuildError reports an unrepresentable callable signature. It is fatal
// for that callable's registration and aimed at the application author, not
// the end user.
type SchemaBuildError struct {
	Callable string
	Reason   string
}

func (e *SchemaBuildError) Error() string {
	return fmt.Sprintf("schema: cannot build form for %q: %s", e.Callable, e.Reason)
}

// Build composes introspected descriptors and widget resolution into an
// immutable FormSchema. It fails when no representable parameters remain or
// when two parameters collide on name.
func Build(name, summary string, descriptors []ParameterDescriptor, resolver WidgetResolver) (*FormSchema, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &SchemaBuildError{Callable: name, Reason: "callable name is empty"}
	}
	if resolver == nil {
		return nil, &SchemaBuildError{Callable: name, Reason: "widget resolver is nil"}
	}
	if len(descriptors) == 0 {
		return nil, &SchemaBuildError{Callable: name, Reason: "no representable parameters"}
	}

	seen := make(map[string]struct{}, len(descriptors))
	parameters := make([]Parameter, 0, len(descriptors))
	for _, desc := range descriptors {
		if desc.Name == "" {
			return nil, &SchemaBuildError{Callable: name, Reason: "parameter with empty name"}
		}
		if _, dup := seen[desc.Name]; dup {
			return nil, &SchemaBuildError{
				Callable: name,
				Reason:   fmt.Sprintf("duplicate parameter %q", desc.Name),
			}
		}
		seen[desc.Name] = struct{}{}

		if desc.Label == "" {
			desc.Label = DefaultLabeler(desc.Name)
		}
		parameters = append(parameters, Parameter{
			Descriptor: desc,
			Widget:     resolver.Resolve(desc),
		})
	}

	return &FormSchema{
		Name:       name,
		Title:      TitleFromName(name),
		Summary:    summary,
		Parameters: parameters,
	}, nil
}
