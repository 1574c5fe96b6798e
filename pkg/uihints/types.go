// Package uihints overlays presentation metadata onto generated schemas from
// JSON or YAML files, so labels and help text can be curated without touching
// the callables themselves. Hints are keyed by callable name and never change
// a schema's parameters, types or widgets.
package uihints

// FormConfig overrides form-level presentation.
type FormConfig struct {
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
}

// FieldConfig overrides the presentation of one parameter.
type FieldConfig struct {
	Label       string `json:"label" yaml:"label"`
	Help        string `json:"help" yaml:"help"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
}

// Callable holds every hint declared for one callable.
type Callable struct {
	Name   string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// Store indexes hints by callable name. Build one with LoadFS; the zero
// value is an empty store.
type Store struct {
	callables map[string]Callable
}

// Callable returns the hints for the supplied callable name.
func (s *Store) Callable(name string) (Callable, bool) {
	if s == nil {
		return Callable{}, false
	}
	c, ok := s.callables[name]
	return c, ok
}

// Empty reports whether the store holds any hints.
func (s *Store) Empty() bool {
	return s == nil || len(s.callables) == 0
}

// ParameterHelp satisfies the introspection help-source contract: it returns
// the curated help text for a parameter, or empty when none is declared.
func (s *Store) ParameterHelp(callable, parameter string) string {
	c, ok := s.Callable(callable)
	if !ok {
		return ""
	}
	return c.Fields[parameter].Help
}
