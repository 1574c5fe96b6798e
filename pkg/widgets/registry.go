// Package widgets maps parameter descriptors onto the closed set of abstract
// widget kinds. Resolution is deterministic: equal descriptors always resolve
// to equal specs. Built-in rules cover the full type-tag taxonomy in a fixed
// first-match-wins order; callers can register additional rules with a higher
// priority to override them.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-callform/pkg/coerce"
	"github.com/goliatone/go-callform/pkg/schema"
)

// Rule builds a widget spec for descriptors it recognises. It returns false
// to pass resolution on to the next rule.
type Rule func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool)

type entry struct {
	name     string
	priority int
	rule     Rule
	order    int
}

// Registry resolves widgets through prioritised rules. Higher priority wins;
// ties fall back to registration order. The built-in rules always resolve, so
// Resolve never fails; the final fallback is a free-text box.
type Registry struct {
	mu    sync.RWMutex
	rules []entry
}

// NewRegistry constructs a registry with the built-in rules registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a rule under the provided name and priority. Built-in rules
// occupy priorities 20-80; register above 80 to pre-empt them.
func (r *Registry) Register(name string, priority int, rule Rule) {
	if r == nil || rule == nil || strings.TrimSpace(name) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, entry{
		name:     strings.TrimSpace(name),
		priority: priority,
		rule:     rule,
		order:    len(r.rules),
	})
}

// Resolve returns exactly one widget spec for the descriptor. Equal
// descriptors yield equal specs.
func (r *Registry) Resolve(desc schema.ParameterDescriptor) schema.WidgetSpec {
	r.mu.RLock()
	rules := append([]entry(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, e := range rules {
		if spec, ok := e.rule(desc); ok {
			return spec
		}
	}
	return base(desc, schema.WidgetText)
}

var defaultRegistry = NewRegistry()

// Resolve resolves the descriptor against the default registry. It is the
// standalone entry point for custom renderers.
func Resolve(desc schema.ParameterDescriptor) schema.WidgetSpec {
	return defaultRegistry.Resolve(desc)
}

// Default returns the shared registry backing the package-level Resolve.
func Default() *Registry {
	return defaultRegistry
}

// Built-in rule names, exported so callers can reason about overrides.
const (
	RuleCheckbox = "checkbox"
	RuleSelect   = "select"
	RuleBounded  = "bounded-number"
	RuleNumber   = "number"
	RuleList     = "list"
	RuleFile     = "file"
	RuleOptional = "optional"
)

func (r *Registry) registerBuiltins() {
	r.Register(RuleCheckbox, 80, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if desc.Type != schema.TagBoolean {
			return schema.WidgetSpec{}, false
		}
		return base(desc, schema.WidgetCheckbox), true
	})

	r.Register(RuleSelect, 70, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if desc.Type != schema.TagEnum {
			return schema.WidgetSpec{}, false
		}
		spec := base(desc, schema.WidgetSelect)
		spec.Choices = make([]string, len(desc.Enum))
		for i, choice := range desc.Enum {
			spec.Choices[i] = coerce.Format(desc, choice)
		}
		return spec, true
	})

	r.Register(RuleBounded, 60, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if !isNumeric(desc.Type) || !desc.Bounded() {
			return schema.WidgetSpec{}, false
		}
		spec := base(desc, schema.WidgetNumber)
		spec.Min = desc.Min
		spec.Max = desc.Max
		spec.Step = numberStep(desc)
		return spec, true
	})

	r.Register(RuleNumber, 50, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if !isNumeric(desc.Type) {
			return schema.WidgetSpec{}, false
		}
		spec := base(desc, schema.WidgetNumber)
		spec.Step = numberStep(desc)
		return spec, true
	})

	r.Register(RuleList, 40, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if desc.Type != schema.TagSequence || desc.Element == nil {
			return schema.WidgetSpec{}, false
		}
		spec := base(desc, schema.WidgetList)
		elem := r.Resolve(*desc.Element)
		spec.Element = &elem
		return spec, true
	})

	r.Register(RuleFile, 30, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if desc.Type != schema.TagPath {
			return schema.WidgetSpec{}, false
		}
		return base(desc, schema.WidgetFile), true
	})

	r.Register(RuleOptional, 20, func(desc schema.ParameterDescriptor) (schema.WidgetSpec, bool) {
		if desc.Type != schema.TagOptional || desc.Element == nil {
			return schema.WidgetSpec{}, false
		}
		inner := *desc.Element
		inner.Name = desc.Name
		spec := r.Resolve(inner)
		spec.Required = false
		spec.AllowOmit = true
		if desc.HasDefault {
			spec.Default = coerce.Format(desc, desc.Default)
		}
		return spec, true
	})
}

func base(desc schema.ParameterDescriptor, kind schema.WidgetKind) schema.WidgetSpec {
	spec := schema.WidgetSpec{
		Kind:     kind,
		Required: desc.Required,
	}
	if desc.HasDefault {
		spec.Default = coerce.Format(desc, desc.Default)
	}
	return spec
}

func isNumeric(tag schema.TypeTag) bool {
	return tag == schema.TagInteger || tag == schema.TagFloat
}

func numberStep(desc schema.ParameterDescriptor) *float64 {
	if desc.Step != nil {
		return desc.Step
	}
	if desc.Type == schema.TagInteger {
		one := 1.0
		return &one
	}
	return nil
}
