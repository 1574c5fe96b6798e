package uihints

import "github.com/goliatone/go-callform/pkg/schema"

// Apply returns a copy of form with the store's hints overlaid. Only
// presentation fields change; parameters, types and widgets pass through
// untouched. When the store has no hints for the callable, form is returned
// as-is.
func (s *Store) Apply(form *schema.FormSchema) *schema.FormSchema {
	if form == nil {
		return nil
	}
	hints, ok := s.Callable(form.Name)
	if !ok {
		return form
	}

	out := *form
	if hints.Form.Title != "" {
		out.Title = hints.Form.Title
	}
	if hints.Form.Summary != "" {
		out.Summary = hints.Form.Summary
	}

	if len(hints.Fields) > 0 {
		out.Parameters = make([]schema.Parameter, len(form.Parameters))
		copy(out.Parameters, form.Parameters)
		for i := range out.Parameters {
			cfg, ok := hints.Fields[out.Parameters[i].Descriptor.Name]
			if !ok {
				continue
			}
			if cfg.Label != "" {
				out.Parameters[i].Descriptor.Label = cfg.Label
			}
			if cfg.Help != "" {
				out.Parameters[i].Descriptor.Help = cfg.Help
			}
			if cfg.Placeholder != "" {
				out.Parameters[i].Descriptor.Placeholder = cfg.Placeholder
			}
		}
	}
	return &out
}
