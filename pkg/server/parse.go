package server

import (
	"net/url"

	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/schema"
)

// rawValues converts a decoded HTML form body into the raw value map the
// invocation pipeline consumes. Browser form semantics are normalised here:
//
//   - an unchecked checkbox is absent from the body, which means false
//   - the "<name>__omit" companion control marks an optional parameter as
//     deliberately left empty, so the parameter is dropped from the map
//   - an empty string for a non-required parameter means "use the default"
//   - repeated names become string slices for list widgets
func rawValues(values url.Values, form *schema.FormSchema) map[string]any {
	raw := make(map[string]any, len(form.Parameters))
	for _, param := range form.Parameters {
		desc := param.Descriptor
		widget := param.Widget

		if widget.AllowOmit && values.Get(render.OmitFieldName(desc.Name)) == "true" {
			continue
		}

		if widget.Kind == schema.WidgetCheckbox {
			raw[desc.Name] = values.Get(desc.Name) == "true"
			continue
		}

		submitted, present := values[desc.Name]
		if !present {
			continue
		}

		if widget.Kind == schema.WidgetList {
			items := make([]string, 0, len(submitted))
			for _, item := range submitted {
				if item != "" {
					items = append(items, item)
				}
			}
			if len(items) > 0 || desc.Required {
				raw[desc.Name] = items
			}
			continue
		}

		value := submitted[0]
		if value == "" && !desc.Required {
			continue
		}
		raw[desc.Name] = value
	}
	return raw
}

// resubmittedValues keeps what the user typed so a rejected form can be
// re-displayed without losing input.
func resubmittedValues(values url.Values, form *schema.FormSchema) map[string]any {
	out := make(map[string]any, len(values))
	for _, param := range form.Parameters {
		name := param.Descriptor.Name
		if submitted, ok := values[name]; ok && len(submitted) > 0 {
			if param.Widget.Kind == schema.WidgetList {
				out[name] = nonEmpty(submitted)
			} else {
				out[name] = submitted[0]
			}
		}
		omitName := render.OmitFieldName(name)
		if v := values.Get(omitName); v != "" {
			out[omitName] = v
		}
	}
	return out
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
