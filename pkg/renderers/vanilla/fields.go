package vanilla

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-callform/pkg/render"
	"github.com/goliatone/go-callform/pkg/schema"
)

// fieldData flattens each parameter into the map the form template consumes.
// Values come from the options (a rejected submission being re-displayed)
// first, then from the widget default.
func fieldData(form *schema.FormSchema, options render.RenderOptions) []map[string]any {
	fields := make([]map[string]any, 0, len(form.Parameters))
	for _, param := range form.Parameters {
		fields = append(fields, oneField(param, options))
	}
	return fields
}

func oneField(param schema.Parameter, options render.RenderOptions) map[string]any {
	desc := param.Descriptor
	widget := param.Widget

	field := map[string]any{
		"name":       desc.Name,
		"id":         "cf-" + desc.Name,
		"label":      desc.Label,
		"kind":       string(widget.Kind),
		"required":   widget.Required,
		"allow_omit": widget.AllowOmit,
		"omit_name":  render.OmitFieldName(desc.Name),
		"help":       sanitizeHelp(desc.Help),
		"errors":     options.FieldErrors(desc.Name),
	}
	if desc.Placeholder != "" {
		field["placeholder"] = desc.Placeholder
	}

	switch widget.Kind {
	case schema.WidgetCheckbox:
		field["checked"] = scalarValue(param, options) == "true"
	case schema.WidgetSelect:
		field["choices"] = widget.Choices
		field["value"] = scalarValue(param, options)
	case schema.WidgetList:
		field["values"] = listValues(desc.Name, options)
		elementType := "text"
		if widget.Element != nil {
			elementType = inputType(widget.Element.Kind)
			if s := numberAttr(widget.Element.Step); s != "" {
				field["step"] = s
			}
		}
		field["element_type"] = elementType
	default:
		field["input_type"] = inputType(widget.Kind)
		field["value"] = scalarValue(param, options)
		if v := numberAttr(widget.Min); v != "" {
			field["min"] = v
		}
		if v := numberAttr(widget.Max); v != "" {
			field["max"] = v
		}
		if v := numberAttr(widget.Step); v != "" {
			field["step"] = v
		}
	}

	if widget.AllowOmit {
		field["omitted"] = omitRequested(desc.Name, options)
	}
	return field
}

func inputType(kind schema.WidgetKind) string {
	switch kind {
	case schema.WidgetNumber:
		return "number"
	case schema.WidgetFile:
		return "file"
	default:
		return "text"
	}
}

// scalarValue resolves the displayed control value: submitted value first,
// widget default second.
func scalarValue(param schema.Parameter, options render.RenderOptions) string {
	if v := options.Value(param.Descriptor.Name); v != nil {
		return fmt.Sprint(v)
	}
	return param.Widget.Default
}

func listValues(name string, options render.RenderOptions) []string {
	switch v := options.Value(name).(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func omitRequested(name string, options render.RenderOptions) bool {
	v := options.Value(render.OmitFieldName(name))
	return v != nil && fmt.Sprint(v) == "true"
}

func numberAttr(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'g', -1, 64)
}
