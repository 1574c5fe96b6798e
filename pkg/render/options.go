package render

// OmitSuffix marks the companion control an HTML renderer emits next to an
// optional parameter. Submitting "<name>__omit" tells the host to treat the
// parameter as deliberately left without a value, which is different from
// submitting an empty string.
const OmitSuffix = "__omit"

// OmitFieldName returns the control name carrying the omit marker for a
// parameter.
func OmitFieldName(param string) string {
	return param + OmitSuffix
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the schema pipeline.
type RenderOptions struct {
	// Action is the URL the rendered form submits to. Renderers that have no
	// submission target (terminal prompts) ignore it.
	Action string
	// Method overrides the default POST submission method.
	Method string
	// Values pre-populates rendered controls keyed by parameter name, e.g.
	// when re-displaying a form after a rejected submission.
	Values map[string]any
	// Errors surfaces validation feedback keyed by parameter name, in the
	// shape SubmissionResult.ErrorsByParam produces.
	Errors map[string][]string
	// Hidden emits extra hidden inputs alongside the visible parameters.
	Hidden map[string]string
	// Theme and Variant select the visual theme for renderers that support
	// theming. Empty values mean the renderer's default.
	Theme   string
	Variant string
}

// Value returns the pre-populated value for a parameter, or nil.
func (o RenderOptions) Value(param string) any {
	if o.Values == nil {
		return nil
	}
	return o.Values[param]
}

// FieldErrors returns validation messages for a parameter, or nil.
func (o RenderOptions) FieldErrors(param string) []string {
	if o.Errors == nil {
		return nil
	}
	return o.Errors[param]
}

// HasErrors reports whether any parameter carries validation feedback.
func (o RenderOptions) HasErrors() bool {
	for _, msgs := range o.Errors {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}
