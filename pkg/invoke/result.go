package invoke

import "fmt"

// ResultKind classifies the outcome of one invocation attempt.
type ResultKind string

const (
	// ResultSuccess carries the callable's return value.
	ResultSuccess ResultKind = "success"
	// ResultInvalid means validation stopped the invocation: missing
	// required parameters or coercion failures, all collected together.
	ResultInvalid ResultKind = "invalid"
	// ResultFailed means the callable itself failed during execution.
	ResultFailed ResultKind = "failed"
)

// FieldErrorKind distinguishes the user-facing validation failures.
type FieldErrorKind string

const (
	FieldErrorMissing  FieldErrorKind = "missing"
	FieldErrorCoercion FieldErrorKind = "coercion"
)

// FieldError is one validation failure attached to a named parameter. Index
// is the offending element for sequence parameters, -1 otherwise.
type FieldError struct {
	Param   string         `json:"param"`
	Kind    FieldErrorKind `json:"kind"`
	Message string         `json:"message"`
	Index   int            `json:"index"`
}

func (e FieldError) String() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s (element %d): %s", e.Param, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

// SubmissionResult packages the outcome of one invocation attempt. Results
// are request-scoped: created per submission, consumed once, never shared.
type SubmissionResult struct {
	ID   string     `json:"id"`
	Form string     `json:"form"`
	Kind ResultKind `json:"kind"`

	// Value is the callable's return value when Kind is ResultSuccess.
	Value any `json:"value,omitempty"`

	// Message carries the callable's failure text when Kind is ResultFailed.
	// The pipeline does not interpret the callable's failure taxonomy.
	Message string `json:"message,omitempty"`

	// FieldErrors holds every validation failure when Kind is ResultInvalid.
	// Parameter names are always a subset of the schema's parameter names.
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// OK reports whether the invocation succeeded.
func (r *SubmissionResult) OK() bool {
	return r != nil && r.Kind == ResultSuccess
}

// ErrorsByParam groups validation messages by parameter name, in the shape
// renderers consume when re-displaying the form.
func (r *SubmissionResult) ErrorsByParam() map[string][]string {
	if r == nil || len(r.FieldErrors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.FieldErrors))
	for _, fe := range r.FieldErrors {
		out[fe.Param] = append(out[fe.Param], fe.Message)
	}
	return out
}
