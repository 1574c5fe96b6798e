package coerce

import "fmt"

// CoercionError reports one raw value that could not be converted to its
// declared type. Index is the offending element position for sequence
// parameters and -1 for scalars.
type CoercionError struct {
	Param  string
	Reason string
	Index  int
}

func (e *CoercionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("coerce: parameter %q element %d: %s", e.Param, e.Index, e.Reason)
	}
	return fmt.Sprintf("coerce: parameter %q: %s", e.Param, e.Reason)
}

func scalarErr(param, reason string) *CoercionError {
	return &CoercionError{Param: param, Reason: reason, Index: -1}
}
