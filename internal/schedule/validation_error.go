package schedule

import "fmt"

// ValidationError is a structural problem in the specification. It is
// fatal: no schedule is returned when validation fails.
type ValidationError struct {
	FieldPath string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldPath, e.Message)
}

func newValidationError(fieldPath, format string, args ...any) *ValidationError {
	return &ValidationError{FieldPath: fieldPath, Message: fmt.Sprintf(format, args...)}
}
