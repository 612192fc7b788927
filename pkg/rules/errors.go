package rules

import "fmt"

// ValidationError represents a single rule failure.
type ValidationError struct {
	Rule   string // Rule name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// AggregateError represents multiple rule failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}

// Check runs every rule against value and aggregates the failures.
// It returns nil when all rules pass.
func Check(value any, rs ...Rule) error {
	var errs []error
	for _, r := range rs {
		if err := r.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Rule:   r.Name(),
				Reason: err.Error(),
				Value:  value,
			})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
