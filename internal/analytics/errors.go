package analytics

import "fmt"

// ValidationError reports request input rejected before any store call is
// made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ExecutionError reports a store transport or query failure. Queries are
// not retried: an aggregation is not known to be safe to re-issue blindly
// without knowing why it failed.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
