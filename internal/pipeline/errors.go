package pipeline

import "fmt"

// ParseError reports a time-range input that could not be parsed as an
// RFC 3339 timestamp.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
