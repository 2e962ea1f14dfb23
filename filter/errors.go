package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

// CompilationError is returned when an expression does not compile to a
// boolean predicate over titles
type CompilationError struct {
	Expression string
	Reason     string
	// Column is the 1-based position reported by expr, or 0
	Column int
	Err    error
}

func newCompilationError(expression, reason string, err error) *CompilationError {
	e := &CompilationError{Expression: expression, Reason: reason, Err: err}

	var fileErr *file.Error
	if errors.As(err, &fileErr) && fileErr.Column >= 0 {
		e.Column = fileErr.Column + 1
	}
	return e
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("filter %q: %s", e.Expression, e.Reason)
	if e.Column > 0 {
		msg += fmt.Sprintf(" at column %d", e.Column)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// EvaluationError wraps a runtime failure of a compiled filter on one title
type EvaluationError struct {
	Expression string
	TitleID    int
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter %q on title %d: %v", e.Expression, e.TitleID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
