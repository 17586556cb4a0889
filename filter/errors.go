package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Position   int // -1 if position is unknown
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated for a page
	EvaluationError struct {
		Expression string
		PageTitle  string
		Reason     string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("compilation error at position %d in '%s': %s", e.Position, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for filter '%s' on page '%s': %s", e.Expression, e.PageTitle, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// newCompilationError extracts the position from an expr error when it has one
func newCompilationError(expression string, err error) *CompilationError {
	compErr := &CompilationError{Expression: expression, Reason: err.Error(), Position: -1, Err: err}

	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		compErr.Reason = fileErr.Message
		compErr.Position = fileErr.Column
	}
	return compErr
}
