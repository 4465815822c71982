package calc

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExpression   = errors.New("empty expression")
	ErrExpressionTooLong = fmt.Errorf("expression longer than %d bytes", MaxExpressionLength)

	errUnsupported = errors.New("unsupported syntax")
)

// SyntaxError reports an expression that failed to parse or falls outside the arithmetic grammar.
type SyntaxError struct {
	Expression string
	Err        error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid expression %q: %v", e.Expression, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
