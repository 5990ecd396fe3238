package interpreter

import (
	"errors"
	"fmt"

	"github.com/brainfeed/brainfeed/pkg/parser"
)

// ErrExecutionLimit is returned when a configured step budget runs out. It
// is a host-level failure, not part of the language's own error taxonomy:
// the language itself places no bound on loop iterations.
var ErrExecutionLimit = errors.New("execution limit exceeded")

// UndefinedVariableError reports a reference, assignment, or compound
// assignment targeting a name with no current binding.
type UndefinedVariableError struct {
	Name parser.Identifier
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", string(e.Name))
}

// ArithmeticOverflowError reports an addition or subtraction step that
// exceeds the int64 value range.
type ArithmeticOverflowError struct {
	Op    parser.Operator
	Left  Value
	Right Value
}

func (e *ArithmeticOverflowError) Error() string {
	return fmt.Sprintf("arithmetic overflow: %d %s %d", e.Left, e.Op, e.Right)
}
