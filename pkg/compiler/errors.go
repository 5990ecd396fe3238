package compiler

import (
	"fmt"

	"github.com/brainfeed/brainfeed/pkg/parser"
)

// UndefinedVariableError reports a name with no cell in any enclosing
// block. The compiler resolves names statically, so this surfaces at
// compile time rather than at run time.
type UndefinedVariableError struct {
	Name parser.Identifier
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", string(e.Name))
}

// CellRangeError reports an integer literal too large for a u8 tape cell.
// The evaluator accepts the full int64 range; the Brainfuck backend does
// not.
type CellRangeError struct {
	Value int64
}

func (e *CellRangeError) Error() string {
	return fmt.Sprintf("literal %d exceeds cell range (0-255)", e.Value)
}
