package parser

import (
	"fmt"

	"github.com/brainfeed/brainfeed/pkg/lexer"
)

// SyntaxError reports source text that does not conform to the grammar. It
// carries the offending position and a description of what was expected
// there. Parsing stops at the first syntax error; there is no recovery.
type SyntaxError struct {
	Pos      lexer.Position
	Expected string
	Got      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Got)
}

// LiteralOverflowError reports a numeric literal that exceeds the int64
// value range. It is raised while the AST is built, not deferred to
// evaluation.
type LiteralOverflowError struct {
	Literal string
	Pos     lexer.Position
}

func (e *LiteralOverflowError) Error() string {
	return fmt.Sprintf("%s: integer literal %s overflows int64", e.Pos, e.Literal)
}
