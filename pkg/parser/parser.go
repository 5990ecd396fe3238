// Package parser builds the typed brainfeed IR AST from source text.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/brainfeed/brainfeed/pkg/lexer"
)

// Parse tokenizes source and parses it into a Program. It returns a
// *SyntaxError when the text does not conform to the grammar and a
// *LiteralOverflowError when a numeric literal exceeds int64.
func Parse(source string) (*Program, error) {
	p := &parser{tokens: lexer.Tokenize(source)}

	var stmts []Statement
	for p.peek() != lexer.TokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return &Program{Statements: stmts}, nil
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.TokenType {
	return p.current().Type
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ lexer.TokenType, expected string) (lexer.Token, error) {
	tok := p.current()
	if tok.Type != typ {
		return tok, p.errExpected(expected)
	}
	return p.advance(), nil
}

func (p *parser) errExpected(expected string) error {
	tok := p.current()
	return &SyntaxError{
		Pos:      tok.Pos,
		Expected: expected,
		Got:      describe(tok),
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokEOF:
		return "end of input"
	case lexer.TokIdent:
		return fmt.Sprintf("identifier %q", tok.Value)
	case lexer.TokNumber, lexer.TokChar, lexer.TokIllegal:
		return fmt.Sprintf("%q", tok.Value)
	default:
		return tok.Type.String()
	}
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.peek() {
	case lexer.TokLet:
		return p.parseDecl()
	case lexer.TokWhile:
		return p.parseWhile()
	case lexer.TokIf:
		return p.parseIf()
	case lexer.TokIdent:
		return p.parseAssignment()
	default:
		return nil, p.errExpected("a statement")
	}
}

func (p *parser) parseDecl() (Statement, error) {
	p.advance() // consume 'let'

	name, err := p.expect(lexer.TokIdent, "identifier after 'let'")
	if err != nil {
		return nil, err
	}

	stmt := &DeclStatement{Name: Identifier(name.Value)}

	if p.peek() == lexer.TokAssign {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = &expr
	}

	return stmt, nil
}

// parseAssignment handles the three statement forms that begin with a bare
// identifier; the operator token after the name selects among them.
func (p *parser) parseAssignment() (Statement, error) {
	name := Identifier(p.advance().Value)

	var op lexer.TokenType
	switch p.peek() {
	case lexer.TokAssign, lexer.TokPlusAssign, lexer.TokMinusAssign:
		op = p.advance().Type
	default:
		return nil, p.errExpected("'=', '+=', or '-=' after identifier")
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	switch op {
	case lexer.TokPlusAssign:
		return &AddAssignStatement{Name: name, Value: expr}, nil
	case lexer.TokMinusAssign:
		return &SubAssignStatement{Name: name, Value: expr}, nil
	default:
		return &AssignStatement{Name: name, Value: expr}, nil
	}
}

func (p *parser) parseWhile() (Statement, error) {
	p.advance() // consume 'while'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &WhileStatement{Condition: cond, Body: body}, nil
}

func (p *parser) parseIf() (Statement, error) {
	p.advance() // consume 'if'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &IfStatement{Condition: cond, Body: body}, nil
}

func (p *parser) parseBlock() ([]Statement, error) {
	if _, err := p.expect(lexer.TokLBrace, "'{'"); err != nil {
		return nil, err
	}

	var stmts []Statement
	for p.peek() != lexer.TokRBrace {
		if p.peek() == lexer.TokEOF {
			return nil, p.errExpected("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // consume '}'

	return stmts, nil
}

// parseExpr parses the flat operator chain. The leading term is required;
// each following +, -, or > token extends the chain with another term.
func (p *parser) parseExpr() (Expr, error) {
	first, err := p.parseTerm()
	if err != nil {
		return Expr{}, err
	}

	expr := Expr{First: first}

	for {
		var op Operator
		switch p.peek() {
		case lexer.TokPlus:
			op = OpAdd
		case lexer.TokMinus:
			op = OpSub
		case lexer.TokGreater:
			op = OpGreater
		default:
			return expr, nil
		}
		p.advance()

		term, err := p.parseTerm()
		if err != nil {
			return Expr{}, err
		}

		expr.Rest = append(expr.Rest, OpTerm{Op: op, Term: term})
	}
}

func (p *parser) parseTerm() (Term, error) {
	tok := p.current()

	switch tok.Type {
	case lexer.TokNumber:
		p.advance()
		value, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, &LiteralOverflowError{Literal: tok.Value, Pos: tok.Pos}
			}
			return nil, err
		}
		return &NumberTerm{Value: value}, nil
	case lexer.TokIdent:
		p.advance()
		return &VarTerm{Name: Identifier(tok.Value)}, nil
	case lexer.TokChar:
		p.advance()
		return &CharTerm{Letter: tok.Value[0]}, nil
	case lexer.TokLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen, "')'"); err != nil {
			return nil, err
		}
		return &ParenTerm{Expr: expr}, nil
	default:
		return nil, p.errExpected("an expression")
	}
}
