// Package lexer tokenizes brainfeed IR source text.
package lexer

import (
	"fmt"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	// Keywords
	TokLet TokenType = iota
	TokWhile
	TokIf

	// Literals and names
	TokIdent
	TokNumber
	TokChar

	// Operators
	TokAssign      // =
	TokPlusAssign  // +=
	TokMinusAssign // -=
	TokPlus        // +
	TokMinus       // -
	TokGreater     // >

	// Punctuation
	TokLBrace // {
	TokRBrace // }
	TokLParen // (
	TokRParen // )

	// Special
	TokIllegal
	TokEOF
)

func (t TokenType) String() string {
	switch t {
	case TokLet:
		return "'let'"
	case TokWhile:
		return "'while'"
	case TokIf:
		return "'if'"
	case TokIdent:
		return "identifier"
	case TokNumber:
		return "number"
	case TokChar:
		return "character literal"
	case TokAssign:
		return "'='"
	case TokPlusAssign:
		return "'+='"
	case TokMinusAssign:
		return "'-='"
	case TokPlus:
		return "'+'"
	case TokMinus:
		return "'-'"
	case TokGreater:
		return "'>'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokEOF:
		return "end of input"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Position is a line/column pair in the source text. Both are 1-based.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexeme. For TokNumber the Value holds the digits, for
// TokChar the single letter between the quotes, and for TokIdent the name.
// Illegal tokens keep the offending source text in Value so the parser can
// report it.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

var keywords = map[string]TokenType{
	"let":   TokLet,
	"while": TokWhile,
	"if":    TokIf,
}

type scanner struct {
	source string
	pos    int
	line   int
	col    int
}

func newScanner(source string) *scanner {
	return &scanner{
		source: source,
		line:   1,
		col:    1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) position() Position {
	return Position{Line: s.line, Column: s.col}
}

func (s *scanner) skipWhitespace() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Identifiers are a letter followed by letters or underscores. Digits are
// deliberately excluded, unlike most languages.
func isIdentTail(ch byte) bool {
	return isLetter(ch) || ch == '_'
}

func (s *scanner) scanIdentOrKeyword() Token {
	pos := s.position()
	start := s.pos

	s.advance()
	for !s.atEnd() && isIdentTail(s.peek()) {
		s.advance()
	}

	text := s.source[start:s.pos]
	if typ, ok := keywords[text]; ok {
		return Token{Type: typ, Value: text, Pos: pos}
	}

	return Token{Type: TokIdent, Value: text, Pos: pos}
}

func (s *scanner) scanNumber() Token {
	pos := s.position()
	start := s.pos

	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	return Token{Type: TokNumber, Value: s.source[start:s.pos], Pos: pos}
}

// scanChar scans a single-quoted character literal: exactly one ASCII letter
// between single quotes. Anything else between the quotes is an illegal token.
func (s *scanner) scanChar() Token {
	pos := s.position()
	start := s.pos

	s.advance() // consume opening '

	if s.atEnd() || !isLetter(s.peek()) {
		for !s.atEnd() && s.peek() != '\'' && s.peek() != '\n' {
			s.advance()
		}
		if !s.atEnd() && s.peek() == '\'' {
			s.advance()
		}
		return Token{Type: TokIllegal, Value: s.source[start:s.pos], Pos: pos}
	}

	letter := s.advance()

	if s.atEnd() || s.peek() != '\'' {
		return Token{Type: TokIllegal, Value: s.source[start:s.pos], Pos: pos}
	}
	s.advance() // consume closing '

	return Token{Type: TokChar, Value: string(letter), Pos: pos}
}

func (s *scanner) nextToken() Token {
	s.skipWhitespace()

	pos := s.position()

	if s.atEnd() {
		return Token{Type: TokEOF, Pos: pos}
	}

	ch := s.peek()

	switch ch {
	case '=':
		s.advance()
		return Token{Type: TokAssign, Value: "=", Pos: pos}
	case '+':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokPlusAssign, Value: "+=", Pos: pos}
		}
		return Token{Type: TokPlus, Value: "+", Pos: pos}
	case '-':
		s.advance()
		if !s.atEnd() && s.peek() == '=' {
			s.advance()
			return Token{Type: TokMinusAssign, Value: "-=", Pos: pos}
		}
		return Token{Type: TokMinus, Value: "-", Pos: pos}
	case '>':
		s.advance()
		return Token{Type: TokGreater, Value: ">", Pos: pos}
	case '{':
		s.advance()
		return Token{Type: TokLBrace, Value: "{", Pos: pos}
	case '}':
		s.advance()
		return Token{Type: TokRBrace, Value: "}", Pos: pos}
	case '(':
		s.advance()
		return Token{Type: TokLParen, Value: "(", Pos: pos}
	case ')':
		s.advance()
		return Token{Type: TokRParen, Value: ")", Pos: pos}
	case '\'':
		return s.scanChar()
	}

	if isDigit(ch) {
		return s.scanNumber()
	}

	if isLetter(ch) {
		return s.scanIdentOrKeyword()
	}

	s.advance()
	return Token{Type: TokIllegal, Value: string(ch), Pos: pos}
}

// Tokenize breaks source text into a slice of tokens. The slice always ends
// with a TokEOF token. Unrecognized input becomes TokIllegal tokens rather
// than an error here; the parser reports them with the surrounding context.
func Tokenize(source string) []Token {
	s := newScanner(source)
	var tokens []Token

	for {
		tok := s.nextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			return tokens
		}
	}
}
