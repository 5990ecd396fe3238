package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brainfeed/brainfeed/pkg/lexer"
)

func types(tokens []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenizeStatement(t *testing.T) {
	tokens := lexer.Tokenize("let x = 3 + 4 > 2")

	require.Equal(t, []lexer.TokenType{
		lexer.TokLet,
		lexer.TokIdent,
		lexer.TokAssign,
		lexer.TokNumber,
		lexer.TokPlus,
		lexer.TokNumber,
		lexer.TokGreater,
		lexer.TokNumber,
		lexer.TokEOF,
	}, types(tokens))

	require.Equal(t, "x", tokens[1].Value)
	require.Equal(t, "3", tokens[3].Value)
	require.Equal(t, "4", tokens[5].Value)
	require.Equal(t, "2", tokens[7].Value)
}

func TestTokenizeCompoundAssign(t *testing.T) {
	tokens := lexer.Tokenize("x += 1 y -= 2")

	require.Equal(t, []lexer.TokenType{
		lexer.TokIdent,
		lexer.TokPlusAssign,
		lexer.TokNumber,
		lexer.TokIdent,
		lexer.TokMinusAssign,
		lexer.TokNumber,
		lexer.TokEOF,
	}, types(tokens))
}

func TestTokenizePlusWithoutEquals(t *testing.T) {
	tokens := lexer.Tokenize("x + = 1")

	require.Equal(t, []lexer.TokenType{
		lexer.TokIdent,
		lexer.TokPlus,
		lexer.TokAssign,
		lexer.TokNumber,
		lexer.TokEOF,
	}, types(tokens))
}

func TestTokenizeKeywords(t *testing.T) {
	tokens := lexer.Tokenize("let while if lettuce whiles iffy")

	require.Equal(t, []lexer.TokenType{
		lexer.TokLet,
		lexer.TokWhile,
		lexer.TokIf,
		lexer.TokIdent,
		lexer.TokIdent,
		lexer.TokIdent,
		lexer.TokEOF,
	}, types(tokens))
}

func TestTokenizeIdentifiers(t *testing.T) {
	tokens := lexer.Tokenize("foo_bar x")

	require.Equal(t, lexer.TokIdent, tokens[0].Type)
	require.Equal(t, "foo_bar", tokens[0].Value)
	require.Equal(t, lexer.TokIdent, tokens[1].Type)
	require.Equal(t, "x", tokens[1].Value)
}

// Identifiers do not contain digits, so "x1" splits into a name and a number.
func TestTokenizeIdentifierStopsAtDigit(t *testing.T) {
	tokens := lexer.Tokenize("x1")

	require.Equal(t, []lexer.TokenType{
		lexer.TokIdent,
		lexer.TokNumber,
		lexer.TokEOF,
	}, types(tokens))
	require.Equal(t, "x", tokens[0].Value)
	require.Equal(t, "1", tokens[1].Value)
}

func TestTokenizeCharLiteral(t *testing.T) {
	tokens := lexer.Tokenize("'a' 'Z'")

	require.Equal(t, lexer.TokChar, tokens[0].Type)
	require.Equal(t, "a", tokens[0].Value)
	require.Equal(t, lexer.TokChar, tokens[1].Type)
	require.Equal(t, "Z", tokens[1].Value)
}

func TestTokenizeBadCharLiterals(t *testing.T) {
	for _, source := range []string{"'ab'", "'1'", "''", "'a", "'"} {
		tokens := lexer.Tokenize(source)
		require.Equal(t, lexer.TokIllegal, tokens[0].Type, "source %q", source)
	}
}

func TestTokenizeIllegal(t *testing.T) {
	tokens := lexer.Tokenize("let x ~ 1")

	require.Equal(t, []lexer.TokenType{
		lexer.TokLet,
		lexer.TokIdent,
		lexer.TokIllegal,
		lexer.TokNumber,
		lexer.TokEOF,
	}, types(tokens))
	require.Equal(t, "~", tokens[2].Value)
}

func TestTokenizePositions(t *testing.T) {
	tokens := lexer.Tokenize("let x = 1\n  x += 2")

	require.Equal(t, lexer.Position{Line: 1, Column: 1}, tokens[0].Pos)
	require.Equal(t, lexer.Position{Line: 1, Column: 5}, tokens[1].Pos)
	require.Equal(t, lexer.Position{Line: 1, Column: 7}, tokens[2].Pos)
	require.Equal(t, lexer.Position{Line: 1, Column: 9}, tokens[3].Pos)
	require.Equal(t, lexer.Position{Line: 2, Column: 3}, tokens[4].Pos)
	require.Equal(t, lexer.Position{Line: 2, Column: 5}, tokens[5].Pos)
}

func TestTokenizeEmpty(t *testing.T) {
	tokens := lexer.Tokenize("")

	require.Len(t, tokens, 1)
	require.Equal(t, lexer.TokEOF, tokens[0].Type)

	tokens = lexer.Tokenize("   \n\t  ")
	require.Len(t, tokens, 1)
	require.Equal(t, lexer.TokEOF, tokens[0].Type)
}

func TestPositionString(t *testing.T) {
	require.Equal(t, "3:14", lexer.Position{Line: 3, Column: 14}.String())
}
