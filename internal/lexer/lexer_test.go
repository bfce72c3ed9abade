package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/lithium/internal/source"
	"github.com/termfx/lithium/internal/token"
)

func lexAll(input string) []token.Token {
	m := source.NewMap()
	l := New(m.Add("test.li", input))
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Is(token.EOF) {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestSingleCharTokens(t *testing.T) {
	toks := lexAll("; : , ( ) { } [ ] . ?")
	exp := []token.Kind{
		token.Kind(';'), token.Kind(':'), token.Kind(','), token.Kind('('),
		token.Kind(')'), token.Kind('{'), token.Kind('}'), token.Kind('['),
		token.Kind(']'), token.Kind('.'), token.Kind('?'), token.EOF,
	}
	assert.Equal(t, exp, kinds(toks))
}

func TestTwoCharOperators(t *testing.T) {
	tests := []struct {
		input string
		exp   token.Kind
	}{
		{input: "==", exp: token.Eq},
		{input: "!=", exp: token.Ne},
		{input: "<=", exp: token.Le},
		{input: ">=", exp: token.Ge},
		{input: "&&", exp: token.And},
		{input: "||", exp: token.Or},
		{input: "++", exp: token.Inc},
		{input: "--", exp: token.Dec},
		{input: "+=", exp: token.PlusEq},
		{input: "-=", exp: token.MinusEq},
		{input: "*=", exp: token.StarEq},
		{input: "/=", exp: token.SlashEq},
		{input: "%=", exp: token.PercentEq},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.exp, toks[0].Kind)
			assert.Equal(t, tt.input, toks[0].Lexeme)
		})
	}
}

func TestKeywords(t *testing.T) {
	toks := lexAll("let const if else for foreach while fn return break continue class import assert delete true false null in")
	exp := []token.Kind{
		token.Let, token.Const, token.If, token.Else, token.For, token.Foreach,
		token.While, token.Fn, token.Return, token.Break, token.Continue,
		token.Class, token.Import, token.Assert, token.Delete, token.True,
		token.False, token.Null, token.In, token.EOF,
	}
	assert.Equal(t, exp, kinds(toks))
}

func TestIdentifiers(t *testing.T) {
	toks := lexAll("foo _bar baz42 letter")
	require.Len(t, toks, 5)
	for _, tok := range toks[:4] {
		assert.Equal(t, token.Ident, tok.Kind)
	}
	assert.Equal(t, "letter", toks[3].Lexeme)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		exp   string
	}{
		{input: "0", exp: "0"},
		{input: "42", exp: "42"},
		{input: "3.14", exp: "3.14"},
		{input: "10.0", exp: "10.0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := lexAll(tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, token.Number, toks[0].Kind)
			assert.Equal(t, tt.exp, toks[0].Lexeme)
		})
	}
}

// A '-' immediately followed by a digit begins a negative literal, so
// "a-1" lexes as the identifier and the number -1 with no operator.
func TestNegativeNumberLookahead(t *testing.T) {
	toks := lexAll("a-1")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Ident, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
	assert.Equal(t, "-1", toks[1].Lexeme)

	toks = lexAll("a - 1")
	require.Len(t, toks, 4)
	assert.Equal(t, token.Kind('-'), toks[1].Kind)

	toks = lexAll("-2.5")
	require.Len(t, toks, 2)
	assert.Equal(t, "-2.5", toks[0].Lexeme)
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		exp   string
	}{
		{name: "plain", input: `"hello"`, exp: "hello"},
		{name: "empty", input: `""`, exp: ""},
		{name: "escaped quote", input: `"a\"b"`, exp: `a"b`},
		{name: "escaped backslash", input: `"a\\b"`, exp: `a\b`},
		{name: "newline", input: `"a\nb"`, exp: "a\nb"},
		{name: "tab", input: `"a\tb"`, exp: "a\tb"},
		{name: "unknown escape passes through", input: `"a\qb"`, exp: "aqb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, token.String, toks[0].Kind)
			assert.Equal(t, tt.exp, toks[0].Lexeme)
		})
	}
}

func TestUnterminatedStringIsJunk(t *testing.T) {
	toks := lexAll(`"partial`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Junk, toks[0].Kind)
	assert.Equal(t, "partial", toks[0].Lexeme)
}

func TestUnknownCharIsJunk(t *testing.T) {
	toks := lexAll("@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Junk, toks[0].Kind)
	assert.Equal(t, "@", toks[0].Lexeme)
}

func TestCommentsAndWhitespace(t *testing.T) {
	toks := lexAll("let x # this is a comment\n= 1; # trailing")
	exp := []token.Kind{token.Let, token.Ident, token.Kind('='), token.Number, token.Kind(';'), token.EOF}
	assert.Equal(t, exp, kinds(toks))
}

func TestEOFIsSticky(t *testing.T) {
	m := source.NewMap()
	l := New(m.Add("test.li", "x"))
	l.Next()
	for i := 0; i < 3; i++ {
		tok := l.Next()
		assert.Equal(t, token.EOF, tok.Kind)
		assert.Equal(t, 1, tok.Range.Start.Offset)
	}
}

func TestTokenRangesWithinBuffer(t *testing.T) {
	input := "let x = 12 + \"ab\"; # comment\nfoo();"
	toks := lexAll(input)
	for _, tok := range toks[:len(toks)-1] {
		assert.GreaterOrEqual(t, tok.Range.Start.Offset, 0)
		assert.LessOrEqual(t, tok.Range.End.Offset, len(input))
		assert.LessOrEqual(t, tok.Range.Start.Offset, tok.Range.End.Offset)
	}
}

func TestTokenRangeCoversLexeme(t *testing.T) {
	toks := lexAll("  foobar  ")
	require.Len(t, toks, 2)
	assert.Equal(t, 2, toks[0].Range.Start.Offset)
	assert.Equal(t, 8, toks[0].Range.End.Offset)
}
