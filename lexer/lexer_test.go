package lexer

import (
	"testing"

	"rmc/token"
)

// Trivial test of the parsing of numbers and identifiers.
func TestParseNumbersAndIdents(t *testing.T) {
	input := `3 43 foo var123`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.NUMBER, "3"},
		{token.NUMBER, "43"},
		{token.IDENT, "foo"},
		{token.IDENT, "var123"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, _ := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// Trivial test of the parsing of operators, including their in-place
// ("op=") forms.
func TestParseOperators(t *testing.T) {
	input := `+ - * & | ^ += -= *= &= |= ^=`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.ASTERISK, "*"},
		{token.AMP, "&"},
		{token.PIPE, "|"},
		{token.CARET, "^"},
		{token.PLUS_ASSIGN, "+="},
		{token.MINUS_ASSIGN, "-="},
		{token.ASTERISK_ASSIGN, "*="},
		{token.AMP_ASSIGN, "&="},
		{token.PIPE_ASSIGN, "|="},
		{token.CARET_ASSIGN, "^="},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, _ := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// Trivial test of the equality operators.
func TestParseEquality(t *testing.T) {
	input := `== != < > <= >=`

	tests := []token.Type{token.EQ, token.NOT_EQ, token.LT, token.GT, token.LE, token.GE}
	l := New(input)
	for i, want := range tests {
		tok, _ := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, want, tok.Type)
		}
	}
}

// TestCallParen ensures a "(" directly after an identifier is a
// call-paren, but the same "(" with a space before it is a grouping
// paren.
func TestCallParen(t *testing.T) {
	l := New(`foo(1) foo (1)`)

	tok, _ := l.NextToken() // foo
	if tok.Type != token.IDENT {
		t.Fatalf("expected IDENT, got %q", tok.Type)
	}
	tok, _ = l.NextToken() // (
	if tok.Type != token.CALL_PAREN {
		t.Fatalf("expected CALL_PAREN, got %q", tok.Type)
	}
	tok, _ = l.NextToken() // 1
	tok, _ = l.NextToken() // )
	if tok.Type != token.RPAREN {
		t.Fatalf("expected RPAREN, got %q", tok.Type)
	}

	tok, _ = l.NextToken() // foo
	tok, _ = l.NextToken() // ( with a preceding space
	if tok.Type != token.LPAREN {
		t.Fatalf("expected LPAREN for a spaced paren, got %q", tok.Type)
	}
}

// TestParseBogus exercises invalid input.
func TestParseBogus(t *testing.T) {
	l := New(`@ 3`)

	tok, _ := l.NextToken()
	if tok.Type != token.ERROR {
		t.Fatalf("expected ERROR, got %q", tok.Type)
	}

	tok, _ = l.NextToken()
	if tok.Type != token.NUMBER || tok.Literal != "3" {
		t.Fatalf("expected NUMBER 3, got %q %q", tok.Type, tok.Literal)
	}
}

// TestRanges checks that line/col tracking advances across newlines.
func TestRanges(t *testing.T) {
	l := New("var a\nvar b")

	_, r1 := l.NextToken() // var
	if r1.Start.Line != 0 {
		t.Fatalf("expected first token on line 0, got %d", r1.Start.Line)
	}

	for {
		tok, r := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Literal == "b" && r.Start.Line != 1 {
			t.Fatalf("expected 'b' on line 1, got %d", r.Start.Line)
		}
	}
}
