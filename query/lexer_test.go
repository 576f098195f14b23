package query

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `age >= 18 and name icontains "smith"`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIdentifier, "age"},
		{TokenGreaterEqual, ">="},
		{TokenNumber, "18"},
		{TokenAnd, "and"},
		{TokenIdentifier, "name"},
		{TokenKeywordOp, "icontains"},
		{TokenString, "smith"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)

	for i, tt := range tests {
		tok := lexer.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - token type wrong. expected=%d, got=%d (%s)", i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerSymbolicOperators(t *testing.T) {
	input := `a = 1 b != 2 c > 3 d >= 4 e < 5 f <= 6`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIdentifier, "a"},
		{TokenEqual, "="},
		{TokenNumber, "1"},
		{TokenIdentifier, "b"},
		{TokenNotEqual, "!="},
		{TokenNumber, "2"},
		{TokenIdentifier, "c"},
		{TokenGreater, ">"},
		{TokenNumber, "3"},
		{TokenIdentifier, "d"},
		{TokenGreaterEqual, ">="},
		{TokenNumber, "4"},
		{TokenIdentifier, "e"},
		{TokenLess, "<"},
		{TokenNumber, "5"},
		{TokenIdentifier, "f"},
		{TokenLessEqual, "<="},
		{TokenNumber, "6"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)

	for i, tt := range tests {
		tok := lexer.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - token type wrong. expected=%d, got=%d (%s)", i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerKeywordsAndNegation(t *testing.T) {
	input := `title not startswith 'draft' or closed isnull`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenIdentifier, "title"},
		{TokenNot, "not"},
		{TokenKeywordOp, "startswith"},
		{TokenString, "draft"},
		{TokenOr, "or"},
		{TokenIdentifier, "closed"},
		{TokenKeywordOp, "isnull"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)

	for i, tt := range tests {
		tok := lexer.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - token type wrong. expected=%d, got=%d (%s)", i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerSortExpression(t *testing.T) {
	input := `-created, name age`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenMinus, "-"},
		{TokenIdentifier, "created"},
		{TokenComma, ","},
		{TokenIdentifier, "name"},
		{TokenIdentifier, "age"},
		{TokenEOF, ""},
	}

	lexer := NewLexer(input)

	for i, tt := range tests {
		tok := lexer.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - token type wrong. expected=%d, got=%d (%s)", i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input           string
		expectedType    TokenType
		expectedLiteral string
	}{
		{"42", TokenNumber, "42"},
		{"-42", TokenNumber, "-42"},
		{"3.14", TokenNumber, "3.14"},
		{"-0.5", TokenNumber, "-0.5"},
	}

	for i, tt := range tests {
		tok := NewLexer(tt.input).NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Errorf("tests[%d] - got type=%d literal=%q, want type=%d literal=%q",
				i, tok.Type, tok.Literal, tt.expectedType, tt.expectedLiteral)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	input := `age > 21`

	tests := []struct {
		expectedLiteral string
		expectedPos     int
	}{
		{"age", 0},
		{">", 4},
		{"21", 6},
	}

	lexer := NewLexer(input)
	for i, tt := range tests {
		tok := lexer.NextToken()
		if tok.Pos != tt.expectedPos {
			t.Errorf("tests[%d] - pos wrong for %q. expected=%d, got=%d", i, tt.expectedLiteral, tt.expectedPos, tok.Pos)
		}
	}
}

func TestLexerIllegalTokens(t *testing.T) {
	tests := []string{
		`name ! 1`,
		`name = "unterminated`,
		`name @ 1`,
	}

	for i, input := range tests {
		lexer := NewLexer(input)
		sawIllegal := false
		for {
			tok := lexer.NextToken()
			if tok.Type == TokenIllegal {
				sawIllegal = true
				break
			}
			if tok.Type == TokenEOF {
				break
			}
		}
		if !sawIllegal {
			t.Errorf("tests[%d] - expected an illegal token for %q", i, input)
		}
	}
}
