package query

import (
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenIdentifier TokenType = iota
	TokenString
	TokenNumber
	TokenEqual        // '='
	TokenNotEqual     // '!='
	TokenGreater      // '>'
	TokenGreaterEqual // '>='
	TokenLess         // '<'
	TokenLessEqual    // '<='
	TokenAnd          // 'and'
	TokenOr           // 'or'
	TokenNot          // 'not'
	TokenKeywordOp    // eq, gt, gte, lt, lte, contains, ... isnull
	TokenComma        // ','
	TokenMinus        // '-' (sort direction prefix)
	TokenIllegal
	TokenEOF
)

type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position
	var tok Token

	switch l.ch {
	case '=':
		tok = Token{Type: TokenEqual, Literal: "=", Pos: pos}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNotEqual, Literal: "!=", Pos: pos}
		} else {
			tok = Token{Type: TokenIllegal, Literal: "!", Pos: pos}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Literal: ">=", Pos: pos}
		} else {
			tok = Token{Type: TokenGreater, Literal: ">", Pos: pos}
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenLessEqual, Literal: "<=", Pos: pos}
		} else {
			tok = Token{Type: TokenLess, Literal: "<", Pos: pos}
		}
	case ',':
		tok = Token{Type: TokenComma, Literal: ",", Pos: pos}
	case '-':
		if isDigit(l.peekChar()) {
			l.readChar()
			return Token{Type: TokenNumber, Literal: "-" + l.readNumber(), Pos: pos}
		}
		tok = Token{Type: TokenMinus, Literal: "-", Pos: pos}
	case '"', '\'':
		literal, ok := l.readString(l.ch)
		if !ok {
			return Token{Type: TokenIllegal, Literal: literal, Pos: pos}
		}
		return Token{Type: TokenString, Literal: literal, Pos: pos}
	case 0:
		tok = Token{Type: TokenEOF, Literal: "", Pos: pos}
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return Token{Type: lookupIdentifier(literal), Literal: literal, Pos: pos}
		}
		if isDigit(l.ch) {
			return Token{Type: TokenNumber, Literal: l.readNumber(), Pos: pos}
		}
		tok = Token{Type: TokenIllegal, Literal: string(l.ch), Pos: pos}
	}

	l.readChar()
	return tok
}

// keywordOps are the operator words of the grammar. Keywords are matched
// case-insensitively; field names are not.
var keywordOps = map[string]bool{
	"eq":          true,
	"gt":          true,
	"gte":         true,
	"lt":          true,
	"lte":         true,
	"contains":    true,
	"icontains":   true,
	"startswith":  true,
	"istartswith": true,
	"endswith":    true,
	"iendswith":   true,
	"isnull":      true,
}

func lookupIdentifier(ident string) TokenType {
	lower := strings.ToLower(ident)
	switch lower {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "not":
		return TokenNot
	}
	if keywordOps[lower] {
		return TokenKeywordOp
	}
	return TokenIdentifier
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readString consumes a quoted literal. The second return is false when the
// closing quote is missing.
func (l *Lexer) readString(quote byte) (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == quote {
			literal := l.input[position:l.position]
			l.readChar()
			return literal, true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
