// Package query parses the filter and sort expressions of the filter DSL.
//
// Filter grammar:
//
//	filter     = comparison { ("and" | "or") comparison }
//	comparison = field symbolop operand
//	           | field ["not"] keywordop [operand]
//	symbolop   = "=" | "!=" | ">" | ">=" | "<" | "<="
//	keywordop  = "eq" | "gt" | "gte" | "lt" | "lte"
//	           | "contains" | "icontains" | "startswith" | "istartswith"
//	           | "endswith" | "iendswith" | "isnull"
//	operand    = quoted string | number | field
//
// Keywords are case-insensitive. Field names come from the caller-supplied
// field set; any other identifier fails the parse. "isnull" takes no operand.
// The negation marker "not" is accepted before "eq", the six text operators
// and "isnull" (the operators whose translation honors it), and nowhere else.
// A quoted operand uses single or double quotes with no escape sequences.
// An identifier operand names a second field (field-to-field comparison).
//
// Sort grammar:
//
//	sort      = directive { [","] directive }
//	directive = ["-"] field
//
// Directives are separated by whitespace, a comma, or both. A leading "-"
// means descending, otherwise ascending.
//
// The whole input must be consumed; anything else is a SyntaxError carrying
// the byte offset of the offending token.
package query

import (
	"fmt"
	"strings"
)

// SyntaxError reports input rejected by the grammar. Pos is a byte offset
// into the original expression, in [0, len(input)].
type SyntaxError struct {
	Message string
	Pos     int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Message)
}

// FieldSet is the closed set of legal field names for one parse.
type FieldSet map[string]bool

func NewFieldSet(names ...string) FieldSet {
	fs := make(FieldSet, len(names))
	for _, name := range names {
		fs[name] = true
	}
	return fs
}

// Node is a single element of a parsed filter sequence.
type Node interface {
	node()
}

// FieldRef names a field from the legal field set.
type FieldRef struct {
	Name string
	Pos  int
}

// Literal is a raw untyped value token. Casting happens later, once the
// target field's type is known.
type Literal struct {
	Raw string
	Pos int
}

// Comparison is one filter condition. Exactly one of Right and Value is set
// for binary operators; both are nil for isnull.
type Comparison struct {
	Left   FieldRef
	Op     string // lowercased token spelling: "=", "!=", ">", ..., "eq", "isnull"
	Negate bool
	Right  *FieldRef
	Value  *Literal
}

func (*Comparison) node() {}

// Connective joins the surrounding comparisons with "and" or "or".
type Connective struct {
	Kind string
	Pos  int
}

func (*Connective) node() {}

// SortDirective is one sort key in source order.
type SortDirective struct {
	Field FieldRef
	Desc  bool
}

// negatableOps are the keyword operators whose translation honors the
// negation marker.
var negatableOps = map[string]bool{
	"eq":          true,
	"contains":    true,
	"icontains":   true,
	"startswith":  true,
	"istartswith": true,
	"endswith":    true,
	"iendswith":   true,
	"isnull":      true,
}

type Parser struct {
	lexer        *Lexer
	fields       FieldSet
	currentToken Token
	peekToken    Token
}

// NewParser builds a parser over input whose grammar only admits the given
// field names.
func NewParser(input string, fields FieldSet) *Parser {
	p := &Parser{lexer: NewLexer(input), fields: fields}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// ParseFilter parses a complete filter expression into its ordered node
// sequence of comparisons and connectives.
func (p *Parser) ParseFilter() ([]Node, error) {
	var nodes []Node

	cmp, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, cmp)

	for p.currentToken.Type != TokenEOF {
		conn, err := p.parseConnective()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, conn)

		cmp, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, cmp)
	}

	return nodes, nil
}

func (p *Parser) parseConnective() (*Connective, error) {
	switch p.currentToken.Type {
	case TokenAnd:
		conn := &Connective{Kind: "and", Pos: p.currentToken.Pos}
		p.nextToken()
		return conn, nil
	case TokenOr:
		conn := &Connective{Kind: "or", Pos: p.currentToken.Pos}
		p.nextToken()
		return conn, nil
	}
	return nil, p.errorf(p.currentToken.Pos, "expected 'and' or 'or', got %q", p.currentToken.Literal)
}

func (p *Parser) parseComparison() (*Comparison, error) {
	left, err := p.parseFieldRef()
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{Left: left}

	switch p.currentToken.Type {
	case TokenEqual, TokenNotEqual, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual:
		cmp.Op = p.currentToken.Literal
		p.nextToken()

	case TokenNot:
		p.nextToken()
		if p.currentToken.Type != TokenKeywordOp {
			return nil, p.errorf(p.currentToken.Pos, "expected operator after 'not', got %q", p.currentToken.Literal)
		}
		op := lowerOp(p.currentToken.Literal)
		if !negatableOps[op] {
			return nil, p.errorf(p.currentToken.Pos, "operator %q cannot be negated", op)
		}
		cmp.Op = op
		cmp.Negate = true
		p.nextToken()

	case TokenKeywordOp:
		cmp.Op = lowerOp(p.currentToken.Literal)
		p.nextToken()

	default:
		return nil, p.errorf(p.currentToken.Pos, "expected operator, got %q", p.currentToken.Literal)
	}

	// isnull is the only nullary operator
	if cmp.Op == "isnull" {
		return cmp, nil
	}

	switch p.currentToken.Type {
	case TokenString, TokenNumber:
		cmp.Value = &Literal{Raw: p.currentToken.Literal, Pos: p.currentToken.Pos}
		p.nextToken()
	case TokenIdentifier:
		right, err := p.parseFieldRef()
		if err != nil {
			return nil, err
		}
		cmp.Right = &right
	default:
		return nil, p.errorf(p.currentToken.Pos, "expected value or field name, got %q", p.currentToken.Literal)
	}

	return cmp, nil
}

func (p *Parser) parseFieldRef() (FieldRef, error) {
	tok := p.currentToken
	if tok.Type != TokenIdentifier {
		return FieldRef{}, p.errorf(tok.Pos, "expected field name, got %q", tok.Literal)
	}
	if !p.fields[tok.Literal] {
		return FieldRef{}, p.errorf(tok.Pos, "unknown field %q", tok.Literal)
	}
	p.nextToken()
	return FieldRef{Name: tok.Literal, Pos: tok.Pos}, nil
}

// ParseSort parses a complete sort expression into its ordered directives.
func (p *Parser) ParseSort() ([]SortDirective, error) {
	var directives []SortDirective

	for {
		directive, err := p.parseSortDirective()
		if err != nil {
			return nil, err
		}
		directives = append(directives, directive)

		if p.currentToken.Type == TokenComma {
			p.nextToken()
			continue
		}
		if p.currentToken.Type == TokenEOF {
			return directives, nil
		}
	}
}

func (p *Parser) parseSortDirective() (SortDirective, error) {
	desc := false
	if p.currentToken.Type == TokenMinus {
		desc = true
		p.nextToken()
	}
	field, err := p.parseFieldRef()
	if err != nil {
		return SortDirective{}, err
	}
	return SortDirective{Field: field, Desc: desc}, nil
}

// lowerOp canonicalizes a keyword operator token, which may arrive in any case.
func lowerOp(literal string) string {
	return strings.ToLower(literal)
}
