package filterdsl

import (
	"errors"
	"fmt"

	"filterdsl/query"
)

// CastError reports a literal that cannot be converted to its target field's
// type.
type CastError struct {
	Field  string
	Raw    string
	Reason string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %q for field %q: %s", e.Raw, e.Field, e.Reason)
}

// TypeMismatchError reports a text-only operator applied to a non-text field.
type TypeMismatchError struct {
	Op    string
	Field string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("the operator %q is only allowed with text fields (field %q)", e.Op, e.Field)
}

// UnsupportedOperatorError reports an operator token with no translation
// entry. Unreachable while the grammar and the translation table agree.
type UnsupportedOperatorError struct {
	Op string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Op)
}

// UnsupportedConnectiveError reports a connective other than and/or reaching
// the fold step. Unreachable while the grammar and the fold agree.
type UnsupportedConnectiveError struct {
	Conn string
}

func (e *UnsupportedConnectiveError) Error() string {
	return fmt.Sprintf("unsupported logical operator %q", e.Conn)
}

// BadQueryError is the unified compile failure handed to callers. The
// underlying typed error (query.SyntaxError, CastError, TypeMismatchError,
// ...) is reachable through errors.As.
type BadQueryError struct {
	Err error
}

func (e *BadQueryError) Error() string {
	return "bad query: " + e.Err.Error()
}

func (e *BadQueryError) Unwrap() error {
	return e.Err
}

// Pos returns the character position of the failure when the underlying
// error carries one, and -1 otherwise.
func (e *BadQueryError) Pos() int {
	var syntaxErr *query.SyntaxError
	if errors.As(e.Err, &syntaxErr) {
		return syntaxErr.Pos
	}
	return -1
}

func badQuery(err error) error {
	if err == nil {
		return nil
	}
	return &BadQueryError{Err: err}
}
