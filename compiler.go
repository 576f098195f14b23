package filterdsl

import (
	"strings"

	"filterdsl/query"
)

// Compile parses raw against the given fields and folds the result into an
// ordered predicate sequence using the default cast registry. The caller
// ANDs the returned predicates together; "or" combinations are folded in.
// An empty expression compiles to an empty sequence.
func Compile(fields Fields, raw string) ([]Predicate, error) {
	return CompileWith(DefaultCasts(), fields, raw)
}

// CompileWith is Compile with a caller-supplied cast registry.
func CompileWith(casts CastRegistry, fields Fields, raw string) ([]Predicate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parser := query.NewParser(raw, fields.fieldSet())
	nodes, err := parser.ParseFilter()
	if err != nil {
		return nil, badQuery(err)
	}

	var out []Predicate

	// "or" merges the next comparison into the last accumulated element
	// instead of combining whole subexpressions; there is no precedence or
	// grouping beyond that. Downstream behavior depends on this fold, so it
	// stays as is.
	pending := "and"
	for _, node := range nodes {
		switch n := node.(type) {
		case *query.Connective:
			pending = n.Kind
		case *query.Comparison:
			pred, err := compileComparison(casts, fields, n)
			if err != nil {
				return nil, badQuery(err)
			}

			switch pending {
			case "or":
				if len(out) > 0 {
					last := out[len(out)-1]
					out[len(out)-1] = Predicate{Op: Or, Children: []Predicate{last, pred}}
				} else {
					out = append(out, pred)
				}
			case "and":
				out = append(out, pred)
			default:
				return nil, badQuery(&UnsupportedConnectiveError{Conn: pending})
			}
			pending = "and"
		}
	}

	return out, nil
}

func compileComparison(casts CastRegistry, fields Fields, cmp *query.Comparison) (Predicate, error) {
	left := fields[cmp.Left.Name]

	var value interface{}
	switch {
	case cmp.Right != nil:
		// field-to-field comparison, never cast
		value = FieldValue{Name: cmp.Right.Name}
	case cmp.Value != nil:
		v, err := casts.Cast(cmp.Value.Raw, left)
		if err != nil {
			return Predicate{}, err
		}
		value = v
	}

	op, negated, err := translateOperator(cmp.Op, cmp.Negate)
	if err != nil {
		return Predicate{}, err
	}

	if textOnlyOps[op] {
		if left.Type != Text {
			return Predicate{}, &TypeMismatchError{Op: cmp.Op, Field: left.Name}
		}
		if cmp.Right != nil && fields[cmp.Right.Name].Type != Text {
			return Predicate{}, &TypeMismatchError{Op: cmp.Op, Field: cmp.Right.Name}
		}
	}

	if op == IsNull {
		// negation is carried by the predicate, the value stays true
		value = true
	}

	return Predicate{Op: op, Field: left.Name, Value: value, Negated: negated}, nil
}

// translateOperator maps a source operator spelling to its target operation.
// Symbolic "!=" always negates; the keyword operators take their negation
// from the grammar's negation marker; the ordering operators never negate.
func translateOperator(op string, negate bool) (Op, bool, error) {
	switch op {
	case "=":
		return Equals, false, nil
	case "!=":
		return Equals, true, nil
	case ">", "gt":
		return GreaterThan, false, nil
	case ">=", "gte":
		return GreaterOrEqual, false, nil
	case "<", "lt":
		return LessThan, false, nil
	case "<=", "lte":
		return LessOrEqual, false, nil
	case "eq":
		return Equals, negate, nil
	case "contains":
		return Contains, negate, nil
	case "icontains":
		return IContains, negate, nil
	case "startswith":
		return StartsWith, negate, nil
	case "istartswith":
		return IStartsWith, negate, nil
	case "endswith":
		return EndsWith, negate, nil
	case "iendswith":
		return IEndsWith, negate, nil
	case "isnull":
		return IsNull, negate, nil
	}
	return 0, false, &UnsupportedOperatorError{Op: op}
}

var textOnlyOps = map[Op]bool{
	Contains:    true,
	IContains:   true,
	StartsWith:  true,
	IStartsWith: true,
	EndsWith:    true,
	IEndsWith:   true,
}

// CompileSort parses raw as a sort expression and returns the ordered sort
// keys. An empty expression compiles to an empty sequence.
func CompileSort(fields Fields, raw string) ([]SortKey, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parser := query.NewParser(raw, fields.fieldSet())
	directives, err := parser.ParseSort()
	if err != nil {
		return nil, badQuery(err)
	}

	keys := make([]SortKey, 0, len(directives))
	for _, d := range directives {
		keys = append(keys, SortKey{Field: d.Field.Name, Desc: d.Desc})
	}
	return keys, nil
}
