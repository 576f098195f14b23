// Package sqlstore executes compiled filterdsl queries against a SQL
// database. Predicates render to a parameterized WHERE clause, sort keys to
// an ORDER BY clause; the placeholders are rebound for the driver by sqlx.
package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"filterdsl"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Select returns the rows of table matching the compiled query, in its sort
// order. Table and column names are never taken from user input; columns
// come from the compiler's closed field set and table from configuration.
func (s *Store) Select(ctx context.Context, table string, q *filterdsl.Query) ([]map[string]interface{}, error) {
	clause, args, err := WhereClause(q.Predicates)
	if err != nil {
		return nil, err
	}

	stmt := "SELECT * FROM " + table
	if clause != "" {
		stmt += " WHERE " + clause
	}
	if order := OrderBy(q.SortKeys); order != "" {
		stmt += " " + order
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(stmt), args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select from %s", table)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		results = append(results, row)
	}
	return results, errors.Wrap(rows.Err(), "failed to read rows")
}

// WhereClause renders the predicate sequence into one SQL expression with
// `?` placeholders and its argument list. The sequence's elements are ANDed
// together. An empty sequence renders to an empty clause.
func WhereClause(predicates []filterdsl.Predicate) (string, []interface{}, error) {
	if len(predicates) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(predicates))
	var args []interface{}
	for _, p := range predicates {
		clause, a, err := renderPredicate(p)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, a...)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// OrderBy renders the sort keys, or an empty string when there are none.
func OrderBy(keys []filterdsl.SortKey) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if key.Desc {
			parts = append(parts, key.Field+" DESC")
		} else {
			parts = append(parts, key.Field)
		}
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

func renderPredicate(p filterdsl.Predicate) (string, []interface{}, error) {
	switch p.Op {
	case filterdsl.And, filterdsl.Or:
		joiner := " AND "
		if p.Op == filterdsl.Or {
			joiner = " OR "
		}
		clauses := make([]string, 0, len(p.Children))
		var args []interface{}
		for _, child := range p.Children {
			clause, a, err := renderPredicate(child)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
			args = append(args, a...)
		}
		return "(" + strings.Join(clauses, joiner) + ")", args, nil
	default:
		return renderLeaf(p)
	}
}

func renderLeaf(p filterdsl.Predicate) (string, []interface{}, error) {
	clause, args, err := renderComparison(p)
	if err != nil {
		return "", nil, err
	}
	if p.Negated {
		clause = "NOT (" + clause + ")"
	}
	return clause, args, nil
}

func renderComparison(p filterdsl.Predicate) (string, []interface{}, error) {
	if p.Op == filterdsl.IsNull {
		return p.Field + " IS NULL", nil, nil
	}

	if symbol, ok := comparisonSymbols[p.Op]; ok {
		if ref, ok := p.Value.(filterdsl.FieldValue); ok {
			return fmt.Sprintf("%s %s %s", p.Field, symbol, ref.Name), nil, nil
		}
		return fmt.Sprintf("%s %s ?", p.Field, symbol), []interface{}{p.Value}, nil
	}

	spec, ok := likeOps[p.Op]
	if !ok {
		return "", nil, errors.Errorf("cannot render predicate operation %s", p.Op)
	}
	return renderLike(p, spec)
}

var comparisonSymbols = map[filterdsl.Op]string{
	filterdsl.Equals:         "=",
	filterdsl.GreaterThan:    ">",
	filterdsl.GreaterOrEqual: ">=",
	filterdsl.LessThan:       "<",
	filterdsl.LessOrEqual:    "<=",
}

type likeSpec struct {
	prefix   bool // leading % in the pattern
	suffix   bool // trailing % in the pattern
	foldCase bool
}

var likeOps = map[filterdsl.Op]likeSpec{
	filterdsl.Contains:    {prefix: true, suffix: true},
	filterdsl.IContains:   {prefix: true, suffix: true, foldCase: true},
	filterdsl.StartsWith:  {suffix: true},
	filterdsl.IStartsWith: {suffix: true, foldCase: true},
	filterdsl.EndsWith:    {prefix: true},
	filterdsl.IEndsWith:   {prefix: true, foldCase: true},
}

func renderLike(p filterdsl.Predicate, spec likeSpec) (string, []interface{}, error) {
	column := p.Field
	if spec.foldCase {
		column = "LOWER(" + column + ")"
	}

	// field-to-field text matching builds the pattern in SQL
	if ref, ok := p.Value.(filterdsl.FieldValue); ok {
		other := ref.Name
		if spec.foldCase {
			other = "LOWER(" + other + ")"
		}
		pattern := other
		if spec.prefix {
			pattern = "'%' || " + pattern
		}
		if spec.suffix {
			pattern = pattern + " || '%'"
		}
		return fmt.Sprintf("%s LIKE %s", column, pattern), nil, nil
	}

	text, ok := p.Value.(string)
	if !ok {
		return "", nil, errors.Errorf("operation %s needs a text value, got %T", p.Op, p.Value)
	}
	if spec.foldCase {
		text = strings.ToLower(text)
	}

	pattern := escapeLike(text)
	if spec.prefix {
		pattern = "%" + pattern
	}
	if spec.suffix {
		pattern = pattern + "%"
	}
	return fmt.Sprintf("%s LIKE ? ESCAPE '\\'", column), []interface{}{pattern}, nil
}

// escapeLike neutralizes LIKE metacharacters in a literal pattern segment.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
