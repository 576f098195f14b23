package sqlstore

import (
	"reflect"
	"testing"

	"filterdsl"
)

func TestWhereClauseEmpty(t *testing.T) {
	clause, args, err := WhereClause(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clause != "" || len(args) != 0 {
		t.Errorf("expected empty clause, got %q with %v", clause, args)
	}
}

func TestWhereClauseComparisons(t *testing.T) {
	tests := []struct {
		pred           filterdsl.Predicate
		expectedClause string
		expectedArgs   []interface{}
	}{
		{
			filterdsl.Predicate{Op: filterdsl.Equals, Field: "age", Value: int64(21)},
			"age = ?",
			[]interface{}{int64(21)},
		},
		{
			filterdsl.Predicate{Op: filterdsl.Equals, Field: "age", Value: int64(21), Negated: true},
			"NOT (age = ?)",
			[]interface{}{int64(21)},
		},
		{
			filterdsl.Predicate{Op: filterdsl.GreaterThan, Field: "age", Value: int64(1)},
			"age > ?",
			[]interface{}{int64(1)},
		},
		{
			filterdsl.Predicate{Op: filterdsl.GreaterOrEqual, Field: "age", Value: int64(1)},
			"age >= ?",
			[]interface{}{int64(1)},
		},
		{
			filterdsl.Predicate{Op: filterdsl.LessThan, Field: "age", Value: int64(1)},
			"age < ?",
			[]interface{}{int64(1)},
		},
		{
			filterdsl.Predicate{Op: filterdsl.LessOrEqual, Field: "age", Value: int64(1)},
			"age <= ?",
			[]interface{}{int64(1)},
		},
		{
			filterdsl.Predicate{Op: filterdsl.Equals, Field: "updated", Value: filterdsl.FieldValue{Name: "created"}},
			"updated = created",
			nil,
		},
		{
			filterdsl.Predicate{Op: filterdsl.IsNull, Field: "closed", Value: true},
			"closed IS NULL",
			nil,
		},
		{
			filterdsl.Predicate{Op: filterdsl.IsNull, Field: "closed", Value: true, Negated: true},
			"NOT (closed IS NULL)",
			nil,
		},
	}

	for i, tt := range tests {
		clause, args, err := WhereClause([]filterdsl.Predicate{tt.pred})
		if err != nil {
			t.Errorf("tests[%d] - unexpected error: %v", i, err)
			continue
		}
		if clause != tt.expectedClause {
			t.Errorf("tests[%d] - clause wrong. expected=%q, got=%q", i, tt.expectedClause, clause)
		}
		if !reflect.DeepEqual(args, tt.expectedArgs) {
			t.Errorf("tests[%d] - args wrong. expected=%v, got=%v", i, tt.expectedArgs, args)
		}
	}
}

func TestWhereClauseLikeOperators(t *testing.T) {
	tests := []struct {
		pred           filterdsl.Predicate
		expectedClause string
		expectedArg    string
	}{
		{
			filterdsl.Predicate{Op: filterdsl.Contains, Field: "name", Value: "smith"},
			"name LIKE ? ESCAPE '\\'",
			"%smith%",
		},
		{
			filterdsl.Predicate{Op: filterdsl.IContains, Field: "name", Value: "Smith"},
			"LOWER(name) LIKE ? ESCAPE '\\'",
			"%smith%",
		},
		{
			filterdsl.Predicate{Op: filterdsl.StartsWith, Field: "name", Value: "sm"},
			"name LIKE ? ESCAPE '\\'",
			"sm%",
		},
		{
			filterdsl.Predicate{Op: filterdsl.IStartsWith, Field: "name", Value: "Sm"},
			"LOWER(name) LIKE ? ESCAPE '\\'",
			"sm%",
		},
		{
			filterdsl.Predicate{Op: filterdsl.EndsWith, Field: "name", Value: "th"},
			"name LIKE ? ESCAPE '\\'",
			"%th",
		},
		{
			filterdsl.Predicate{Op: filterdsl.IEndsWith, Field: "name", Value: "Th"},
			"LOWER(name) LIKE ? ESCAPE '\\'",
			"%th",
		},
		{
			// LIKE metacharacters in the literal are escaped
			filterdsl.Predicate{Op: filterdsl.Contains, Field: "name", Value: "50%_off"},
			"name LIKE ? ESCAPE '\\'",
			`%50\%\_off%`,
		},
	}

	for i, tt := range tests {
		clause, args, err := WhereClause([]filterdsl.Predicate{tt.pred})
		if err != nil {
			t.Errorf("tests[%d] - unexpected error: %v", i, err)
			continue
		}
		if clause != tt.expectedClause {
			t.Errorf("tests[%d] - clause wrong. expected=%q, got=%q", i, tt.expectedClause, clause)
		}
		if len(args) != 1 || args[0] != tt.expectedArg {
			t.Errorf("tests[%d] - args wrong. expected=[%q], got=%v", i, tt.expectedArg, args)
		}
	}
}

func TestWhereClauseFieldToFieldLike(t *testing.T) {
	clause, args, err := WhereClause([]filterdsl.Predicate{
		{Op: filterdsl.Contains, Field: "name", Value: filterdsl.FieldValue{Name: "status"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clause != "name LIKE '%' || status || '%'" {
		t.Errorf("unexpected clause: %q", clause)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestWhereClauseTree(t *testing.T) {
	predicates := []filterdsl.Predicate{
		{Op: filterdsl.Equals, Field: "age", Value: int64(1)},
		{
			Op: filterdsl.Or,
			Children: []filterdsl.Predicate{
				{Op: filterdsl.Equals, Field: "status", Value: "open"},
				{Op: filterdsl.Equals, Field: "status", Value: "pending"},
			},
		},
	}

	clause, args, err := WhereClause(predicates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "age = ? AND (status = ? OR status = ?)"
	if clause != expected {
		t.Errorf("clause wrong. expected=%q, got=%q", expected, clause)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		keys     []filterdsl.SortKey
		expected string
	}{
		{nil, ""},
		{[]filterdsl.SortKey{{Field: "name"}}, "ORDER BY name"},
		{[]filterdsl.SortKey{{Field: "name", Desc: true}}, "ORDER BY name DESC"},
		{
			[]filterdsl.SortKey{{Field: "created", Desc: true}, {Field: "name"}},
			"ORDER BY created DESC, name",
		},
	}

	for i, tt := range tests {
		if got := OrderBy(tt.keys); got != tt.expected {
			t.Errorf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestFieldTypeMapping(t *testing.T) {
	tests := []struct {
		declared string
		expected filterdsl.FieldType
	}{
		{"INTEGER", filterdsl.Integer},
		{"int", filterdsl.Integer},
		{"BIGINT", filterdsl.Integer},
		{"REAL", filterdsl.Float},
		{"DOUBLE PRECISION", filterdsl.Float},
		{"DECIMAL(10,2)", filterdsl.Float},
		{"TEXT", filterdsl.Text},
		{"VARCHAR(255)", filterdsl.Text},
		{"BOOLEAN", filterdsl.Boolean},
		{"DATE", filterdsl.Date},
		{"DATETIME", filterdsl.DateTime},
		{"TIMESTAMP", filterdsl.DateTime},
		{"BLOB", filterdsl.Other},
	}

	for i, tt := range tests {
		if got := fieldType(tt.declared); got != tt.expected {
			t.Errorf("tests[%d] - %q mapped to %s, expected %s", i, tt.declared, got, tt.expected)
		}
	}
}
