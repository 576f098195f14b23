/*
Package filterdsl compiles a compact textual query language for filtering and
sorting tabular record sets into a backend-agnostic predicate tree and sort-key
list. The compiler knows nothing about the engine that executes the result; any
data-query layer able to evaluate the predicate operations can sit behind it.

# The language

A filter expression is one or more comparisons joined by "and" and "or":

	age > 21 and name icontains "smith"
	status = "open" or status = "pending"
	created >= "2024-01-01" and closed isnull
	price not eq "0" and title not startswith "draft"
	updated > created

Comparisons use the symbolic operators = != > >= < <= or the keyword
operators eq gt gte lt lte contains icontains startswith istartswith
endswith iendswith isnull. A keyword operator may be prefixed with "not".
The right side is a quoted string, a number, or the name of another field;
isnull takes no right side. Field names are restricted to the set supplied
by the caller, so an unknown name fails the parse.

A sort expression is a list of field names, each optionally prefixed with
"-" for descending order:

	-created, name

# Compiling

	fields := filterdsl.Fields{
	    "age":  {Name: "age", Type: filterdsl.Integer},
	    "name": {Name: "name", Type: filterdsl.Text},
	}

	predicates, err := filterdsl.Compile(fields, `age > 21 and name icontains "smith"`)
	keys, err := filterdsl.CompileSort(fields, "-age, name")

The predicates in the returned sequence are ANDed together by the caller;
"or" folds into the sequence by merging with the immediately preceding
element. There is deliberately no parenthesized grouping and no further
precedence.

# Serving requests

Backend reads the two request parameters (by default "filter" and "sort")
and compiles both sides at once:

	backend := filterdsl.NewBackend()
	q, err := backend.CompileRequest(fields, r)
	if err != nil {
	    filterdsl.WriteError(w, err)
	    return
	}

All failures are *BadQueryError values wrapping the typed cause (syntax
error with position, cast error, type mismatch); WriteError renders them as
a 400 response.

The sqlstore subpackage renders compiled queries into parameterized SQL and
supplies field descriptors from a live database table.
*/
package filterdsl
