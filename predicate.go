package filterdsl

// Op identifies a predicate operation.
type Op int

const (
	// Logical combinations
	And Op = iota
	Or

	// Comparisons
	Equals
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
	Contains
	IContains
	StartsWith
	IStartsWith
	EndsWith
	IEndsWith
	IsNull
)

func (op Op) String() string {
	switch op {
	case And:
		return "and"
	case Or:
		return "or"
	case Equals:
		return "equals"
	case GreaterThan:
		return "greater-than"
	case GreaterOrEqual:
		return "greater-or-equal"
	case LessThan:
		return "less-than"
	case LessOrEqual:
		return "less-or-equal"
	case Contains:
		return "contains"
	case IContains:
		return "icontains"
	case StartsWith:
		return "starts-with"
	case IStartsWith:
		return "istarts-with"
	case EndsWith:
		return "ends-with"
	case IEndsWith:
		return "iends-with"
	case IsNull:
		return "is-null"
	}
	return "unknown"
}

// Predicate is a compiled, backend-agnostic condition. Leaves carry Field,
// Op, Value and Negated; And/Or nodes carry only Children. The executing
// engine walks the tree and renders it however it likes.
type Predicate struct {
	Op       Op
	Field    string
	Value    interface{}
	Negated  bool
	Children []Predicate
}

// FieldValue marks a comparison's right side as a reference to another
// column rather than a literal. Field-to-field values are never cast.
type FieldValue struct {
	Name string
}

// SortKey is one compiled sort directive.
type SortKey struct {
	Field string
	Desc  bool
}
