package filterdsl

import "filterdsl/query"

// FieldType is the semantic value category of a field, independent of how
// the executing engine represents it.
type FieldType int

const (
	Integer FieldType = iota
	Float
	Date
	DateTime
	Text
	Boolean
	Other
)

func (t FieldType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case Other:
		return "other"
	}
	return "unknown"
}

// Field describes one filterable column. Descriptors are supplied by the
// caller and treated as immutable for the duration of a compile.
type Field struct {
	Name string
	Type FieldType
}

// Fields maps field names to their descriptors. Names must be unique;
// ordering is irrelevant.
type Fields map[string]Field

func (f Fields) fieldSet() query.FieldSet {
	fs := make(query.FieldSet, len(f))
	for name := range f {
		fs[name] = true
	}
	return fs
}
