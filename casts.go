package filterdsl

import (
	"strconv"
	"strings"
	"time"
)

// CastFunc validates and converts a raw literal into a typed value for one
// field.
type CastFunc func(raw string, f Field) (interface{}, error)

// CastRegistry maps a field's semantic type to its cast function. The
// registry is read-only at compile time and safe to share between compiles.
type CastRegistry map[FieldType]CastFunc

// DefaultCasts returns the standard registry.
//
// Dates use the form 2006-01-02. Datetimes accept RFC 3339, then
// "2006-01-02 15:04:05", then a bare date. Booleans accept true, false,
// 1, 0, yes and no, case-insensitively. Text is taken verbatim, as is the
// Other type (an explicit identity entry, not a silent default).
func DefaultCasts() CastRegistry {
	return CastRegistry{
		Integer:  castInt,
		Float:    castFloat,
		Date:     castDate,
		DateTime: castDateTime,
		Text:     castIdentity,
		Boolean:  castBoolean,
		Other:    castIdentity,
	}
}

// Cast converts raw for the given field. A semantic type missing from the
// registry passes the raw text through unchanged.
func (r CastRegistry) Cast(raw string, f Field) (interface{}, error) {
	fn, ok := r[f.Type]
	if !ok {
		return raw, nil
	}
	return fn(raw, f)
}

func castInt(raw string, f Field) (interface{}, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &CastError{Field: f.Name, Raw: raw, Reason: "not an integer"}
	}
	return v, nil
}

func castFloat(raw string, f Field) (interface{}, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &CastError{Field: f.Name, Raw: raw, Reason: "not a number"}
	}
	return v, nil
}

const dateFormat = "2006-01-02"

var dateTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	dateFormat,
}

func castDate(raw string, f Field) (interface{}, error) {
	v, err := time.Parse(dateFormat, raw)
	if err != nil {
		return nil, &CastError{Field: f.Name, Raw: raw, Reason: "not a date (want " + dateFormat + ")"}
	}
	return v, nil
}

func castDateTime(raw string, f Field) (interface{}, error) {
	for _, format := range dateTimeFormats {
		if v, err := time.Parse(format, raw); err == nil {
			return v, nil
		}
	}
	return nil, &CastError{Field: f.Name, Raw: raw, Reason: "not a datetime"}
}

func castBoolean(raw string, f Field) (interface{}, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return nil, &CastError{Field: f.Name, Raw: raw, Reason: "not a boolean"}
}

func castIdentity(raw string, f Field) (interface{}, error) {
	return raw, nil
}
