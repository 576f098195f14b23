package filterdsl

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// DefaultFilterParam and DefaultSortParam are the request parameter names
// used when a Backend does not override them.
const (
	DefaultFilterParam = "filter"
	DefaultSortParam   = "sort"
)

// Backend compiles the filter and sort parameters of a request. A zero
// param name disables that side entirely.
type Backend struct {
	FilterParam string
	SortParam   string
	Casts       CastRegistry
}

// NewBackend returns a Backend with the default parameter names and casts.
func NewBackend() *Backend {
	return &Backend{
		FilterParam: DefaultFilterParam,
		SortParam:   DefaultSortParam,
		Casts:       DefaultCasts(),
	}
}

// Query is one compiled request. Predicates are ANDed together by the
// executing engine; SortKeys apply in order.
type Query struct {
	Predicates []Predicate
	SortKeys   []SortKey
}

// Compile reads the backend's parameters from params and compiles both
// expressions. Absent or empty parameters mean no filtering and no sorting.
// A nil Casts registry falls back to DefaultCasts. Compilation is
// all-or-nothing: any failure returns a *BadQueryError and no
// partial result.
func (b *Backend) Compile(fields Fields, params url.Values) (*Query, error) {
	q := &Query{}

	casts := b.Casts
	if casts == nil {
		casts = DefaultCasts()
	}

	if b.FilterParam != "" {
		predicates, err := CompileWith(casts, fields, params.Get(b.FilterParam))
		if err != nil {
			return nil, err
		}
		q.Predicates = predicates
	}

	if b.SortParam != "" {
		keys, err := CompileSort(fields, params.Get(b.SortParam))
		if err != nil {
			return nil, err
		}
		q.SortKeys = keys
	}

	return q, nil
}

// CompileRequest is Compile over an HTTP request's query string.
func (b *Backend) CompileRequest(fields Fields, r *http.Request) (*Query, error) {
	return b.Compile(fields, r.URL.Query())
}

// WriteError maps a compile failure to an HTTP response: bad queries get a
// 400 with the message and, when known, the character position; anything
// else gets a 500.
func WriteError(w http.ResponseWriter, err error) {
	var badQueryErr *BadQueryError
	if errors.As(err, &badQueryErr) {
		body := map[string]interface{}{"error": badQueryErr.Error()}
		if pos := badQueryErr.Pos(); pos >= 0 {
			body["position"] = pos
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(body)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
