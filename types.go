package searchapi

import (
	"encoding/json"
	"fmt"
)

// Well-known query keys on the wire.
const (
	keyTerm       = "term"
	keyTypes      = "types"
	keyFilters    = "filters"
	keyPageCursor = "pageCursor"
)

// Query is a fully populated search request.
// Nothing is validated at this layer; backends decide what is acceptable.
type Query struct {
	Term       string
	Types      []string
	Filters    map[string]any
	PageCursor string
	// Extensions carries any other caller fields verbatim.
	Extensions map[string]any
}

// PartialQuery is a query where every field may be absent.
// A nil slice or map means "absent", not "empty".
type PartialQuery struct {
	Term       *string
	Types      []string
	Filters    map[string]any
	PageCursor *string
	Extensions map[string]any
}

// ResultSet is the response of a search backend.
type ResultSet struct {
	Results            []Result `json:"results" yaml:"results"`
	NextPageCursor     string   `json:"nextPageCursor,omitempty" yaml:"next_page_cursor,omitempty"`
	PreviousPageCursor string   `json:"previousPageCursor,omitempty" yaml:"previous_page_cursor,omitempty"`
	NumberOfResults    *int     `json:"numberOfResults,omitempty" yaml:"number_of_results,omitempty"`
}

// Result is a single search hit. Its shape is opaque to this package.
type Result struct {
	Type      string         `json:"type" yaml:"type"`
	Document  map[string]any `json:"document" yaml:"document"`
	Rank      int            `json:"rank,omitempty" yaml:"rank,omitempty"`
	Highlight map[string]any `json:"highlight,omitempty" yaml:"highlight,omitempty"`
}

// Ptr returns a pointer to v. Handy for PartialQuery literals.
func Ptr[T any](v T) *T {
	return &v
}

// Map flattens q into a single map: the well-known keys plus extensions.
// Well-known keys win over extensions with the same name.
func (q Query) Map() map[string]any {
	m := make(map[string]any, len(q.Extensions)+4)
	for k, v := range q.Extensions {
		m[k] = v
	}
	types := q.Types
	if types == nil {
		types = []string{}
	}
	filters := q.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	m[keyTerm] = q.Term
	m[keyTypes] = types
	m[keyFilters] = filters
	if q.PageCursor != "" {
		m[keyPageCursor] = q.PageCursor
	} else {
		delete(m, keyPageCursor)
	}
	return m
}

// QueryFromMap is the inverse of Query.Map. Unknown keys land in Extensions.
// Values of the wrong shape are stringified or dropped rather than rejected.
func QueryFromMap(m map[string]any) Query {
	q := Query{
		Types:   []string{},
		Filters: map[string]any{},
	}
	for k, v := range m {
		switch k {
		case keyTerm:
			q.Term = stringify(v)
		case keyPageCursor:
			q.PageCursor = stringify(v)
		case keyTypes:
			q.Types = toStrings(v)
		case keyFilters:
			if f, ok := v.(map[string]any); ok {
				q.Filters = f
			}
		default:
			if q.Extensions == nil {
				q.Extensions = make(map[string]any)
			}
			q.Extensions[k] = v
		}
	}
	return q
}

// MarshalJSON writes the flattened form produced by Map.
func (q Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Map())
}

// UnmarshalJSON reads the flattened form produced by MarshalJSON.
func (q *Query) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode query: %w", err)
	}
	*q = QueryFromMap(m)
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, stringify(e))
		}
		return out
	case string:
		return []string{t}
	default:
		return []string{}
	}
}
