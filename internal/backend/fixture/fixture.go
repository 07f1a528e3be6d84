// Package fixture serves search result sets from a YAML file.
package fixture

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchapi"
)

var _ searchapi.API = (*Backend)(nil)

// File is the on-disk fixture layout.
type File struct {
	Default *searchapi.ResultSet           `yaml:"default"`
	Terms   map[string]searchapi.ResultSet `yaml:"terms"`
}

// Backend answers queries with the result set registered for the exact
// query term, then the default set, then an empty result set.
// Query types, when given, narrow the results to matching types.
type Backend struct {
	terms    map[string]searchapi.ResultSet
	fallback *searchapi.MockAPI
}

// New builds a backend from an already parsed fixture file.
func New(f File) *Backend {
	var fallback *searchapi.MockAPI
	if f.Default != nil {
		fallback = searchapi.NewMockAPI(*f.Default)
	} else {
		fallback = searchapi.NewMockAPI()
	}
	terms := f.Terms
	if terms == nil {
		terms = map[string]searchapi.ResultSet{}
	}
	return &Backend{terms: terms, fallback: fallback}
}

// Load reads a fixture file. An empty path yields a backend that always
// returns empty results.
func Load(path string) (*Backend, error) {
	if path == "" {
		return New(File{}), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return New(f), nil
}

// Terms reports how many term-specific result sets are loaded.
func (b *Backend) Terms() int {
	return len(b.terms)
}

// Query implements searchapi.API.
func (b *Backend) Query(ctx context.Context, q searchapi.Query) (searchapi.ResultSet, error) {
	rs, ok := b.terms[q.Term]
	if !ok {
		var err error
		if rs, err = b.fallback.Query(ctx, q); err != nil {
			return searchapi.ResultSet{}, fmt.Errorf("fixture query: %w", err)
		}
	}
	return narrow(rs, q.Types), nil
}

// narrow keeps results of the given types and copies the slice so callers
// cannot mutate the loaded fixtures.
func narrow(rs searchapi.ResultSet, types []string) searchapi.ResultSet {
	out := rs
	out.Results = make([]searchapi.Result, 0, len(rs.Results))
	for _, r := range rs.Results {
		if len(types) == 0 || slices.Contains(types, r.Type) {
			out.Results = append(out.Results, r)
		}
	}
	if len(types) > 0 && len(out.Results) != len(rs.Results) {
		out.NumberOfResults = searchapi.Ptr(len(out.Results))
	}
	return out
}
