package searchapi

import "context"

var _ API = (*MockAPI)(nil)

// MockAPI answers every query with a preset result set.
// Use it in tests and when developing UI without a backend.
type MockAPI struct {
	results *ResultSet
}

// NewMockAPI creates a mock. The first result set, if given, is returned by
// every Query call; without one Query returns an empty result set.
func NewMockAPI(results ...ResultSet) *MockAPI {
	m := &MockAPI{}
	if len(results) > 0 {
		rs := results[0]
		m.results = &rs
	}
	return m
}

// Query ignores its arguments and never fails.
func (m *MockAPI) Query(_ context.Context, _ Query) (ResultSet, error) {
	if m == nil || m.results == nil {
		return ResultSet{Results: []Result{}}, nil
	}
	return *m.results, nil
}
