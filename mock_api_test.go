package searchapi

import (
	"context"
	"reflect"
	"testing"
)

func TestMockAPI_PresetResults(t *testing.T) {
	x := Result{Type: "software-catalog", Document: map[string]any{"title": "x"}}
	y := Result{Type: "techdocs", Document: map[string]any{"title": "y"}}
	want := ResultSet{Results: []Result{x, y}}
	m := NewMockAPI(want)

	queries := []Query{
		{},
		{Term: "anything", Types: []string{"a"}, Filters: map[string]any{"k": "v"}},
	}
	for _, q := range queries {
		got, err := m.Query(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Query(%+v) = %+v, want %+v", q, got, want)
		}
	}
}

func TestMockAPI_NoPreset(t *testing.T) {
	m := NewMockAPI()

	got, err := m.Query(context.Background(), Query{Term: "foo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Results == nil || len(got.Results) != 0 {
		t.Errorf("Results = %#v, want empty non-nil slice", got.Results)
	}
}

func TestMockAPI_NilReceiver(t *testing.T) {
	var m *MockAPI
	got, err := m.Query(context.Background(), Query{})
	if err != nil || len(got.Results) != 0 {
		t.Errorf("nil mock = (%+v, %v), want empty result set", got, err)
	}
}
