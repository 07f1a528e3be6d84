package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/searchapi"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockBackend struct {
	err   error
	query searchapi.Query
}

func (m *mockBackend) Query(_ context.Context, q searchapi.Query) (searchapi.ResultSet, error) {
	m.query = q
	return searchapi.ResultSet{Results: []searchapi.Result{}}, m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockBackend{}, &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if r.Checks["backend"] != CheckOK {
		t.Errorf("expected backend %q, got %q", CheckOK, r.Checks["backend"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockBackend{}, &mockCachePinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["backend"] != CheckOK {
		t.Errorf("expected backend %q, got %q", CheckOK, r.Checks["backend"])
	}
}

func TestCheck_BackendError(t *testing.T) {
	svc := New(&mockBackend{err: errors.New("timeout")}, &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["backend"] != CheckError {
		t.Errorf("expected backend %q, got %q", CheckError, r.Checks["backend"])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(
		&mockBackend{err: errors.New("backend down")},
		&mockCachePinger{err: errors.New("cache down")},
	)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Error("expected cache error")
	}
	if r.Checks["backend"] != CheckError {
		t.Error("expected backend error")
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(&mockBackend{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_ProbeIsDefaultQuery(t *testing.T) {
	b := &mockBackend{}
	New(b, nil).Check(context.Background())

	if b.query.Term != "" || len(b.query.Types) != 0 || len(b.query.Filters) != 0 {
		t.Errorf("expected default probe query, got %+v", b.query)
	}
}
