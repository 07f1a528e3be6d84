package searchapi

import (
	"context"
	"sync"
	"testing"
	"time"
)

// --- API mock ---

type mockAPI struct {
	mu      sync.Mutex
	calls   []Query
	queryFn func(ctx context.Context, q Query) (ResultSet, error)
}

func (m *mockAPI) Query(ctx context.Context, q Query) (ResultSet, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	m.mu.Unlock()
	if m.queryFn != nil {
		return m.queryFn(ctx, q)
	}
	return ResultSet{Results: []Result{}}, nil
}

func (m *mockAPI) Calls() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Query, len(m.calls))
	copy(out, m.calls)
	return out
}

// --- gated API: each call blocks until released by term ---

type gatedAPI struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	errs  map[string]error
}

func newGatedAPI() *gatedAPI {
	return &gatedAPI{gates: map[string]chan struct{}{}, errs: map[string]error{}}
}

func (g *gatedAPI) gate(term string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[term]
	if !ok {
		ch = make(chan struct{})
		g.gates[term] = ch
	}
	return ch
}

func (g *gatedAPI) release(term string) { close(g.gate(term)) }

func (g *gatedAPI) fail(term string, err error) {
	g.mu.Lock()
	g.errs[term] = err
	g.mu.Unlock()
}

func (g *gatedAPI) Query(_ context.Context, q Query) (ResultSet, error) {
	<-g.gate(q.Term)
	g.mu.Lock()
	err := g.errs[q.Term]
	g.mu.Unlock()
	if err != nil {
		return ResultSet{}, err
	}
	return ResultSet{Results: []Result{{Type: "test", Document: map[string]any{"term": q.Term}}}}, nil
}

// --- helpers ---

func newTestResults(t *testing.T, api API, opts ...Option) *Results {
	t.Helper()
	r, err := NewResults(api, opts...)
	if err != nil {
		t.Fatalf("NewResults: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		r.inflight.Wait()
	})
	return r
}

func waitSettled(t *testing.T, r *Results) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := r.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	return st
}

// waitInflight blocks until all started queries returned.
func waitInflight(t *testing.T, r *Results) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for in-flight queries")
	}
}
