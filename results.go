package searchapi

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

const opResultsQuery = "results.query"

// ResolveQuery fills absent fields of p with defaults: an empty term, no
// types and no filters. Present fields, including extensions, are kept as is.
// A nil p resolves to the all-default query.
func ResolveQuery(p *PartialQuery) Query {
	q := Query{
		Types:   []string{},
		Filters: map[string]any{},
	}
	if p == nil {
		return q
	}
	if p.Term != nil {
		q.Term = *p.Term
	}
	if p.Types != nil {
		q.Types = p.Types
	}
	if p.Filters != nil {
		q.Filters = p.Filters
	}
	if p.PageCursor != nil {
		q.PageCursor = *p.PageCursor
	}
	q.Extensions = p.Extensions
	return q
}

// Results binds partial queries to a live async State.
//
// Each call to Use with a new dependency key starts one backend query.
// Queries are never cancelled, retried or cached; a monotonic sequence
// number makes sure only the response to the latest query is applied.
type Results struct {
	api  API
	obs  *observer
	deep bool

	mu       sync.Mutex
	started  bool
	lastRef  *PartialQuery
	lastQry  Query
	issued   uint64
	state    State
	hub      *hub
	closed   bool
	inflight sync.WaitGroup
}

// NewResults creates a binder over api.
func NewResults(api API, opts ...Option) (*Results, error) {
	if api == nil {
		return nil, ErrNilAPI
	}
	cfg := newConfig(opts)
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, fmt.Errorf("new results: %w", err)
	}
	return &Results{
		api:  api,
		obs:  obs,
		deep: cfg.deepEqualDeps,
		hub:  newHub(),
	}, nil
}

// NewResultsFrom resolves the search API from reg via SearchAPIRef and
// creates a binder over it. Resolution happens once, here.
func NewResultsFrom(reg *Registry, opts ...Option) (*Results, error) {
	api, err := Lookup(reg, SearchAPIRef)
	if err != nil {
		return nil, fmt.Errorf("new results: %w", err)
	}
	return NewResults(api, opts...)
}

// Use returns the current state for p, starting a backend query first if
// p's dependency key changed since the previous call.
//
// By default the key is the pointer p itself. With WithDeepEqualDeps it is
// the resolved query value.
func (r *Results) Use(ctx context.Context, p *PartialQuery) State {
	q := ResolveQuery(p)

	r.mu.Lock()
	if r.closed || (r.started && r.sameDeps(p, q)) {
		st := r.state
		r.mu.Unlock()
		return st
	}
	r.started = true
	r.lastRef, r.lastQry = p, q
	r.issued++
	seq := r.issued
	r.state = r.state.loading(seq)
	r.hub.publish(r.state)
	st := r.state
	r.inflight.Add(1)
	r.mu.Unlock()

	go r.run(ctx, seq, q)
	return st
}

// Refresh starts a new query for the last used dependency key.
// It returns the zero State if Use was never called.
func (r *Results) Refresh(ctx context.Context) State {
	r.mu.Lock()
	if r.closed || !r.started {
		st := r.state
		r.mu.Unlock()
		return st
	}
	r.issued++
	seq := r.issued
	q := r.lastQry
	r.state = r.state.loading(seq)
	r.hub.publish(r.state)
	st := r.state
	r.inflight.Add(1)
	r.mu.Unlock()

	go r.run(ctx, seq, q)
	return st
}

func (r *Results) sameDeps(p *PartialQuery, q Query) bool {
	if r.deep {
		return reflect.DeepEqual(r.lastQry, q)
	}
	return r.lastRef == p
}

func (r *Results) run(ctx context.Context, seq uint64, q Query) {
	defer r.inflight.Done()

	start := time.Now()
	rs, err := r.api.Query(ctx, q)
	r.obs.observe(opResultsQuery, start, err)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if seq != r.issued {
		r.obs.dropped(opResultsQuery, seq, r.issued)
		return
	}
	r.state = settled(seq, rs, err)
	r.hub.publish(r.state)
}

// State returns the current snapshot.
func (r *Results) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe returns a channel that receives the current state immediately
// and every later change. Slow readers only see the latest snapshot.
// The channel is closed by cancel or by Close.
func (r *Results) Subscribe() (<-chan State, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		ch := make(chan State, 1)
		ch <- r.state
		close(ch)
		return ch, func() {}
	}

	id, ch := r.hub.add(r.state)
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if !r.closed {
				r.hub.remove(id)
			}
		})
	}
	return ch, cancel
}

// Wait blocks until the latest issued query settles, then returns its state.
// It returns ErrClosed if the binder is closed first, or ctx's error.
func (r *Results) Wait(ctx context.Context) (State, error) {
	for {
		r.mu.Lock()
		st, changed, closed := r.state, r.hub.changed, r.closed
		r.mu.Unlock()

		if st.Settled() {
			return st, nil
		}
		if closed {
			return st, ErrClosed
		}

		select {
		case <-ctx.Done():
			return st, fmt.Errorf("wait: %w", ctx.Err())
		case <-changed:
		}
	}
}

// Close stops state delivery and closes subscriber channels.
// In-flight queries run to completion and their results are discarded.
func (r *Results) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.hub.close()
}
