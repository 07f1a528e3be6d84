package searchapi

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// API is the contract a search backend must satisfy.
// Failure modes (timeouts, malformed queries, outages) are defined by the
// implementation and surface as the returned error.
type API interface {
	Query(ctx context.Context, q Query) (ResultSet, error)
}

// APIFunc adapts a function to the API interface.
type APIFunc func(ctx context.Context, q Query) (ResultSet, error)

// Query implements API.
func (f APIFunc) Query(ctx context.Context, q Query) (ResultSet, error) {
	return f(ctx, q)
}

// SearchAPIRef identifies the search API in a Registry.
var SearchAPIRef = NewAPIRef[API]("plugin.search.queryservice")

var refIDPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:[.-][a-z][a-z0-9]*)*$`)

// APIRef is a typed capability token. Two refs with the same ID resolve to
// the same registry slot.
type APIRef[T any] struct {
	id string
}

// NewAPIRef creates a ref. It panics on a malformed id, so refs belong in
// package-level vars.
func NewAPIRef[T any](id string) APIRef[T] {
	if !refIDPattern.MatchString(id) {
		panic(fmt.Sprintf("searchapi: invalid api ref id %q", id))
	}
	return APIRef[T]{id: id}
}

// ID returns the stable identifier of the ref.
func (r APIRef[T]) ID() string { return r.id }

func (r APIRef[T]) String() string { return "apiRef{" + r.id + "}" }

// Registry maps capability tokens to implementations.
// There is no package-level registry: build one and pass it where needed.
type Registry struct {
	mu    sync.RWMutex
	impls map[string]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{impls: make(map[string]any)}
}

// Register binds impl to ref, replacing any previous binding.
func Register[T any](reg *Registry, ref APIRef[T], impl T) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.impls[ref.id] = impl
}

// Lookup resolves ref to its implementation.
func Lookup[T any](reg *Registry, ref APIRef[T]) (T, error) {
	var zero T
	if reg == nil {
		return zero, fmt.Errorf("lookup %s: %w", ref, ErrAPINotRegistered)
	}

	reg.mu.RLock()
	impl, ok := reg.impls[ref.id]
	reg.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("lookup %s: %w", ref, ErrAPINotRegistered)
	}
	typed, ok := impl.(T)
	if !ok {
		return zero, fmt.Errorf("lookup %s: registered %T: %w", ref, impl, ErrAPINotRegistered)
	}
	return typed, nil
}
