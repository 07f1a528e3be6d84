// Package cached decorates a search API with a key-value result cache.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi"
	"github.com/kailas-cloud/searchapi/internal/cache"
)

const keyPrefix = "searchapi:query_cache:"

// store is the consumer interface for the result cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

var _ searchapi.API = (*API)(nil)

// API caches result sets of inner by query.
// Cache failures are logged and the inner API is used.
type API struct {
	inner      searchapi.API
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	inner searchapi.API,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *API {
	return &API{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Query returns a cached result set or calls the inner API.
// Errors from the inner API are not cached.
func (a *API) Query(ctx context.Context, q searchapi.Query) (searchapi.ResultSet, error) {
	key, err := cacheKey(q)
	if err != nil {
		a.logger.Warn("Failed to build cache key", zap.Error(err))
		return a.inner.Query(ctx, q)
	}

	if rs, ok := a.getFromCache(ctx, key); ok {
		a.incCache("hit")
		return rs, nil
	}
	a.incCache("miss")

	rs, err := a.inner.Query(ctx, q)
	if err != nil {
		return searchapi.ResultSet{}, fmt.Errorf("query backend: %w", err)
	}

	a.putToCache(ctx, key, rs)
	return rs, nil
}

func (a *API) incCache(result string) {
	if a.cacheTotal != nil {
		a.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the wire JSON of q. Map keys marshal sorted, so equal
// queries share a key.
func cacheKey(q searchapi.Query) (string, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	h := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(h[:]), nil
}

func (a *API) getFromCache(ctx context.Context, key string) (searchapi.ResultSet, bool) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			a.logger.Warn("Failed to get cached result set", zap.String("key", key), zap.Error(err))
		}
		return searchapi.ResultSet{}, false
	}
	if len(data) == 0 {
		return searchapi.ResultSet{}, false
	}

	var rs searchapi.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		a.logger.Warn("Failed to parse cached result set", zap.String("key", key), zap.Error(err))
		return searchapi.ResultSet{}, false
	}
	if rs.Results == nil {
		rs.Results = []searchapi.Result{}
	}
	return rs, true
}

func (a *API) putToCache(ctx context.Context, key string, rs searchapi.ResultSet) {
	data, err := json.Marshal(rs)
	if err != nil {
		a.logger.Warn("Failed to encode result set", zap.String("key", key), zap.Error(err))
		return
	}
	if err := a.store.SetWithTTL(ctx, key, data, a.ttl); err != nil {
		a.logger.Warn("Failed to cache result set", zap.String("key", key), zap.Error(err))
	}
}
