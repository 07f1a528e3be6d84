package health

import (
	"context"

	"github.com/kailas-cloud/searchapi"
)

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BackendProber runs a probe query against the search backend.
type BackendProber interface {
	Query(ctx context.Context, q searchapi.Query) (searchapi.ResultSet, error)
}
