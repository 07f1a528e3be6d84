package searchapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultClientTimeout = 30 * time.Second

// Option configures a Client or a Results binder.
// Options that do not apply to the component being built are ignored.
type Option interface {
	apply(*config)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	// Client
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration

	// Results
	deepEqualDeps bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func newConfig(opts []Option) *config {
	cfg := &config{timeout: defaultClientTimeout}
	for _, o := range opts {
		if o != nil {
			o.apply(cfg)
		}
	}
	return cfg
}

// WithBaseURL sets the search backend root, e.g. http://localhost:7007/api/search.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *config) {
		c.baseURL = u
	})
}

// WithToken sends the token as a Bearer Authorization header.
func WithToken(token string) Option {
	return optionFunc(func(c *config) {
		c.token = token
	})
}

// WithHTTPClient replaces the HTTP client used by Client.
// The client's own Timeout takes precedence over WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *config) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) {
		c.timeout = d
	})
}

// WithDeepEqualDeps makes Results compare queries by value instead of by
// pointer identity. A fresh *PartialQuery with the same fields then does not
// trigger a new backend call.
func WithDeepEqualDeps() Option {
	return optionFunc(func(c *config) {
		c.deepEqualDeps = true
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = l
	})
}

// WithPrometheus registers operation counts and durations on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *config) {
		c.metricsReg = reg
	})
}
