// Package chi exposes a search API over HTTP with the chi router.
package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi"
	"github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/querystring"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server serves search queries against a searchapi.API.
type Server struct {
	api    searchapi.API
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(api searchapi.API, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{api: api, health: health, logger: logger}
}

// Mount registers the routes on r: GET {basePath}/query, GET /health and
// GET /metrics.
func (s *Server) Mount(r chi.Router, basePath string) {
	r.Get(basePath+"/query", s.Query)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// Query handles GET {basePath}/query. The query string uses bracketed
// keys, e.g. term=x&types[0]=techdocs&filters[kind]=Component.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	params, err := querystring.Decode(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	q := searchapi.QueryFromMap(params)

	rs, err := s.api.Query(r.Context(), q)
	if err != nil {
		s.handleBackendError(r.Context(), w, err)
		return
	}
	if rs.Results == nil {
		rs.Results = []searchapi.Result{}
	}

	logger.FromContextOr(r.Context(), s.logger).Debug("query served",
		zap.String("term", q.Term),
		zap.Strings("types", q.Types),
		zap.Int("results", len(rs.Results)),
	)
	writeJSON(w, http.StatusOK, rs)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleBackendError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContextOr(ctx, s.logger)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("backend query timed out", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, CodeBackendTimeout, "backend timeout")
		return
	}

	var apiErr *searchapi.APIError
	if errors.As(err, &apiErr) {
		log.Warn("backend rejected query", zap.Int("backend_status", apiErr.StatusCode), zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeBackendError, apiErr.Message)
		return
	}

	log.Error("backend query failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, CodeBackendError, "backend error")
}
