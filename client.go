package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/searchapi/internal/querystring"
)

const (
	opClientQuery = "client.query"

	// maxErrorBody caps how much of a failed response is read for the message.
	maxErrorBody = 4 << 10
)

var _ API = (*Client)(nil)

// Client implements API against a search backend over HTTP.
// It sends GET {baseURL}/query with the query encoded as bracketed
// parameters and decodes the JSON result set.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	obs        *observer
}

// NewClient creates an HTTP search client. WithBaseURL is required.
func NewClient(opts ...Option) (*Client, error) {
	cfg := newConfig(opts)
	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		token:      cfg.token,
		httpClient: hc,
		obs:        obs,
	}, nil
}

// Query implements API.
func (c *Client) Query(ctx context.Context, q Query) (rs ResultSet, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opClientQuery, start, err) }()

	u := c.baseURL + "/query"
	if params := querystring.Encode(q.Map()).Encode(); params != "" {
		u += "?" + params
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return ResultSet{}, fmt.Errorf("query: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ResultSet{}, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ResultSet{}, readAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return ResultSet{}, fmt.Errorf("query: decode response: %w", err)
	}
	if rs.Results == nil {
		rs.Results = []Result{}
	}
	return rs, nil
}

// readAPIError extracts a message from {"message": ...} or
// {"error": {"message": ...}} bodies, falling back to the raw text.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error.Message != "":
			msg = payload.Error.Message
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
