package freetogame

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/gamewishlist-backend/pkg/errors"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/angelmondragon/gamewishlist-backend/pkg/metrics"
	"github.com/sony/gobreaker/v2"
)

const (
	DefaultBaseURL = "https://www.freetogame.com/api"
	DefaultTimeout = 10 * time.Second

	breakerName = "freetogame"
	userAgent   = "gamewishlist-backend"

	opSearch  = "search_games"
	opGetGame = "get_game"

	responseBodyLimit int64 = 8 << 20
	errorBodyLimit          = 1024
)

// BreakerSettings tunes the circuit breaker in front of the catalog.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
	Interval     time.Duration
}

// DefaultBreakerSettings trips after half of at least five calls fail and
// probes again after thirty seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  5,
		FailureRatio: 0.5,
		OpenTimeout:  30 * time.Second,
		Interval:     60 * time.Second,
	}
}

// Client talks to the FreeToGame catalog over one shared connection pool.
// It is safe for concurrent use and must be closed once at shutdown.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[*rawResponse]
	metrics    *metrics.CatalogMetrics
	logg       *logger.Logger
	closeOnce  sync.Once

	timeout         time.Duration
	maxIdleConns    int
	idleConnTimeout time.Duration
	breakerSettings BreakerSettings
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default pooled HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the catalog base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds every catalog call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithPool sizes the idle connection pool.
func WithPool(maxIdleConns int, idleConnTimeout time.Duration) Option {
	return func(c *Client) {
		if maxIdleConns > 0 {
			c.maxIdleConns = maxIdleConns
		}
		if idleConnTimeout > 0 {
			c.idleConnTimeout = idleConnTimeout
		}
	}
}

// WithBreakerSettings overrides the circuit breaker thresholds.
func WithBreakerSettings(settings BreakerSettings) Option {
	return func(c *Client) {
		c.breakerSettings = settings
	}
}

// WithMetrics records call outcomes and breaker state.
func WithMetrics(m *metrics.CatalogMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger logs breaker transitions.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// NewClient builds the catalog client. The transport is created here and
// reused for the lifetime of the process.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:         DefaultBaseURL,
		timeout:         DefaultTimeout,
		maxIdleConns:    20,
		idleConnTimeout: 90 * time.Second,
		breakerSettings: DefaultBreakerSettings(),
		logg:            logger.Nop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{
			Timeout:   client.timeout,
			Transport: newTransport(client.maxIdleConns, client.idleConnTimeout),
		}
	}

	client.breaker = gobreaker.NewCircuitBreaker[*rawResponse](client.gobreakerSettings())
	client.metrics.SetBreakerState(breakerName, stateToFloat(gobreaker.StateClosed))

	return client
}

func newTransport(maxIdleConns int, idleConnTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConns,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

func (c *Client) gobreakerSettings() gobreaker.Settings {
	cfg := c.breakerSettings
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// a caller giving up says nothing about the catalog's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := c.logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			c.logg.Warn(ctx, "catalog.breaker_state_change")
			c.metrics.SetBreakerState(name, stateToFloat(to))
		},
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BreakerState reports the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Close releases pooled connections. Safe to call more than once.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.httpClient.CloseIdleConnections()
	})
	return nil
}

// SearchGames lists catalog games, optionally filtered by platform and genre.
func (c *Client) SearchGames(ctx context.Context, platform, genre string) ([]GameSummary, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamUnavailable, "catalog client not configured")
	}

	query := url.Values{}
	if p := strings.TrimSpace(platform); p != "" {
		query.Set("platform", p)
	}
	if g := strings.TrimSpace(genre); g != "" {
		query.Set("category", g)
	}

	start := time.Now()
	resp, err := c.get(ctx, "games", query)
	if err != nil {
		c.observe(opSearch, err, start)
		return nil, err
	}

	if resp.status < 200 || resp.status > 299 {
		err := upstreamStatusError(resp, "catalog search failed")
		c.observe(opSearch, err, start)
		return nil, err
	}

	games, err := decodeGameList(resp.body)
	c.observe(opSearch, err, start)
	if err != nil {
		return nil, err
	}
	return games, nil
}

// GetGameByID fetches the catalog record for id.
func (c *Client) GetGameByID(ctx context.Context, id int) (*GameDetail, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamUnavailable, "catalog client not configured")
	}

	start := time.Now()
	resp, err := c.get(ctx, "game", url.Values{"id": []string{strconv.Itoa(id)}})
	if err != nil {
		c.observe(opGetGame, err, start)
		return nil, err
	}

	switch {
	case resp.status >= 400 && resp.status < 500:
		err := pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "game not found in catalog").
			WithDetails(map[string]any{"game_id": id, "status": resp.status})
		c.observe(opGetGame, err, start)
		return nil, err
	case resp.status < 200 || resp.status > 299:
		err := upstreamStatusError(resp, "catalog lookup failed")
		c.observe(opGetGame, err, start)
		return nil, err
	}

	detail, err := decodeGameDetail(resp.body, id)
	c.observe(opGetGame, err, start)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

type rawResponse struct {
	status int
	body   []byte
}

// serverError marks a 5xx so the breaker counts it as a failure.
type serverError struct {
	resp *rawResponse
}

func (e *serverError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.resp.status)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*rawResponse, error) {
	endpoint := c.buildURL(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.breaker.Execute(func() (*rawResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = httpResp.Body.Close() }()

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, responseBodyLimit))
		if err != nil {
			return nil, err
		}

		raw := &rawResponse{status: httpResp.StatusCode, body: body}
		if raw.status >= 500 {
			return nil, &serverError{resp: raw}
		}
		return raw, nil
	})
	if err == nil {
		return resp, nil
	}

	var srvErr *serverError
	if errors.As(err, &srvErr) {
		return srvErr.resp, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstreamUnavailable, err, "catalog temporarily unavailable")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeUpstreamUnavailable, err, "catalog unreachable")
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}

func (c *Client) observe(operation string, err error, start time.Time) {
	outcome := metrics.OutcomeSuccess
	switch typed := pkgerrors.As(err); {
	case err == nil:
	case typed == nil:
		outcome = metrics.OutcomeUpstream
	case typed.Code() == pkgerrors.CodeUpstreamNotFound:
		outcome = metrics.OutcomeNotFound
	case typed.Code() == pkgerrors.CodeUpstreamUnavailable:
		outcome = metrics.OutcomeUnavailable
	default:
		outcome = metrics.OutcomeUpstream
	}
	c.metrics.Observe(operation, outcome, time.Since(start))
}

func upstreamStatusError(resp *rawResponse, msg string) error {
	return pkgerrors.New(pkgerrors.CodeUpstream, msg).WithDetails(map[string]any{
		"upstream_status": resp.status,
		"upstream_body":   truncate(resp.body, errorBodyLimit),
	})
}

func truncate(body []byte, limit int) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > limit {
		return trimmed[:limit]
	}
	return trimmed
}

func decodeGameList(body []byte) ([]GameSummary, error) {
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		var envelope statusEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Status != nil && *envelope.Status == 0 {
			return []GameSummary{}, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "unexpected catalog search payload").
			WithDetails(map[string]any{"upstream_body": truncate(trimmed, errorBodyLimit)})
	}

	games := []GameSummary{}
	if err := json.Unmarshal(trimmed, &games); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode catalog search response")
	}
	if games == nil {
		games = []GameSummary{}
	}
	return games, nil
}

func decodeGameDetail(body []byte, id int) (*GameDetail, error) {
	var envelope statusEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Status != nil && *envelope.Status == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUpstreamNotFound, "game not found in catalog").
			WithDetails(map[string]any{"game_id": id, "upstream_message": envelope.StatusMessage})
	}

	var detail GameDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode catalog game response")
	}
	return &detail, nil
}
