package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/alphavantage-data/internal/keypool"
	"github.com/rickgao/alphavantage-data/internal/metrics"
	"github.com/rickgao/alphavantage-data/internal/vpn"
)

// softBlockField is the provider's throttling sentinel. Its presence,
// regardless of content, marks the response as a soft block.
const softBlockField = "Information"

// Request names an Alpha Vantage operation plus its query parameters.
type Request struct {
	Function string
	Params   map[string]string
}

// Dispatcher orchestrates key selection, the HTTP round trip, quota
// commits and soft-block recovery.
type Dispatcher struct {
	baseURL    string
	pool       *keypool.Pool
	rotator    vpn.Rotator
	httpClient *http.Client
	logger     *slog.Logger

	backoff      time.Duration
	maxRotations int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Dispatcher) {
		d.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithBackoff sets the wait between a soft block and the retry.
func WithBackoff(dur time.Duration) Option {
	return func(d *Dispatcher) {
		d.backoff = dur
	}
}

// WithMaxRotations bounds soft-block recoveries per dispatch.
func WithMaxRotations(n int) Option {
	return func(d *Dispatcher) {
		d.maxRotations = n
	}
}

// New creates a Dispatcher for the given query endpoint.
func New(baseURL string, pool *keypool.Pool, rotator vpn.Rotator, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		baseURL: baseURL,
		pool:    pool,
		rotator: rotator,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		backoff:      8 * time.Second,
		maxRotations: 3,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// outcome classifies a single round trip so the dispatch loop can
// branch without error-driven control flow.
type outcome struct {
	kind       outcomeKind
	payload    []byte
	statusCode int
	err        error
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeSoftBlock
	outcomeTransport
	outcomeFormat
)

// Dispatch performs req and returns the raw JSON payload. The returned
// bytes are guaranteed to be a JSON object free of the soft-block
// sentinel.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) ([]byte, error) {
	logger := d.logger.With(
		"request_id", uuid.NewString(),
		"function", req.Function,
	)

	for rotations := 0; ; rotations++ {
		key, err := d.pool.Acquire()
		if err != nil {
			metrics.DispatchTotal.WithLabelValues(req.Function, "exhausted").Inc()
			return nil, fmt.Errorf("acquire api key: %w", err)
		}

		start := time.Now()
		out := d.do(ctx, req, key)
		metrics.DispatchDuration.WithLabelValues(req.Function).Observe(time.Since(start).Seconds())

		switch out.kind {
		case outcomeTransport:
			d.pool.Release(key)
			metrics.DispatchTotal.WithLabelValues(req.Function, "transport_error").Inc()
			logger.Error("request failed", "key", key, "status", out.statusCode, "error", out.err)
			return nil, &TransportError{
				Function:   req.Function,
				Key:        key,
				StatusCode: out.statusCode,
				Err:        out.err,
			}

		case outcomeFormat:
			d.pool.Release(key)
			metrics.DispatchTotal.WithLabelValues(req.Function, "format_error").Inc()
			logger.Error("unreadable response body", "key", key, "error", out.err)
			return nil, &FormatError{Function: req.Function, Key: key, Err: out.err}

		case outcomeSoftBlock:
			metrics.SoftBlocksTotal.Inc()
			metrics.DispatchTotal.WithLabelValues(req.Function, "soft_block").Inc()
			logger.Warn("provider soft block, rotating key", "key", key, "rotations", rotations)

			if err := d.pool.Expire(key); err != nil {
				return nil, fmt.Errorf("expire blocked key %s: %w", key, err)
			}
			d.observePool()

			if rotations >= d.maxRotations {
				metrics.DispatchTotal.WithLabelValues(req.Function, "budget_exceeded").Inc()
				return nil, fmt.Errorf("%w: %d soft blocks for %s", ErrRetryBudgetExceeded, rotations+1, req.Function)
			}

			if err := d.rotateIdentity(ctx); err != nil {
				metrics.DispatchTotal.WithLabelValues(req.Function, "rotation_error").Inc()
				return nil, &RotationError{Function: req.Function, Err: err}
			}
			metrics.RotationsTotal.Inc()

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(d.backoff):
			}
			continue

		default: // outcomeSuccess
			if err := d.pool.Consume(key); err != nil {
				metrics.DispatchTotal.WithLabelValues(req.Function, "exhausted").Inc()
				d.observePool()
				return nil, fmt.Errorf("commit quota for key %s: %w", key, err)
			}
			metrics.DispatchTotal.WithLabelValues(req.Function, "success").Inc()
			d.observePool()
			logger.Debug("dispatch complete", "key", key, "bytes", len(out.payload))
			return out.payload, nil
		}
	}
}

// DispatchInto performs req and unmarshals the payload into result.
func (d *Dispatcher) DispatchInto(ctx context.Context, req Request, result any) error {
	payload, err := d.Dispatch(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", req.Function, err)
	}
	return nil
}

// do performs a single round trip and classifies the result.
func (d *Dispatcher) do(ctx context.Context, req Request, key string) outcome {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, d.buildURL(req, key), nil)
	if err != nil {
		return outcome{kind: outcomeTransport, err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return outcome{kind: outcomeTransport, err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcome{kind: outcomeTransport, err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return outcome{kind: outcomeTransport, statusCode: resp.StatusCode}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return outcome{kind: outcomeFormat, err: err}
	}

	if _, blocked := probe[softBlockField]; blocked {
		return outcome{kind: outcomeSoftBlock, payload: body}
	}

	return outcome{kind: outcomeSuccess, payload: body}
}

// buildURL assembles the query URL for req authenticated with key.
func (d *Dispatcher) buildURL(req Request, key string) string {
	query := url.Values{}
	query.Set("function", req.Function)
	query.Set("apikey", key)
	for k, v := range req.Params {
		query.Set(k, v)
	}
	return d.baseURL + "?" + query.Encode()
}

// rotateIdentity connects the VPN if down, otherwise hops to a random
// region.
func (d *Dispatcher) rotateIdentity(ctx context.Context) error {
	status, err := d.rotator.Status(ctx)
	if err != nil {
		return err
	}
	if status != vpn.StatusConnected {
		return d.rotator.Connect(ctx)
	}
	return d.rotator.SetRegion(ctx, "random")
}

// observePool exports pool occupancy gauges.
func (d *Dispatcher) observePool() {
	s := d.pool.Snapshot()
	metrics.ActiveKeys.Set(float64(len(s.Active)))
	metrics.ExpiredKeys.Set(float64(len(s.Expired)))
	metrics.InFlight.Set(float64(s.InFlight))
}
