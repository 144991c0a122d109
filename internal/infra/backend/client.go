package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"canal-panel/internal/config"
)

const tracerName = "canal-panel/internal/infra/backend"

// Client talks to the REST backend that owns clients, channels, withdrawals and the
// Telegram task queues.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
	tracer        trace.Tracer
	maxRetries    int
	retryInterval time.Duration
}

func NewClient(cfg config.HTTPClientConfig, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.ADDR())
	if err != nil {
		return nil, errors.Wrap(err, "parse backend address")
	}

	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		return nil, errors.Wrap(err, "backend tls config")
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	// burst is at least 1; a non-positive RPS disables limiting
	burst := max(cfg.RateLimit.Burst, 1)
	limit := rate.Inf
	if cfg.RateLimit.RPS > 0 {
		limit = rate.Limit(cfg.RateLimit.RPS)
	}

	return &Client{
		baseURL:       base,
		http:          &http.Client{Timeout: cfg.Timeout, Transport: transport},
		limiter:       rate.NewLimiter(limit, burst),
		logger:        logger,
		tracer:        otel.Tracer(tracerName),
		maxRetries:    max(cfg.MaxRetries, 0),
		retryInterval: cfg.RetryInterval,
	}, nil
}

// request describes one call; body is JSON-encoded unless form is set.
// route is the path template used for span names and metric labels.
type request struct {
	method string
	path   string
	route  string
	query  url.Values
	body   any
	form   url.Values
}

// do sends req and decodes a 2xx JSON reply into out (when out is non-nil).
// GETs are retried on transport errors and 5xx replies; writes are sent once.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if req.route == "" {
		req.route = req.path
	}
	ctx, span := c.tracer.Start(ctx, "backend "+req.method+" "+req.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.method),
			attribute.String("http.route", req.route),
		),
	)
	defer span.End()

	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryInterval):
			}
		}

		raw, status, err := c.roundTrip(ctx, req)
		if err == nil && status < 300 {
			span.SetAttributes(attribute.Int("http.status_code", status))
			if out == nil || len(bytes.TrimSpace(raw)) == 0 {
				return nil
			}
			if err := json.Unmarshal(raw, out); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "decode")
				return errors.Wrapf(err, "decode %s %s", req.method, req.path)
			}
			return nil
		}

		if err == nil {
			err = NewAPIError(status, raw)
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
		if attempt < attempts {
			c.logger.Warn("Backend request failed, retrying",
				"method", req.method,
				"path", req.path,
				"attempt", attempt,
				"error", err)
		}
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, req request) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, errors.Wrap(err, "rate limiting")
	}

	u := c.baseURL.JoinPath(req.path)
	if strings.HasSuffix(req.path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, 0, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, 0, errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	observeRequest(req.method, req.route, resp, err, time.Since(started))
	if err != nil {
		return nil, 0, &TransportError{Method: req.method, Path: req.path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Method: req.method, Path: req.path, Err: err}
	}
	return raw, resp.StatusCode, nil
}

func retryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}

// routed fills the {id} placeholder of route and keeps the template for labels.
func routed(method, route string, id int64) request {
	return request{
		method: method,
		path:   strings.Replace(route, "{id}", strconv.FormatInt(id, 10), 1),
		route:  route,
	}
}
