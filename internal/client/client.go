package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/infrastructure/resilience"
)

// Config describes how to reach a server
type Config struct {
	BaseURL   string
	Container string
	// Caller is sent as X-Caller-UID / X-Caller-GID when set
	Caller *access.Caller

	Timeout      time.Duration
	MaxRetries   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration

	Logger *zap.Logger
}

// DefaultConfig returns settings for a local server
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:8000",
		Container:    "procintf",
		Timeout:      10 * time.Second,
		MaxRetries:   3,
		RetryWait:    100 * time.Millisecond,
		RetryMaxWait: 2 * time.Second,
	}
}

// Client is safe for concurrent use
type Client struct {
	resty     *resty.Client
	breaker   *resilience.Breaker
	container string
}

// response is the JSON envelope used by the server
type response struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Written int               `json:"written"`
	Nodes   []access.NodeInfo `json:"nodes"`
	Status  string            `json:"status"`
}

// New creates a client
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Container == "" {
		cfg.Container = def.Container
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = def.RetryWait
	}
	if cfg.RetryMaxWait == 0 {
		cfg.RetryMaxWait = def.RetryMaxWait
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Pooled transport from retryablehttp; retries are driven by resty
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetTransport(retryClient.HTTPClient.Transport).
		SetLogger(cfg.Logger.Sugar()).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", "procintf-client/1.0").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil {
				return false
			}
			switch r.StatusCode() {
			case http.StatusServiceUnavailable, http.StatusTooManyRequests:
				return true
			}
			return false
		}).
		SetRetryAfter(func(_ *resty.Client, r *resty.Response) (time.Duration, error) {
			if r == nil || r.RawResponse == nil {
				return 0, nil
			}
			// Honours Retry-After, capped so a hint cannot stall the caller
			d := retryablehttp.DefaultBackoff(cfg.RetryWait, cfg.RetryMaxWait, r.Request.Attempt, r.RawResponse)
			if d > cfg.RetryMaxWait {
				d = cfg.RetryMaxWait
			}
			return d, nil
		})

	if cfg.Caller != nil {
		rc.SetHeader("X-Caller-UID", fmt.Sprint(cfg.Caller.UID))
		rc.SetHeader("X-Caller-GID", fmt.Sprint(cfg.Caller.GID))
	}

	breaker := resilience.New("procintf", resilience.Settings{
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsFailure: isFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			cfg.Logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		resty:     rc,
		breaker:   breaker,
		container: cfg.Container,
	}
}

// isFailure keeps deliberate server answers from tripping the breaker
func isFailure(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) endpointPath(name string) string {
	return "/proc/" + url.PathEscape(c.container) + "/" + url.PathEscape(name)
}

// Read returns the show output of the named endpoint
func (c *Client) Read(ctx context.Context, name string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.endpointPath(name), nil)
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// Write sends value to the named endpoint and returns the bytes accepted.
// The value is sent verbatim; callers add the trailing newline if wanted.
func (c *Client) Write(ctx context.Context, name, value string) (int, error) {
	resp, err := c.do(ctx, http.MethodPut, c.endpointPath(name), []byte(value))
	if err != nil {
		return 0, err
	}
	var out response
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("decode write response: %w", err)
	}
	return out.Written, nil
}

// List returns every node the server exposes
func (c *Client) List(ctx context.Context) ([]access.NodeInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, "/proc", nil)
	if err != nil {
		return nil, err
	}
	var out response
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return out.Nodes, nil
}

// Health returns the server's health status string
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return "", err
	}
	var out response
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode health: %w", err)
	}
	return out.Status, nil
}

// BreakerState reports the circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*resty.Response, error) {
	var resp *resty.Response
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		req := c.resty.R().SetContext(ctx)
		if body != nil {
			req.SetHeader("Content-Type", "text/plain").SetBody(body)
		}
		r, err := req.Execute(method, path)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if r.IsError() {
			return decodeError(r)
		}
		resp = r
		return nil
	})
	return resp, err
}

func decodeError(r *resty.Response) error {
	e := &Error{Status: r.StatusCode()}
	var out response
	if err := sonic.Unmarshal(r.Body(), &out); err == nil && out.Error != "" {
		e.Message = out.Error
		e.Code = out.Code
		return e
	}
	e.Message = r.String()
	if e.Message == "" {
		e.Message = http.StatusText(e.Status)
	}
	return e
}
