package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// AnalyzePath is the scoring endpoint relative to the service base URL.
const AnalyzePath = "/api/tasks/analyze/"

// Scorer sends one analysis request and returns the scored tasks.
type Scorer interface {
	Score(ctx context.Context, strategy string, body []byte) ([]ScoredRecord, error)
}

// ClientConfig configures the scoring service client.
type ClientConfig struct {
	BaseURL     string        // e.g. https://task-analyzer.example.com
	HTTPClient  *http.Client  // defaults to a client without timeout
	MaxFailures uint32        // consecutive service failures before it is reported unhealthy; 0 disables tracking
	OpenTimeout time.Duration // how long the unhealthy state lasts before the next outcome is trusted (default 30s)
}

// Client talks to the remote scoring service. Every call sends exactly one
// request. The circuit breaker only tracks service health: an open breaker is
// reported by Degraded and never stops a request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	health     *gobreaker.TwoStepCircuitBreaker
}

// NewClient creates a scoring client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	maxFailures := cfg.MaxFailures

	health := gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        "scoring-service",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return maxFailures > 0 && counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %q: %s -> %s", name, from, to)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		health:     health,
	}
}

// isServiceHealthy decides whether an outcome counts against the breaker.
// Client-side rejections (4xx) and caller cancellation say nothing about the service.
func isServiceHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var aerr *Error
	if errors.As(err, &aerr) && aerr.Kind == KindRemoteError {
		return aerr.Status < http.StatusInternalServerError
	}
	return false
}

// Degraded reports whether the service failed MaxFailures times in a row and
// has not answered successfully since.
func (c *Client) Degraded() bool {
	return c.health.State() == gobreaker.StateOpen
}

// Endpoint returns the full analyze URL for the given strategy.
func (c *Client) Endpoint(strategy string) string {
	return c.baseURL + AnalyzePath + "?" + url.Values{"strategy": {strategy}}.Encode()
}

// Score posts the JSON body to the analyze endpoint.
func (c *Client) Score(ctx context.Context, strategy string, body []byte) ([]ScoredRecord, error) {
	// While open (or half-open with a request already outstanding) the
	// outcome is not recorded, but the request is still sent.
	done, allowErr := c.health.Allow()

	data, err := c.send(ctx, strategy, body)
	if allowErr == nil {
		done(isServiceHealthy(err))
	}
	if err != nil {
		return nil, err
	}

	var scored []ScoredRecord
	if err := json.Unmarshal(data, &scored); err != nil {
		return nil, fmt.Errorf("decoding scoring response: %w", err)
	}
	return scored, nil
}

// send performs the HTTP round trip and returns the raw success body.
func (c *Client) send(ctx context.Context, strategy string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(strategy), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetworkError, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindRemoteError, Status: resp.StatusCode, Body: string(data)}
	}
	if err != nil {
		return nil, &Error{Kind: KindNetworkError, Err: fmt.Errorf("reading response body: %w", err)}
	}

	return data, nil
}

type requestIDKey struct{}

// WithRequestID attaches an id that is sent as the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
