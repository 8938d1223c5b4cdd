// Package generation talks to the external itinerary generation service.
package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"tripwise/apperr"
	"tripwise/logging"
	"tripwise/metrics"
	"tripwise/models"
)

const breakerName = "itinerary-generator"

// Client calls the generator over HTTP. Every call runs inside a circuit
// breaker; calls are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*models.Itinerary]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.Itinerary](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// caller mistakes must not trip the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperr.ErrInvalidArgument) || errors.Is(err, apperr.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb:      cb,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State exposes the breaker state for health reporting.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

func (c *Client) Generate(ctx context.Context, req models.GenerationRequest) (*models.Itinerary, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}
	return c.execute(ctx, "generate", c.baseURL+"/generate", body)
}

func (c *Client) Optimize(ctx context.Context, itineraryID string) (*models.Itinerary, error) {
	return c.execute(ctx, "optimize", c.baseURL+"/optimize/"+url.PathEscape(itineraryID), nil)
}

func (c *Client) execute(ctx context.Context, op, endpoint string, body []byte) (*models.Itinerary, error) {
	start := time.Now()
	it, err := c.cb.Execute(func() (*models.Itinerary, error) {
		return c.post(ctx, op, endpoint, body)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordGeneratorCall(op, "open", time.Since(start))
		return nil, apperr.Unavailable(op, "itinerary generator is temporarily unavailable")
	case err != nil:
		metrics.RecordGeneratorCall(op, "error", time.Since(start))
		return nil, err
	}
	metrics.RecordGeneratorCall(op, "ok", time.Since(start))
	return it, nil
}

func (c *Client) post(ctx context.Context, op, endpoint string, body []byte) (*models.Itinerary, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Unavailable(op, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("Itinerary", strings.TrimPrefix(endpoint, c.baseURL+"/optimize/"))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, apperr.InvalidArgument("request", upstreamMessage(raw, resp.Status))
	case resp.StatusCode >= 500:
		return nil, apperr.Unavailable(op, upstreamMessage(raw, resp.Status))
	}

	var it models.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return &it, nil
}

// upstreamMessage pulls "message" or "error" out of an error body.
func upstreamMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "generator responded " + fallback
}

// Disabled stands in when no generator is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, models.GenerationRequest) (*models.Itinerary, error) {
	return nil, apperr.Unavailable("generate", "itinerary generation is not configured")
}

func (Disabled) Optimize(context.Context, string) (*models.Itinerary, error) {
	return nil, apperr.Unavailable("optimize", "itinerary optimization is not configured")
}
