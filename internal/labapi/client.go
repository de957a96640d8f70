package labapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/pkg/circuitbreaker"
	"github.com/sundiag/backoffice-api/pkg/errors"
)

// Client talks to the lab core API, the remote owner of all records. It
// fills the slot a database repository normally would.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	logger  zerolog.Logger
}

func NewClient(cfg config.LabAPIConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "lab-api",
			MaxFailures: cfg.MaxFailures,
			Timeout:     cfg.BreakerTimeout,
		}),
		logger: logger.With().Str("component", "labapi").Logger(),
	}
}

// Ping checks reachability for the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health/", nil, nil)
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.cb.State()
}

// doJSON runs one JSON request through the breaker. A nil out discards the
// body; a nil body sends no payload.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	return c.cb.Execute(func() error {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			return errors.NewUnavailable("lab API unreachable", err)
		}
		defer resp.Body.Close()

		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Msg("lab API call")

		if err := checkStatus(resp); err != nil {
			return err
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	msg := fmt.Sprintf("lab API returned %d", resp.StatusCode)
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var body struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Message != "" {
				msg = body.Message
			} else if body.Detail != "" {
				msg = body.Detail
			}
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.NewNotFound("record", fmt.Errorf("%s", msg))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.NewBadRequest(msg, nil)
	default:
		return errors.NewInternal(fmt.Errorf("%s", msg))
	}
}
