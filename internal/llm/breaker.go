package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerClient stops calling a failing backend for a while so callers fall
// back immediately instead of waiting out a timeout on every request.
type breakerClient struct {
	next    LLMClient
	breaker *gobreaker.CircuitBreaker[*GenerateResponse]
}

// NewBreakerClient wraps next with a circuit breaker. A disabled breaker
// config returns next unchanged.
func NewBreakerClient(next LLMClient, cfg BreakerConfig, logger *slog.Logger) LLMClient {
	if !cfg.Enabled {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     time.Duration(cfg.OpenTimeoutMs) * time.Millisecond,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller that gives up says nothing about backend health. Deadline
		// expiry still counts: that is how a hung backend shows up.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &breakerClient{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[*GenerateResponse](settings),
	}
}

func (c *breakerClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	resp, err := c.breaker.Execute(func() (*GenerateResponse, error) {
		resp, err := c.next.Generate(ctx, req)
		if err != nil && errors.Is(ctx.Err(), context.Canceled) && !errors.Is(err, context.Canceled) {
			// The client maps ctx errors to ErrTimeout; keep that for callers
			// but let the breaker see the cancellation.
			err = fmt.Errorf("%w: %w", context.Canceled, err)
		}
		return resp, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return resp, err
}

// State reports the breaker state for diagnostics.
func (c *breakerClient) State() gobreaker.State {
	return c.breaker.State()
}
