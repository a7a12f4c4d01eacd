// Package llm wraps provider clients with the retry, timeout and fallback
// policy the pipeline requires from an unreliable hosted model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

// RetryConfig controls the retry loop around provider calls
type RetryConfig struct {
	// MaxAttempts is the total number of tries against the primary,
	// including the first one
	MaxAttempts int
	// BaseDelay is the sleep before the first retry; it doubles each attempt
	BaseDelay time.Duration
	// MaxDelay caps the backoff sleep
	MaxDelay time.Duration
	// RequestTimeout bounds each individual provider call
	RequestTimeout time.Duration
}

// DefaultRetryConfig returns the retry defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		BaseDelay:      1 * time.Second,
		MaxDelay:       30 * time.Second,
		RequestTimeout: 2 * time.Minute,
	}
}

// ResilientClient wraps a provider client with bounded retries, exponential
// backoff and an optional fallback provider that gets one shot after the
// primary is exhausted. Content failures (empty model responses) pass
// through without retrying: the caller handles those differently from a
// transport outage.
type ResilientClient struct {
	primary  core.LLMClient
	fallback core.LLMClient
	logger   *zap.Logger
	cfg      RetryConfig
}

// NewResilientClient creates a new resilient client. fallback may be nil.
func NewResilientClient(primary, fallback core.LLMClient, logger *zap.Logger, cfg RetryConfig) *ResilientClient {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	return &ResilientClient{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		cfg:      cfg,
	}
}

// Complete sends the prompt through the primary provider, retrying transient
// failures, then through the fallback provider if one is configured. The
// final failure is reported as core.ErrProviderUnavailable.
func (c *ResilientClient) Complete(ctx context.Context, prompt string, opts core.GenerationOptions) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt - 1)
			c.logger.Warn("Retrying model call",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", core.ErrProviderUnavailable, ctx.Err())
			}
		}

		text, err := c.completeOnce(ctx, c.primary, prompt, opts)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, core.ErrEmptyModelResponse) {
			// The provider is reachable but returned nothing usable.
			// Retrying will not conjure content; let the caller degrade.
			return "", err
		}
		lastErr = err
	}

	if c.fallback != nil {
		c.logger.Warn("Primary provider exhausted, trying fallback", zap.Error(lastErr))
		text, err := c.completeOnce(ctx, c.fallback, prompt, opts)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, core.ErrEmptyModelResponse) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: %v", core.ErrProviderUnavailable, lastErr)
}

// Close releases any provider resources held by the wrapped clients
func (c *ResilientClient) Close() error {
	var firstErr error
	for _, client := range []core.LLMClient{c.primary, c.fallback} {
		if closer, ok := client.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// completeOnce runs a single bounded provider call
func (c *ResilientClient) completeOnce(ctx context.Context, client core.LLMClient, prompt string, opts core.GenerationOptions) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	return client.Complete(callCtx, prompt, opts)
}

// backoff computes the sleep for a retry: base * 2^attempt, capped
func (c *ResilientClient) backoff(attempt int) time.Duration {
	delay := c.cfg.BaseDelay << uint(attempt)
	if c.cfg.MaxDelay > 0 && delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}
	return delay
}
