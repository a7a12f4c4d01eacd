package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mailmind/mailmind/internal/core"
)

// flakyClient fails a fixed number of times before succeeding
type flakyClient struct {
	calls    int
	failures int
	err      error
	response string
}

func (c *flakyClient) Complete(ctx context.Context, prompt string, opts core.GenerationOptions) (string, error) {
	c.calls++
	if c.calls <= c.failures {
		return "", c.err
	}
	return c.response, nil
}

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		BaseDelay:      time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		RequestTimeout: time.Second,
	}
}

func TestCompleteFirstAttemptSucceeds(t *testing.T) {
	primary := &flakyClient{response: "ok"}
	c := NewResilientClient(primary, nil, zap.NewNop(), fastRetryConfig(3))

	text, err := c.Complete(context.Background(), "prompt", core.GenerationOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, primary.calls)
}

func TestCompleteRetriesTransientFailure(t *testing.T) {
	primary := &flakyClient{failures: 2, err: errors.New("timeout"), response: "ok"}
	c := NewResilientClient(primary, nil, zap.NewNop(), fastRetryConfig(3))

	text, err := c.Complete(context.Background(), "prompt", core.GenerationOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, primary.calls)
}

func TestCompleteBoundedAttempts(t *testing.T) {
	primary := &flakyClient{failures: 100, err: errors.New("down")}
	c := NewResilientClient(primary, nil, zap.NewNop(), fastRetryConfig(3))

	_, err := c.Complete(context.Background(), "prompt", core.GenerationOptions{})

	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.Equal(t, 3, primary.calls, "the primary gets exactly MaxAttempts tries")
}

func TestCompleteFallbackAfterPrimaryExhausted(t *testing.T) {
	primary := &flakyClient{failures: 100, err: errors.New("down")}
	fallback := &flakyClient{response: "do fallback"}
	c := NewResilientClient(primary, fallback, zap.NewNop(), fastRetryConfig(3))

	text, err := c.Complete(context.Background(), "prompt", core.GenerationOptions{})

	require.NoError(t, err)
	assert.Equal(t, "do fallback", text)
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 1, fallback.calls, "the fallback gets exactly one try")
}

func TestCompleteFallbackFailureReportsUnavailable(t *testing.T) {
	primary := &flakyClient{failures: 100, err: errors.New("primary down")}
	fallback := &flakyClient{failures: 100, err: errors.New("fallback down")}
	c := NewResilientClient(primary, fallback, zap.NewNop(), fastRetryConfig(2))

	_, err := c.Complete(context.Background(), "prompt", core.GenerationOptions{})

	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.Equal(t, 1, fallback.calls)
}

func TestCompleteEmptyResponseNotRetried(t *testing.T) {
	primary := &flakyClient{failures: 100, err: core.ErrEmptyModelResponse}
	fallback := &flakyClient{response: "nunca chamado"}
	c := NewResilientClient(primary, fallback, zap.NewNop(), fastRetryConfig(3))

	_, err := c.Complete(context.Background(), "prompt", core.GenerationOptions{})

	assert.ErrorIs(t, err, core.ErrEmptyModelResponse)
	assert.Equal(t, 1, primary.calls, "content failures are not transport failures")
	assert.Zero(t, fallback.calls)
}

func TestCompleteCancelledContextStopsRetrying(t *testing.T) {
	primary := &flakyClient{failures: 100, err: errors.New("down")}
	c := NewResilientClient(primary, nil, zap.NewNop(), RetryConfig{
		MaxAttempts:    5,
		BaseDelay:      time.Hour,
		MaxDelay:       time.Hour,
		RequestTimeout: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := c.Complete(ctx, "prompt", core.GenerationOptions{})

	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.Less(t, time.Since(start), time.Second, "a cancelled context must not wait out the backoff")
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	c := NewResilientClient(&flakyClient{}, nil, zap.NewNop(), RetryConfig{
		MaxAttempts:    5,
		BaseDelay:      time.Second,
		MaxDelay:       4 * time.Second,
		RequestTimeout: time.Second,
	})

	assert.Equal(t, time.Second, c.backoff(0))
	assert.Equal(t, 2*time.Second, c.backoff(1))
	assert.Equal(t, 4*time.Second, c.backoff(2))
	assert.Equal(t, 4*time.Second, c.backoff(3))
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.BaseDelay)
}
